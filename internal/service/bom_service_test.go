package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GiacomoGuaresi/LiteERP/internal/dto"
	"github.com/GiacomoGuaresi/LiteERP/internal/model"
)

func newBOMFixture(t *testing.T) (*stubInventoryRepo, *stubBOMRepo, BOMService) {
	t.Helper()
	inv := newStubInventoryRepo()
	bom := newStubBOMRepo()
	inv.seed(model.InventoryItem{Code: "A", Category: model.CategoryFinished})
	inv.seed(model.InventoryItem{Code: "B", Category: model.CategorySubassembly})
	inv.seed(model.InventoryItem{Code: "C", Category: model.CategoryRaw})
	return inv, bom, NewBOMService(bom, inv)
}

func TestCreateEdge(t *testing.T) {
	_, _, svc := newBOMFixture(t)
	ctx := context.Background()

	edge, err := svc.Create(ctx, dto.CreateBOMEdgeRequest{ParentProductID: 1, ChildProductID: 2, QuantityPerUnit: 2})
	require.NoError(t, err)
	assert.NotZero(t, edge.ID)

	children, err := svc.Children(ctx, 1)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, uint(2), children[0].ChildProductID)
}

func TestCreateEdgeValidation(t *testing.T) {
	_, _, svc := newBOMFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, dto.CreateBOMEdgeRequest{ParentProductID: 1, ChildProductID: 2, QuantityPerUnit: 0})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.Create(ctx, dto.CreateBOMEdgeRequest{ParentProductID: 1, ChildProductID: 1, QuantityPerUnit: 1})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = svc.Create(ctx, dto.CreateBOMEdgeRequest{ParentProductID: 1, ChildProductID: 99, QuantityPerUnit: 1})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateEdgeRejectsCycles(t *testing.T) {
	_, _, svc := newBOMFixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, dto.CreateBOMEdgeRequest{ParentProductID: 1, ChildProductID: 2, QuantityPerUnit: 1})
	require.NoError(t, err)
	_, err = svc.Create(ctx, dto.CreateBOMEdgeRequest{ParentProductID: 2, ChildProductID: 3, QuantityPerUnit: 1})
	require.NoError(t, err)

	// Direct back-edge.
	_, err = svc.Create(ctx, dto.CreateBOMEdgeRequest{ParentProductID: 2, ChildProductID: 1, QuantityPerUnit: 1})
	assert.ErrorIs(t, err, ErrBOMCycle)

	// Transitive: 1 → 2 → 3, so 3 → 1 closes a loop.
	_, err = svc.Create(ctx, dto.CreateBOMEdgeRequest{ParentProductID: 3, ChildProductID: 1, QuantityPerUnit: 1})
	assert.ErrorIs(t, err, ErrBOMCycle)
}

func TestUpdateAndDeleteEdge(t *testing.T) {
	_, _, svc := newBOMFixture(t)
	ctx := context.Background()

	edge, err := svc.Create(ctx, dto.CreateBOMEdgeRequest{ParentProductID: 1, ChildProductID: 2, QuantityPerUnit: 2})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, edge.ID, dto.UpdateBOMEdgeRequest{QuantityPerUnit: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.QuantityPerUnit)

	_, err = svc.Update(ctx, edge.ID, dto.UpdateBOMEdgeRequest{QuantityPerUnit: 0})
	assert.ErrorIs(t, err, ErrInvalidArgument)

	require.NoError(t, svc.Delete(ctx, edge.ID))
	_, err = svc.Get(ctx, edge.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
