package service

import (
	"context"
	"sort"

	"gorm.io/gorm"

	"github.com/GiacomoGuaresi/LiteERP/internal/model"
	"github.com/GiacomoGuaresi/LiteERP/internal/repository"
)

// In-memory repository stubs. DB() returns nil, which makes runTx call the
// body directly — the service logic runs exactly as in production, minus the
// row locks and rollback.

var (
	_ repository.InventoryRepository = (*stubInventoryRepo)(nil)
	_ repository.OrderRepository     = (*stubOrderRepo)(nil)
	_ repository.BOMRepository       = (*stubBOMRepo)(nil)
	_ repository.UserRepository      = (*stubUserRepo)(nil)
)

// ── In-memory InventoryRepository stub ───────────────────────────────────────

type stubInventoryRepo struct {
	items  map[uint]*model.InventoryItem
	nextID uint
}

func newStubInventoryRepo() *stubInventoryRepo {
	return &stubInventoryRepo{items: make(map[uint]*model.InventoryItem)}
}

func (r *stubInventoryRepo) seed(item model.InventoryItem) *model.InventoryItem {
	if item.ID == 0 {
		r.nextID++
		item.ID = r.nextID
	} else if item.ID > r.nextID {
		r.nextID = item.ID
	}
	r.items[item.ID] = &item
	return &item
}

func (r *stubInventoryRepo) Create(_ context.Context, item *model.InventoryItem) error {
	r.nextID++
	item.ID = r.nextID
	clone := *item
	r.items[item.ID] = &clone
	return nil
}

func (r *stubInventoryRepo) FindByID(_ context.Context, id uint) (*model.InventoryItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *item
	return &clone, nil
}

func (r *stubInventoryRepo) FindByCode(_ context.Context, code string) (*model.InventoryItem, error) {
	for _, item := range r.items {
		if item.Code == code {
			clone := *item
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubInventoryRepo) List(_ context.Context) ([]model.InventoryItem, error) {
	result := make([]model.InventoryItem, 0, len(r.items))
	for _, item := range r.items {
		result = append(result, *item)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Code < result[j].Code })
	return result, nil
}

func (r *stubInventoryRepo) Update(_ context.Context, item *model.InventoryItem) error {
	clone := *item
	r.items[item.ID] = &clone
	return nil
}

func (r *stubInventoryRepo) Delete(_ context.Context, id uint) error {
	delete(r.items, id)
	return nil
}

func (r *stubInventoryRepo) FindByIDForUpdateTx(_ *gorm.DB, id uint) (*model.InventoryItem, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubInventoryRepo) SaveTx(_ *gorm.DB, item *model.InventoryItem) error {
	return r.Update(context.Background(), item)
}

func (r *stubInventoryRepo) DB() *gorm.DB { return nil }

// ── In-memory OrderRepository stub ───────────────────────────────────────────

type stubOrderRepo struct {
	orders       map[uint]*model.ProductionOrder
	details      map[uint]*model.ProductionOrderDetail
	nextOrderID  uint
	nextDetailID uint
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{
		orders:  make(map[uint]*model.ProductionOrder),
		details: make(map[uint]*model.ProductionOrderDetail),
	}
}

func (r *stubOrderRepo) seedOrder(order model.ProductionOrder) *model.ProductionOrder {
	if order.ID == 0 {
		r.nextOrderID++
		order.ID = r.nextOrderID
	} else if order.ID > r.nextOrderID {
		r.nextOrderID = order.ID
	}
	order.Details = nil
	r.orders[order.ID] = &order
	return &order
}

func (r *stubOrderRepo) orderedDetails(orderID uint) []model.ProductionOrderDetail {
	var result []model.ProductionOrderDetail
	for _, d := range r.details {
		if d.ProductionOrderID == orderID {
			result = append(result, *d)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (r *stubOrderRepo) FindByID(_ context.Context, id uint) (*model.ProductionOrder, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *order
	clone.Details = r.orderedDetails(id)
	return &clone, nil
}

func (r *stubOrderRepo) List(_ context.Context) ([]model.ProductionOrder, int64, error) {
	result := make([]model.ProductionOrder, 0, len(r.orders))
	for _, o := range r.orders {
		result = append(result, *o)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.After(result[j].Date)
		}
		return result[i].ID > result[j].ID
	})
	return result, int64(len(result)), nil
}

func (r *stubOrderRepo) FindDetails(_ context.Context, orderID uint) ([]model.ProductionOrderDetail, error) {
	return r.orderedDetails(orderID), nil
}

func (r *stubOrderRepo) CreateTx(_ *gorm.DB, order *model.ProductionOrder) error {
	r.nextOrderID++
	order.ID = r.nextOrderID
	clone := *order
	clone.Details = nil
	r.orders[order.ID] = &clone
	return nil
}

func (r *stubOrderRepo) FindByIDForUpdateTx(_ *gorm.DB, id uint) (*model.ProductionOrder, error) {
	order, ok := r.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *order
	return &clone, nil
}

func (r *stubOrderRepo) SaveTx(_ *gorm.DB, order *model.ProductionOrder) error {
	clone := *order
	clone.Details = nil
	r.orders[order.ID] = &clone
	return nil
}

func (r *stubOrderRepo) DeleteTx(_ *gorm.DB, id uint) error {
	delete(r.orders, id)
	return nil
}

func (r *stubOrderRepo) CreateDetailTx(_ *gorm.DB, detail *model.ProductionOrderDetail) error {
	r.nextDetailID++
	detail.ID = r.nextDetailID
	clone := *detail
	r.details[detail.ID] = &clone
	return nil
}

func (r *stubOrderRepo) FindDetailsTx(_ *gorm.DB, orderID uint) ([]model.ProductionOrderDetail, error) {
	return r.orderedDetails(orderID), nil
}

func (r *stubOrderRepo) SaveDetailTx(_ *gorm.DB, detail *model.ProductionOrderDetail) error {
	clone := *detail
	r.details[detail.ID] = &clone
	return nil
}

func (r *stubOrderRepo) DeleteDetailTx(_ *gorm.DB, id uint) error {
	delete(r.details, id)
	return nil
}

func (r *stubOrderRepo) FindChildByDetailTx(_ *gorm.DB, detailID uint) (*model.ProductionOrder, error) {
	for _, o := range r.orders {
		if o.ParentDetailID != nil && *o.ParentDetailID == detailID {
			clone := *o
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubOrderRepo) FindOpenByProductTx(_ *gorm.DB, productID uint) ([]model.ProductionOrder, error) {
	var result []model.ProductionOrder
	for _, o := range r.orders {
		if o.ProductID == productID && o.Status != model.StatusCompleted {
			result = append(result, *o)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.After(result[j].Date)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

func (r *stubOrderRepo) FindOpenDetailsByProductTx(_ *gorm.DB, productID uint) ([]model.ProductionOrderDetail, error) {
	var result []model.ProductionOrderDetail
	for _, d := range r.details {
		if d.ProductID != productID || d.QuantityLocked >= d.QuantityRequired {
			continue
		}
		parent, ok := r.orders[d.ProductionOrderID]
		if !ok || parent.Status == model.StatusCompleted {
			continue
		}
		result = append(result, *d)
	}
	sort.Slice(result, func(i, j int) bool {
		oi, oj := r.orders[result[i].ProductionOrderID], r.orders[result[j].ProductionOrderID]
		if !oi.Date.Equal(oj.Date) {
			return oi.Date.After(oj.Date)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

func (r *stubOrderRepo) DB() *gorm.DB { return nil }

// ── In-memory BOMRepository stub ─────────────────────────────────────────────

type stubBOMRepo struct {
	edges  map[uint]*model.BOMEdge
	nextID uint
}

func newStubBOMRepo() *stubBOMRepo {
	return &stubBOMRepo{edges: make(map[uint]*model.BOMEdge)}
}

func (r *stubBOMRepo) seed(edge model.BOMEdge) *model.BOMEdge {
	if edge.ID == 0 {
		r.nextID++
		edge.ID = r.nextID
	}
	r.edges[edge.ID] = &edge
	return &edge
}

func (r *stubBOMRepo) Create(_ context.Context, edge *model.BOMEdge) error {
	r.nextID++
	edge.ID = r.nextID
	clone := *edge
	r.edges[edge.ID] = &clone
	return nil
}

func (r *stubBOMRepo) FindByID(_ context.Context, id uint) (*model.BOMEdge, error) {
	edge, ok := r.edges[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *edge
	return &clone, nil
}

func (r *stubBOMRepo) List(_ context.Context) ([]model.BOMEdge, error) {
	result := make([]model.BOMEdge, 0, len(r.edges))
	for _, e := range r.edges {
		result = append(result, *e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *stubBOMRepo) FindByParent(_ context.Context, parentProductID uint) ([]model.BOMEdge, error) {
	return r.FindByParentTx(nil, parentProductID)
}

func (r *stubBOMRepo) Update(_ context.Context, edge *model.BOMEdge) error {
	clone := *edge
	r.edges[edge.ID] = &clone
	return nil
}

func (r *stubBOMRepo) Delete(_ context.Context, id uint) error {
	delete(r.edges, id)
	return nil
}

func (r *stubBOMRepo) FindByParentTx(_ *gorm.DB, parentProductID uint) ([]model.BOMEdge, error) {
	var result []model.BOMEdge
	for _, e := range r.edges {
		if e.ParentProductID == parentProductID {
			result = append(result, *e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// ── In-memory UserRepository stub ────────────────────────────────────────────

type stubUserRepo struct {
	users  map[uint]*model.User
	nextID uint
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uint]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	r.nextID++
	u.ID = r.nextID
	clone := *u
	r.users[u.ID] = &clone
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uint) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) List(_ context.Context) ([]model.User, error) {
	result := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		result = append(result, *u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Email < result[j].Email })
	return result, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	clone := *u
	r.users[u.ID] = &clone
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id uint) error {
	delete(r.users, id)
	return nil
}
