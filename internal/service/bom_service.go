package service

import (
	"context"
	"fmt"

	"github.com/GiacomoGuaresi/LiteERP/internal/dto"
	"github.com/GiacomoGuaresi/LiteERP/internal/model"
	"github.com/GiacomoGuaresi/LiteERP/internal/repository"
)

// BOMService manages bill-of-materials edges. The graph is read-only to the
// orchestration core; the only non-trivial rule here is keeping it acyclic,
// since a cycle would make the explosion recursion unbounded.
type BOMService interface {
	Create(ctx context.Context, req dto.CreateBOMEdgeRequest) (*model.BOMEdge, error)
	Get(ctx context.Context, id uint) (*model.BOMEdge, error)
	List(ctx context.Context) ([]model.BOMEdge, error)
	Children(ctx context.Context, parentProductID uint) ([]model.BOMEdge, error)
	Update(ctx context.Context, id uint, req dto.UpdateBOMEdgeRequest) (*model.BOMEdge, error)
	Delete(ctx context.Context, id uint) error
}

type bomService struct {
	repo      repository.BOMRepository
	inventory repository.InventoryRepository
}

func NewBOMService(repo repository.BOMRepository, inventory repository.InventoryRepository) BOMService {
	return &bomService{repo: repo, inventory: inventory}
}

func (s *bomService) Create(ctx context.Context, req dto.CreateBOMEdgeRequest) (*model.BOMEdge, error) {
	if req.QuantityPerUnit <= 0 {
		return nil, fmt.Errorf("quantityPerUnit must be positive: %w", ErrInvalidArgument)
	}
	if req.ParentProductID == req.ChildProductID {
		return nil, fmt.Errorf("product %d cannot be its own component: %w", req.ParentProductID, ErrInvalidArgument)
	}
	if _, err := s.inventory.FindByID(ctx, req.ParentProductID); err != nil {
		return nil, notFound(err, "inventory item", req.ParentProductID)
	}
	if _, err := s.inventory.FindByID(ctx, req.ChildProductID); err != nil {
		return nil, notFound(err, "inventory item", req.ChildProductID)
	}

	reachable, err := s.reachable(ctx, req.ChildProductID, req.ParentProductID)
	if err != nil {
		return nil, err
	}
	if reachable {
		return nil, fmt.Errorf("edge %d->%d would close a cycle: %w", req.ParentProductID, req.ChildProductID, ErrBOMCycle)
	}

	edge := &model.BOMEdge{
		ParentProductID: req.ParentProductID,
		ChildProductID:  req.ChildProductID,
		QuantityPerUnit: req.QuantityPerUnit,
	}
	if err := s.repo.Create(ctx, edge); err != nil {
		return nil, err
	}
	return edge, nil
}

// reachable walks the BOM downward from `from` and reports whether `target`
// appears among its descendants. Iterative BFS with a visited set — robust
// even against a graph that already contains a cycle.
func (s *bomService) reachable(ctx context.Context, from, target uint) (bool, error) {
	visited := map[uint]bool{}
	queue := []uint{from}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current == target {
			return true, nil
		}
		if visited[current] {
			continue
		}
		visited[current] = true

		edges, err := s.repo.FindByParent(ctx, current)
		if err != nil {
			return false, err
		}
		for _, edge := range edges {
			queue = append(queue, edge.ChildProductID)
		}
	}
	return false, nil
}

func (s *bomService) Get(ctx context.Context, id uint) (*model.BOMEdge, error) {
	edge, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "bom edge", id)
	}
	return edge, nil
}

func (s *bomService) List(ctx context.Context) ([]model.BOMEdge, error) {
	return s.repo.List(ctx)
}

func (s *bomService) Children(ctx context.Context, parentProductID uint) ([]model.BOMEdge, error) {
	return s.repo.FindByParent(ctx, parentProductID)
}

func (s *bomService) Update(ctx context.Context, id uint, req dto.UpdateBOMEdgeRequest) (*model.BOMEdge, error) {
	if req.QuantityPerUnit <= 0 {
		return nil, fmt.Errorf("quantityPerUnit must be positive: %w", ErrInvalidArgument)
	}
	edge, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "bom edge", id)
	}
	edge.QuantityPerUnit = req.QuantityPerUnit
	if err := s.repo.Update(ctx, edge); err != nil {
		return nil, err
	}
	return edge, nil
}

func (s *bomService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return notFound(err, "bom edge", id)
	}
	return s.repo.Delete(ctx, id)
}
