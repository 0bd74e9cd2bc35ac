package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/GiacomoGuaresi/LiteERP/internal/dto"
	"github.com/GiacomoGuaresi/LiteERP/internal/model"
	"github.com/GiacomoGuaresi/LiteERP/internal/repository"
	"github.com/GiacomoGuaresi/LiteERP/internal/worker"
)

// InventoryService manages the inventory ledger: item CRUD plus the stock
// add/remove operations. AddStock runs the replenishment reconciler, which
// applies incoming stock against open orders and under-locked detail rows
// before crediting any leftover to on-hand.
type InventoryService interface {
	Create(ctx context.Context, req dto.CreateInventoryItemRequest) (*model.InventoryItem, error)
	Get(ctx context.Context, id uint) (*model.InventoryItem, error)
	// List returns item projections limited to the requested fields; an empty
	// fields slice returns full items. Unknown field names are rejected.
	List(ctx context.Context, fields []string) ([]map[string]any, error)
	Update(ctx context.Context, id uint, req dto.UpdateInventoryItemRequest) (*model.InventoryItem, error)
	Delete(ctx context.Context, id uint) error

	AddStock(ctx context.Context, itemID uint, amount int) (*model.InventoryItem, error)
	AddStockByCode(ctx context.Context, code string, amount int) (*model.InventoryItem, error)
	RemoveStock(ctx context.Context, itemID uint, amount int) (*model.InventoryItem, error)
}

type inventoryService struct {
	repo   repository.InventoryRepository
	orders repository.OrderRepository
	// cascade completes orders the reconciler fills, inside the same tx.
	cascade    OrderService
	dispatcher *worker.Dispatcher
}

func NewInventoryService(repo repository.InventoryRepository, orders repository.OrderRepository,
	cascade OrderService, dispatcher *worker.Dispatcher) InventoryService {
	return &inventoryService{repo: repo, orders: orders, cascade: cascade, dispatcher: dispatcher}
}

// ── CRUD ─────────────────────────────────────────────────────────────────────

func (s *inventoryService) Create(ctx context.Context, req dto.CreateInventoryItemRequest) (*model.InventoryItem, error) {
	if req.QuantityOnHand < 0 {
		return nil, fmt.Errorf("quantityOnHand must not be negative: %w", ErrInvalidArgument)
	}
	item := &model.InventoryItem{
		Code:           req.Code,
		QuantityOnHand: req.QuantityOnHand,
		Category:       req.Category,
		Image:          req.Image,
		Datas:          req.Datas,
	}
	if req.UnitCost != nil {
		item.UnitCost = *req.UnitCost
	} else {
		item.UnitCost = decimal.Zero
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *inventoryService) Get(ctx context.Context, id uint) (*model.InventoryItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "inventory item", id)
	}
	return item, nil
}

// itemFieldProjections maps the public field names of the listing endpoint to
// extractors, mirroring the fields= query parameter of the original API.
var itemFieldProjections = map[string]func(*model.InventoryItem) any{
	"id":             func(i *model.InventoryItem) any { return i.ID },
	"code":           func(i *model.InventoryItem) any { return i.Code },
	"quantityOnHand": func(i *model.InventoryItem) any { return i.QuantityOnHand },
	"quantityLocked": func(i *model.InventoryItem) any { return i.QuantityLocked },
	"category":       func(i *model.InventoryItem) any { return i.Category },
	"unitCost":       func(i *model.InventoryItem) any { return i.UnitCost },
	"image":          func(i *model.InventoryItem) any { return i.Image },
	"datas":          func(i *model.InventoryItem) any { return i.Datas },
}

var fullItemFields = []string{"id", "code", "quantityOnHand", "quantityLocked", "category", "unitCost", "image", "datas"}

func (s *inventoryService) List(ctx context.Context, fields []string) ([]map[string]any, error) {
	if len(fields) == 0 {
		fields = fullItemFields
	}
	for _, f := range fields {
		if _, ok := itemFieldProjections[f]; !ok {
			return nil, fmt.Errorf("invalid field %q: %w", f, ErrInvalidArgument)
		}
	}

	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]map[string]any, 0, len(items))
	for i := range items {
		row := make(map[string]any, len(fields))
		for _, f := range fields {
			row[f] = itemFieldProjections[f](&items[i])
		}
		result = append(result, row)
	}
	return result, nil
}

func (s *inventoryService) Update(ctx context.Context, id uint, req dto.UpdateInventoryItemRequest) (*model.InventoryItem, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "inventory item", id)
	}
	if req.Code != nil {
		item.Code = *req.Code
	}
	if req.Category != nil {
		item.Category = *req.Category
	}
	if req.UnitCost != nil {
		item.UnitCost = *req.UnitCost
	}
	if req.Image != nil {
		item.Image = req.Image
	}
	if req.Datas != nil {
		item.Datas = req.Datas
	}
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *inventoryService) Delete(ctx context.Context, id uint) error {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return notFound(err, "inventory item", id)
	}
	// Locked stock belongs to order detail rows; deleting the item would
	// strand those reservations.
	if item.QuantityLocked > 0 {
		return fmt.Errorf("item %d has %d units locked by open orders: %w", id, item.QuantityLocked, ErrInvalidArgument)
	}
	return s.repo.Delete(ctx, id)
}

// ── RemoveStock ──────────────────────────────────────────────────────────────

func (s *inventoryService) RemoveStock(ctx context.Context, itemID uint, amount int) (*model.InventoryItem, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("quantity must be positive: %w", ErrInvalidArgument)
	}

	var updated *model.InventoryItem
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		item, err := s.repo.FindByIDForUpdateTx(tx, itemID)
		if err != nil {
			return notFound(err, "inventory item", itemID)
		}
		if amount > item.QuantityOnHand {
			return fmt.Errorf("remove %d exceeds on-hand %d: %w", amount, item.QuantityOnHand, ErrInsufficientStock)
		}
		item.QuantityOnHand -= amount
		if err := s.repo.SaveTx(tx, item); err != nil {
			return err
		}
		updated = item
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return updated, nil
}

// ── AddStock (Replenishment Reconciler) ──────────────────────────────────────
// Two phases share ONE remaining-amount counter:
//
//	Phase A — advance quantityProduced of open orders for this product,
//	          newest order first; an order that reaches its requested
//	          quantity is cascade-completed in the same transaction.
//	Phase B — lock more stock onto under-locked detail rows that consume
//	          this product, newest order first.
//
// Whatever survives both phases lands on quantityOnHand. The counter is
// shared deliberately: applying the full amount to both phases independently
// would reserve or produce more than was physically added.

func (s *inventoryService) AddStock(ctx context.Context, itemID uint, amount int) (*model.InventoryItem, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("quantity must be positive: %w", ErrInvalidArgument)
	}

	var updated *model.InventoryItem
	completed := make([]*model.ProductionOrder, 0)
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		item, err := s.repo.FindByIDForUpdateTx(tx, itemID)
		if err != nil {
			return notFound(err, "inventory item", itemID)
		}

		remaining := amount

		// Phase A: advance production on open orders for this product.
		if remaining > 0 {
			orders, err := s.orders.FindOpenByProductTx(tx, itemID)
			if err != nil {
				return err
			}
			for i := range orders {
				if remaining == 0 {
					break
				}
				order := &orders[i]
				shortfall := order.QuantityRequested - order.QuantityProduced
				if shortfall <= 0 {
					continue
				}
				applied := min(shortfall, remaining)
				order.QuantityProduced += applied
				remaining -= applied

				if order.QuantityProduced == order.QuantityRequested {
					if err := s.cascade.CascadeStatusTx(tx, order, model.StatusCompleted); err != nil {
						return err
					}
					completed = append(completed, order)
				} else if err := s.orders.SaveTx(tx, order); err != nil {
					return err
				}
			}
		}

		// Phase B: lock more stock onto outstanding detail requirements.
		if remaining > 0 {
			details, err := s.orders.FindOpenDetailsByProductTx(tx, itemID)
			if err != nil {
				return err
			}
			for i := range details {
				if remaining == 0 {
					break
				}
				detail := &details[i]
				applied := min(detail.QuantityRequired-detail.QuantityLocked, remaining)
				if applied <= 0 {
					continue
				}
				detail.QuantityLocked += applied
				item.QuantityLocked += applied
				remaining -= applied
				if err := s.orders.SaveDetailTx(tx, detail); err != nil {
					return err
				}
			}
		}

		item.QuantityOnHand += remaining
		if err := s.repo.SaveTx(tx, item); err != nil {
			return err
		}
		updated = item
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	for _, order := range completed {
		log.Info().Uint("order_id", order.ID).Msg("order completed by replenishment")
		if s.dispatcher != nil && order.ParentDetailID == nil {
			if err := s.dispatcher.EnqueueEmail(ctx, worker.EmailPayload{
				OrderID: order.ID,
				Subject: fmt.Sprintf("Production order #%d completed", order.ID),
				Body:    fmt.Sprintf("Order #%d was completed by a stock replenishment of item %d.", order.ID, itemID),
			}); err != nil {
				log.Warn().Err(err).Uint("order_id", order.ID).Msg("failed to enqueue completion email")
			}
		}
	}
	return updated, nil
}

func (s *inventoryService) AddStockByCode(ctx context.Context, code string, amount int) (*model.InventoryItem, error) {
	item, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("inventory item %q: %w", code, ErrNotFound)
		}
		return nil, err
	}
	return s.AddStock(ctx, item.ID, amount)
}
