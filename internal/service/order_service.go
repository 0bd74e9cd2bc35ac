package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/GiacomoGuaresi/LiteERP/internal/dto"
	"github.com/GiacomoGuaresi/LiteERP/internal/infra"
	"github.com/GiacomoGuaresi/LiteERP/internal/model"
	"github.com/GiacomoGuaresi/LiteERP/internal/repository"
	"github.com/GiacomoGuaresi/LiteERP/internal/worker"
)

// maxBOMDepth bounds the explosion and cascade recursions. A legitimate BOM
// never approaches this; hitting it means the graph has a cycle that slipped
// past edge validation, and the whole transaction is rolled back.
const maxBOMDepth = 32

// OrderService is the production-order orchestration engine: BOM explosion
// into sub-orders with inventory locking, the status cascade state machine,
// and the deletion cascade that returns locked stock to on-hand.
type OrderService interface {
	Create(ctx context.Context, req dto.CreateOrderRequest) (*model.ProductionOrder, error)
	Get(ctx context.Context, id uint) (*model.ProductionOrder, error)
	List(ctx context.Context) (*dto.OrderListResponse, error)
	ListDetails(ctx context.Context, orderID uint) ([]model.ProductionOrderDetail, error)
	SetStatus(ctx context.Context, orderID uint, newStatus string) (*model.ProductionOrder, error)
	Delete(ctx context.Context, orderID uint) error
	Cost(ctx context.Context, orderID uint) (*dto.OrderCostResponse, error)
	PickListPDF(ctx context.Context, orderID uint) ([]byte, error)

	// CascadeStatusTx applies a status forward to an order and all its
	// descendants inside an existing transaction. Exposed so the
	// replenishment reconciler can cascade-complete orders it fills.
	CascadeStatusTx(tx *gorm.DB, order *model.ProductionOrder, target string) error
}

type orderService struct {
	repo       repository.OrderRepository
	bom        repository.BOMRepository
	inventory  repository.InventoryRepository
	dispatcher *worker.Dispatcher
}

func NewOrderService(
	repo repository.OrderRepository,
	bom repository.BOMRepository,
	inventory repository.InventoryRepository,
	dispatcher *worker.Dispatcher,
) OrderService {
	return &orderService{repo: repo, bom: bom, inventory: inventory, dispatcher: dispatcher}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// notFound converts gorm's record-not-found into the domain sentinel,
// keeping other storage errors untouched.
func notFound(err error, what string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %d: %w", what, id, ErrNotFound)
	}
	return err
}

// ── Create (Order Tree Builder) ──────────────────────────────────────────────
// Explodes the BOM recursively: one order row, one detail row per direct BOM
// child, available stock locked immediately, and a sub-order spawned for any
// subassembly shortfall. The entire tree commits as a single unit — a missing
// component item anywhere in the recursion rolls back everything.

func (s *orderService) Create(ctx context.Context, req dto.CreateOrderRequest) (*model.ProductionOrder, error) {
	if req.QuantityRequested <= 0 {
		return nil, fmt.Errorf("quantityRequested must be positive: %w", ErrInvalidArgument)
	}
	status := req.Status
	if status == "" {
		status = model.StatusPlanned
	}
	if !model.ValidStatus(status) {
		return nil, fmt.Errorf("unknown status %q: %w", status, ErrInvalidArgument)
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, fmt.Errorf("date must be YYYY-MM-DD: %w", ErrInvalidArgument)
	}

	var created *model.ProductionOrder
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// The root product must exist as an inventory row too — inventory
		// doubles as the product master.
		if _, err := s.inventory.FindByIDForUpdateTx(tx, req.ProductID); err != nil {
			return notFound(err, "inventory item", req.ProductID)
		}
		order, err := s.createTreeTx(tx, req.ProductID, req.QuantityRequested, date, status, req.Notes, nil, 0)
		if err != nil {
			return err
		}
		created = order
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	log.Info().Uint("order_id", created.ID).Uint("product_id", created.ProductID).
		Int("quantity", created.QuantityRequested).Msg("production order tree created")
	return s.Get(ctx, created.ID)
}

func (s *orderService) createTreeTx(tx *gorm.DB, productID uint, qty int, date time.Time,
	status string, notes *string, parentDetailID *uint, depth int) (*model.ProductionOrder, error) {

	if depth > maxBOMDepth {
		return nil, fmt.Errorf("explosion exceeded depth %d at product %d: %w", maxBOMDepth, productID, ErrBOMCycle)
	}

	order := &model.ProductionOrder{
		Date:              date,
		ProductID:         productID,
		QuantityRequested: qty,
		Status:            status,
		ParentDetailID:    parentDetailID,
		Notes:             notes,
	}
	if err := s.repo.CreateTx(tx, order); err != nil {
		return nil, err
	}

	edges, err := s.bom.FindByParentTx(tx, productID)
	if err != nil {
		return nil, err
	}

	for _, edge := range edges {
		required := edge.QuantityPerUnit * qty

		item, err := s.inventory.FindByIDForUpdateTx(tx, edge.ChildProductID)
		if err != nil {
			return nil, notFound(err, "inventory item", edge.ChildProductID)
		}

		locked := min(item.QuantityOnHand, required)
		detail := &model.ProductionOrderDetail{
			ProductionOrderID: order.ID,
			ProductID:         edge.ChildProductID,
			QuantityRequired:  required,
			QuantityLocked:    locked,
		}
		if err := s.repo.CreateDetailTx(tx, detail); err != nil {
			return nil, err
		}

		if locked > 0 {
			item.QuantityOnHand -= locked
			item.QuantityLocked += locked
			if err := s.inventory.SaveTx(tx, item); err != nil {
				return nil, err
			}
		}

		// Shortfall on a subassembly spawns a sub-order; a raw-item shortfall
		// stays open on the detail until replenishment locks more stock.
		if item.IsSubassembly() && locked < required {
			if _, err := s.createTreeTx(tx, edge.ChildProductID, required-locked, date, status, notes, &detail.ID, depth+1); err != nil {
				return nil, err
			}
		}
	}

	return order, nil
}

// ── Reads ────────────────────────────────────────────────────────────────────

func (s *orderService) Get(ctx context.Context, id uint) (*model.ProductionOrder, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "production order", id)
	}
	return order, nil
}

func (s *orderService) List(ctx context.Context) (*dto.OrderListResponse, error) {
	orders, total, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.OrderListResponse{Data: orders, Total: total}, nil
}

func (s *orderService) ListDetails(ctx context.Context, orderID uint) ([]model.ProductionOrderDetail, error) {
	if _, err := s.repo.FindByID(ctx, orderID); err != nil {
		return nil, notFound(err, "production order", orderID)
	}
	return s.repo.FindDetails(ctx, orderID)
}

// ── SetStatus (Status Cascade Manager) ───────────────────────────────────────

// validateTransition enforces the single-step lifecycle table on the order
// the caller targeted. Descendants are handled more leniently by the cascade.
func validateTransition(from, to string) error {
	switch {
	case from == to:
		return fmt.Errorf("order already in status %s: %w", from, ErrInvalidTransition)
	case from == model.StatusPlanned && to == model.StatusInProgress:
		return nil
	case from == model.StatusInProgress && to == model.StatusCompleted:
		return nil
	case from == model.StatusPlanned && to == model.StatusCompleted:
		return fmt.Errorf("order must pass through %s before completion: %w", model.StatusInProgress, ErrInvalidTransition)
	case from == model.StatusCompleted:
		return fmt.Errorf("order is completed and cannot change status: %w", ErrInvalidTransition)
	default:
		return fmt.Errorf("cannot move from %s to %s: %w", from, to, ErrInvalidTransition)
	}
}

func (s *orderService) SetStatus(ctx context.Context, orderID uint, newStatus string) (*model.ProductionOrder, error) {
	if !model.ValidStatus(newStatus) {
		return nil, fmt.Errorf("unknown status %q: %w", newStatus, ErrInvalidArgument)
	}

	var updated *model.ProductionOrder
	notify := false
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		order, err := s.repo.FindByIDForUpdateTx(tx, orderID)
		if err != nil {
			return notFound(err, "production order", orderID)
		}
		if err := validateTransition(order.Status, newStatus); err != nil {
			return err
		}
		if err := s.CascadeStatusTx(tx, order, newStatus); err != nil {
			return err
		}
		updated = order
		notify = newStatus == model.StatusCompleted && order.ParentDetailID == nil
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}

	if notify {
		s.notifyCompleted(ctx, updated)
	}
	return updated, nil
}

// CascadeStatusTx advances order and every descendant to target, children
// before parent so a sub-order's status is never behind its parent's.
// Descendants already at or past the target are left alone; a Planned
// descendant being completed passes through InProgress implicitly, since the
// single-step table only binds the order the request named.
func (s *orderService) CascadeStatusTx(tx *gorm.DB, order *model.ProductionOrder, target string) error {
	return s.cascadeStatusTx(tx, order, target, 0)
}

func (s *orderService) cascadeStatusTx(tx *gorm.DB, order *model.ProductionOrder, target string, depth int) error {
	if depth > maxBOMDepth {
		return fmt.Errorf("status cascade exceeded depth %d at order %d: %w", maxBOMDepth, order.ID, ErrBOMCycle)
	}

	details, err := s.repo.FindDetailsTx(tx, order.ID)
	if err != nil {
		return err
	}
	for _, detail := range details {
		child, err := s.repo.FindChildByDetailTx(tx, detail.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue // detail fully covered by stock, no sub-order
		}
		if err != nil {
			return err
		}
		if model.StatusAtOrPast(child.Status, target) {
			continue
		}
		if err := s.cascadeStatusTx(tx, child, target, depth+1); err != nil {
			return err
		}
	}

	order.Status = target
	return s.repo.SaveTx(tx, order)
}

// notifyCompleted enqueues a best-effort completion email. Failures only log.
func (s *orderService) notifyCompleted(ctx context.Context, order *model.ProductionOrder) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.EnqueueEmail(ctx, worker.EmailPayload{
		OrderID: order.ID,
		Subject: fmt.Sprintf("Production order #%d completed", order.ID),
		Body:    fmt.Sprintf("Order #%d (product %d, quantity %d) reached Completed.", order.ID, order.ProductID, order.QuantityRequested),
	}); err != nil {
		log.Warn().Err(err).Uint("order_id", order.ID).Msg("failed to enqueue completion email")
	}
}

// ── Delete (Deletion Cascade Manager) ────────────────────────────────────────
// Depth-first: sub-orders first, then the locked quantity of each detail is
// returned to the item's on-hand, then the detail and order rows go away.
// Total owned stock of every touched item is unchanged by construction.

func (s *orderService) Delete(ctx context.Context, orderID uint) error {
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		order, err := s.repo.FindByIDForUpdateTx(tx, orderID)
		if err != nil {
			return notFound(err, "production order", orderID)
		}
		return s.deleteTreeTx(tx, order, 0)
	})
}

func (s *orderService) deleteTreeTx(tx *gorm.DB, order *model.ProductionOrder, depth int) error {
	if depth > maxBOMDepth {
		return fmt.Errorf("delete cascade exceeded depth %d at order %d: %w", maxBOMDepth, order.ID, ErrBOMCycle)
	}

	details, err := s.repo.FindDetailsTx(tx, order.ID)
	if err != nil {
		return err
	}
	for _, detail := range details {
		child, err := s.repo.FindChildByDetailTx(tx, detail.ID)
		if err == nil {
			if err := s.deleteTreeTx(tx, child, depth+1); err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if detail.QuantityLocked > 0 {
			item, err := s.inventory.FindByIDForUpdateTx(tx, detail.ProductID)
			if err != nil {
				return notFound(err, "inventory item", detail.ProductID)
			}
			item.QuantityLocked -= detail.QuantityLocked
			item.QuantityOnHand += detail.QuantityLocked
			if err := s.inventory.SaveTx(tx, item); err != nil {
				return err
			}
		}
		if err := s.repo.DeleteDetailTx(tx, detail.ID); err != nil {
			return err
		}
	}

	return s.repo.DeleteTx(tx, order.ID)
}

// ── Cost roll-up ─────────────────────────────────────────────────────────────
// Component cost counts stock actually drawn (locked quantities); the cost of
// producing a shortfall shows up in the sub-order's own roll-up, so nothing is
// counted twice.

func (s *orderService) Cost(ctx context.Context, orderID uint) (*dto.OrderCostResponse, error) {
	var resp *dto.OrderCostResponse
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		order, err := s.repo.FindByIDForUpdateTx(tx, orderID)
		if err != nil {
			return notFound(err, "production order", orderID)
		}
		component, sub, err := s.costTreeTx(tx, order, 0)
		if err != nil {
			return err
		}
		resp = &dto.OrderCostResponse{
			OrderID:       order.ID,
			ComponentCost: component,
			SubOrderCost:  sub,
			TotalCost:     component.Add(sub),
		}
		return nil
	})
	if txErr != nil {
		return nil, txErr
	}
	return resp, nil
}

func (s *orderService) costTreeTx(tx *gorm.DB, order *model.ProductionOrder, depth int) (component, sub decimal.Decimal, err error) {
	component, sub = decimal.Zero, decimal.Zero
	if depth > maxBOMDepth {
		return component, sub, fmt.Errorf("cost roll-up exceeded depth %d at order %d: %w", maxBOMDepth, order.ID, ErrBOMCycle)
	}

	details, err := s.repo.FindDetailsTx(tx, order.ID)
	if err != nil {
		return component, sub, err
	}
	for _, detail := range details {
		item, err := s.inventory.FindByIDForUpdateTx(tx, detail.ProductID)
		if err != nil {
			return component, sub, notFound(err, "inventory item", detail.ProductID)
		}
		component = component.Add(item.UnitCost.Mul(decimal.NewFromInt(int64(detail.QuantityLocked))))

		child, err := s.repo.FindChildByDetailTx(tx, detail.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return component, sub, err
		}
		childComponent, childSub, err := s.costTreeTx(tx, child, depth+1)
		if err != nil {
			return component, sub, err
		}
		sub = sub.Add(childComponent).Add(childSub)
	}
	return component, sub, nil
}

// ── Pick list PDF ────────────────────────────────────────────────────────────

func (s *orderService) PickListPDF(ctx context.Context, orderID uint) ([]byte, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, notFound(err, "production order", orderID)
	}
	product, err := s.inventory.FindByID(ctx, order.ProductID)
	if err != nil {
		return nil, notFound(err, "inventory item", order.ProductID)
	}

	details, err := s.repo.FindDetails(ctx, orderID)
	if err != nil {
		return nil, err
	}
	lines := make([]infra.PickListLine, 0, len(details))
	for _, detail := range details {
		item, err := s.inventory.FindByID(ctx, detail.ProductID)
		if err != nil {
			return nil, notFound(err, "inventory item", detail.ProductID)
		}
		lines = append(lines, infra.PickListLine{
			Code:     item.Code,
			Required: detail.QuantityRequired,
			Locked:   detail.QuantityLocked,
		})
	}
	return infra.GeneratePickListPDF(order, product.Code, lines)
}
