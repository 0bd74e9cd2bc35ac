package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/GiacomoGuaresi/LiteERP/internal/model"
)

// OrderRepository handles both production orders and their detail rows: the
// two are one aggregate — details never change outside an order transaction.
type OrderRepository interface {
	FindByID(ctx context.Context, id uint) (*model.ProductionOrder, error)
	List(ctx context.Context) ([]model.ProductionOrder, int64, error)
	FindDetails(ctx context.Context, orderID uint) ([]model.ProductionOrderDetail, error)

	// Transactional — the orchestration core runs entirely inside one
	// db.Transaction per top-level request.
	CreateTx(tx *gorm.DB, order *model.ProductionOrder) error
	FindByIDForUpdateTx(tx *gorm.DB, id uint) (*model.ProductionOrder, error)
	SaveTx(tx *gorm.DB, order *model.ProductionOrder) error
	DeleteTx(tx *gorm.DB, id uint) error

	CreateDetailTx(tx *gorm.DB, detail *model.ProductionOrderDetail) error
	FindDetailsTx(tx *gorm.DB, orderID uint) ([]model.ProductionOrderDetail, error)
	SaveDetailTx(tx *gorm.DB, detail *model.ProductionOrderDetail) error
	DeleteDetailTx(tx *gorm.DB, id uint) error

	// FindChildByDetailTx resolves the detail→sub-order edge of the order
	// forest: the (at most one) order spawned to cover this detail's shortfall.
	FindChildByDetailTx(tx *gorm.DB, detailID uint) (*model.ProductionOrder, error)

	// FindOpenByProductTx returns Planned/InProgress orders for a product,
	// newest first — the reconciler's Phase A selection.
	FindOpenByProductTx(tx *gorm.DB, productID uint) ([]model.ProductionOrder, error)

	// FindOpenDetailsByProductTx returns under-locked detail rows for a
	// product joined to an open order, newest order first — Phase B selection.
	FindOpenDetailsByProductTx(tx *gorm.DB, productID uint) ([]model.ProductionOrderDetail, error)

	DB() *gorm.DB
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) FindByID(ctx context.Context, id uint) (*model.ProductionOrder, error) {
	var order model.ProductionOrder
	err := r.db.WithContext(ctx).Preload("Details").First(&order, id).Error
	return &order, err
}

func (r *orderRepo) List(ctx context.Context) ([]model.ProductionOrder, int64, error) {
	var orders []model.ProductionOrder
	var total int64
	q := r.db.WithContext(ctx).Model(&model.ProductionOrder{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("date DESC, id DESC").Find(&orders).Error
	return orders, total, err
}

func (r *orderRepo) FindDetails(ctx context.Context, orderID uint) ([]model.ProductionOrderDetail, error) {
	var details []model.ProductionOrderDetail
	err := r.db.WithContext(ctx).Where("production_order_id = ?", orderID).Find(&details).Error
	return details, err
}

func (r *orderRepo) CreateTx(tx *gorm.DB, order *model.ProductionOrder) error {
	return tx.Create(order).Error
}

func (r *orderRepo) FindByIDForUpdateTx(tx *gorm.DB, id uint) (*model.ProductionOrder, error) {
	var order model.ProductionOrder
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&order, id).Error
	return &order, err
}

func (r *orderRepo) SaveTx(tx *gorm.DB, order *model.ProductionOrder) error {
	return tx.Save(order).Error
}

func (r *orderRepo) DeleteTx(tx *gorm.DB, id uint) error {
	return tx.Delete(&model.ProductionOrder{}, id).Error
}

func (r *orderRepo) CreateDetailTx(tx *gorm.DB, detail *model.ProductionOrderDetail) error {
	return tx.Create(detail).Error
}

func (r *orderRepo) FindDetailsTx(tx *gorm.DB, orderID uint) ([]model.ProductionOrderDetail, error) {
	var details []model.ProductionOrderDetail
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("production_order_id = ?", orderID).Find(&details).Error
	return details, err
}

func (r *orderRepo) SaveDetailTx(tx *gorm.DB, detail *model.ProductionOrderDetail) error {
	return tx.Save(detail).Error
}

func (r *orderRepo) DeleteDetailTx(tx *gorm.DB, id uint) error {
	return tx.Delete(&model.ProductionOrderDetail{}, id).Error
}

func (r *orderRepo) FindChildByDetailTx(tx *gorm.DB, detailID uint) (*model.ProductionOrder, error) {
	var order model.ProductionOrder
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("parent_detail_id = ?", detailID).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepo) FindOpenByProductTx(tx *gorm.DB, productID uint) ([]model.ProductionOrder, error) {
	var orders []model.ProductionOrder
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ? AND status IN ?", productID,
			[]string{model.StatusPlanned, model.StatusInProgress}).
		Order("date DESC, id DESC").
		Find(&orders).Error
	return orders, err
}

func (r *orderRepo) FindOpenDetailsByProductTx(tx *gorm.DB, productID uint) ([]model.ProductionOrderDetail, error) {
	var details []model.ProductionOrderDetail
	err := tx.Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "production_order_details"}}).
		Joins("JOIN production_orders ON production_orders.id = production_order_details.production_order_id").
		Where("production_order_details.product_id = ?", productID).
		Where("production_order_details.quantity_locked < production_order_details.quantity_required").
		Where("production_orders.status IN ?", []string{model.StatusPlanned, model.StatusInProgress}).
		Order("production_orders.date DESC, production_order_details.id DESC").
		Find(&details).Error
	return details, err
}

func (r *orderRepo) DB() *gorm.DB { return r.db }
