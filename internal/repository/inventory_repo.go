package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/GiacomoGuaresi/LiteERP/internal/model"
)

// InventoryRepository defines the data access contract for inventory items.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via in-memory stubs.
type InventoryRepository interface {
	Create(ctx context.Context, item *model.InventoryItem) error
	FindByID(ctx context.Context, id uint) (*model.InventoryItem, error)
	FindByCode(ctx context.Context, code string) (*model.InventoryItem, error)
	List(ctx context.Context) ([]model.InventoryItem, error)
	Update(ctx context.Context, item *model.InventoryItem) error
	Delete(ctx context.Context, id uint) error

	// Used inside transactions — callers must pass the tx instance.
	// FindByIDForUpdateTx takes a row lock so two concurrent stock operations
	// on the same item cannot both observe and decrement the same on-hand.
	FindByIDForUpdateTx(tx *gorm.DB, id uint) (*model.InventoryItem, error)
	SaveTx(tx *gorm.DB, item *model.InventoryItem) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type inventoryRepo struct{ db *gorm.DB }

func NewInventoryRepository(db *gorm.DB) InventoryRepository { return &inventoryRepo{db: db} }

func (r *inventoryRepo) Create(ctx context.Context, item *model.InventoryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *inventoryRepo) FindByID(ctx context.Context, id uint) (*model.InventoryItem, error) {
	var item model.InventoryItem
	err := r.db.WithContext(ctx).First(&item, id).Error
	return &item, err
}

func (r *inventoryRepo) FindByCode(ctx context.Context, code string) (*model.InventoryItem, error) {
	var item model.InventoryItem
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&item).Error
	return &item, err
}

func (r *inventoryRepo) List(ctx context.Context) ([]model.InventoryItem, error) {
	var items []model.InventoryItem
	err := r.db.WithContext(ctx).Order("code ASC").Find(&items).Error
	return items, err
}

func (r *inventoryRepo) Update(ctx context.Context, item *model.InventoryItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *inventoryRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.InventoryItem{}, id).Error
}

func (r *inventoryRepo) FindByIDForUpdateTx(tx *gorm.DB, id uint) (*model.InventoryItem, error) {
	var item model.InventoryItem
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&item, id).Error
	return &item, err
}

func (r *inventoryRepo) SaveTx(tx *gorm.DB, item *model.InventoryItem) error {
	return tx.Save(item).Error
}

func (r *inventoryRepo) DB() *gorm.DB { return r.db }
