package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/GiacomoGuaresi/LiteERP/internal/model"
)

type BOMRepository interface {
	Create(ctx context.Context, edge *model.BOMEdge) error
	FindByID(ctx context.Context, id uint) (*model.BOMEdge, error)
	List(ctx context.Context) ([]model.BOMEdge, error)
	FindByParent(ctx context.Context, parentProductID uint) ([]model.BOMEdge, error)
	Update(ctx context.Context, edge *model.BOMEdge) error
	Delete(ctx context.Context, id uint) error

	// FindByParentTx reads edges inside the explosion transaction.
	FindByParentTx(tx *gorm.DB, parentProductID uint) ([]model.BOMEdge, error)
}

type bomRepo struct{ db *gorm.DB }

func NewBOMRepository(db *gorm.DB) BOMRepository { return &bomRepo{db: db} }

func (r *bomRepo) Create(ctx context.Context, edge *model.BOMEdge) error {
	return r.db.WithContext(ctx).Create(edge).Error
}

func (r *bomRepo) FindByID(ctx context.Context, id uint) (*model.BOMEdge, error) {
	var edge model.BOMEdge
	err := r.db.WithContext(ctx).First(&edge, id).Error
	return &edge, err
}

func (r *bomRepo) List(ctx context.Context) ([]model.BOMEdge, error) {
	var edges []model.BOMEdge
	err := r.db.WithContext(ctx).Find(&edges).Error
	return edges, err
}

func (r *bomRepo) FindByParent(ctx context.Context, parentProductID uint) ([]model.BOMEdge, error) {
	var edges []model.BOMEdge
	err := r.db.WithContext(ctx).Where("parent_product_id = ?", parentProductID).Find(&edges).Error
	return edges, err
}

func (r *bomRepo) Update(ctx context.Context, edge *model.BOMEdge) error {
	return r.db.WithContext(ctx).Save(edge).Error
}

func (r *bomRepo) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.BOMEdge{}, id).Error
}

func (r *bomRepo) FindByParentTx(tx *gorm.DB, parentProductID uint) ([]model.BOMEdge, error) {
	var edges []model.BOMEdge
	err := tx.Where("parent_product_id = ?", parentProductID).Find(&edges).Error
	return edges, err
}
