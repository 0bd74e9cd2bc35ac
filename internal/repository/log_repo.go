package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/GiacomoGuaresi/LiteERP/internal/model"
)

type LogRepository interface {
	Create(ctx context.Context, entry *model.AuditLog) error
	List(ctx context.Context, limit int) ([]model.AuditLog, error)
}

type logRepo struct{ db *gorm.DB }

func NewLogRepository(db *gorm.DB) LogRepository { return &logRepo{db: db} }

func (r *logRepo) Create(ctx context.Context, entry *model.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *logRepo) List(ctx context.Context, limit int) ([]model.AuditLog, error) {
	var entries []model.AuditLog
	if limit <= 0 {
		limit = 200
	}
	err := r.db.WithContext(ctx).Order("timestamp DESC").Limit(limit).Find(&entries).Error
	return entries, err
}
