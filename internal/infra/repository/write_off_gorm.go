package repository

import (
	"context"

	"app/internal/domain/model"

	"gorm.io/gorm"
)

type WriteOffGormRepository struct {
	db *gorm.DB
}

func NewWriteOffGormRepository(db *gorm.DB) *WriteOffGormRepository {
	return &WriteOffGormRepository{db: db}
}

func (r *WriteOffGormRepository) Create(ctx context.Context, w model.WriteOff) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&w).Error; err != nil {
		return 0, err
	}
	return w.ID, nil
}

func (r *WriteOffGormRepository) ListByItemID(ctx context.Context, itemID int64) ([]model.WriteOff, error) {
	var ws []model.WriteOff
	err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("id asc").
		Find(&ws).Error
	if err != nil {
		return nil, err
	}
	return ws, nil
}
