package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"

	"gorm.io/gorm"
)

type StatusHistoryGormRepository struct {
	db *gorm.DB
}

func NewStatusHistoryGormRepository(db *gorm.DB) *StatusHistoryGormRepository {
	return &StatusHistoryGormRepository{db: db}
}

// 追記のみ
func (r *StatusHistoryGormRepository) Append(ctx context.Context, entry model.StatusHistoryEntry) error {
	return r.db.WithContext(ctx).Create(&entry).Error
}

// 最新エントリのNewStatus。履歴がなければavailable
func (r *StatusHistoryGormRepository) CurrentStatus(ctx context.Context, itemID int64) (model.ItemStatus, error) {
	var entry model.StatusHistoryEntry
	err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("id desc").
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.ItemStatusAvailable, nil
	}
	if err != nil {
		return "", err
	}
	return entry.NewStatus, nil
}

func (r *StatusHistoryGormRepository) ListByItemID(ctx context.Context, itemID int64) ([]model.StatusHistoryEntry, error) {
	var entries []model.StatusHistoryEntry
	err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("id asc").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
