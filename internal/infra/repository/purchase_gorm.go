package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type PurchaseGormRepository struct {
	db *gorm.DB
}

func NewPurchaseGormRepository(db *gorm.DB) *PurchaseGormRepository {
	return &PurchaseGormRepository{db: db}
}

func (r *PurchaseGormRepository) Create(ctx context.Context, p model.Purchase) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return 0, err
	}
	return p.ID, nil
}

func (r *PurchaseGormRepository) CreateLines(ctx context.Context, purchaseID int64, lines []model.PurchaseLine) error {
	if len(lines) == 0 {
		return nil
	}
	for i := range lines {
		lines[i].PurchaseID = purchaseID
	}
	return r.db.WithContext(ctx).Create(&lines).Error
}

func (r *PurchaseGormRepository) FindByID(ctx context.Context, purchaseID int64) (model.Purchase, error) {
	var p model.Purchase
	err := r.db.WithContext(ctx).First(&p, purchaseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Purchase{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Purchase{}, err
	}
	return p, nil
}

func (r *PurchaseGormRepository) ListLines(ctx context.Context, purchaseID int64) ([]model.PurchaseLine, error) {
	var lines []model.PurchaseLine
	err := r.db.WithContext(ctx).
		Where("purchase_id = ?", purchaseID).
		Order("id asc").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// finalizeで解決した商品IDを明細に書き戻す
func (r *PurchaseGormRepository) SetLineItem(ctx context.Context, lineID int64, itemID int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.PurchaseLine{}).
		Where("id = ?", lineID).
		Update("item_id", itemID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *PurchaseGormRepository) MarkFinalized(ctx context.Context, purchaseID int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Purchase{}).
		Where("id = ?", purchaseID).
		Update("finalized", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
