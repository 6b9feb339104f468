package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type SaleGormRepository struct {
	db *gorm.DB
}

func NewSaleGormRepository(db *gorm.DB) *SaleGormRepository {
	return &SaleGormRepository{db: db}
}

func (r *SaleGormRepository) Create(ctx context.Context, sale model.Sale) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&sale).Error; err != nil {
		return 0, err
	}
	return sale.ID, nil
}

// 明細の一括作成
func (r *SaleGormRepository) CreateLines(ctx context.Context, saleID int64, lines []model.SaleLine) error {
	if len(lines) == 0 {
		return nil
	}
	for i := range lines {
		lines[i].SaleID = saleID
	}
	return r.db.WithContext(ctx).Create(&lines).Error
}

func (r *SaleGormRepository) FindByID(ctx context.Context, saleID int64) (model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).First(&s, saleID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Sale{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Sale{}, err
	}
	return s, nil
}

func (r *SaleGormRepository) ListLines(ctx context.Context, saleID int64) ([]model.SaleLine, error) {
	var lines []model.SaleLine
	err := r.db.WithContext(ctx).
		Where("sale_id = ?", saleID).
		Order("id asc").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}
