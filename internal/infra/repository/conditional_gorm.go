package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type ConditionalGormRepository struct {
	db *gorm.DB
}

func NewConditionalGormRepository(db *gorm.DB) *ConditionalGormRepository {
	return &ConditionalGormRepository{db: db}
}

func (r *ConditionalGormRepository) Create(ctx context.Context, c model.Conditional) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&c).Error; err != nil {
		return 0, err
	}
	return c.ID, nil
}

func (r *ConditionalGormRepository) CreateLines(ctx context.Context, conditionalID int64, lines []model.ConditionalLine) error {
	if len(lines) == 0 {
		return nil
	}
	for i := range lines {
		lines[i].ConditionalID = conditionalID
	}
	return r.db.WithContext(ctx).Create(&lines).Error
}

func (r *ConditionalGormRepository) FindByID(ctx context.Context, conditionalID int64) (model.Conditional, error) {
	var c model.Conditional
	err := r.db.WithContext(ctx).First(&c, conditionalID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Conditional{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Conditional{}, err
	}
	return c, nil
}

func (r *ConditionalGormRepository) ListLines(ctx context.Context, conditionalID int64) ([]model.ConditionalLine, error) {
	var lines []model.ConditionalLine
	err := r.db.WithContext(ctx).
		Where("conditional_id = ?", conditionalID).
		Order("id asc").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

func (r *ConditionalGormRepository) MarkReturned(ctx context.Context, conditionalID int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Conditional{}).
		Where("id = ?", conditionalID).
		Update("returned", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 貸出行は残したまま転換済みフラグと販売への逆参照を書く
func (r *ConditionalGormRepository) MarkConverted(ctx context.Context, conditionalID int64, saleID int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Conditional{}).
		Where("id = ?", conditionalID).
		Updates(map[string]interface{}{
			"converted": true,
			"sale_id":   saleID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
