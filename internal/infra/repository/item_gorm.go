package repository

import (
	"context"
	"errors"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type ItemGormRepository struct {
	db *gorm.DB
}

func NewItemGormRepository(db *gorm.DB) *ItemGormRepository {
	return &ItemGormRepository{db: db}
}

// IDで商品を取得
func (r *ItemGormRepository) FindByID(ctx context.Context, id int64) (model.Item, error) {
	var it model.Item
	err := r.db.WithContext(ctx).First(&it, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Item{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Item{}, err
	}
	return it, nil
}

// 名前で商品を取得（完全一致）
func (r *ItemGormRepository) FindByName(ctx context.Context, name string) (model.Item, error) {
	var it model.Item
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&it).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Item{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Item{}, err
	}
	return it, nil
}

// 商品の作成
func (r *ItemGormRepository) Create(ctx context.Context, it model.Item) (model.Item, error) {
	if err := r.db.WithContext(ctx).Create(&it).Error; err != nil {
		return model.Item{}, err
	}
	return it, nil
}

// 検索/カテゴリ/ページング付きの一覧
func (r *ItemGormRepository) List(ctx context.Context, q repo.ItemListQuery) ([]model.Item, int64, error) {
	var items []model.Item
	var total int64

	tx := r.db.WithContext(ctx).Model(&model.Item{})

	if strings.TrimSpace(q.Q) != "" {
		like := "%" + strings.TrimSpace(q.Q) + "%"
		tx = tx.Where("name ILIKE ?", like)
	}
	if strings.TrimSpace(q.Category) != "" {
		tx = tx.Where("category = ?", q.Category)
	}

	if err := tx.Count(&total).Error; err != nil {
		return []model.Item{}, 0, err
	}

	offset := (q.Page - 1) * q.Limit
	if err := tx.Order("created_at desc").Order("id desc").
		Offset(offset).Limit(q.Limit).Find(&items).Error; err != nil {
		return []model.Item{}, 0, err
	}

	return items, total, nil
}

// 在庫に符号付きdeltaを適用する。
// 負にならない行だけを条件付きUPDATEするので、
// 同一商品への同時適用がどちらも「足りる」と誤判定することはない。
func (r *ItemGormRepository) AdjustQuantity(ctx context.Context, itemID int64, delta int64) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Item{}).
		Where("id = ? AND quantity + ? >= 0", itemID, delta).
		Update("quantity", gorm.Expr("quantity + ?", delta))

	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		// 不在なのか在庫不足なのかを区別する
		var it model.Item
		err := r.db.WithContext(ctx).First(&it, itemID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, repo.ErrNotFound
		}
		if err != nil {
			return 0, err
		}
		return it.Quantity, repo.ErrInsufficientStock
	}

	// 同一Tx内なので自分の更新が見える
	var it model.Item
	if err := r.db.WithContext(ctx).First(&it, itemID).Error; err != nil {
		return 0, err
	}
	return it.Quantity, nil
}

// ステータス投影の更新（履歴の追記と同じTx内で呼ぶ）
func (r *ItemGormRepository) SetStatus(ctx context.Context, itemID int64, status model.ItemStatus) error {
	res := r.db.WithContext(ctx).
		Model(&model.Item{}).
		Where("id = ?", itemID).
		Update("status", status)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
