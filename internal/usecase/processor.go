package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/validator"
)

// usecaseに渡す部品
type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID() string
}

// 商品参照（ID or 名前）を具体的な商品に解決する。作成はしない
func resolveItem(ctx context.Context, r repo.TxRepos, ref validator.ItemRef) (model.Item, error) {
	if ref.ID != nil {
		it, err := r.Items().FindByID(ctx, *ref.ID)
		if errors.Is(err, repo.ErrNotFound) {
			return model.Item{}, &NotFoundError{Resource: "item", Ref: fmt.Sprintf("id=%d", *ref.ID)}
		}
		if err != nil {
			return model.Item{}, &StorageError{Err: err}
		}
		return it, nil
	}

	it, err := r.Items().FindByName(ctx, ref.Name)
	if errors.Is(err, repo.ErrNotFound) {
		return model.Item{}, &NotFoundError{Resource: "item", Ref: fmt.Sprintf("nome=%q", ref.Name)}
	}
	if err != nil {
		return model.Item{}, &StorageError{Err: err}
	}
	return it, nil
}

// ステータス遷移を適用する。履歴の追記と投影の更新は必ず同じTx内
func applyTransition(ctx context.Context, r repo.TxRepos, itemID int64, from model.ItemStatus, to model.ItemStatus, ts time.Time) error {
	err := r.History().Append(ctx, model.StatusHistoryEntry{
		ItemID:      itemID,
		PriorStatus: from,
		NewStatus:   to,
		CreatedAt:   ts,
	})
	if err != nil {
		return &StorageError{Err: err}
	}

	if err := r.Items().SetStatus(ctx, itemID, to); err != nil {
		return &StorageError{Err: err}
	}
	return nil
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}

// 履歴から現在ステータスを引く（履歴が真実）
func currentStatus(ctx context.Context, r repo.TxRepos, itemID int64) (model.ItemStatus, error) {
	st, err := r.History().CurrentStatus(ctx, itemID)
	if err != nil {
		return "", &StorageError{Err: err}
	}
	return st, nil
}
