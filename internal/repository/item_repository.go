package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 条件付きUPDATEで在庫が負になる場合
var ErrInsufficientStock = errors.New("insufficient stock")

// 同時更新の競合がリトライ上限を超えた場合
var ErrConflict = errors.New("conflict")

// 一覧検索
type ItemListQuery struct {
	Page     int
	Limit    int
	Q        string
	Category string
}

type ItemRepository interface {
	FindByID(ctx context.Context, id int64) (model.Item, error)
	FindByName(ctx context.Context, name string) (model.Item, error)
	Create(ctx context.Context, item model.Item) (model.Item, error)
	List(ctx context.Context, q ItemListQuery) ([]model.Item, int64, error)

	// 在庫に符号付きdeltaを適用して新しい数量を返す。
	// 行に対する条件付きUPDATEなので、同一商品への同時適用は直列化される。
	// 結果が負になるならErrInsufficientStock、商品がなければErrNotFound。
	AdjustQuantity(ctx context.Context, itemID int64, delta int64) (int64, error)

	// ステータス投影の更新。履歴の追記と同じTx内でだけ呼ぶこと。
	SetStatus(ctx context.Context, itemID int64, status model.ItemStatus) error
}
