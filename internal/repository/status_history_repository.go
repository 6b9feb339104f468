package repository

import (
	"context"

	"app/internal/domain/model"
)

type StatusHistoryRepository interface {
	// 追記のみ。既存エントリの更新・削除はしない
	Append(ctx context.Context, entry model.StatusHistoryEntry) error

	// 最新エントリのNewStatus。エントリがなければavailable（新規在庫は利用可能で始まる）
	CurrentStatus(ctx context.Context, itemID int64) (model.ItemStatus, error)

	ListByItemID(ctx context.Context, itemID int64) ([]model.StatusHistoryEntry, error)
}
