package repository

import (
	"context"

	"app/internal/domain/model"
)

type PurchaseRepository interface {
	Create(ctx context.Context, purchase model.Purchase) (int64, error)
	CreateLines(ctx context.Context, purchaseID int64, lines []model.PurchaseLine) error
	FindByID(ctx context.Context, purchaseID int64) (model.Purchase, error)
	ListLines(ctx context.Context, purchaseID int64) ([]model.PurchaseLine, error)

	// 名前参照だった明細をfinalize時に解決してIDを埋める
	SetLineItem(ctx context.Context, lineID int64, itemID int64) error

	MarkFinalized(ctx context.Context, purchaseID int64) error
}
