package repository

import (
	"context"

	"app/internal/domain/model"
)

type ConditionalRepository interface {
	Create(ctx context.Context, c model.Conditional) (int64, error)
	CreateLines(ctx context.Context, conditionalID int64, lines []model.ConditionalLine) error
	FindByID(ctx context.Context, conditionalID int64) (model.Conditional, error)
	ListLines(ctx context.Context, conditionalID int64) ([]model.ConditionalLine, error)

	MarkReturned(ctx context.Context, conditionalID int64) error

	// 販売への転換。貸出行は残したまま逆参照を張る
	MarkConverted(ctx context.Context, conditionalID int64, saleID int64) error
}
