package repository

import (
	"context"

	"app/internal/domain/model"
)

type WriteOffRepository interface {
	Create(ctx context.Context, w model.WriteOff) (int64, error)
	ListByItemID(ctx context.Context, itemID int64) ([]model.WriteOff, error)
}
