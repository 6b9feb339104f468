package repository

import (
	"context"

	"app/internal/domain/model"
)

type SaleRepository interface {
	Create(ctx context.Context, sale model.Sale) (int64, error)
	CreateLines(ctx context.Context, saleID int64, lines []model.SaleLine) error
	FindByID(ctx context.Context, saleID int64) (model.Sale, error)
	ListLines(ctx context.Context, saleID int64) ([]model.SaleLine, error)
}
