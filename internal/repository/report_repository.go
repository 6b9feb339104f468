package repository

import (
	"context"
	"time"

	"app/internal/domain/model"
)

// 売上集計の絞り込み条件
type SalesReportFilter struct {
	From          time.Time
	To            time.Time
	PaymentMethod *model.PaymentMethod
	MinTotal      *int64
	MaxTotal      *int64
}

type SalesSummary struct {
	Count        int64   `json:"quantidade_vendas"`
	TotalSum     int64   `json:"soma_valor_total"`
	DiscountSum  int64   `json:"soma_desconto"`
	PaidSum      int64   `json:"soma_valor_pago"`
	AverageTotal float64 `json:"ticket_medio"`
}

type TransactionCounts struct {
	Sales                int64 `json:"vendas"`
	FinalizedPurchases   int64 `json:"compras_finalizadas"`
	ConditionalsOpened   int64 `json:"condicionais_abertas"`
	ConditionalsReturned int64 `json:"condicionais_devolvidas"`
	WriteOffs            int64 `json:"baixas"`
}

// 集計は読み取り専用。コミット済みデータにしか触れない
type ReportRepository interface {
	SalesSummary(ctx context.Context, f SalesReportFilter) (SalesSummary, error)
	TransactionCounts(ctx context.Context, from time.Time, to time.Time) (TransactionCounts, error)
}
