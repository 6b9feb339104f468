package usecase

import (
	"context"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// 集計は読み取り専用。在庫を変異させる能力を持たない
type ReportUsecase struct {
	reports repo.ReportRepository
}

func NewReportUsecase(reports repo.ReportRepository) *ReportUsecase {
	return &ReportUsecase{reports: reports}
}

type SalesReportInput struct {
	From          time.Time
	To            time.Time
	PaymentMethod string
	MinTotal      *int64
	MaxTotal      *int64
}

func (u *ReportUsecase) SalesSummary(ctx context.Context, in SalesReportInput) (repo.SalesSummary, error) {
	if in.From.IsZero() || in.To.IsZero() {
		return repo.SalesSummary{}, NewHTTPError(http.StatusBadRequest, "from/to required")
	}
	if in.From.After(in.To) {
		return repo.SalesSummary{}, NewHTTPError(http.StatusBadRequest, "from must be <= to")
	}
	if in.MinTotal != nil && *in.MinTotal < 0 {
		return repo.SalesSummary{}, NewHTTPError(http.StatusBadRequest, "min must be >= 0")
	}
	if in.MinTotal != nil && in.MaxTotal != nil && *in.MinTotal > *in.MaxTotal {
		return repo.SalesSummary{}, NewHTTPError(http.StatusBadRequest, "min must be <= max")
	}

	f := repo.SalesReportFilter{
		From:     in.From,
		To:       in.To,
		MinTotal: in.MinTotal,
		MaxTotal: in.MaxTotal,
	}
	if in.PaymentMethod != "" {
		if !model.ValidPaymentMethod(in.PaymentMethod) {
			return repo.SalesSummary{}, NewHTTPError(http.StatusBadRequest, "invalid forma_pgto")
		}
		pm := model.PaymentMethod(in.PaymentMethod)
		f.PaymentMethod = &pm
	}

	out, err := u.reports.SalesSummary(ctx, f)
	if err != nil {
		return repo.SalesSummary{}, &StorageError{Err: err}
	}
	return out, nil
}

func (u *ReportUsecase) TransactionCounts(ctx context.Context, from time.Time, to time.Time) (repo.TransactionCounts, error) {
	if from.IsZero() || to.IsZero() {
		return repo.TransactionCounts{}, NewHTTPError(http.StatusBadRequest, "from/to required")
	}
	if from.After(to) {
		return repo.TransactionCounts{}, NewHTTPError(http.StatusBadRequest, "from must be <= to")
	}

	out, err := u.reports.TransactionCounts(ctx, from, to)
	if err != nil {
		return repo.TransactionCounts{}, &StorageError{Err: err}
	}
	return out, nil
}
