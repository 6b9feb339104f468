package repository

import (
	"context"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type ReportGormRepository struct {
	db *gorm.DB
}

func NewReportGormRepository(db *gorm.DB) *ReportGormRepository {
	return &ReportGormRepository{db: db}
}

// 期間＋任意フィルタで売上の件数/合計/平均を集計する。
// コミット済みの行しか見えないので、処理中のトランザクションは混ざらない。
func (r *ReportGormRepository) SalesSummary(ctx context.Context, f repo.SalesReportFilter) (repo.SalesSummary, error) {
	tx := r.db.WithContext(ctx).
		Model(&model.Sale{}).
		Where("date >= ? AND date <= ?", f.From, f.To)

	if f.PaymentMethod != nil {
		tx = tx.Where("payment_method = ?", *f.PaymentMethod)
	}
	if f.MinTotal != nil {
		tx = tx.Where("total_value >= ?", *f.MinTotal)
	}
	if f.MaxTotal != nil {
		tx = tx.Where("total_value <= ?", *f.MaxTotal)
	}

	var out repo.SalesSummary
	err := tx.Select(
		"COUNT(*) AS count, " +
			"COALESCE(SUM(total_value), 0) AS total_sum, " +
			"COALESCE(SUM(discount), 0) AS discount_sum, " +
			"COALESCE(SUM(paid_value), 0) AS paid_sum, " +
			"COALESCE(AVG(total_value), 0) AS average_total",
	).Scan(&out).Error
	if err != nil {
		return repo.SalesSummary{}, err
	}
	return out, nil
}

// 期間内の取引件数（種別ごと）
func (r *ReportGormRepository) TransactionCounts(ctx context.Context, from time.Time, to time.Time) (repo.TransactionCounts, error) {
	var out repo.TransactionCounts

	if err := r.db.WithContext(ctx).Model(&model.Sale{}).
		Where("date >= ? AND date <= ?", from, to).
		Count(&out.Sales).Error; err != nil {
		return repo.TransactionCounts{}, err
	}

	if err := r.db.WithContext(ctx).Model(&model.Purchase{}).
		Where("date >= ? AND date <= ? AND finalized = ?", from, to, true).
		Count(&out.FinalizedPurchases).Error; err != nil {
		return repo.TransactionCounts{}, err
	}

	if err := r.db.WithContext(ctx).Model(&model.Conditional{}).
		Where("loan_date >= ? AND loan_date <= ?", from, to).
		Count(&out.ConditionalsOpened).Error; err != nil {
		return repo.TransactionCounts{}, err
	}

	if err := r.db.WithContext(ctx).Model(&model.Conditional{}).
		Where("loan_date >= ? AND loan_date <= ? AND returned = ?", from, to, true).
		Count(&out.ConditionalsReturned).Error; err != nil {
		return repo.TransactionCounts{}, err
	}

	if err := r.db.WithContext(ctx).Model(&model.WriteOff{}).
		Where("date >= ? AND date <= ?", from, to).
		Count(&out.WriteOffs).Error; err != nil {
		return repo.TransactionCounts{}, err
	}

	return out, nil
}
