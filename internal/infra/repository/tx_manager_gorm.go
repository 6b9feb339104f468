package repository

import (
	"context"
	"errors"

	repo "app/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type txReposGorm struct {
	items        repo.ItemRepository
	sales        repo.SaleRepository
	purchases    repo.PurchaseRepository
	conditionals repo.ConditionalRepository
	writeOffs    repo.WriteOffRepository
	history      repo.StatusHistoryRepository
}

func (r *txReposGorm) Items() repo.ItemRepository               { return r.items }
func (r *txReposGorm) Sales() repo.SaleRepository               { return r.sales }
func (r *txReposGorm) Purchases() repo.PurchaseRepository       { return r.purchases }
func (r *txReposGorm) Conditionals() repo.ConditionalRepository { return r.conditionals }
func (r *txReposGorm) WriteOffs() repo.WriteOffRepository       { return r.writeOffs }
func (r *txReposGorm) History() repo.StatusHistoryRepository    { return r.history }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

// 直列化失敗の自動リトライ上限。超えたらErrConflict
const txMaxRetries = 3

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	var err error
	for attempt := 0; attempt < txMaxRetries; attempt++ {
		err = tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			//repoはtxを持ったDBで作り直す
			r := &txReposGorm{
				items:        NewItemGormRepository(tx),
				sales:        NewSaleGormRepository(tx),
				purchases:    NewPurchaseGormRepository(tx),
				conditionals: NewConditionalGormRepository(tx),
				writeOffs:    NewWriteOffGormRepository(tx),
				history:      NewStatusHistoryGormRepository(tx),
			}
			return fn(r)
		})
		if !isSerializationFailure(err) {
			return err
		}
	}
	return repo.ErrConflict
}

// serialization_failure / deadlock_detected
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}
	return false
}
