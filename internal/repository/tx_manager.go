package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	Items() ItemRepository
	Sales() SaleRepository
	Purchases() PurchaseRepository
	Conditionals() ConditionalRepository
	WriteOffs() WriteOffRepository
	History() StatusHistoryRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
// fnがエラーを返したら全部ロールバック（複数明細の部分適用は起きない）。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
