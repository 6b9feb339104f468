package model

import "time"

// 仕入れ。open（明細編集可）→ finalized（在庫反映済み）の2段階。
type Purchase struct {
	ID            int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	Code          string        `gorm:"type:varchar(64);not null;uniqueIndex" json:"codigo"`
	Date          time.Time     `gorm:"not null;index" json:"data"`
	PaymentMethod PaymentMethod `gorm:"type:varchar(30);not null" json:"forma_pgto"`
	PaidValue     int64         `gorm:"not null" json:"valor_pago"`
	SupplierName  string        `gorm:"type:varchar(255);not null" json:"nome_fornecedor"`
	SupplierPhone string        `gorm:"type:varchar(20)" json:"telefone_fornecedor"`
	Finalized     bool          `gorm:"not null;default:false" json:"finalizada"`
	CreatedAt     time.Time     `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 仕入れ明細。ItemIDがnilの間は「名前で指す新規商品」で、
// finalize時に解決してIDを埋める。
type PurchaseLine struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PurchaseID int64     `gorm:"not null;index" json:"compra_id"`
	ItemID     *int64    `gorm:"index" json:"item_id,omitempty"`
	ItemName   string    `gorm:"type:varchar(255)" json:"nome_item"`
	Quantity   int64     `gorm:"not null" json:"quantidade"`
	UnitCost   int64     `gorm:"not null" json:"custo_unitario"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
