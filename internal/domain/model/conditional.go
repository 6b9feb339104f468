package model

import "time"

// 条件付き貸出（試着持ち出し）。未返却の間、対象数量は在庫から除外される。
// 販売へ転換した場合はConverted=true + SaleIDで記録し、行自体は残す。
type Conditional struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Code          string    `gorm:"type:varchar(64);not null;uniqueIndex" json:"codigo"`
	CustomerName  string    `gorm:"type:varchar(255);not null" json:"nome_cliente"`
	CustomerPhone string    `gorm:"type:varchar(20)" json:"telefone_cliente"`
	LoanDate      time.Time `gorm:"not null;index" json:"data_saida"`
	DueDate       time.Time `gorm:"not null" json:"data_retorno"`
	Returned      bool      `gorm:"not null;default:false" json:"devolvido"`
	Converted     bool      `gorm:"not null;default:false" json:"convertida"`
	SaleID        *int64    `gorm:"index" json:"venda_id,omitempty"`
	CreatedAt     time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

type ConditionalLine struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ConditionalID int64     `gorm:"not null;index" json:"condicional_id"`
	ItemID        int64     `gorm:"not null;index" json:"item_id"`
	Quantity      int64     `gorm:"not null" json:"quantidade"`
	CreatedAt     time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
