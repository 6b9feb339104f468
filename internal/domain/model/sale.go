package model

import "time"

// 支払い方法（固定セット）。Permutaは物々交換の特例。
type PaymentMethod string

const (
	PaymentPix        PaymentMethod = "Pix"
	PaymentCash       PaymentMethod = "Dinheiro"
	PaymentCreditCard PaymentMethod = "Cartão de Crédito"
	PaymentDebitCard  PaymentMethod = "Cartão de Débito"
	PaymentBoleto     PaymentMethod = "Boleto"
	PaymentCheque     PaymentMethod = "Cheque"
	PaymentBarter     PaymentMethod = "Permuta"
)

// 許可された支払い方法か
func ValidPaymentMethod(s string) bool {
	switch PaymentMethod(s) {
	case PaymentPix, PaymentCash, PaymentCreditCard, PaymentDebitCard,
		PaymentBoleto, PaymentCheque, PaymentBarter:
		return true
	}
	return false
}

type Sale struct {
	ID                int64         `gorm:"primaryKey;autoIncrement" json:"id"`
	Code              string        `gorm:"type:varchar(64);not null;uniqueIndex" json:"codigo"`
	Date              time.Time     `gorm:"not null;index" json:"data"`
	PaymentMethod     PaymentMethod `gorm:"type:varchar(30);not null;index" json:"forma_pgto"`
	TotalValue        int64         `gorm:"not null" json:"valor_total"`
	Discount          int64         `gorm:"not null" json:"desconto"`
	PaidValue         int64         `gorm:"not null" json:"valor_pago"`
	BarterDescription string        `gorm:"type:text" json:"descricao_permuta"`
	CustomerName      string        `gorm:"type:varchar(255)" json:"nome_cliente"`
	CustomerPhone     string        `gorm:"type:varchar(20)" json:"telefone_cliente"`

	// 条件付き貸出からの転換で作られた場合の逆参照
	ConditionalID *int64 `gorm:"index" json:"condicional_id,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 販売明細。価格と名前は販売時点のスナップショット。
type SaleLine struct {
	ID                int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	SaleID            int64     `gorm:"not null;index" json:"venda_id"`
	ItemID            int64     `gorm:"not null;index" json:"item_id"`
	ItemNameSnapshot  string    `gorm:"type:varchar(255);not null" json:"nome_item"`
	UnitPriceSnapshot int64     `gorm:"not null" json:"preco_unitario"`
	Quantity          int64     `gorm:"not null" json:"quantidade"`
	CreatedAt         time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
