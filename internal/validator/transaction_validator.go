package validator

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"app/internal/domain/model"
)

// フィールド単位の違反。1リクエスト分をまとめて返す（fail-fastしない）
type Violation struct {
	Field   string `json:"campo"`
	Message string `json:"mensagem"`
}

// 支払い整合性の違反は同じメッセージを使う
// （permutaで説明なし / 非permutaで支払超過、どちらもここに落とす）
const msgInconsistentPayment = "inconsistent payment"

// 商品参照。IDか名前のどちらか一方だけを指定する。
// 解決は処理側がTx内で行い、具体的なIDに潰してから変異する。
type ItemRef struct {
	ID   *int64 `json:"item_id,omitempty"`
	Name string `json:"nome_item,omitempty"`
}

// ちょうど1つの参照経路を持つか
func (r ItemRef) wellFormed() bool {
	byID := r.ID != nil
	byName := strings.TrimSpace(r.Name) != ""
	if byID == byName {
		return false
	}
	if byID && *r.ID <= 0 {
		return false
	}
	return true
}

type SaleLineRequest struct {
	ItemRef
	Quantity int64 `json:"quantidade"`
}

type SaleRequest struct {
	Date              time.Time         `json:"data"`
	PaymentMethod     string            `json:"forma_pgto"`
	TotalValue        int64             `json:"valor_total"`
	Discount          *int64            `json:"desconto"`
	PaidValue         int64             `json:"valor_pago"`
	BarterDescription string            `json:"descricao_permuta"`
	CustomerName      string            `json:"nome_cliente"`
	CustomerPhone     string            `json:"telefone_cliente"`
	Lines             []SaleLineRequest `json:"itens"`
}

// 販売リクエストの検証と正規化。
// desconto省略は0。Permutaは金額3つを0に正規化して説明文を必須にする。
func ValidateSale(req *SaleRequest) []Violation {
	var vs []Violation

	if req.Discount == nil {
		var zero int64
		req.Discount = &zero
	}
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.CustomerPhone = strings.TrimSpace(req.CustomerPhone)
	req.BarterDescription = strings.TrimSpace(req.BarterDescription)

	if !model.ValidPaymentMethod(req.PaymentMethod) {
		vs = append(vs, Violation{Field: "forma_pgto", Message: "invalid payment method"})
	}

	vs = append(vs, validateLines(len(req.Lines), func(i int) (ItemRef, int64) {
		return req.Lines[i].ItemRef, req.Lines[i].Quantity
	}, 1)...)

	if req.CustomerName != "" && len([]rune(req.CustomerName)) < 2 {
		vs = append(vs, Violation{Field: "nome_cliente", Message: "must be at least 2 chars"})
	}
	if req.CustomerPhone != "" && digitCount(req.CustomerPhone) < 10 {
		vs = append(vs, Violation{Field: "telefone_cliente", Message: "must have at least 10 digits"})
	}

	if req.TotalValue < 0 {
		vs = append(vs, Violation{Field: "valor_total", Message: "must be >= 0"})
	}
	if *req.Discount < 0 {
		vs = append(vs, Violation{Field: "desconto", Message: "must be >= 0"})
	}
	if req.PaidValue < 0 {
		vs = append(vs, Violation{Field: "valor_pago", Message: "must be >= 0"})
	}

	// 相互依存ルールはレコードが整ってから
	if len(vs) == 0 {
		vs = append(vs, validatePaymentConsistency(
			req.PaymentMethod, req.BarterDescription,
			&req.TotalValue, req.Discount, &req.PaidValue,
		)...)
	}

	return vs
}

type PurchaseLineRequest struct {
	ItemRef
	Quantity int64 `json:"quantidade"`
	UnitCost int64 `json:"custo_unitario"`
}

type PurchaseRequest struct {
	Date          time.Time             `json:"data"`
	PaymentMethod string                `json:"forma_pgto"`
	PaidValue     int64                 `json:"valor_pago"`
	SupplierName  string                `json:"nome_fornecedor"`
	SupplierPhone string                `json:"telefone_fornecedor"`
	Lines         []PurchaseLineRequest `json:"itens"`
}

// 仕入れリクエストの検証
func ValidatePurchase(req *PurchaseRequest) []Violation {
	var vs []Violation

	req.SupplierName = strings.TrimSpace(req.SupplierName)
	req.SupplierPhone = strings.TrimSpace(req.SupplierPhone)

	if !model.ValidPaymentMethod(req.PaymentMethod) {
		vs = append(vs, Violation{Field: "forma_pgto", Message: "invalid payment method"})
	}
	if req.PaidValue < 0 {
		vs = append(vs, Violation{Field: "valor_pago", Message: "must be >= 0"})
	}
	if req.SupplierName == "" {
		vs = append(vs, Violation{Field: "nome_fornecedor", Message: "required"})
	}
	if req.SupplierPhone != "" && digitCount(req.SupplierPhone) < 10 {
		vs = append(vs, Violation{Field: "telefone_fornecedor", Message: "must have at least 10 digits"})
	}

	// 仕入れは数量・単価とも0を許す（数量0の行はfinalizeで在庫に影響しない）
	vs = append(vs, validateLines(len(req.Lines), func(i int) (ItemRef, int64) {
		return req.Lines[i].ItemRef, req.Lines[i].Quantity
	}, 0)...)
	for i, l := range req.Lines {
		if l.UnitCost < 0 {
			vs = append(vs, Violation{
				Field:   fmt.Sprintf("itens[%d].custo_unitario", i),
				Message: "must be >= 0",
			})
		}
	}

	return vs
}

type ConditionalLineRequest struct {
	ItemRef
	Quantity int64 `json:"quantidade"`
}

type ConditionalRequest struct {
	CustomerName  string                   `json:"nome_cliente"`
	CustomerPhone string                   `json:"telefone_cliente"`
	LoanDate      time.Time                `json:"data_saida"`
	DueDate       time.Time                `json:"data_retorno"`
	Lines         []ConditionalLineRequest `json:"itens"`
}

// 条件付き貸出の検証。貸出は新規在庫を作らない（既存商品のみ）
func ValidateConditional(req *ConditionalRequest) []Violation {
	var vs []Violation

	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.CustomerPhone = strings.TrimSpace(req.CustomerPhone)

	if req.CustomerName == "" {
		vs = append(vs, Violation{Field: "nome_cliente", Message: "required"})
	} else if len([]rune(req.CustomerName)) < 2 {
		vs = append(vs, Violation{Field: "nome_cliente", Message: "must be at least 2 chars"})
	}
	if req.CustomerPhone != "" && digitCount(req.CustomerPhone) < 10 {
		vs = append(vs, Violation{Field: "telefone_cliente", Message: "must have at least 10 digits"})
	}

	if req.LoanDate.IsZero() {
		vs = append(vs, Violation{Field: "data_saida", Message: "required"})
	}
	if req.DueDate.IsZero() {
		vs = append(vs, Violation{Field: "data_retorno", Message: "required"})
	}
	if !req.LoanDate.IsZero() && !req.DueDate.IsZero() && req.LoanDate.After(req.DueDate) {
		vs = append(vs, Violation{Field: "data_retorno", Message: "must not be before data_saida"})
	}

	vs = append(vs, validateLines(len(req.Lines), func(i int) (ItemRef, int64) {
		return req.Lines[i].ItemRef, req.Lines[i].Quantity
	}, 1)...)

	return vs
}

type WriteOffRequest struct {
	Item     ItemRef   `json:"item"`
	Quantity int64     `json:"quantidade"`
	Date     time.Time `json:"data"`
	Reason   string    `json:"motivo"`
}

// 除却の検証
func ValidateWriteOff(req *WriteOffRequest) []Violation {
	var vs []Violation

	req.Reason = strings.TrimSpace(req.Reason)

	if !req.Item.wellFormed() {
		vs = append(vs, Violation{Field: "item", Message: "exactly one of item_id / nome_item required"})
	}
	if req.Quantity < 1 {
		vs = append(vs, Violation{Field: "quantidade", Message: "must be >= 1"})
	}
	if req.Reason == "" {
		vs = append(vs, Violation{Field: "motivo", Message: "required"})
	}

	return vs
}

type CloseConditionalRequest struct {
	Returned          bool   `json:"devolvido"`
	PaymentMethod     string `json:"forma_pgto"`
	TotalValue        int64  `json:"valor_total"`
	Discount          *int64 `json:"desconto"`
	PaidValue         int64  `json:"valor_pago"`
	BarterDescription string `json:"descricao_permuta"`
}

// 貸出クローズの検証。devolvido=falseは販売へ転換するので支払いルールを適用する
func ValidateCloseConditional(req *CloseConditionalRequest) []Violation {
	if req.Returned {
		return nil
	}

	var vs []Violation

	if req.Discount == nil {
		var zero int64
		req.Discount = &zero
	}
	req.BarterDescription = strings.TrimSpace(req.BarterDescription)

	if !model.ValidPaymentMethod(req.PaymentMethod) {
		vs = append(vs, Violation{Field: "forma_pgto", Message: "invalid payment method"})
	}
	if req.TotalValue < 0 {
		vs = append(vs, Violation{Field: "valor_total", Message: "must be >= 0"})
	}
	if *req.Discount < 0 {
		vs = append(vs, Violation{Field: "desconto", Message: "must be >= 0"})
	}
	if req.PaidValue < 0 {
		vs = append(vs, Violation{Field: "valor_pago", Message: "must be >= 0"})
	}

	if len(vs) == 0 {
		vs = append(vs, validatePaymentConsistency(
			req.PaymentMethod, req.BarterDescription,
			&req.TotalValue, req.Discount, &req.PaidValue,
		)...)
	}

	return vs
}

// Permuta: 金額を0に正規化し、説明文を必須にする。
// それ以外: 支払額が合計を超えてはいけない。
// どちらの違反も同じメッセージで返す。
func validatePaymentConsistency(method string, barterDesc string, total *int64, discount *int64, paid *int64) []Violation {
	if model.PaymentMethod(method) == model.PaymentBarter {
		if barterDesc == "" {
			return []Violation{{Field: "descricao_permuta", Message: msgInconsistentPayment}}
		}
		*total = 0
		*discount = 0
		*paid = 0
		return nil
	}

	if *paid > *total {
		return []Violation{{Field: "valor_pago", Message: msgInconsistentPayment}}
	}
	return nil
}

// 明細の共通検証。minQtyは販売/貸出が1、仕入れが0
func validateLines(n int, at func(i int) (ItemRef, int64), minQty int64) []Violation {
	if n == 0 {
		return []Violation{{Field: "itens", Message: "at least one line required"}}
	}

	var vs []Violation
	for i := 0; i < n; i++ {
		ref, qty := at(i)
		if !ref.wellFormed() {
			vs = append(vs, Violation{
				Field:   fmt.Sprintf("itens[%d]", i),
				Message: "exactly one of item_id / nome_item required",
			})
		}
		if qty < minQty {
			vs = append(vs, Violation{
				Field:   fmt.Sprintf("itens[%d].quantidade", i),
				Message: fmt.Sprintf("must be >= %d", minQty),
			})
		}
	}
	return vs
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}
