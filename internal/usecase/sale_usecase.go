package usecase

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/validator"
)

type SaleUsecase struct {
	tx    repo.TransactionManager
	clock Clock
	idGen IDGenerator
}

func NewSaleUsecase(tx repo.TransactionManager, clock Clock, idGen IDGenerator) *SaleUsecase {
	return &SaleUsecase{tx: tx, clock: clock, idGen: idGen}
}

type SaleLineOutput struct {
	ItemID            int64            `json:"item_id"`
	Name              string           `json:"nome_item"`
	UnitPrice         int64            `json:"preco_unitario"`
	Quantity          int64            `json:"quantidade"`
	RemainingQuantity int64            `json:"quantidade_restante"`
	Status            model.ItemStatus `json:"status"`
}

type SaleOutput struct {
	ID                int64            `json:"id"`
	Code              string           `json:"codigo"`
	Date              time.Time        `json:"data"`
	PaymentMethod     string           `json:"forma_pgto"`
	TotalValue        int64            `json:"valor_total"`
	Discount          int64            `json:"desconto"`
	PaidValue         int64            `json:"valor_pago"`
	BarterDescription string           `json:"descricao_permuta,omitempty"`
	CustomerName      string           `json:"nome_cliente,omitempty"`
	CustomerPhone     string           `json:"telefone_cliente,omitempty"`
	ConditionalID     *int64           `json:"condicional_id,omitempty"`
	Items             []SaleLineOutput `json:"itens"`
}

// 販売の確定。検証→解決→在庫減算→ステータス→明細保存を1つの原子単位で行う。
// どこかの明細が失敗したら全体をロールバックして変異を残さない。
func (u *SaleUsecase) CreateSale(ctx context.Context, in validator.SaleRequest) (SaleOutput, error) {
	if vs := validator.ValidateSale(&in); len(vs) > 0 {
		return SaleOutput{}, &ValidationError{Violations: vs}
	}

	// 履歴エントリはトランザクション全体で同じ時刻を共有する
	ts := u.clock.Now()
	date := in.Date
	if date.IsZero() {
		date = ts
	}

	var out SaleOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		lines := make([]model.SaleLine, 0, len(in.Lines))
		outItems := make([]SaleLineOutput, 0, len(in.Lines))

		for _, lr := range in.Lines {
			it, err := resolveItem(ctx, r, lr.ItemRef)
			if err != nil {
				return err
			}

			st, err := currentStatus(ctx, r, it.ID)
			if err != nil {
				return err
			}
			// 販売できるのはavailableのみ（on_holdからの販売は貸出転換だけ）
			if st != model.ItemStatusAvailable {
				return &InvalidTransitionError{ItemID: it.ID, From: st, Event: "sale"}
			}

			newQty, err := r.Items().AdjustQuantity(ctx, it.ID, -lr.Quantity)
			if errors.Is(err, repo.ErrInsufficientStock) {
				return &InsufficientStockError{ItemID: it.ID, Requested: lr.Quantity, Available: newQty}
			}
			if errors.Is(err, repo.ErrNotFound) {
				return &NotFoundError{Resource: "item", Ref: it.Name}
			}
			if err != nil {
				return &StorageError{Err: err}
			}

			// 完売した1点物だけsoldへ。部分販売はavailableのまま（再入荷前提）
			status := st
			if newQty == 0 {
				if err := applyTransition(ctx, r, it.ID, st, model.ItemStatusSold, ts); err != nil {
					return err
				}
				status = model.ItemStatusSold
			}

			lines = append(lines, model.SaleLine{
				ItemID:            it.ID,
				ItemNameSnapshot:  it.Name,
				UnitPriceSnapshot: it.Price,
				Quantity:          lr.Quantity,
				CreatedAt:         ts,
			})
			outItems = append(outItems, SaleLineOutput{
				ItemID:            it.ID,
				Name:              it.Name,
				UnitPrice:         it.Price,
				Quantity:          lr.Quantity,
				RemainingQuantity: newQty,
				Status:            status,
			})
		}

		code := u.idGen.NewID()
		saleID, err := r.Sales().Create(ctx, model.Sale{
			Code:              code,
			Date:              date,
			PaymentMethod:     model.PaymentMethod(in.PaymentMethod),
			TotalValue:        in.TotalValue,
			Discount:          *in.Discount,
			PaidValue:         in.PaidValue,
			BarterDescription: in.BarterDescription,
			CustomerName:      in.CustomerName,
			CustomerPhone:     in.CustomerPhone,
			CreatedAt:         ts,
			UpdatedAt:         ts,
		})
		if err != nil {
			return &StorageError{Err: err}
		}

		if err := r.Sales().CreateLines(ctx, saleID, lines); err != nil {
			return &StorageError{Err: err}
		}

		out = SaleOutput{
			ID:                saleID,
			Code:              code,
			Date:              date,
			PaymentMethod:     in.PaymentMethod,
			TotalValue:        in.TotalValue,
			Discount:          *in.Discount,
			PaidValue:         in.PaidValue,
			BarterDescription: in.BarterDescription,
			CustomerName:      in.CustomerName,
			CustomerPhone:     in.CustomerPhone,
			Items:             outItems,
		}
		return nil
	})

	if err != nil {
		return SaleOutput{}, err
	}
	return out, nil
}

// 販売の照会（確定済みのみ）
func (u *SaleUsecase) GetSale(ctx context.Context, saleID int64) (SaleOutput, error) {
	if saleID <= 0 {
		return SaleOutput{}, NewHTTPError(400, "invalid id")
	}

	var out SaleOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		s, err := r.Sales().FindByID(ctx, saleID)
		if errors.Is(err, repo.ErrNotFound) {
			return &NotFoundError{Resource: "sale", Ref: itoa(saleID)}
		}
		if err != nil {
			return &StorageError{Err: err}
		}

		lines, err := r.Sales().ListLines(ctx, saleID)
		if err != nil {
			return &StorageError{Err: err}
		}

		items := make([]SaleLineOutput, 0, len(lines))
		for _, l := range lines {
			items = append(items, SaleLineOutput{
				ItemID:    l.ItemID,
				Name:      l.ItemNameSnapshot,
				UnitPrice: l.UnitPriceSnapshot,
				Quantity:  l.Quantity,
			})
		}

		out = SaleOutput{
			ID:                s.ID,
			Code:              s.Code,
			Date:              s.Date,
			PaymentMethod:     string(s.PaymentMethod),
			TotalValue:        s.TotalValue,
			Discount:          s.Discount,
			PaidValue:         s.PaidValue,
			BarterDescription: s.BarterDescription,
			CustomerName:      s.CustomerName,
			CustomerPhone:     s.CustomerPhone,
			ConditionalID:     s.ConditionalID,
			Items:             items,
		}
		return nil
	})

	if err != nil {
		return SaleOutput{}, err
	}
	return out, nil
}
