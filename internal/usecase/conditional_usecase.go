package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/validator"
)

type ConditionalUsecase struct {
	tx    repo.TransactionManager
	clock Clock
	idGen IDGenerator
}

func NewConditionalUsecase(tx repo.TransactionManager, clock Clock, idGen IDGenerator) *ConditionalUsecase {
	return &ConditionalUsecase{tx: tx, clock: clock, idGen: idGen}
}

type ConditionalLineOutput struct {
	ItemID            int64            `json:"item_id"`
	Name              string           `json:"nome_item"`
	Quantity          int64            `json:"quantidade"`
	RemainingQuantity int64            `json:"quantidade_restante"`
	Status            model.ItemStatus `json:"status"`
}

type ConditionalOutput struct {
	ID            int64                   `json:"id"`
	Code          string                  `json:"codigo"`
	CustomerName  string                  `json:"nome_cliente"`
	CustomerPhone string                  `json:"telefone_cliente,omitempty"`
	LoanDate      time.Time               `json:"data_saida"`
	DueDate       time.Time               `json:"data_retorno"`
	Returned      bool                    `json:"devolvido"`
	Converted     bool                    `json:"convertida"`
	SaleID        *int64                  `json:"venda_id,omitempty"`
	Items         []ConditionalLineOutput `json:"itens"`
}

// 条件付き貸出の開始。対象数量を在庫から確保してon_holdへ
func (u *ConditionalUsecase) OpenConditional(ctx context.Context, in validator.ConditionalRequest) (ConditionalOutput, error) {
	if vs := validator.ValidateConditional(&in); len(vs) > 0 {
		return ConditionalOutput{}, &ValidationError{Violations: vs}
	}

	ts := u.clock.Now()

	var out ConditionalOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		lines := make([]model.ConditionalLine, 0, len(in.Lines))
		outItems := make([]ConditionalLineOutput, 0, len(in.Lines))

		for _, lr := range in.Lines {
			// 貸出は既存商品のみ（新規在庫を作らない）
			it, err := resolveItem(ctx, r, lr.ItemRef)
			if err != nil {
				return err
			}

			st, err := currentStatus(ctx, r, it.ID)
			if err != nil {
				return err
			}
			if st != model.ItemStatusAvailable {
				return &InvalidTransitionError{ItemID: it.ID, From: st, Event: "conditional_open"}
			}

			// 確保分を在庫から引く（売れたわけではない）
			newQty, err := r.Items().AdjustQuantity(ctx, it.ID, -lr.Quantity)
			if errors.Is(err, repo.ErrInsufficientStock) {
				return &InsufficientStockError{ItemID: it.ID, Requested: lr.Quantity, Available: newQty}
			}
			if err != nil {
				return &StorageError{Err: err}
			}

			if err := applyTransition(ctx, r, it.ID, st, model.ItemStatusOnHold, ts); err != nil {
				return err
			}

			lines = append(lines, model.ConditionalLine{
				ItemID:    it.ID,
				Quantity:  lr.Quantity,
				CreatedAt: ts,
			})
			outItems = append(outItems, ConditionalLineOutput{
				ItemID:            it.ID,
				Name:              it.Name,
				Quantity:          lr.Quantity,
				RemainingQuantity: newQty,
				Status:            model.ItemStatusOnHold,
			})
		}

		code := u.idGen.NewID()
		condID, err := r.Conditionals().Create(ctx, model.Conditional{
			Code:          code,
			CustomerName:  in.CustomerName,
			CustomerPhone: in.CustomerPhone,
			LoanDate:      in.LoanDate,
			DueDate:       in.DueDate,
			CreatedAt:     ts,
			UpdatedAt:     ts,
		})
		if err != nil {
			return &StorageError{Err: err}
		}

		if err := r.Conditionals().CreateLines(ctx, condID, lines); err != nil {
			return &StorageError{Err: err}
		}

		out = ConditionalOutput{
			ID:            condID,
			Code:          code,
			CustomerName:  in.CustomerName,
			CustomerPhone: in.CustomerPhone,
			LoanDate:      in.LoanDate,
			DueDate:       in.DueDate,
			Items:         outItems,
		}
		return nil
	})

	if err != nil {
		return ConditionalOutput{}, err
	}
	return out, nil
}

// 貸出のクローズ。
// devolvido=true : 確保分を在庫に戻してavailableへ。
// devolvido=false: 販売へ転換。在庫は貸出時に引いてあるので動かさず、
// 貸出行は残したまま転換フラグと販売への逆参照だけを書く。
func (u *ConditionalUsecase) CloseConditional(ctx context.Context, conditionalID int64, in validator.CloseConditionalRequest) (ConditionalOutput, error) {
	if conditionalID <= 0 {
		return ConditionalOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if vs := validator.ValidateCloseConditional(&in); len(vs) > 0 {
		return ConditionalOutput{}, &ValidationError{Violations: vs}
	}

	ts := u.clock.Now()

	var out ConditionalOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		c, err := r.Conditionals().FindByID(ctx, conditionalID)
		if errors.Is(err, repo.ErrNotFound) {
			return &NotFoundError{Resource: "conditional", Ref: itoa(conditionalID)}
		}
		if err != nil {
			return &StorageError{Err: err}
		}
		if c.Returned || c.Converted {
			return NewHTTPError(http.StatusConflict, "conditional already closed")
		}

		lines, err := r.Conditionals().ListLines(ctx, conditionalID)
		if err != nil {
			return &StorageError{Err: err}
		}

		if in.Returned {
			outItems, err := u.returnLines(ctx, r, lines, ts)
			if err != nil {
				return err
			}
			if err := r.Conditionals().MarkReturned(ctx, conditionalID); err != nil {
				return &StorageError{Err: err}
			}
			out = toConditionalOutput(c, outItems)
			out.Returned = true
			return nil
		}

		saleID, outItems, err := u.convertLines(ctx, r, c, lines, in, ts)
		if err != nil {
			return err
		}
		if err := r.Conditionals().MarkConverted(ctx, conditionalID, saleID); err != nil {
			return &StorageError{Err: err}
		}
		out = toConditionalOutput(c, outItems)
		out.Converted = true
		out.SaleID = &saleID
		return nil
	})

	if err != nil {
		return ConditionalOutput{}, err
	}
	return out, nil
}

// 返却: 各明細の確保分を戻してon_hold→available
func (u *ConditionalUsecase) returnLines(ctx context.Context, r repo.TxRepos, lines []model.ConditionalLine, ts time.Time) ([]ConditionalLineOutput, error) {
	outItems := make([]ConditionalLineOutput, 0, len(lines))

	for _, line := range lines {
		it, err := r.Items().FindByID(ctx, line.ItemID)
		if errors.Is(err, repo.ErrNotFound) {
			return nil, &NotFoundError{Resource: "item", Ref: itoa(line.ItemID)}
		}
		if err != nil {
			return nil, &StorageError{Err: err}
		}

		st, err := currentStatus(ctx, r, it.ID)
		if err != nil {
			return nil, err
		}
		if st != model.ItemStatusOnHold {
			return nil, &InvalidTransitionError{ItemID: it.ID, From: st, Event: "conditional_return"}
		}

		newQty, err := r.Items().AdjustQuantity(ctx, it.ID, line.Quantity)
		if err != nil {
			return nil, &StorageError{Err: err}
		}

		if err := applyTransition(ctx, r, it.ID, st, model.ItemStatusAvailable, ts); err != nil {
			return nil, err
		}

		outItems = append(outItems, ConditionalLineOutput{
			ItemID:            it.ID,
			Name:              it.Name,
			Quantity:          line.Quantity,
			RemainingQuantity: newQty,
			Status:            model.ItemStatusAvailable,
		})
	}

	return outItems, nil
}

// 転換: 在庫は動かさずon_hold→sold、貸出の明細から販売を起こす
func (u *ConditionalUsecase) convertLines(ctx context.Context, r repo.TxRepos, c model.Conditional, lines []model.ConditionalLine, in validator.CloseConditionalRequest, ts time.Time) (int64, []ConditionalLineOutput, error) {
	saleLines := make([]model.SaleLine, 0, len(lines))
	outItems := make([]ConditionalLineOutput, 0, len(lines))

	for _, line := range lines {
		it, err := r.Items().FindByID(ctx, line.ItemID)
		if errors.Is(err, repo.ErrNotFound) {
			return 0, nil, &NotFoundError{Resource: "item", Ref: itoa(line.ItemID)}
		}
		if err != nil {
			return 0, nil, &StorageError{Err: err}
		}

		st, err := currentStatus(ctx, r, it.ID)
		if err != nil {
			return 0, nil, err
		}
		if st != model.ItemStatusOnHold {
			return 0, nil, &InvalidTransitionError{ItemID: it.ID, From: st, Event: "conditional_convert"}
		}

		if err := applyTransition(ctx, r, it.ID, st, model.ItemStatusSold, ts); err != nil {
			return 0, nil, err
		}

		saleLines = append(saleLines, model.SaleLine{
			ItemID:            it.ID,
			ItemNameSnapshot:  it.Name,
			UnitPriceSnapshot: it.Price,
			Quantity:          line.Quantity,
			CreatedAt:         ts,
		})
		outItems = append(outItems, ConditionalLineOutput{
			ItemID:   it.ID,
			Name:     it.Name,
			Quantity: line.Quantity,
			Status:   model.ItemStatusSold,
		})
	}

	saleID, err := r.Sales().Create(ctx, model.Sale{
		Code:              u.idGen.NewID(),
		Date:              ts,
		PaymentMethod:     model.PaymentMethod(in.PaymentMethod),
		TotalValue:        in.TotalValue,
		Discount:          *in.Discount,
		PaidValue:         in.PaidValue,
		BarterDescription: in.BarterDescription,
		CustomerName:      c.CustomerName,
		CustomerPhone:     c.CustomerPhone,
		ConditionalID:     &c.ID,
		CreatedAt:         ts,
		UpdatedAt:         ts,
	})
	if err != nil {
		return 0, nil, &StorageError{Err: err}
	}

	if err := r.Sales().CreateLines(ctx, saleID, saleLines); err != nil {
		return 0, nil, &StorageError{Err: err}
	}

	return saleID, outItems, nil
}

func toConditionalOutput(c model.Conditional, items []ConditionalLineOutput) ConditionalOutput {
	return ConditionalOutput{
		ID:            c.ID,
		Code:          c.Code,
		CustomerName:  c.CustomerName,
		CustomerPhone: c.CustomerPhone,
		LoanDate:      c.LoanDate,
		DueDate:       c.DueDate,
		Returned:      c.Returned,
		Converted:     c.Converted,
		SaleID:        c.SaleID,
		Items:         items,
	}
}
