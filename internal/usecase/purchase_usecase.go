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

type PurchaseUsecase struct {
	tx    repo.TransactionManager
	clock Clock
	idGen IDGenerator
}

func NewPurchaseUsecase(tx repo.TransactionManager, clock Clock, idGen IDGenerator) *PurchaseUsecase {
	return &PurchaseUsecase{tx: tx, clock: clock, idGen: idGen}
}

type PurchaseOutput struct {
	ID        int64  `json:"id"`
	Code      string `json:"codigo"`
	Finalized bool   `json:"finalizada"`
}

type FinalizedItemOutput struct {
	ItemID   int64            `json:"item_id"`
	Name     string           `json:"nome_item"`
	Quantity int64            `json:"quantidade"`
	Status   model.ItemStatus `json:"status"`
	Created  bool             `json:"criado"`
}

type FinalizePurchaseOutput struct {
	ID               int64                 `json:"id"`
	Code             string                `json:"codigo"`
	Finalized        bool                  `json:"finalizada"`
	AlreadyFinalized bool                  `json:"ja_finalizada"`
	Items            []FinalizedItemOutput `json:"itens"`
}

// 仕入れの登録。open状態で明細を保存するだけで、在庫はまだ動かさない
func (u *PurchaseUsecase) CreatePurchase(ctx context.Context, in validator.PurchaseRequest) (PurchaseOutput, error) {
	if vs := validator.ValidatePurchase(&in); len(vs) > 0 {
		return PurchaseOutput{}, &ValidationError{Violations: vs}
	}

	ts := u.clock.Now()
	date := in.Date
	if date.IsZero() {
		date = ts
	}

	var out PurchaseOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		lines := make([]model.PurchaseLine, 0, len(in.Lines))
		for _, lr := range in.Lines {
			// ID参照は登録時点で存在確認しておく（名前参照はfinalizeで作られうる）
			if lr.ItemRef.ID != nil {
				if _, err := resolveItem(ctx, r, lr.ItemRef); err != nil {
					return err
				}
			}
			lines = append(lines, model.PurchaseLine{
				ItemID:    lr.ItemRef.ID,
				ItemName:  lr.ItemRef.Name,
				Quantity:  lr.Quantity,
				UnitCost:  lr.UnitCost,
				CreatedAt: ts,
			})
		}

		code := u.idGen.NewID()
		purchaseID, err := r.Purchases().Create(ctx, model.Purchase{
			Code:          code,
			Date:          date,
			PaymentMethod: model.PaymentMethod(in.PaymentMethod),
			PaidValue:     in.PaidValue,
			SupplierName:  in.SupplierName,
			SupplierPhone: in.SupplierPhone,
			CreatedAt:     ts,
			UpdatedAt:     ts,
		})
		if err != nil {
			return &StorageError{Err: err}
		}

		if err := r.Purchases().CreateLines(ctx, purchaseID, lines); err != nil {
			return &StorageError{Err: err}
		}

		out = PurchaseOutput{ID: purchaseID, Code: code}
		return nil
	})

	if err != nil {
		return PurchaseOutput{}, err
	}
	return out, nil
}

// 仕入れの確定。全明細の在庫加算とステータス反映を1つの原子単位で行う。
// 名前参照で商品が無ければここで作る（数量0で作ってから加算）。
// 確定済みに対する再実行はno-op（在庫を二重適用しない）。
func (u *PurchaseUsecase) FinalizePurchase(ctx context.Context, purchaseID int64) (FinalizePurchaseOutput, error) {
	if purchaseID <= 0 {
		return FinalizePurchaseOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	ts := u.clock.Now()

	var out FinalizePurchaseOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Purchases().FindByID(ctx, purchaseID)
		if errors.Is(err, repo.ErrNotFound) {
			return &NotFoundError{Resource: "purchase", Ref: itoa(purchaseID)}
		}
		if err != nil {
			return &StorageError{Err: err}
		}

		if p.Finalized {
			// 冪等: 既に確定済みなら何も適用しない
			out = FinalizePurchaseOutput{
				ID:               p.ID,
				Code:             p.Code,
				Finalized:        true,
				AlreadyFinalized: true,
			}
			return nil
		}

		lines, err := r.Purchases().ListLines(ctx, purchaseID)
		if err != nil {
			return &StorageError{Err: err}
		}

		items := make([]FinalizedItemOutput, 0, len(lines))
		for _, line := range lines {
			it, created, err := u.resolveOrCreateItem(ctx, r, line, ts)
			if err != nil {
				return err
			}

			st, err := currentStatus(ctx, r, it.ID)
			if err != nil {
				return err
			}
			// 除却済みには再入荷できない（除却は取り消し不可）
			if st == model.ItemStatusWrittenOff {
				return &InvalidTransitionError{ItemID: it.ID, From: st, Event: "purchase_finalize"}
			}

			newQty, err := r.Items().AdjustQuantity(ctx, it.ID, line.Quantity)
			if err != nil {
				return &StorageError{Err: err}
			}

			// 完売していた商品は再入荷でavailableに戻す
			status := st
			if st == model.ItemStatusSold {
				if err := applyTransition(ctx, r, it.ID, st, model.ItemStatusAvailable, ts); err != nil {
					return err
				}
				status = model.ItemStatusAvailable
			}

			items = append(items, FinalizedItemOutput{
				ItemID:   it.ID,
				Name:     it.Name,
				Quantity: newQty,
				Status:   status,
				Created:  created,
			})
		}

		if err := r.Purchases().MarkFinalized(ctx, purchaseID); err != nil {
			return &StorageError{Err: err}
		}

		out = FinalizePurchaseOutput{
			ID:        p.ID,
			Code:      p.Code,
			Finalized: true,
			Items:     items,
		}
		return nil
	})

	if err != nil {
		return FinalizePurchaseOutput{}, err
	}
	return out, nil
}

// 明細の商品参照を解決し、名前参照で不在なら新規作成する。
// 新規作成は数量0で行い、履歴に（なし→available）を1件残す。
func (u *PurchaseUsecase) resolveOrCreateItem(ctx context.Context, r repo.TxRepos, line model.PurchaseLine, ts time.Time) (model.Item, bool, error) {
	if line.ItemID != nil {
		it, err := r.Items().FindByID(ctx, *line.ItemID)
		if errors.Is(err, repo.ErrNotFound) {
			return model.Item{}, false, &NotFoundError{Resource: "item", Ref: itoa(*line.ItemID)}
		}
		if err != nil {
			return model.Item{}, false, &StorageError{Err: err}
		}
		return it, false, nil
	}

	it, err := r.Items().FindByName(ctx, line.ItemName)
	if err == nil {
		if serr := r.Purchases().SetLineItem(ctx, line.ID, it.ID); serr != nil {
			return model.Item{}, false, &StorageError{Err: serr}
		}
		return it, false, nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return model.Item{}, false, &StorageError{Err: err}
	}

	created, err := r.Items().Create(ctx, model.Item{
		Name:      line.ItemName,
		Price:     line.UnitCost,
		Quantity:  0,
		Status:    model.ItemStatusAvailable,
		CreatedAt: ts,
		UpdatedAt: ts,
	})
	if err != nil {
		return model.Item{}, false, &StorageError{Err: err}
	}

	if err := applyTransition(ctx, r, created.ID, "", model.ItemStatusAvailable, ts); err != nil {
		return model.Item{}, false, err
	}
	if err := r.Purchases().SetLineItem(ctx, line.ID, created.ID); err != nil {
		return model.Item{}, false, &StorageError{Err: err}
	}

	return created, true, nil
}
