package usecase

import (
	"context"
	"errors"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/validator"
)

type WriteOffUsecase struct {
	tx    repo.TransactionManager
	clock Clock
	idGen IDGenerator
}

func NewWriteOffUsecase(tx repo.TransactionManager, clock Clock, idGen IDGenerator) *WriteOffUsecase {
	return &WriteOffUsecase{tx: tx, clock: clock, idGen: idGen}
}

type WriteOffOutput struct {
	ID                int64            `json:"id"`
	Code              string           `json:"codigo"`
	ItemID            int64            `json:"item_id"`
	Name              string           `json:"nome_item"`
	Quantity          int64            `json:"quantidade"`
	RemainingQuantity int64            `json:"quantidade_restante"`
	Status            model.ItemStatus `json:"status"`
	Date              time.Time        `json:"data"`
	Reason            string           `json:"motivo"`
}

// 除却の記録。在庫を恒久的に減らして理由を残す。取り消す操作は存在しない。
// 誤登録の訂正は仕入れ等の補償トランザクションで行う（履歴は追記のみ）。
func (u *WriteOffUsecase) CreateWriteOff(ctx context.Context, in validator.WriteOffRequest) (WriteOffOutput, error) {
	if vs := validator.ValidateWriteOff(&in); len(vs) > 0 {
		return WriteOffOutput{}, &ValidationError{Violations: vs}
	}

	ts := u.clock.Now()
	date := in.Date
	if date.IsZero() {
		date = ts
	}

	var out WriteOffOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		it, err := resolveItem(ctx, r, in.Item)
		if err != nil {
			return err
		}

		st, err := currentStatus(ctx, r, it.ID)
		if err != nil {
			return err
		}
		// 除却できるのはavailableかon_holdから
		if st != model.ItemStatusAvailable && st != model.ItemStatusOnHold {
			return &InvalidTransitionError{ItemID: it.ID, From: st, Event: "write_off"}
		}

		newQty, err := r.Items().AdjustQuantity(ctx, it.ID, -in.Quantity)
		if errors.Is(err, repo.ErrInsufficientStock) {
			return &InsufficientStockError{ItemID: it.ID, Requested: in.Quantity, Available: newQty}
		}
		if err != nil {
			return &StorageError{Err: err}
		}

		if err := applyTransition(ctx, r, it.ID, st, model.ItemStatusWrittenOff, ts); err != nil {
			return err
		}

		code := u.idGen.NewID()
		woID, err := r.WriteOffs().Create(ctx, model.WriteOff{
			Code:      code,
			ItemID:    it.ID,
			Quantity:  in.Quantity,
			Date:      date,
			Reason:    in.Reason,
			CreatedAt: ts,
		})
		if err != nil {
			return &StorageError{Err: err}
		}

		out = WriteOffOutput{
			ID:                woID,
			Code:              code,
			ItemID:            it.ID,
			Name:              it.Name,
			Quantity:          in.Quantity,
			RemainingQuantity: newQty,
			Status:            model.ItemStatusWrittenOff,
			Date:              date,
			Reason:            in.Reason,
		}
		return nil
	})

	if err != nil {
		return WriteOffOutput{}, err
	}
	return out, nil
}
