package usecase_test

import (
	"context"
	"testing"
	"time"

	"app/internal/domain/model"
	"app/internal/usecase"
	"app/internal/validator"

	"github.com/stretchr/testify/assert"
)

func newWriteOffUsecase(s *memStore) *usecase.WriteOffUsecase {
	clock := &fixedClock{t: time.Date(2026, 3, 10, 16, 0, 0, 0, time.UTC)}
	return usecase.NewWriteOffUsecase(&memTxManager{s: s}, clock, &seqIDGen{})
}

func TestCreateWriteOff_PartialStillTransitions(t *testing.T) {
	s := newMemStore()
	it := seedItem(s, "Camiseta Básica", 5, 1500)
	uc := newWriteOffUsecase(s)

	out, err := uc.CreateWriteOff(context.Background(), validator.WriteOffRequest{
		Item:     validator.ItemRef{ID: int64Ptr(it.ID)},
		Quantity: 2,
		Reason:   "danificado",
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(3), out.RemainingQuantity)
	assert.Equal(t, model.ItemStatusWrittenOff, out.Status)
	assert.Equal(t, "danificado", out.Reason)

	// 残数があっても除却はwritten_offへ遷移する
	assert.Equal(t, int64(3), storedItem(s, it.ID).Quantity)
	assert.Equal(t, model.ItemStatusWrittenOff, storedItem(s, it.ID).Status)

	hist := itemHistory(s, it.ID)
	if assert.Len(t, hist, 1) {
		assert.Equal(t, model.ItemStatusAvailable, hist[0].PriorStatus)
		assert.Equal(t, model.ItemStatusWrittenOff, hist[0].NewStatus)
	}

	if assert.Len(t, s.writeOffs, 1) {
		w := s.writeOffs[out.ID]
		assert.Equal(t, it.ID, w.ItemID)
		assert.Equal(t, int64(2), w.Quantity)
		assert.Equal(t, "danificado", w.Reason)
	}
}

func TestCreateWriteOff_AllowedFromOnHold(t *testing.T) {
	s := newMemStore()
	it := seedItem(s, "Blusa de Seda", 4, 8000)
	seedTransition(s, it.ID, model.ItemStatusAvailable, model.ItemStatusOnHold)
	uc := newWriteOffUsecase(s)

	out, err := uc.CreateWriteOff(context.Background(), validator.WriteOffRequest{
		Item:     validator.ItemRef{ID: int64Ptr(it.ID)},
		Quantity: 1,
		Reason:   "manchado durante a condicional",
	})

	assert.NoError(t, err)
	assert.Equal(t, model.ItemStatusWrittenOff, out.Status)

	hist := itemHistory(s, it.ID)
	if assert.Len(t, hist, 2) {
		assert.Equal(t, model.ItemStatusOnHold, hist[1].PriorStatus)
		assert.Equal(t, model.ItemStatusWrittenOff, hist[1].NewStatus)
	}
}

func TestCreateWriteOff_RejectedFromSold(t *testing.T) {
	s := newMemStore()
	it := seedItem(s, "Vestido Longo", 0, 12000)
	seedTransition(s, it.ID, model.ItemStatusAvailable, model.ItemStatusSold)
	uc := newWriteOffUsecase(s)

	_, err := uc.CreateWriteOff(context.Background(), validator.WriteOffRequest{
		Item:     validator.ItemRef{ID: int64Ptr(it.ID)},
		Quantity: 1,
		Reason:   "extraviado",
	})

	var ite *usecase.InvalidTransitionError
	if assert.ErrorAs(t, err, &ite) {
		assert.Equal(t, model.ItemStatusSold, ite.From)
	}
	assert.Empty(t, s.writeOffs)
}

func TestCreateWriteOff_IrreversibleBlocksLaterSale(t *testing.T) {
	s := newMemStore()
	it := seedItem(s, "Camiseta Básica", 5, 1500)
	woUC := newWriteOffUsecase(s)
	saleUC := newSaleUsecase(s)

	_, err := woUC.CreateWriteOff(context.Background(), validator.WriteOffRequest{
		Item:     validator.ItemRef{ID: int64Ptr(it.ID)},
		Quantity: 2,
		Reason:   "danificado",
	})
	assert.NoError(t, err)

	// 残数3でも除却済み商品は販売できない
	_, err = saleUC.CreateSale(context.Background(), saleReq(it.ID, 1))

	var ite *usecase.InvalidTransitionError
	if assert.ErrorAs(t, err, &ite) {
		assert.Equal(t, model.ItemStatusWrittenOff, ite.From)
	}
}

func TestCreateWriteOff_InsufficientStock(t *testing.T) {
	s := newMemStore()
	it := seedItem(s, "Camiseta Básica", 2, 1500)
	uc := newWriteOffUsecase(s)

	_, err := uc.CreateWriteOff(context.Background(), validator.WriteOffRequest{
		Item:     validator.ItemRef{ID: int64Ptr(it.ID)},
		Quantity: 3,
		Reason:   "danificado",
	})

	var ise *usecase.InsufficientStockError
	if assert.ErrorAs(t, err, &ise) {
		assert.Equal(t, int64(3), ise.Requested)
		assert.Equal(t, int64(2), ise.Available)
	}
	assert.Equal(t, int64(2), storedItem(s, it.ID).Quantity)
	assert.Equal(t, model.ItemStatusAvailable, storedItem(s, it.ID).Status)
	assert.Empty(t, s.history)
}

func TestCreateWriteOff_ReasonRequired(t *testing.T) {
	s := newMemStore()
	it := seedItem(s, "Camiseta Básica", 5, 1500)
	uc := newWriteOffUsecase(s)

	_, err := uc.CreateWriteOff(context.Background(), validator.WriteOffRequest{
		Item:     validator.ItemRef{ID: int64Ptr(it.ID)},
		Quantity: 1,
	})

	var ve *usecase.ValidationError
	if assert.ErrorAs(t, err, &ve) {
		assert.Equal(t, "motivo", ve.Violations[0].Field)
	}
	assert.Equal(t, int64(5), storedItem(s, it.ID).Quantity)
}
