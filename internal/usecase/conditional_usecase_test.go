package usecase_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"app/internal/domain/model"
	"app/internal/usecase"
	"app/internal/validator"

	"github.com/stretchr/testify/assert"
)

func newConditionalUsecase(s *memStore) *usecase.ConditionalUsecase {
	clock := &fixedClock{t: time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC)}
	return usecase.NewConditionalUsecase(&memTxManager{s: s}, clock, &seqIDGen{})
}

func conditionalReq(itemID int64, qty int64) validator.ConditionalRequest {
	return validator.ConditionalRequest{
		CustomerName:  "Maria Souza",
		CustomerPhone: "(47) 99123-4567",
		LoanDate:      time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		DueDate:       time.Date(2026, 3, 17, 0, 0, 0, 0, time.UTC),
		Lines: []validator.ConditionalLineRequest{
			{ItemRef: validator.ItemRef{ID: int64Ptr(itemID)}, Quantity: qty},
		},
	}
}

func TestOpenConditional_ReservesStock(t *testing.T) {
	s := newMemStore()
	it := seedItem(s, "Vestido Longo", 10, 12000)
	uc := newConditionalUsecase(s)

	out, err := uc.OpenConditional(context.Background(), conditionalReq(it.ID, 2))

	assert.NoError(t, err)
	assert.False(t, out.Returned)
	assert.False(t, out.Converted)
	if assert.Len(t, out.Items, 1) {
		assert.Equal(t, int64(8), out.Items[0].RemainingQuantity)
		assert.Equal(t, model.ItemStatusOnHold, out.Items[0].Status)
	}
	assert.Equal(t, int64(8), storedItem(s, it.ID).Quantity)
	assert.Equal(t, model.ItemStatusOnHold, storedItem(s, it.ID).Status)

	hist := itemHistory(s, it.ID)
	if assert.Len(t, hist, 1) {
		assert.Equal(t, model.ItemStatusAvailable, hist[0].PriorStatus)
		assert.Equal(t, model.ItemStatusOnHold, hist[0].NewStatus)
	}
}

func TestOpenConditional_InsufficientStock(t *testing.T) {
	s := newMemStore()
	it := seedItem(s, "Vestido Longo", 10, 12000)
	uc := newConditionalUsecase(s)

	_, err := uc.OpenConditional(context.Background(), conditionalReq(it.ID, 11))

	var ise *usecase.InsufficientStockError
	if assert.ErrorAs(t, err, &ise) {
		assert.Equal(t, int64(11), ise.Requested)
		assert.Equal(t, int64(10), ise.Available)
	}
	assert.Equal(t, int64(10), storedItem(s, it.ID).Quantity)
	assert.Empty(t, s.conditionals)
}

func TestOpenConditional_RejectedWhileOnHold(t *testing.T) {
	s := newMemStore()
	it := seedItem(s, "Vestido Longo", 10, 12000)
	uc := newConditionalUsecase(s)

	_, err := uc.OpenConditional(context.Background(), conditionalReq(it.ID, 2))
	assert.NoError(t, err)

	_, err = uc.OpenConditional(context.Background(), conditionalReq(it.ID, 1))

	var ite *usecase.InvalidTransitionError
	if assert.ErrorAs(t, err, &ite) {
		assert.Equal(t, model.ItemStatusOnHold, ite.From)
	}
	assert.Equal(t, int64(8), storedItem(s, it.ID).Quantity)
}

func TestOpenConditional_DoesNotCreateItems(t *testing.T) {
	s := newMemStore()
	uc := newConditionalUsecase(s)

	req := conditionalReq(1, 1)
	req.Lines[0].ItemRef = validator.ItemRef{Name: "Peça Inexistente"}

	_, err := uc.OpenConditional(context.Background(), req)

	var nfe *usecase.NotFoundError
	assert.ErrorAs(t, err, &nfe)
	assert.Empty(t, s.items)
}

func TestCloseConditional_ReturnRestoresStock(t *testing.T) {
	s := newMemStore()
	it := seedItem(s, "Vestido Longo", 10, 12000)
	uc := newConditionalUsecase(s)

	opened, err := uc.OpenConditional(context.Background(), conditionalReq(it.ID, 2))
	assert.NoError(t, err)

	out, err := uc.CloseConditional(context.Background(), opened.ID,
		validator.CloseConditionalRequest{Returned: true})

	assert.NoError(t, err)
	assert.True(t, out.Returned)
	assert.False(t, out.Converted)
	assert.Equal(t, int64(10), storedItem(s, it.ID).Quantity)
	assert.Equal(t, model.ItemStatusAvailable, storedItem(s, it.ID).Status)

	hist := itemHistory(s, it.ID)
	if assert.Len(t, hist, 2) {
		assert.Equal(t, model.ItemStatusOnHold, hist[1].PriorStatus)
		assert.Equal(t, model.ItemStatusAvailable, hist[1].NewStatus)
	}
	assert.True(t, s.conditionals[opened.ID].Returned)
}

func TestCloseConditional_ConversionCreatesSale(t *testing.T) {
	s := newMemStore()
	it := seedItem(s, "Vestido Longo", 10, 12000)
	uc := newConditionalUsecase(s)

	opened, err := uc.OpenConditional(context.Background(), conditionalReq(it.ID, 2))
	assert.NoError(t, err)

	out, err := uc.CloseConditional(context.Background(), opened.ID, validator.CloseConditionalRequest{
		Returned:      false,
		PaymentMethod: "Cartão de Crédito",
		TotalValue:    24000,
		PaidValue:     24000,
	})

	assert.NoError(t, err)
	assert.True(t, out.Converted)
	assert.NotNil(t, out.SaleID)

	// 在庫は貸出時に引いてあるので動かない
	assert.Equal(t, int64(8), storedItem(s, it.ID).Quantity)
	assert.Equal(t, model.ItemStatusSold, storedItem(s, it.ID).Status)

	cond := s.conditionals[opened.ID]
	assert.True(t, cond.Converted)
	assert.False(t, cond.Returned)
	if assert.NotNil(t, cond.SaleID) {
		sale := s.sales[*cond.SaleID]
		// 販売が貸出を逆参照し、顧客は貸出から引き継がれる
		if assert.NotNil(t, sale.ConditionalID) {
			assert.Equal(t, opened.ID, *sale.ConditionalID)
		}
		assert.Equal(t, "Maria Souza", sale.CustomerName)
		assert.Equal(t, int64(24000), sale.TotalValue)
	}

	// 貸出明細は転換後も残る
	assert.Len(t, s.condLines, 1)
	assert.Len(t, s.saleLines, 1)
}

func TestCloseConditional_SecondCloseConflicts(t *testing.T) {
	s := newMemStore()
	it := seedItem(s, "Vestido Longo", 10, 12000)
	uc := newConditionalUsecase(s)

	opened, err := uc.OpenConditional(context.Background(), conditionalReq(it.ID, 2))
	assert.NoError(t, err)

	_, err = uc.CloseConditional(context.Background(), opened.ID,
		validator.CloseConditionalRequest{Returned: true})
	assert.NoError(t, err)

	_, err = uc.CloseConditional(context.Background(), opened.ID,
		validator.CloseConditionalRequest{Returned: true})

	he, ok := usecase.AsHTTPError(err)
	if assert.True(t, ok) {
		assert.Equal(t, http.StatusConflict, he.Status)
	}
	// 二重返却で在庫が膨らまない
	assert.Equal(t, int64(10), storedItem(s, it.ID).Quantity)
}

func TestCloseConditional_ConversionPaymentValidated(t *testing.T) {
	s := newMemStore()
	it := seedItem(s, "Vestido Longo", 10, 12000)
	uc := newConditionalUsecase(s)

	opened, err := uc.OpenConditional(context.Background(), conditionalReq(it.ID, 2))
	assert.NoError(t, err)

	_, err = uc.CloseConditional(context.Background(), opened.ID, validator.CloseConditionalRequest{
		Returned:      false,
		PaymentMethod: "Pix",
		TotalValue:    1000,
		PaidValue:     2000,
	})

	var ve *usecase.ValidationError
	assert.ErrorAs(t, err, &ve)
	assert.False(t, s.conditionals[opened.ID].Converted)
}

func TestCloseConditional_NotFound(t *testing.T) {
	s := newMemStore()
	uc := newConditionalUsecase(s)

	_, err := uc.CloseConditional(context.Background(), 9,
		validator.CloseConditionalRequest{Returned: true})

	var nfe *usecase.NotFoundError
	assert.ErrorAs(t, err, &nfe)
}
