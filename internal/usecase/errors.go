package usecase

import (
	"errors"
	"fmt"

	"app/internal/domain/model"
	"app/internal/validator"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// フィールド単位の違反リスト。変異前に弾く
type ValidationError struct {
	Violations []validator.Violation
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %d violation(s)", len(e.Violations))
}

// 参照先（商品・取引）が存在しない
type NotFoundError struct {
	Resource string
	Ref      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Ref)
}

// 在庫不足。どの商品で、いくつ要求していくつあったかを持つ
type InsufficientStockError struct {
	ItemID    int64
	Requested int64
	Available int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for item %d: requested %d, available %d",
		e.ItemID, e.Requested, e.Available)
}

// 現在のステータスから許可されない遷移
type InvalidTransitionError struct {
	ItemID int64
	From   model.ItemStatus
	Event  string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition for item %d: %s not allowed from %q",
		e.ItemID, e.Event, e.From)
}

// インフラ障害。リクエストは失敗させ、コア側では再試行しない
type StorageError struct {
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage unavailable: %v", e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
