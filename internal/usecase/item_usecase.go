package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type ItemUsecase struct {
	tx    repo.TransactionManager
	clock Clock
}

func NewItemUsecase(tx repo.TransactionManager, clock Clock) *ItemUsecase {
	return &ItemUsecase{tx: tx, clock: clock}
}

type RegisterItemInput struct {
	Name        string `json:"nome"`
	Description string `json:"descricao"`
	Category    string `json:"categoria"`
	Size        string `json:"tamanho"`
	Color       string `json:"cor"`
	Price       int64  `json:"preco"`
	Quantity    int64  `json:"quantidade"`
	AgentID     int64  `json:"agente_id"`
}

type ItemOutput struct {
	ID          int64            `json:"id"`
	Name        string           `json:"nome"`
	Description string           `json:"descricao,omitempty"`
	Category    string           `json:"categoria,omitempty"`
	Size        string           `json:"tamanho,omitempty"`
	Color       string           `json:"cor,omitempty"`
	Price       int64            `json:"preco"`
	Quantity    int64            `json:"quantidade"`
	AgentID     int64            `json:"agente_id,omitempty"`
	Status      model.ItemStatus `json:"status"`
}

type ItemDetailOutput struct {
	ItemOutput
	History []model.StatusHistoryEntry `json:"historico"`
}

// 商品の直接登録。availableで作り、履歴に（なし→available）を残す
func (u *ItemUsecase) RegisterItem(ctx context.Context, in RegisterItemInput) (ItemOutput, error) {
	if strings.TrimSpace(in.Name) == "" {
		return ItemOutput{}, NewHTTPError(http.StatusBadRequest, "nome required")
	}
	if in.Price < 0 {
		return ItemOutput{}, NewHTTPError(http.StatusBadRequest, "preco must be >= 0")
	}
	if in.Quantity < 0 {
		return ItemOutput{}, NewHTTPError(http.StatusBadRequest, "quantidade must be >= 0")
	}

	ts := u.clock.Now()

	var out ItemOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		it, err := r.Items().Create(ctx, model.Item{
			Name:        strings.TrimSpace(in.Name),
			Description: in.Description,
			Category:    in.Category,
			Size:        in.Size,
			Color:       in.Color,
			Price:       in.Price,
			Quantity:    in.Quantity,
			AgentID:     in.AgentID,
			Status:      model.ItemStatusAvailable,
			CreatedAt:   ts,
			UpdatedAt:   ts,
		})
		if err != nil {
			return &StorageError{Err: err}
		}

		if err := applyTransition(ctx, r, it.ID, "", model.ItemStatusAvailable, ts); err != nil {
			return err
		}

		out = toItemOutput(it, model.ItemStatusAvailable)
		return nil
	})

	if err != nil {
		return ItemOutput{}, err
	}
	return out, nil
}

// 現在の数量とステータス（履歴から導出）＋履歴そのもの
func (u *ItemUsecase) GetItem(ctx context.Context, itemID int64) (ItemDetailOutput, error) {
	if itemID <= 0 {
		return ItemDetailOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out ItemDetailOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		it, err := r.Items().FindByID(ctx, itemID)
		if errors.Is(err, repo.ErrNotFound) {
			return &NotFoundError{Resource: "item", Ref: itoa(itemID)}
		}
		if err != nil {
			return &StorageError{Err: err}
		}

		st, err := currentStatus(ctx, r, itemID)
		if err != nil {
			return err
		}

		history, err := r.History().ListByItemID(ctx, itemID)
		if err != nil {
			return &StorageError{Err: err}
		}

		out = ItemDetailOutput{
			ItemOutput: toItemOutput(it, st),
			History:    history,
		}
		return nil
	})

	if err != nil {
		return ItemDetailOutput{}, err
	}
	return out, nil
}

type ListItemsInput struct {
	Page     int
	Limit    int
	Q        string
	Category string
}

type ItemListOutput struct {
	Items []ItemOutput `json:"itens"`
	Total int64        `json:"total"`
	Page  int          `json:"page"`
	Limit int          `json:"limit"`
}

func (u *ItemUsecase) ListItems(ctx context.Context, in ListItemsInput) (ItemListOutput, error) {
	if in.Page < 1 {
		return ItemListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if in.Limit < 1 || in.Limit > 100 {
		return ItemListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if len(in.Q) > 100 {
		return ItemListOutput{}, NewHTTPError(http.StatusBadRequest, "q too long")
	}

	var out ItemListOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		items, total, err := r.Items().List(ctx, repo.ItemListQuery{
			Page:     in.Page,
			Limit:    in.Limit,
			Q:        strings.TrimSpace(in.Q),
			Category: in.Category,
		})
		if err != nil {
			return &StorageError{Err: err}
		}

		outs := make([]ItemOutput, 0, len(items))
		for _, it := range items {
			outs = append(outs, toItemOutput(it, it.Status))
		}

		out = ItemListOutput{Items: outs, Total: total, Page: in.Page, Limit: in.Limit}
		return nil
	})

	if err != nil {
		return ItemListOutput{}, err
	}
	return out, nil
}

func toItemOutput(it model.Item, st model.ItemStatus) ItemOutput {
	return ItemOutput{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Category:    it.Category,
		Size:        it.Size,
		Color:       it.Color,
		Price:       it.Price,
		Quantity:    it.Quantity,
		AgentID:     it.AgentID,
		Status:      st,
	}
}
