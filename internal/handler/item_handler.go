package handler

import (
	"errors"
	"net/http"
	"strconv"

	repo "app/internal/repository"
	"app/internal/usecase"
	"app/internal/validator"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type ValidationErrorResponse struct {
	Error      string                `json:"error"`
	Violations []validator.Violation `json:"violacoes"`
}

type InsufficientStockResponse struct {
	Error     string `json:"error"`
	ItemID    int64  `json:"item_id"`
	Requested int64  `json:"quantidade_pedida"`
	Available int64  `json:"quantidade_disponivel"`
}

// 型付きエラーをHTTPへ写す。部分適用は無いので、どれも「全く適用されていない」を意味する
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}

	var ve *usecase.ValidationError
	if errors.As(err, &ve) {
		return c.JSON(http.StatusBadRequest, ValidationErrorResponse{
			Error:      "validation failed",
			Violations: ve.Violations,
		})
	}

	var nf *usecase.NotFoundError
	if errors.As(err, &nf) {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: nf.Error()})
	}

	var is *usecase.InsufficientStockError
	if errors.As(err, &is) {
		return c.JSON(http.StatusConflict, InsufficientStockResponse{
			Error:     "insufficient stock",
			ItemID:    is.ItemID,
			Requested: is.Requested,
			Available: is.Available,
		})
	}

	var tr *usecase.InvalidTransitionError
	if errors.As(err, &tr) {
		return c.JSON(http.StatusConflict, ErrorResponse{Error: tr.Error()})
	}

	if errors.Is(err, repo.ErrConflict) {
		// リトライ上限超過。呼び出し側がトランザクションごとやり直す
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "conflict, retry the transaction"})
	}

	var se *usecase.StorageError
	if errors.As(err, &se) {
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "storage unavailable"})
	}

	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

type ItemHandler struct {
	uc *usecase.ItemUsecase
}

// DI
func NewItemHandler(uc *usecase.ItemUsecase) *ItemHandler {
	return &ItemHandler{uc: uc}
}

func (h *ItemHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/items", h.create)
	e.GET("/items", h.list)
	e.GET("/items/:id", h.detail)
}

func (h *ItemHandler) create(c echo.Context) error {
	var req usecase.RegisterItemInput
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.RegisterItem(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *ItemHandler) list(c echo.Context) error {
	// page（default 1）
	page := 1
	if v := c.QueryParam("page"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid page"})
		}
		page = p
	}

	// limit（default 20）
	limit := 20
	if v := c.QueryParam("limit"); v != "" {
		l, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
		}
		limit = l
	}

	out, err := h.uc.ListItems(c.Request().Context(), usecase.ListItemsInput{
		Page:     page,
		Limit:    limit,
		Q:        c.QueryParam("q"),
		Category: c.QueryParam("categoria"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ItemHandler) detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.GetItem(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
