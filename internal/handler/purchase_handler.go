package handler

import (
	"net/http"
	"strconv"

	"app/internal/usecase"
	"app/internal/validator"

	"github.com/labstack/echo/v4"
)

type PurchaseHandler struct {
	uc *usecase.PurchaseUsecase
}

// DI
func NewPurchaseHandler(uc *usecase.PurchaseUsecase) *PurchaseHandler {
	return &PurchaseHandler{uc: uc}
}

func (h *PurchaseHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/purchases", h.create)
	e.POST("/purchases/:id/finalize", h.finalize)
}

func (h *PurchaseHandler) create(c echo.Context) error {
	var req validator.PurchaseRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.CreatePurchase(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

// 確定は冪等。二重POSTしても在庫が二重に増えることはない
func (h *PurchaseHandler) finalize(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.FinalizePurchase(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
