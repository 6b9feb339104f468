package handler

import (
	"net/http"
	"strconv"

	"app/internal/usecase"
	"app/internal/validator"

	"github.com/labstack/echo/v4"
)

type ConditionalHandler struct {
	uc *usecase.ConditionalUsecase
}

// DI
func NewConditionalHandler(uc *usecase.ConditionalUsecase) *ConditionalHandler {
	return &ConditionalHandler{uc: uc}
}

func (h *ConditionalHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/conditionals", h.open)
	e.POST("/conditionals/:id/close", h.close)
}

func (h *ConditionalHandler) open(c echo.Context) error {
	var req validator.ConditionalRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.OpenConditional(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *ConditionalHandler) close(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req validator.CloseConditionalRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.CloseConditional(c.Request().Context(), id, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
