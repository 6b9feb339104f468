package handler

import (
	"net/http"

	"app/internal/usecase"
	"app/internal/validator"

	"github.com/labstack/echo/v4"
)

type WriteOffHandler struct {
	uc *usecase.WriteOffUsecase
}

// DI
func NewWriteOffHandler(uc *usecase.WriteOffUsecase) *WriteOffHandler {
	return &WriteOffHandler{uc: uc}
}

func (h *WriteOffHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/write-offs", h.create)
}

func (h *WriteOffHandler) create(c echo.Context) error {
	var req validator.WriteOffRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.uc.CreateWriteOff(c.Request().Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}
