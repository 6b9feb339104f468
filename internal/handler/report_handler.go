package handler

import (
	"net/http"
	"strconv"
	"time"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ReportHandler struct {
	uc *usecase.ReportUsecase
}

// DI
func NewReportHandler(uc *usecase.ReportUsecase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

func (h *ReportHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/reports/sales", h.salesSummary)
	e.GET("/reports/transactions", h.transactionCounts)
}

func (h *ReportHandler) salesSummary(c echo.Context) error {
	from, to, ok := parseRange(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid from/to"})
	}

	var minTotal *int64
	if v := c.QueryParam("min"); v != "" {
		x, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid min"})
		}
		minTotal = &x
	}
	var maxTotal *int64
	if v := c.QueryParam("max"); v != "" {
		x, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid max"})
		}
		maxTotal = &x
	}

	out, err := h.uc.SalesSummary(c.Request().Context(), usecase.SalesReportInput{
		From:          from,
		To:            to,
		PaymentMethod: c.QueryParam("forma_pgto"),
		MinTotal:      minTotal,
		MaxTotal:      maxTotal,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ReportHandler) transactionCounts(c echo.Context) error {
	from, to, ok := parseRange(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid from/to"})
	}

	out, err := h.uc.TransactionCounts(c.Request().Context(), from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

// from/toはRFC3339か日付のみ
func parseRange(c echo.Context) (time.Time, time.Time, bool) {
	from, ok := parseDate(c.QueryParam("from"))
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	to, ok := parseDate(c.QueryParam("to"))
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
