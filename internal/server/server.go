package server

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// ルート登録できるハンドラの約束
type RouteRegistrar interface {
	RegisterRoutes(e *echo.Echo)
}

func Start(addr string, handlers ...RouteRegistrar) error {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	for _, h := range handlers {
		h.RegisterRoutes(e)
	}

	return e.Start(addr)
}
