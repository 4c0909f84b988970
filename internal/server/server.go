package server

import (
	"net/http"

	"app/internal/config"
	"app/internal/repository"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

// New はechoインスタンスを組み立ててルートを登録する。
func New(cfg config.Config, userRepo repository.UserRepository, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	//フロントからのアクセスを許可
	if cfg.FEURL != "" {
		e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
			AllowOrigins:     []string{cfg.FEURL},
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
			AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization, "X-Guest-ID", "X-Idempotency-Key"},
			AllowCredentials: true,
		}))
	}

	registerRoutes(e, cfg, userRepo, h)

	return e
}

// Start はサーバーを起動する。
func Start(e *echo.Echo, port string) error {
	return e.Start(":" + port)
}
