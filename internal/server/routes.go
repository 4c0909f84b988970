package server

import (
	"app/internal/config"
	"app/internal/handler"
	"app/internal/repository"

	"github.com/labstack/echo/v4"
)

// Handlers は全ハンドラをまとめてDIする入れ物。
type Handlers struct {
	Auth         *handler.AuthHandler
	Product      *handler.ProductHandler
	Cart         *handler.CartHandler
	Checkout     *handler.CheckoutHandler
	Order        *handler.OrderHandler
	Profile      *handler.ProfileHandler
	AdminProduct *handler.AdminProductHandler
	AdminOrder   *handler.AdminOrderHandler
	AdminUser    *handler.AdminUserHandler
	AdminAudit   *handler.AdminAuditHandler
}

func registerRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository, h Handlers) {
	h.Auth.RegisterRoutes(e)
	h.Product.RegisterRoutes(e)
	h.Cart.RegisterRoutes(e, cfg)
	h.Checkout.RegisterRoutes(e, cfg, userRepo)
	h.Order.RegisterRoutes(e, cfg, userRepo)
	h.Profile.RegisterRoutes(e, cfg, userRepo)
	h.AdminProduct.RegisterRoutes(e, cfg, userRepo)
	h.AdminOrder.RegisterRoutes(e, cfg, userRepo)
	h.AdminUser.RegisterRoutes(e, cfg, userRepo)
	h.AdminAudit.RegisterRoutes(e, cfg, userRepo)
}
