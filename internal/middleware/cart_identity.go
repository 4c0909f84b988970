package middleware

import (
	"net/http"

	"app/internal/config"
	"app/internal/identity"

	"github.com/labstack/echo/v4"
)

const (
	// カート所有者キー（"user:<id>" または "guest:<uuid>"）
	CtxCartOwnerKey = "cart_owner_key"

	// 未ログイン時にフロントが付けるゲストIDヘッダ
	GuestIDHeader = "X-Guest-ID"
)

// CartIdentity はカート系エンドポイントの所有者を決める。
// Bearerトークンがあればログインユーザー、なければX-Guest-IDのゲスト。
// どちらも無い・不正なら400。
func CartIdentity(cfg config.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, role, tv, err := authenticateBearer(c, cfg)
			if err == nil {
				//ログインユーザーのカート
				c.Set(CtxUserIDKey, userID)
				c.Set(CtxUserRoleKey, role)
				c.Set(CtxTokenVersionKey, tv)
				c.Set(CtxCartOwnerKey, identity.UserOwnerKey(userID))
				return next(c)
			}

			//トークンが付いているのに壊れている場合は401
			if err != errNoBearer {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//ゲストのカート
			raw := c.Request().Header.Get(GuestIDHeader)
			ownerKey, err := identity.ParseGuestOwnerKey(raw)
			if err != nil {
				return c.JSON(http.StatusBadRequest, errorJSON("missing or invalid guest id"))
			}

			c.Set(CtxCartOwnerKey, ownerKey)
			return next(c)
		}
	}
}
