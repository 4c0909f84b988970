package usecase

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"app/internal/cart"
	repo "app/internal/repository"

	"github.com/labstack/gommon/log"
)

// CartUsecase は /cart の業務ロジック。
// カートの遷移はcartエンジンに任せ、ここでは商品スナップショットの取り込みと
// owner keyごとのエンジン組み立てだけを行う（1リクエスト＝1エンジン）。
type CartUsecase struct {
	store       cart.SnapshotStore
	notifier    cart.Notifier
	productRepo repo.ProductRepository
	logger      *log.Logger
}

func NewCartUsecase(
	store cart.SnapshotStore,
	notifier cart.Notifier,
	productRepo repo.ProductRepository,
	logger *log.Logger,
) *CartUsecase {
	return &CartUsecase{
		store:       store,
		notifier:    notifier,
		productRepo: productRepo,
		logger:      logger,
	}
}

type AddCartInput struct {
	ProductID int64
	Quantity  int64
}

// engineForOwner はowner keyのスナップショットを読み込んだエンジンを返す。
func (u *CartUsecase) engineForOwner(ctx context.Context, ownerKey string) *cart.Engine {
	e := cart.NewEngine(u.store, u.notifier, u.logger)
	e.LoadForOwner(ctx, ownerKey)
	return e
}

// GetCart はカート取得（保存が無ければ空を返す）。
func (u *CartUsecase) GetCart(ctx context.Context, ownerKey string) (cart.Cart, error) {
	if ownerKey == "" {
		return cart.Empty(), NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	return u.engineForOwner(ctx, ownerKey).Cart(), nil
}

// AddToCart はカートに追加（同一商品は数量加算）。
// 単価・商品名は追加時点の値を固定で取り込む。
func (u *CartUsecase) AddToCart(ctx context.Context, ownerKey string, in AddCartInput) (cart.Cart, error) {
	if ownerKey == "" {
		return cart.Empty(), NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ProductID <= 0 {
		return cart.Empty(), NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if in.Quantity < 1 {
		return cart.Empty(), NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	// 商品チェック（公開のみ）
	p, err := u.productRepo.FindByID(ctx, in.ProductID)
	if err == repo.ErrNotFound {
		return cart.Empty(), NewHTTPError(http.StatusBadRequest, "invalid")
	}
	if err != nil {
		return cart.Empty(), NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.IsActive {
		return cart.Empty(), NewHTTPError(http.StatusBadRequest, "invalid")
	}

	e := u.engineForOwner(ctx, ownerKey)

	out, err := e.AddItem(ctx, cart.LineItem{
		ProductID: strconv.FormatInt(p.ID, 10),
		Name:      p.Name,
		UnitPrice: p.Price,
		Quantity:  in.Quantity,
		ImageRef:  p.ImageURL,
	})
	if err != nil {
		return out, toCartHTTPError(err)
	}

	return out, nil
}

// UpdateItemQuantity は数量の絶対値セット。1未満は拒否する。
func (u *CartUsecase) UpdateItemQuantity(ctx context.Context, ownerKey string, productID string, qty int64) (cart.Cart, error) {
	if ownerKey == "" {
		return cart.Empty(), NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID == "" {
		return cart.Empty(), NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	e := u.engineForOwner(ctx, ownerKey)

	out, err := e.UpdateQuantity(ctx, productID, qty)
	if err != nil {
		return out, toCartHTTPError(err)
	}

	return out, nil
}

// RemoveItem は明細削除。無ければno-op。
func (u *CartUsecase) RemoveItem(ctx context.Context, ownerKey string, productID string) (cart.Cart, error) {
	if ownerKey == "" {
		return cart.Empty(), NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID == "" {
		return cart.Empty(), NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	e := u.engineForOwner(ctx, ownerKey)

	out, err := e.RemoveItem(ctx, productID)
	if err != nil {
		return out, toCartHTTPError(err)
	}

	return out, nil
}

// ClearCart は空に戻す。空のスナップショットも保存される。
func (u *CartUsecase) ClearCart(ctx context.Context, ownerKey string) (cart.Cart, error) {
	if ownerKey == "" {
		return cart.Empty(), NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	e := u.engineForOwner(ctx, ownerKey)

	out, err := e.Clear(ctx)
	if err != nil {
		return out, toCartHTTPError(err)
	}

	return out, nil
}

// エンジンの入力エラーは400に落とす。
func toCartHTTPError(err error) error {
	switch {
	case errors.Is(err, cart.ErrInvalidQuantity):
		return NewHTTPError(http.StatusBadRequest, "invalid quantity")
	case errors.Is(err, cart.ErrInvalidPrice):
		return NewHTTPError(http.StatusBadRequest, "invalid price")
	case errors.Is(err, cart.ErrInvalidProductID):
		return NewHTTPError(http.StatusBadRequest, "invalid product id")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
