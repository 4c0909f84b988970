package usecase

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"app/internal/cart"
	"app/internal/domain/model"
	"app/internal/identity"
	"app/internal/payment"
	repo "app/internal/repository"
	"app/internal/validator"

	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"
)

// CheckoutUsecase は注文確定のオーケストレーション。
// カートの中身を注文に写し、成功したときだけカートを空にする。
// 失敗・キャンセル時はカートに一切手を付けない。
type CheckoutUsecase struct {
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	store      cart.SnapshotStore
	notifier   cart.Notifier
	payment    payment.Client
	logger     *log.Logger
	timeout    time.Duration
	currency   string
}

func NewCheckoutUsecase(
	orders repo.OrderRepository,
	orderItems repo.OrderItemRepository,
	store cart.SnapshotStore,
	notifier cart.Notifier,
	paymentClient payment.Client,
	logger *log.Logger,
	timeout time.Duration,
	currency string,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		orders:     orders,
		orderItems: orderItems,
		store:      store,
		notifier:   notifier,
		payment:    paymentClient,
		logger:     logger,
		timeout:    timeout,
		currency:   currency,
	}
}

type ShippingDetailsInput struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zip_code"`
	Notes    string `json:"notes"`
}

type PlaceOrderInput struct {
	Shipping       ShippingDetailsInput
	IdempotencyKey string
}

// PlaceOrder は注文を確定する。
// 外部呼び出しにはタイムアウトを入れる。キャンセルされた場合も
// カートは送信前のまま残る（clearは成功確定後にだけ走る）。
func (u *CheckoutUsecase) PlaceOrder(ctx context.Context, userID int64, in PlaceOrderInput) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	key := strings.TrimSpace(in.IdempotencyKey)
	if key == "" || len(key) > 255 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid idempotency_key")
	}

	//配送先フォームの検証（項目単位のエラーはここで400に落とす）
	if err := validator.ValidateShippingDetails(validator.ShippingDetails{
		FullName: in.Shipping.FullName,
		Email:    in.Shipping.Email,
		Phone:    in.Shipping.Phone,
		Address:  in.Shipping.Address,
		City:     in.Shipping.City,
		State:    in.Shipping.State,
		ZipCode:  in.Shipping.ZipCode,
		Notes:    in.Shipping.Notes,
	}); err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	// 同じキーなら同じ結果
	existing, found, err := u.orders.FindByIdempotencyKey(ctx, userID, key)
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if found {
		items, err := u.orderItems.ListByOrderID(ctx, existing.ID)
		if err != nil {
			return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return toOrderOutput(existing, items), nil
	}

	//ユーザーのカートを読み込む
	ownerKey := identity.UserOwnerKey(userID)
	engine := cart.NewEngine(u.store, u.notifier, u.logger)
	engine.LoadForOwner(ctx, ownerKey)

	current := engine.Cart()
	if len(current.Items) == 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "cart empty")
	}

	//スナップショット（確定時点の単価 price_at_time）
	now := time.Now()
	orderItems := make([]model.OrderItem, 0, len(current.Items))
	for _, it := range current.Items {
		productID, err := strconv.ParseInt(it.ProductID, 10, 64)
		if err != nil || productID <= 0 {
			return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid cart item")
		}

		orderItems = append(orderItems, model.OrderItem{
			ProductID:            productID,
			ProductNameSnapshot:  it.Name,
			ProductImageSnapshot: it.ImageRef,
			PriceAtTime:          it.UnitPrice,
			Quantity:             it.Quantity,
			CreatedAt:            now,
		})
	}

	// 注文作成
	orderID, err := u.orders.Create(ctx, model.Order{
		UserID:      userID,
		Status:      model.OrderStatusPending,
		TotalAmount: current.TotalPrice,
		ShippingAddress: model.ShippingAddress{
			FullName: strings.TrimSpace(in.Shipping.FullName),
			Email:    strings.TrimSpace(in.Shipping.Email),
			Phone:    strings.TrimSpace(in.Shipping.Phone),
			Address:  strings.TrimSpace(in.Shipping.Address),
			City:     strings.TrimSpace(in.Shipping.City),
			State:    strings.TrimSpace(in.Shipping.State),
			ZipCode:  strings.TrimSpace(in.Shipping.ZipCode),
			Notes:    in.Shipping.Notes,
		},
		IdempotencyKey: key,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		//競合（同時に同じキーが入った等）はもう一回検索して同じ結果を返す
		ex2, found2, err2 := u.orders.FindByIdempotencyKey(ctx, userID, key)
		if err2 == nil && found2 {
			items2, err3 := u.orderItems.ListByOrderID(ctx, ex2.ID)
			if err3 != nil {
				return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
			}
			return toOrderOutput(ex2, items2), nil
		}
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//注文明細一括作成
	//失敗したら注文レコードをベストエフォートで消して（保証はない）エラーを返す
	if err := u.orderItems.CreateBulk(ctx, orderID, orderItems); err != nil {
		if derr := u.orders.Delete(context.WithoutCancel(ctx), orderID); derr != nil {
			u.logger.Errorf("orphan order %d cleanup failed: %v", orderID, derr)
		}
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "order failed")
	}

	//成功が確定してからカートを空にする
	if _, err := engine.Clear(ctx); err != nil {
		u.logger.Warnf("cart clear after order %d failed: %v", orderID, err)
	}

	created := model.Order{
		ID:          orderID,
		UserID:      userID,
		Status:      model.OrderStatusPending,
		TotalAmount: current.TotalPrice,
		CreatedAt:   now,
	}
	return toOrderOutput(created, orderItems), nil
}

type PaymentIntentOutput struct {
	ClientSecret string          `json:"clientSecret"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
}

// CreatePaymentIntent は現在のカート合計で決済インテントを作る。
// 金額はクライアントの申告ではなくサーバー側のカートから取る。
func (u *CheckoutUsecase) CreatePaymentIntent(ctx context.Context, userID int64) (PaymentIntentOutput, error) {
	if userID <= 0 {
		return PaymentIntentOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	engine := cart.NewEngine(u.store, u.notifier, u.logger)
	engine.LoadForOwner(ctx, identity.UserOwnerKey(userID))

	current := engine.Cart()
	if len(current.Items) == 0 {
		return PaymentIntentOutput{}, NewHTTPError(http.StatusBadRequest, "cart empty")
	}

	secret, err := u.payment.CreateIntent(ctx, current.TotalPrice, u.currency)
	if err != nil {
		u.logger.Warnf("payment intent for user %d failed: %v", userID, err)
		return PaymentIntentOutput{}, NewHTTPError(http.StatusBadGateway, "payment unavailable")
	}

	return PaymentIntentOutput{
		ClientSecret: secret,
		Amount:       current.TotalPrice,
		Currency:     u.currency,
	}, nil
}
