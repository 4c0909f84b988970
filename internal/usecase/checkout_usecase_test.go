package usecase

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"app/internal/cart"
	"app/internal/domain/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func validShipping() ShippingDetailsInput {
	return ShippingDetailsInput{
		FullName: "Taro Yamada",
		Email:    "taro@example.com",
		Phone:    "+81 90-1234-5678",
		Address:  "1-2-3 Chiyoda",
		City:     "Tokyo",
		State:    "Tokyo",
		ZipCode:  "100-0001",
	}
}

// user:42のカートに商品を1つ入れたstoreを作る
func storeWithCart(t *testing.T) *fakeSnapshotStore {
	t.Helper()

	store := newFakeSnapshotStore()
	c, err := cart.Apply(cart.Empty(), cart.AddItem{Item: cart.LineItem{
		ProductID: "1",
		Name:      "product",
		UnitPrice: decimal.RequireFromString("19.99"),
		Quantity:  2,
		ImageRef:  "/img.png",
	}})
	assert.NoError(t, err)

	payload, err := cart.EncodeSnapshot(c)
	assert.NoError(t, err)
	store.data[cart.SnapshotKey("user:42")] = payload
	return store
}

func newCheckoutForTest(
	orders *OrderRepoMock,
	orderItems *OrderItemRepoMock,
	store *fakeSnapshotStore,
	paymentClient *PaymentClientMock,
) *CheckoutUsecase {
	return NewCheckoutUsecase(
		orders, orderItems, store, noopNotifier{},
		paymentClient, testLogger(), 5*time.Second, "USD",
	)
}

func TestCheckout_PlaceOrder_Success(t *testing.T) {
	store := storeWithCart(t)
	orders := &OrderRepoMock{}
	orderItems := &OrderItemRepoMock{}

	orders.On("FindByIdempotencyKey", mock.Anything, int64(42), "key-1").Return(model.Order{}, false, nil)
	orders.On("Create", mock.Anything, mock.Anything).Return(int64(100), nil)
	orderItems.On("CreateBulk", mock.Anything, int64(100), mock.Anything).Return(nil)

	uc := newCheckoutForTest(orders, orderItems, store, &PaymentClientMock{})

	out, err := uc.PlaceOrder(context.Background(), 42, PlaceOrderInput{
		Shipping:       validShipping(),
		IdempotencyKey: "key-1",
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(100), out.ID)
	assert.Equal(t, string(model.OrderStatusPending), out.Status)
	assert.True(t, out.TotalAmount.Equal(decimal.RequireFromString("39.98")))
	assert.Len(t, out.Items, 1)
	assert.Equal(t, int64(2), out.Items[0].Quantity)

	//成功後はカートが空で保存されている
	payload, ok := store.data[cart.SnapshotKey("user:42")]
	assert.True(t, ok)
	c, err := cart.DecodeSnapshot(payload)
	assert.NoError(t, err)
	assert.Empty(t, c.Items)

	orders.AssertExpectations(t)
	orderItems.AssertExpectations(t)
}

func TestCheckout_PlaceOrder_EmptyCart(t *testing.T) {
	orders := &OrderRepoMock{}
	orders.On("FindByIdempotencyKey", mock.Anything, int64(42), "key-1").Return(model.Order{}, false, nil)

	uc := newCheckoutForTest(orders, &OrderItemRepoMock{}, newFakeSnapshotStore(), &PaymentClientMock{})

	_, err := uc.PlaceOrder(context.Background(), 42, PlaceOrderInput{
		Shipping:       validShipping(),
		IdempotencyKey: "key-1",
	})
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

func TestCheckout_PlaceOrder_IdempotentReplay(t *testing.T) {
	store := storeWithCart(t)
	orders := &OrderRepoMock{}
	orderItems := &OrderItemRepoMock{}

	existing := model.Order{
		ID:          77,
		UserID:      42,
		Status:      model.OrderStatusPaid,
		TotalAmount: decimal.NewFromInt(39),
	}
	orders.On("FindByIdempotencyKey", mock.Anything, int64(42), "key-1").Return(existing, true, nil)
	orderItems.On("ListByOrderID", mock.Anything, int64(77)).Return([]model.OrderItem{}, nil)

	uc := newCheckoutForTest(orders, orderItems, store, &PaymentClientMock{})

	out, err := uc.PlaceOrder(context.Background(), 42, PlaceOrderInput{
		Shipping:       validShipping(),
		IdempotencyKey: "key-1",
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(77), out.ID)

	//再送では新規作成しない
	orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)

	//カートも残ったまま
	payload := store.data[cart.SnapshotKey("user:42")]
	c, _ := cart.DecodeSnapshot(payload)
	assert.Len(t, c.Items, 1)
}

func TestCheckout_PlaceOrder_InvalidShipping(t *testing.T) {
	uc := newCheckoutForTest(&OrderRepoMock{}, &OrderItemRepoMock{}, storeWithCart(t), &PaymentClientMock{})

	in := PlaceOrderInput{Shipping: validShipping(), IdempotencyKey: "key-1"}
	in.Shipping.Email = "broken"

	_, err := uc.PlaceOrder(context.Background(), 42, in)
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

func TestCheckout_PlaceOrder_MissingIdempotencyKey(t *testing.T) {
	uc := newCheckoutForTest(&OrderRepoMock{}, &OrderItemRepoMock{}, storeWithCart(t), &PaymentClientMock{})

	_, err := uc.PlaceOrder(context.Background(), 42, PlaceOrderInput{Shipping: validShipping()})
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

// 明細の作成に失敗したらエラーを返し、カートは残す
func TestCheckout_PlaceOrder_ItemsFailureKeepsCart(t *testing.T) {
	store := storeWithCart(t)
	orders := &OrderRepoMock{}
	orderItems := &OrderItemRepoMock{}

	orders.On("FindByIdempotencyKey", mock.Anything, int64(42), "key-1").Return(model.Order{}, false, nil)
	orders.On("Create", mock.Anything, mock.Anything).Return(int64(100), nil)
	orderItems.On("CreateBulk", mock.Anything, int64(100), mock.Anything).Return(errors.New("insert failed"))
	orders.On("Delete", mock.Anything, int64(100)).Return(nil)

	uc := newCheckoutForTest(orders, orderItems, store, &PaymentClientMock{})

	_, err := uc.PlaceOrder(context.Background(), 42, PlaceOrderInput{
		Shipping:       validShipping(),
		IdempotencyKey: "key-1",
	})
	assertHTTPStatus(t, err, http.StatusInternalServerError)

	//孤児になった注文は掃除される
	orders.AssertCalled(t, "Delete", mock.Anything, int64(100))

	//カートは手付かず
	payload := store.data[cart.SnapshotKey("user:42")]
	c, derr := cart.DecodeSnapshot(payload)
	assert.NoError(t, derr)
	assert.Len(t, c.Items, 1)
}

// 作成が競合したら再検索して同じ結果を返す
func TestCheckout_PlaceOrder_CreateConflictReplays(t *testing.T) {
	store := storeWithCart(t)
	orders := &OrderRepoMock{}
	orderItems := &OrderItemRepoMock{}

	winner := model.Order{ID: 55, UserID: 42, Status: model.OrderStatusPending}

	orders.On("FindByIdempotencyKey", mock.Anything, int64(42), "key-1").Return(model.Order{}, false, nil).Once()
	orders.On("Create", mock.Anything, mock.Anything).Return(int64(0), errors.New("duplicate key"))
	orders.On("FindByIdempotencyKey", mock.Anything, int64(42), "key-1").Return(winner, true, nil).Once()
	orderItems.On("ListByOrderID", mock.Anything, int64(55)).Return([]model.OrderItem{}, nil)

	uc := newCheckoutForTest(orders, orderItems, store, &PaymentClientMock{})

	out, err := uc.PlaceOrder(context.Background(), 42, PlaceOrderInput{
		Shipping:       validShipping(),
		IdempotencyKey: "key-1",
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(55), out.ID)
}

func TestCheckout_CreatePaymentIntent(t *testing.T) {
	store := storeWithCart(t)
	paymentClient := &PaymentClientMock{}
	paymentClient.On("CreateIntent", mock.Anything, mock.Anything, "USD").Return("secret_abc", nil)

	uc := newCheckoutForTest(&OrderRepoMock{}, &OrderItemRepoMock{}, store, paymentClient)

	out, err := uc.CreatePaymentIntent(context.Background(), 42)
	assert.NoError(t, err)
	assert.Equal(t, "secret_abc", out.ClientSecret)
	assert.Equal(t, "USD", out.Currency)
	assert.True(t, out.Amount.Equal(decimal.RequireFromString("39.98")))
}

func TestCheckout_CreatePaymentIntent_EmptyCart(t *testing.T) {
	uc := newCheckoutForTest(&OrderRepoMock{}, &OrderItemRepoMock{}, newFakeSnapshotStore(), &PaymentClientMock{})

	_, err := uc.CreatePaymentIntent(context.Background(), 42)
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

func TestCheckout_CreatePaymentIntent_ProviderDown(t *testing.T) {
	paymentClient := &PaymentClientMock{}
	paymentClient.On("CreateIntent", mock.Anything, mock.Anything, "USD").Return("", errors.New("timeout"))

	uc := newCheckoutForTest(&OrderRepoMock{}, &OrderItemRepoMock{}, storeWithCart(t), paymentClient)

	_, err := uc.CreatePaymentIntent(context.Background(), 42)
	assertHTTPStatus(t, err, http.StatusBadGateway)
}
