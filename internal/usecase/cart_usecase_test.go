package usecase

import (
	"context"
	"net/http"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newCartUsecaseForTest(store *fakeSnapshotStore, productRepo *ProductRepoMock) *CartUsecase {
	return NewCartUsecase(store, noopNotifier{}, productRepo, testLogger())
}

func activeProduct(id int64, price string) model.Product {
	return model.Product{
		ID:       id,
		Name:     "product",
		Price:    decimal.RequireFromString(price),
		ImageURL: "/img.png",
		IsActive: true,
		Stock:    10,
	}
}

func TestCartUsecase_GetCart_EmptyWhenNoSnapshot(t *testing.T) {
	uc := newCartUsecaseForTest(newFakeSnapshotStore(), &ProductRepoMock{})

	out, err := uc.GetCart(context.Background(), "user:42")
	assert.NoError(t, err)
	assert.Empty(t, out.Items)
	assert.Equal(t, int64(0), out.TotalItems)
}

func TestCartUsecase_AddToCart(t *testing.T) {
	productRepo := &ProductRepoMock{}
	productRepo.On("FindByID", mock.Anything, int64(1)).Return(activeProduct(1, "19.99"), nil)

	uc := newCartUsecaseForTest(newFakeSnapshotStore(), productRepo)

	out, err := uc.AddToCart(context.Background(), "user:42", AddCartInput{ProductID: 1, Quantity: 2})
	assert.NoError(t, err)
	assert.Len(t, out.Items, 1)
	assert.Equal(t, "1", out.Items[0].ProductID)
	assert.Equal(t, int64(2), out.TotalItems)
	assert.True(t, out.TotalPrice.Equal(decimal.RequireFromString("39.98")))
}

// 追加は保存され、次のリクエストでも見える
func TestCartUsecase_AddToCart_PersistsAcrossRequests(t *testing.T) {
	store := newFakeSnapshotStore()
	productRepo := &ProductRepoMock{}
	productRepo.On("FindByID", mock.Anything, int64(1)).Return(activeProduct(1, "10"), nil)

	uc := newCartUsecaseForTest(store, productRepo)
	_, err := uc.AddToCart(context.Background(), "user:42", AddCartInput{ProductID: 1, Quantity: 2})
	assert.NoError(t, err)

	//同じstoreを見る別のusecase（別リクエスト相当）
	uc2 := newCartUsecaseForTest(store, &ProductRepoMock{})
	out, err := uc2.GetCart(context.Background(), "user:42")
	assert.NoError(t, err)
	assert.Equal(t, int64(2), out.TotalItems)
}

func TestCartUsecase_AddToCart_SameProductMerges(t *testing.T) {
	store := newFakeSnapshotStore()
	productRepo := &ProductRepoMock{}
	productRepo.On("FindByID", mock.Anything, int64(1)).Return(activeProduct(1, "10"), nil)

	uc := newCartUsecaseForTest(store, productRepo)
	ctx := context.Background()

	_, _ = uc.AddToCart(ctx, "user:42", AddCartInput{ProductID: 1, Quantity: 2})
	out, err := uc.AddToCart(ctx, "user:42", AddCartInput{ProductID: 1, Quantity: 3})

	assert.NoError(t, err)
	assert.Len(t, out.Items, 1)
	assert.Equal(t, int64(5), out.TotalItems)
}

func TestCartUsecase_AddToCart_UnknownOrInactiveProduct(t *testing.T) {
	productRepo := &ProductRepoMock{}
	productRepo.On("FindByID", mock.Anything, int64(404)).Return(model.Product{}, repo.ErrNotFound)

	inactive := activeProduct(5, "10")
	inactive.IsActive = false
	productRepo.On("FindByID", mock.Anything, int64(5)).Return(inactive, nil)

	uc := newCartUsecaseForTest(newFakeSnapshotStore(), productRepo)
	ctx := context.Background()

	_, err := uc.AddToCart(ctx, "user:42", AddCartInput{ProductID: 404, Quantity: 1})
	assertHTTPStatus(t, err, http.StatusBadRequest)

	_, err = uc.AddToCart(ctx, "user:42", AddCartInput{ProductID: 5, Quantity: 1})
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

func TestCartUsecase_AddToCart_InvalidInput(t *testing.T) {
	uc := newCartUsecaseForTest(newFakeSnapshotStore(), &ProductRepoMock{})
	ctx := context.Background()

	_, err := uc.AddToCart(ctx, "user:42", AddCartInput{ProductID: 0, Quantity: 1})
	assertHTTPStatus(t, err, http.StatusBadRequest)

	_, err = uc.AddToCart(ctx, "user:42", AddCartInput{ProductID: 1, Quantity: 0})
	assertHTTPStatus(t, err, http.StatusBadRequest)

	_, err = uc.AddToCart(ctx, "", AddCartInput{ProductID: 1, Quantity: 1})
	assertHTTPStatus(t, err, http.StatusUnauthorized)
}

func TestCartUsecase_UpdateItemQuantity_BelowOneRejected(t *testing.T) {
	store := newFakeSnapshotStore()
	productRepo := &ProductRepoMock{}
	productRepo.On("FindByID", mock.Anything, int64(1)).Return(activeProduct(1, "10"), nil)

	uc := newCartUsecaseForTest(store, productRepo)
	ctx := context.Background()
	_, _ = uc.AddToCart(ctx, "user:42", AddCartInput{ProductID: 1, Quantity: 2})

	_, err := uc.UpdateItemQuantity(ctx, "user:42", "1", 0)
	assertHTTPStatus(t, err, http.StatusBadRequest)

	//拒否時は変更なし
	out, _ := uc.GetCart(ctx, "user:42")
	assert.Equal(t, int64(2), out.TotalItems)
}

func TestCartUsecase_RemoveItem_Idempotent(t *testing.T) {
	store := newFakeSnapshotStore()
	productRepo := &ProductRepoMock{}
	productRepo.On("FindByID", mock.Anything, int64(1)).Return(activeProduct(1, "10"), nil)

	uc := newCartUsecaseForTest(store, productRepo)
	ctx := context.Background()
	_, _ = uc.AddToCart(ctx, "user:42", AddCartInput{ProductID: 1, Quantity: 2})

	out, err := uc.RemoveItem(ctx, "user:42", "1")
	assert.NoError(t, err)
	assert.Empty(t, out.Items)

	//2回目もエラーにならない
	out, err = uc.RemoveItem(ctx, "user:42", "1")
	assert.NoError(t, err)
	assert.Empty(t, out.Items)
}

func TestCartUsecase_ClearCart_PersistsEmpty(t *testing.T) {
	store := newFakeSnapshotStore()
	productRepo := &ProductRepoMock{}
	productRepo.On("FindByID", mock.Anything, int64(1)).Return(activeProduct(1, "10"), nil)

	uc := newCartUsecaseForTest(store, productRepo)
	ctx := context.Background()
	_, _ = uc.AddToCart(ctx, "user:42", AddCartInput{ProductID: 1, Quantity: 2})

	out, err := uc.ClearCart(ctx, "user:42")
	assert.NoError(t, err)
	assert.Empty(t, out.Items)

	//次のリクエストでも空
	out, err = uc.GetCart(ctx, "user:42")
	assert.NoError(t, err)
	assert.Empty(t, out.Items)
}

// owner keyごとにカートは完全に分離される
func TestCartUsecase_OwnerIsolation(t *testing.T) {
	store := newFakeSnapshotStore()
	productRepo := &ProductRepoMock{}
	productRepo.On("FindByID", mock.Anything, mock.Anything).Return(activeProduct(1, "10"), nil)

	uc := newCartUsecaseForTest(store, productRepo)
	ctx := context.Background()

	_, _ = uc.AddToCart(ctx, "guest:7f9c4e8a-1b2c-4d3e-9f00-123456789abc", AddCartInput{ProductID: 1, Quantity: 3})

	out, err := uc.GetCart(ctx, "user:42")
	assert.NoError(t, err)
	assert.Empty(t, out.Items)

	out, err = uc.GetCart(ctx, "guest:7f9c4e8a-1b2c-4d3e-9f00-123456789abc")
	assert.NoError(t, err)
	assert.Equal(t, int64(3), out.TotalItems)
}
