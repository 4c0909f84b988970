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

func TestProductUsecase_ListPublicProducts(t *testing.T) {
	productRepo := &ProductRepoMock{}
	productRepo.On("ListPublic", mock.Anything, mock.MatchedBy(func(q repo.ProductListQuery) bool {
		return q.Page == 1 && q.Limit == 20 && q.Q == "shirt"
	})).Return([]model.Product{activeProduct(1, "10")}, int64(1), nil)

	uc := NewProductUsecase(productRepo, &AuditRepoMock{})

	out, err := uc.ListPublicProducts(context.Background(), ListProductsInput{Page: 1, Limit: 20, Q: "shirt"})
	assert.NoError(t, err)
	assert.Len(t, out.Items, 1)
	assert.Equal(t, int64(1), out.Total)
}

func TestProductUsecase_ListPublicProducts_Validation(t *testing.T) {
	uc := NewProductUsecase(&ProductRepoMock{}, &AuditRepoMock{})
	ctx := context.Background()

	_, err := uc.ListPublicProducts(ctx, ListProductsInput{Page: 0, Limit: 20})
	assertHTTPStatus(t, err, http.StatusBadRequest)

	_, err = uc.ListPublicProducts(ctx, ListProductsInput{Page: 1, Limit: 101})
	assertHTTPStatus(t, err, http.StatusBadRequest)

	neg := decimal.NewFromInt(-1)
	_, err = uc.ListPublicProducts(ctx, ListProductsInput{Page: 1, Limit: 20, MinPrice: &neg})
	assertHTTPStatus(t, err, http.StatusBadRequest)

	lo := decimal.NewFromInt(100)
	hi := decimal.NewFromInt(10)
	_, err = uc.ListPublicProducts(ctx, ListProductsInput{Page: 1, Limit: 20, MinPrice: &lo, MaxPrice: &hi})
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

func TestProductUsecase_GetProductDetail_InactiveIs404(t *testing.T) {
	inactive := activeProduct(5, "10")
	inactive.IsActive = false

	productRepo := &ProductRepoMock{}
	productRepo.On("FindByID", mock.Anything, int64(5)).Return(inactive, nil)
	productRepo.On("FindByID", mock.Anything, int64(404)).Return(model.Product{}, repo.ErrNotFound)

	uc := NewProductUsecase(productRepo, &AuditRepoMock{})
	ctx := context.Background()

	_, err := uc.GetProductDetail(ctx, 5)
	assertHTTPStatus(t, err, http.StatusNotFound)

	_, err = uc.GetProductDetail(ctx, 404)
	assertHTTPStatus(t, err, http.StatusNotFound)
}

func TestProductUsecase_AdminCreateProduct_WritesAudit(t *testing.T) {
	productRepo := &ProductRepoMock{}
	created := activeProduct(9, "25.00")
	productRepo.On("Create", mock.Anything, mock.Anything).Return(created, nil)

	auditRepo := &AuditRepoMock{}
	auditRepo.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionCreateProduct && l.ActorUserID == 1 && l.ResourceID == 9
	})).Return(nil)

	uc := NewProductUsecase(productRepo, auditRepo)

	id, err := uc.AdminCreateProduct(context.Background(), 1, AdminProductInput{
		Name:     "shirt",
		Price:    decimal.RequireFromString("25.00"),
		Stock:    3,
		IsActive: true,
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(9), id)
	auditRepo.AssertExpectations(t)
}

func TestProductUsecase_AdminCreateProduct_Validation(t *testing.T) {
	uc := NewProductUsecase(&ProductRepoMock{}, &AuditRepoMock{})
	ctx := context.Background()

	_, err := uc.AdminCreateProduct(ctx, 1, AdminProductInput{Name: " ", Price: decimal.NewFromInt(1)})
	assertHTTPStatus(t, err, http.StatusBadRequest)

	_, err = uc.AdminCreateProduct(ctx, 1, AdminProductInput{Name: "x", Price: decimal.NewFromInt(-1)})
	assertHTTPStatus(t, err, http.StatusBadRequest)

	_, err = uc.AdminCreateProduct(ctx, 0, AdminProductInput{Name: "x", Price: decimal.NewFromInt(1)})
	assertHTTPStatus(t, err, http.StatusUnauthorized)
}

func TestProductUsecase_AdminDeleteProduct(t *testing.T) {
	productRepo := &ProductRepoMock{}
	productRepo.On("SoftDelete", mock.Anything, int64(9)).Return(nil)

	auditRepo := &AuditRepoMock{}
	auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	uc := NewProductUsecase(productRepo, auditRepo)

	err := uc.AdminDeleteProduct(context.Background(), 1, 9)
	assert.NoError(t, err)
	productRepo.AssertCalled(t, "SoftDelete", mock.Anything, int64(9))
}
