package usecase

import (
	"context"
	"io"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/labstack/gommon/log"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func testLogger() *log.Logger {
	l := log.New("test")
	l.SetOutput(io.Discard)
	return l
}

// メモリ上のSnapshotStore（カート保存のフェイク）
type fakeSnapshotStore struct {
	data    map[string][]byte
	saveErr error
}

func newFakeSnapshotStore() *fakeSnapshotStore {
	return &fakeSnapshotStore{data: map[string][]byte{}}
}

func (s *fakeSnapshotStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	p, ok := s.data[key]
	return p, ok, nil
}

func (s *fakeSnapshotStore) Save(ctx context.Context, key string, payload []byte) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.data[key] = payload
	return nil
}

func (s *fakeSnapshotStore) Delete(ctx context.Context, key string) error {
	delete(s.data, key)
	return nil
}

type noopNotifier struct{}

func (noopNotifier) Notify(ctx context.Context, ownerKey string, event string, message string) {}

// =====================
// Repository mocks
// =====================

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	ps, _ := args.Get(0).([]model.Product)
	return ps, args.Get(1).(int64), args.Error(2)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProductRepoMock) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	os, _ := args.Get(0).([]model.Order)
	return os, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) Delete(ctx context.Context, orderID int64) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *OrderRepoMock) FindByIdempotencyKey(ctx context.Context, userID int64, key string) (model.Order, bool, error) {
	args := m.Called(ctx, userID, key)
	o, _ := args.Get(0).(model.Order)
	return o, args.Bool(1), args.Error(2)
}

func (m *OrderRepoMock) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	os, _ := args.Get(0).([]model.Order)
	return os, args.Get(1).(int64), args.Error(2)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, entry model.AuditLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *AuditRepoMock) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, f)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Error(1)
}

type ProfileRepoMock struct{ mock.Mock }

func (m *ProfileRepoMock) FindByUserID(ctx context.Context, userID int64) (model.Profile, error) {
	args := m.Called(ctx, userID)
	p, _ := args.Get(0).(model.Profile)
	return p, args.Error(1)
}

func (m *ProfileRepoMock) Upsert(ctx context.Context, p model.Profile) (model.Profile, error) {
	args := m.Called(ctx, p)
	saved, _ := args.Get(0).(model.Profile)
	return saved, args.Error(1)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) IncrementTokenVersion(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *UserRepoMock) ListAdmin(ctx context.Context, f repo.AdminUserListFilter) ([]model.User, int64, error) {
	args := m.Called(ctx, f)
	us, _ := args.Get(0).([]model.User)
	return us, args.Get(1).(int64), args.Error(2)
}

type PaymentClientMock struct{ mock.Mock }

func (m *PaymentClientMock) CreateIntent(ctx context.Context, amount decimal.Decimal, currencyCode string) (string, error) {
	args := m.Called(ctx, amount, currencyCode)
	return args.String(0), args.Error(1)
}

// WithinTxを素通しするTxManagerのフェイク
type txManagerFake struct {
	repos repo.TxRepos
}

func (f *txManagerFake) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(f.repos)
}

type txReposFake struct {
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
}

func (r *txReposFake) Orders() repo.OrderRepository         { return r.orders }
func (r *txReposFake) OrderItems() repo.OrderItemRepository { return r.orderItems }

func assertHTTPStatus(t *testing.T, err error, status int) {
	t.Helper()
	he, ok := AsHTTPError(err)
	assert.True(t, ok, "expected HTTPError, got %v", err)
	if ok {
		assert.Equal(t, status, he.Status)
	}
}
