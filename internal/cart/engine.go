package cart

import (
	"context"
	"errors"

	"github.com/labstack/gommon/log"
)

// スナップショットの保存先の約束（owner keyごとに1レコード）。
// インターフェースは使う側（エンジン）が定義する。
type SnapshotStore interface {
	Load(ctx context.Context, key string) (payload []byte, found bool, err error)
	Save(ctx context.Context, key string, payload []byte) error
	Delete(ctx context.Context, key string) error
}

// ユーザー向け通知（toast相当）の約束。
type Notifier interface {
	Notify(ctx context.Context, ownerKey string, event string, message string)
}

// 通知イベント名
const (
	EventItemAdded   = "cart.item_added"
	EventItemRemoved = "cart.item_removed"
	EventCleared     = "cart.cleared"
)

// Engine はowner key 1つ分のカート状態を持つ状態機械。
// 遷移はApplyに任せ、ここでは永続化と通知だけを行う。
// 並行利用は想定しない（1リクエスト＝1エンジン）。
type Engine struct {
	cart     Cart
	ownerKey string
	store    SnapshotStore
	notifier Notifier
	logger   *log.Logger
}

func NewEngine(store SnapshotStore, notifier Notifier, logger *log.Logger) *Engine {
	return &Engine{
		cart:     Empty(),
		store:    store,
		notifier: notifier,
		logger:   logger,
	}
}

// Cart は現在のカートを返す。
func (e *Engine) Cart() Cart {
	return e.cart
}

// OwnerKey は現在のowner keyを返す。
func (e *Engine) OwnerKey() string {
	return e.ownerKey
}

// LoadForOwner はowner keyの切り替え（ログイン/ログアウト/起動時）。
// 保存済みスナップショットへの完全入れ替えで、前のカートとはマージしない。
// 壊れたスナップショットは捨てて空カートで始める（読み取り失敗も同様）。
func (e *Engine) LoadForOwner(ctx context.Context, ownerKey string) {
	e.ownerKey = ownerKey

	payload, found, err := e.store.Load(ctx, SnapshotKey(ownerKey))
	if err != nil {
		e.logger.Warnf("cart snapshot load failed for %s: %v", ownerKey, err)
		e.cart = Empty()
		return
	}
	if !found {
		e.cart = Empty()
		return
	}

	c, err := DecodeSnapshot(payload)
	if err != nil {
		if errors.Is(err, ErrMalformedSnapshot) {
			//不正データは残さない
			if derr := e.store.Delete(ctx, SnapshotKey(ownerKey)); derr != nil {
				e.logger.Warnf("cart snapshot delete failed for %s: %v", ownerKey, derr)
			}
		}
		e.logger.Warnf("cart snapshot rejected for %s: %v", ownerKey, err)
		e.cart = Empty()
		return
	}

	e.cart = c
}

// AddItem は追加（同一商品は数量加算）。成功したら保存して通知する。
func (e *Engine) AddItem(ctx context.Context, item LineItem) (Cart, error) {
	next, err := Apply(e.cart, AddItem{Item: item})
	if err != nil {
		return e.cart, err
	}

	e.cart = next
	e.persist(ctx)
	e.notifier.Notify(ctx, e.ownerKey, EventItemAdded, item.Name+" added to cart")
	return e.cart, nil
}

// RemoveItem は削除。無ければno-op（エラーにしない）。
func (e *Engine) RemoveItem(ctx context.Context, productID string) (Cart, error) {
	next, err := Apply(e.cart, RemoveItem{ProductID: productID})
	if err != nil {
		return e.cart, err
	}

	e.cart = next
	e.persist(ctx)
	e.notifier.Notify(ctx, e.ownerKey, EventItemRemoved, "item removed from cart")
	return e.cart, nil
}

// UpdateQuantity は数量の絶対値セット。通知は出さない（add/removeと区別）。
func (e *Engine) UpdateQuantity(ctx context.Context, productID string, qty int64) (Cart, error) {
	next, err := Apply(e.cart, UpdateQuantity{ProductID: productID, Quantity: qty})
	if err != nil {
		return e.cart, err
	}

	e.cart = next
	e.persist(ctx)
	return e.cart, nil
}

// Clear は空に戻して空のスナップショットを保存する。
func (e *Engine) Clear(ctx context.Context) (Cart, error) {
	next, err := Apply(e.cart, ClearCart{})
	if err != nil {
		return e.cart, err
	}

	e.cart = next
	e.persist(ctx)
	e.notifier.Notify(ctx, e.ownerKey, EventCleared, "cart cleared")
	return e.cart, nil
}

// persist は現在のカート全体を上書き保存する。
// 書き込み失敗はログだけ残す。メモリ上の状態はすでに進んでいる。
func (e *Engine) persist(ctx context.Context) {
	payload, err := EncodeSnapshot(e.cart)
	if err != nil {
		e.logger.Errorf("cart snapshot encode failed for %s: %v", e.ownerKey, err)
		return
	}

	if err := e.store.Save(ctx, SnapshotKey(e.ownerKey), payload); err != nil {
		e.logger.Errorf("cart snapshot save failed for %s: %v", e.ownerKey, err)
	}
}
