package cart

import (
	"encoding/json"
	"errors"
	"fmt"
)

// 壊れたスナップショット。呼び出し側が空カートに落とすかを決める。
var ErrMalformedSnapshot = errors.New("malformed cart snapshot")

// SnapshotKey はowner keyから保存キーを作る。
func SnapshotKey(ownerKey string) string {
	return "cart:" + ownerKey
}

// EncodeSnapshot はカート全体（明細＋合計）をJSONにする。
func EncodeSnapshot(c Cart) ([]byte, error) {
	return json.Marshal(c)
}

// DecodeSnapshot は保存済みJSONをカートに戻す。
// 形が崩れていたらErrMalformedSnapshotを返す（ここでは握りつぶさない）。
// 合計は保存値を信用せず明細から作り直す。
func DecodeSnapshot(payload []byte) (Cart, error) {
	var c Cart
	if err := json.Unmarshal(payload, &c); err != nil {
		return Empty(), fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}

	if c.Items == nil {
		return Empty(), fmt.Errorf("%w: items missing", ErrMalformedSnapshot)
	}

	seen := make(map[string]bool, len(c.Items))
	for _, it := range c.Items {
		if it.ProductID == "" {
			return Empty(), fmt.Errorf("%w: empty product id", ErrMalformedSnapshot)
		}
		if seen[it.ProductID] {
			return Empty(), fmt.Errorf("%w: duplicate product id %q", ErrMalformedSnapshot, it.ProductID)
		}
		seen[it.ProductID] = true

		if it.Quantity < 1 {
			return Empty(), fmt.Errorf("%w: quantity < 1 for %q", ErrMalformedSnapshot, it.ProductID)
		}
		if it.UnitPrice.IsNegative() {
			return Empty(), fmt.Errorf("%w: negative price for %q", ErrMalformedSnapshot, it.ProductID)
		}
	}

	return withItems(c.Items), nil
}
