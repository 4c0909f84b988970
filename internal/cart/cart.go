package cart

import "github.com/shopspring/decimal"

// カートの明細
// 追加時点の価格を必ず保持する（商品価格の変更には追従しない）。
type LineItem struct {
	ProductID string          `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"price"`
	Quantity  int64           `json:"quantity"`
	ImageRef  string          `json:"imageSrc"`
}

// Subtotal は単価×数量。
func (it LineItem) Subtotal() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity))
}

// Cart はカート全体。Itemsは追加順を保つ。
// TotalItems / TotalPrice は必ずItemsから再計算する（単独で書き換えない）。
type Cart struct {
	Items      []LineItem      `json:"items"`
	TotalItems int64           `json:"totalItems"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

// Empty は空カート。
func Empty() Cart {
	return Cart{
		Items:      []LineItem{},
		TotalItems: 0,
		TotalPrice: decimal.Zero,
	}
}

// FindItem はProductIDが一致する明細を返す。
func (c Cart) FindItem(productID string) (LineItem, bool) {
	for _, it := range c.Items {
		if it.ProductID == productID {
			return it, true
		}
	}
	return LineItem{}, false
}

// withItems は明細から合計を作り直したカートを返す。
func withItems(items []LineItem) Cart {
	var count int64 = 0
	total := decimal.Zero

	for _, it := range items {
		count += it.Quantity
		total = total.Add(it.Subtotal())
	}

	return Cart{
		Items:      items,
		TotalItems: count,
		TotalPrice: total,
	}
}
