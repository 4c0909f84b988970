package cart

import "errors"

var (
	//数量が1未満
	ErrInvalidQuantity = errors.New("invalid quantity")
	//単価が負
	ErrInvalidPrice = errors.New("invalid price")
	//ProductIDが空
	ErrInvalidProductID = errors.New("invalid product id")
)

// カートへの操作はタグ付きコマンドで表す。
// Applyが唯一の遷移関数で、永続化や通知は呼び出し側の仕事。
type Command interface {
	isCommand()
}

type AddItem struct {
	Item LineItem
}

type RemoveItem struct {
	ProductID string
}

type UpdateQuantity struct {
	ProductID string
	Quantity  int64
}

type ClearCart struct{}

func (AddItem) isCommand()        {}
func (RemoveItem) isCommand()     {}
func (UpdateQuantity) isCommand() {}
func (ClearCart) isCommand()      {}

// Apply は純粋な遷移関数 (Cart, Command) -> Cart。I/Oはしない。
// エラー時は元のカートをそのまま返す（部分適用はしない）。
func Apply(c Cart, cmd Command) (Cart, error) {
	switch cmd := cmd.(type) {
	case AddItem:
		return applyAdd(c, cmd.Item)
	case RemoveItem:
		return applyRemove(c, cmd.ProductID)
	case UpdateQuantity:
		return applyUpdateQuantity(c, cmd.ProductID, cmd.Quantity)
	case ClearCart:
		return Empty(), nil
	default:
		return c, errors.New("unknown command")
	}
}

// 同一商品は数量加算。名前と単価は最初に追加したものが勝つ。
func applyAdd(c Cart, item LineItem) (Cart, error) {
	if item.ProductID == "" {
		return c, ErrInvalidProductID
	}
	if item.Quantity < 1 {
		return c, ErrInvalidQuantity
	}
	if item.UnitPrice.IsNegative() {
		return c, ErrInvalidPrice
	}

	items := make([]LineItem, len(c.Items))
	copy(items, c.Items)

	merged := false
	for i := range items {
		if items[i].ProductID == item.ProductID {
			items[i].Quantity += item.Quantity
			merged = true
			break
		}
	}

	if !merged {
		//新規は末尾に追加（表示順を保つ）
		items = append(items, item)
	}

	return withItems(items), nil
}

// 無ければno-op。
func applyRemove(c Cart, productID string) (Cart, error) {
	items := make([]LineItem, 0, len(c.Items))
	for _, it := range c.Items {
		if it.ProductID == productID {
			continue
		}
		items = append(items, it)
	}
	return withItems(items), nil
}

// 数量の絶対値セット。1未満は拒否（削除扱いにはしない）。
// IDが無ければno-op。
func applyUpdateQuantity(c Cart, productID string, qty int64) (Cart, error) {
	if qty < 1 {
		return c, ErrInvalidQuantity
	}

	items := make([]LineItem, len(c.Items))
	copy(items, c.Items)

	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity = qty
			break
		}
	}

	return withItems(items), nil
}
