package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文の明細
// price_at_time（確定時点の単価）を必ず保存。
type OrderItem struct {
	ID                   int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID              int64           `gorm:"not null;index" json:"order_id"`
	ProductID            int64           `gorm:"not null;index" json:"product_id"`
	ProductNameSnapshot  string          `gorm:"type:varchar(255);not null" json:"product_name_snapshot"`
	ProductImageSnapshot string          `gorm:"type:varchar(512)" json:"product_image_snapshot"`
	PriceAtTime          decimal.Decimal `gorm:"type:numeric(12,2);not null;column:price_at_time" json:"price_at_time"`
	Quantity             int64           `gorm:"not null" json:"quantity"`
	CreatedAt            time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}
