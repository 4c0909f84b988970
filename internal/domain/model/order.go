package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "PENDING"
	OrderStatusPaid     OrderStatus = "PAID"
	OrderStatusShipped  OrderStatus = "SHIPPED"
	OrderStatusCanceled OrderStatus = "CANCELED"
)

// 注文時に入力された配送先のスナップショット
type ShippingAddress struct {
	FullName string `gorm:"type:varchar(255);not null" json:"full_name"`
	Email    string `gorm:"type:varchar(255);not null" json:"email"`
	Phone    string `gorm:"type:varchar(30)" json:"phone"`
	Address  string `gorm:"type:varchar(255);not null" json:"address"`
	City     string `gorm:"type:varchar(255);not null" json:"city"`
	State    string `gorm:"type:varchar(100)" json:"state"`
	ZipCode  string `gorm:"type:varchar(20)" json:"zip_code"`
	Notes    string `gorm:"type:text" json:"notes"`
}

type Order struct {
	ID              int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID          int64           `gorm:"not null;index" json:"user_id"`
	Status          OrderStatus     `gorm:"type:varchar(20);not null;index" json:"status"`
	TotalAmount     decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_amount"`
	ShippingAddress ShippingAddress `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`
	IdempotencyKey  string          `gorm:"type:varchar(255);not null;uniqueIndex" json:"-"`
	CreatedAt       time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
