package model

import "time"

// プロフィールに紐づく住所。壊れていても空structに正規化して返す。
type ProfileAddress struct {
	Country         string `gorm:"type:varchar(100)" json:"country"`
	Street          string `gorm:"type:varchar(255)" json:"street"`
	HouseNumber     string `gorm:"type:varchar(50)" json:"house_number"`
	ApartmentNumber string `gorm:"type:varchar(50)" json:"apartment_number"`
	PostalCode      string `gorm:"type:varchar(20)" json:"postal_code"`
	City            string `gorm:"type:varchar(255)" json:"city"`
}

// 1ユーザーにつきプロフィールは1つ
type Profile struct {
	UserID      int64          `gorm:"primaryKey" json:"id"`
	FullName    string         `gorm:"type:varchar(255)" json:"full_name"`
	AvatarURL   string         `gorm:"type:varchar(512)" json:"avatar_url"`
	Phone       string         `gorm:"type:varchar(30)" json:"phone"`
	Address     ProfileAddress `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	CountryCode string         `gorm:"type:varchar(5)" json:"country_code"`
	CreatedAt   time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
