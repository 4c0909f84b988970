package model

import "time"

// owner keyごとのカートスナップショット
// key は cart:user:<id> または cart:guest:<uuid>。最後に書いた者勝ち。
type CartSnapshot struct {
	OwnerKey  string    `gorm:"primaryKey;type:varchar(255)" json:"owner_key"`
	Payload   []byte    `gorm:"type:jsonb;not null" json:"payload"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
