package models

import "time"

// CartSnapshot model - PostgreSQL
// Items holds the raw JSON array written by the cart manager.
type CartSnapshot struct {
	Key       string    `gorm:"column:cart_key;primaryKey;size:191" json:"key"`
	Items     string    `gorm:"type:text;not null" json:"items"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CartSnapshot) TableName() string {
	return "cart_snapshots"
}
