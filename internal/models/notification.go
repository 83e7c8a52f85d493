package models

import "time"

// Notification categories. A category unknown to a user's settings is
// treated as enabled.
const (
	CategoryEntanglement = "entanglement"
	CategoryMessage      = "message"
	CategoryBrand        = "brand"
	CategoryObserver     = "observer"
)

type Notification struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	UserID   uint   `gorm:"index" json:"user_id"`
	Category string `gorm:"size:30;index" json:"category"`
	Text     string `json:"text"`
	Read     bool   `gorm:"default:false;index" json:"read"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
