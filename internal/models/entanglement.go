package models

import "time"

// Entanglement is the append-only audit record of a detected topical
// overlap between two posts. Rows are never updated or deleted.
type Entanglement struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	PostIDA uint   `gorm:"index" json:"post_id_a"`
	PostIDB uint   `gorm:"index" json:"post_id_b"`
	UserIDA uint   `json:"user_id_a"`
	UserIDB uint   `json:"user_id_b"`
	Reason  string `json:"reason"`

	CreatedAt time.Time `json:"created_at"`
}
