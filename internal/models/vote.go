package models

import "time"

// The three mutually exclusive particle reactions: belief, disbelief
// and abstention.
const (
	VoteProton   = "proton"
	VoteElectron = "electron"
	VoteNeutron  = "neutron"
)

// ValidVoteKind reports whether kind names one of the particle reactions.
func ValidVoteKind(kind string) bool {
	switch kind {
	case VoteProton, VoteElectron, VoteNeutron:
		return true
	}
	return false
}

// Vote tracks a single user's reaction to a post. The composite unique
// index is what enforces at-most-one-vote-per-user-per-post at the
// storage layer; the ledger relies on it under concurrent writers.
type Vote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_votes_user_post" json:"user_id"`
	PostID    uint      `gorm:"uniqueIndex:idx_votes_user_post" json:"post_id"`
	Kind      string    `gorm:"not null" json:"kind"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
