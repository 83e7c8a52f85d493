package models

import (
	"strings"
	"time"
)

// Moderation lifecycle of a post. Removed is terminal: a removed post can
// never be reopened through the moderation API.
const (
	StatusActive   = "active"
	StatusReported = "reported"
	StatusRemoved  = "removed"
)

// Media kinds accepted on a post.
const (
	MediaImage = "image"
	MediaVideo = "video"
)

type Post struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	User     User   `gorm:"foreignKey:UserID" json:"user"`

	Body      string `gorm:"not null" json:"body"`
	MediaPath string `json:"media_path,omitempty"`
	MediaType string `json:"media_type,omitempty"`

	// Tags holds the normalized tag list joined with commas, in the order
	// the author gave them.
	Tags string `json:"tags"`

	Protons   int `gorm:"default:0" json:"protons"`
	Electrons int `gorm:"default:0" json:"electrons"`
	Neutrons  int `gorm:"default:0" json:"neutrons"`

	Status string `gorm:"default:active;index" json:"status"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

// TagList splits the stored tag string back into its ordered slice.
func (p *Post) TagList() []string {
	if p.Tags == "" {
		return nil
	}
	return strings.Split(p.Tags, ",")
}

// TagSet returns the post's tags as a lookup set.
func (p *Post) TagSet() map[string]struct{} {
	set := make(map[string]struct{})
	for _, tag := range p.TagList() {
		set[tag] = struct{}{}
	}
	return set
}

// NormalizeTags turns raw comma-separated user input into the canonical
// stored form: trimmed, lowercased, empties dropped, duplicates removed
// with first-occurrence order preserved.
func NormalizeTags(raw string) []string {
	seen := make(map[string]struct{})
	var tags []string
	for _, part := range strings.Split(raw, ",") {
		tag := strings.ToLower(strings.TrimSpace(part))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	return tags
}
