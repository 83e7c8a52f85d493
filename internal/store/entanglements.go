package store

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/agentryleigh/decoherence-log/backend/internal/models"
)

// EntanglementReason marks rows produced by the tag-overlap rule. Word
// overlap over post bodies would be a different, looser heuristic; if it
// is ever added it gets its own reason string, never mixed into this one.
const EntanglementReason = "tag-resonance"

// Matcher scans recent posts for topical overlap with a new post and
// records every match it finds.
type Matcher struct {
	db *gorm.DB
}

func NewMatcher(db *gorm.DB) *Matcher {
	return &Matcher{db: db}
}

// FindEntanglements returns every post from the window whose tag set
// intersects the new post's, appending one audit row per match. A post
// with no tags matches nothing. An unknown post id yields an empty
// result without error.
func (m *Matcher) FindEntanglements(postID uint, window time.Duration) ([]models.Post, error) {
	var post models.Post
	if err := m.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load post: %w", err)
	}

	tags := post.TagSet()
	if len(tags) == 0 {
		return nil, nil
	}

	cutoff := time.Now().UTC().Add(-window)
	var candidates []models.Post
	err := m.db.Where("created_at >= ? AND id <> ?", cutoff, postID).
		Order("created_at desc, id desc").
		Find(&candidates).Error
	if err != nil {
		return nil, fmt.Errorf("scan candidates: %w", err)
	}

	var matches []models.Post
	for _, candidate := range candidates {
		if !overlaps(tags, candidate.TagList()) {
			continue
		}
		record := models.Entanglement{
			PostIDA: post.ID,
			PostIDB: candidate.ID,
			UserIDA: post.UserID,
			UserIDB: candidate.UserID,
			Reason:  EntanglementReason,
		}
		if err := m.db.Create(&record).Error; err != nil {
			return nil, fmt.Errorf("record entanglement: %w", err)
		}
		matches = append(matches, candidate)
	}
	return matches, nil
}

// Records returns the audit trail rows involving a post, newest first.
func (m *Matcher) Records(postID uint) ([]models.Entanglement, error) {
	var records []models.Entanglement
	err := m.db.Where("post_id_a = ? OR post_id_b = ?", postID, postID).
		Order("created_at desc, id desc").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("list entanglements: %w", err)
	}
	return records, nil
}

func overlaps(set map[string]struct{}, tags []string) bool {
	for _, tag := range tags {
		if _, ok := set[tag]; ok {
			return true
		}
	}
	return false
}
