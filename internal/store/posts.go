package store

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/agentryleigh/decoherence-log/backend/internal/models"
)

// PostStore owns post records. Counters are mutated only through the
// VoteLedger and status only through SetStatus/Report.
type PostStore struct {
	db *gorm.DB
}

func NewPostStore(db *gorm.DB) *PostStore {
	return &PostStore{db: db}
}

// Create validates and inserts a new post. Tags are normalized before
// storage; an empty tag set is legal.
func (s *PostStore) Create(author models.User, body, rawTags, mediaPath, mediaType string) (*models.Post, error) {
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyBody
	}

	post := models.Post{
		UserID:    author.ID,
		Username:  author.Username,
		Body:      body,
		MediaPath: mediaPath,
		MediaType: mediaType,
		Tags:      strings.Join(models.NormalizeTags(rawTags), ","),
		Status:    models.StatusActive,
	}

	if err := s.db.Create(&post).Error; err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return &post, nil
}

// Get fetches a single post by id.
func (s *PostStore) Get(postID uint) (*models.Post, error) {
	var post models.Post
	if err := s.db.First(&post, postID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get post: %w", err)
	}
	return &post, nil
}

// List returns the feed, newest first with ties broken toward the later
// insert. Hidden posts only appear when includeHidden is set.
func (s *PostStore) List(includeHidden bool) ([]models.Post, error) {
	query := s.db.Order("created_at desc, id desc")
	if !includeHidden {
		query = query.Where("status = ?", models.StatusActive)
	}

	var posts []models.Post
	if err := query.Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return posts, nil
}

// ListByUser returns every post a user has authored, newest first.
func (s *PostStore) ListByUser(userID uint) ([]models.Post, error) {
	var posts []models.Post
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at desc, id desc").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list user posts: %w", err)
	}
	return posts, nil
}

// ListReported returns the moderation queue for the architect dashboard.
func (s *PostStore) ListReported() ([]models.Post, error) {
	var posts []models.Post
	if err := s.db.Where("status = ?", models.StatusReported).
		Order("created_at desc, id desc").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list reported posts: %w", err)
	}
	return posts, nil
}

// statusTransitions describes the allowed moderation moves. Removed has
// no outgoing edges: it is terminal.
var statusTransitions = map[string][]string{
	models.StatusActive:   {models.StatusReported},
	models.StatusReported: {models.StatusRemoved, models.StatusActive},
	models.StatusRemoved:  {},
}

// SetStatus applies a moderation decision. Admin only. Setting the
// current status again is a no-op; leaving removed fails with
// ErrStatusLocked.
func (s *PostStore) SetStatus(actor models.User, postID uint, status string) error {
	if !actor.IsAdmin() {
		return ErrPermission
	}
	if _, ok := statusTransitions[status]; !ok {
		return ErrBadStatus
	}

	post, err := s.Get(postID)
	if err != nil {
		return err
	}
	if post.Status == status {
		return nil
	}
	if post.Status == models.StatusRemoved {
		return ErrStatusLocked
	}
	for _, next := range statusTransitions[post.Status] {
		if next == status {
			return s.updateStatus(postID, post.Status, status)
		}
	}
	return ErrBadStatus
}

// Report flags an active post for moderation. Any authenticated user may
// report; reporting an already-reported post is a no-op.
func (s *PostStore) Report(postID uint) error {
	post, err := s.Get(postID)
	if err != nil {
		return err
	}
	switch post.Status {
	case models.StatusReported:
		return nil
	case models.StatusRemoved:
		return ErrStatusLocked
	}
	return s.updateStatus(postID, models.StatusActive, models.StatusReported)
}

// updateStatus writes the transition with a guard on the previous status
// so two racing moderators cannot both apply conflicting moves.
func (s *PostStore) updateStatus(postID uint, from, to string) error {
	res := s.db.Model(&models.Post{}).
		Where("id = ? AND status = ?", postID, from).
		Update("status", to)
	if res.Error != nil {
		return fmt.Errorf("update status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	return nil
}
