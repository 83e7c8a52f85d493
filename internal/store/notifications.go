package store

import (
	"errors"
	"fmt"
	"log"
	"sync"

	"gorm.io/gorm"

	"github.com/agentryleigh/decoherence-log/backend/internal/models"
)

// AlertSender delivers an out-of-band copy of an alert, e.g. over SMS.
// Delivery is best effort and never blocks notification creation.
type AlertSender interface {
	Send(text string) error
}

// Router filters alert events against per-user category settings and
// records the ones that pass.
type Router struct {
	db  *gorm.DB
	sms AlertSender
}

func NewRouter(db *gorm.DB, sms AlertSender) *Router {
	return &Router{db: db, sms: sms}
}

// Notify records an alert for a user unless their settings disable the
// category. Unknown categories fail open: they are delivered. Returns
// nil without error when the category is switched off.
func (r *Router) Notify(userID uint, category, text string, settings map[string]bool) (*models.Notification, error) {
	enabled, known := settings[category]
	if known && !enabled {
		return nil, nil
	}

	notification := models.Notification{
		UserID:   userID,
		Category: category,
		Text:     text,
	}
	if err := r.db.Create(&notification).Error; err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}

	if r.sms != nil && category == models.CategoryEntanglement {
		if err := r.sms.Send(text); err != nil {
			log.Printf("sms alert failed: %v", err)
		}
	}

	return &notification, nil
}

// MarkSeen flips one of the user's notifications to read. Already-read
// notifications stay read; the transition never reverses. Notifications
// owned by other users are invisible here, so the lookup reports not
// found rather than permission denied.
func (r *Router) MarkSeen(userID, id uint) error {
	var notification models.Notification
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&notification).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("load notification: %w", err)
	}
	if notification.Read {
		return nil
	}
	if err := r.db.Model(&notification).Update("read", true).Error; err != nil {
		return fmt.Errorf("mark seen: %w", err)
	}
	return nil
}

// List returns a user's notifications, most recent first.
func (r *Router) List(userID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := r.db.Where("user_id = ?", userID).
		Order("created_at desc, id desc").
		Find(&notifications).Error
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return notifications, nil
}

// Settings holds per-user category toggles. Persistence of preferences
// is outside this service, so the mapping lives in memory; a category a
// user never touched defaults to enabled.
type Settings struct {
	mu    sync.RWMutex
	users map[uint]map[string]bool
}

func NewSettings() *Settings {
	return &Settings{users: make(map[uint]map[string]bool)}
}

// For returns a copy of a user's category map.
func (s *Settings) For(userID uint) map[string]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]bool, len(s.users[userID]))
	for category, enabled := range s.users[userID] {
		out[category] = enabled
	}
	return out
}

// Set toggles one category for a user.
func (s *Settings) Set(userID uint, category string, enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.users[userID] == nil {
		s.users[userID] = make(map[string]bool)
	}
	s.users[userID][category] = enabled
}
