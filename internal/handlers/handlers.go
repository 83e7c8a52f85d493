package handlers

import (
	"math/rand"
	"time"

	"gorm.io/gorm"

	"github.com/agentryleigh/decoherence-log/backend/internal/media"
	"github.com/agentryleigh/decoherence-log/backend/internal/observer"
	"github.com/agentryleigh/decoherence-log/backend/internal/store"
)

// Handler combines all handler types
type Handler struct {
	Auth         *AuthHandler
	Post         *PostHandler
	Moderation   *ModerationHandler
	Notification *NotificationHandler
	Observer     *ObserverHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(db *gorm.DB, sms store.AlertSender, uploadDir string) *Handler {
	posts := store.NewPostStore(db)
	ledger := store.NewVoteLedger(db)
	matcher := store.NewMatcher(db)
	router := store.NewRouter(db, sms)
	settings := store.NewSettings()

	return &Handler{
		Auth:         NewAuthHandler(db),
		Post:         NewPostHandler(db, posts, ledger, matcher, router, settings, media.NewStore(uploadDir)),
		Moderation:   NewModerationHandler(db, posts),
		Notification: NewNotificationHandler(router, settings),
		Observer:     NewObserverHandler(observer.New(rand.New(rand.NewSource(time.Now().UnixNano())))),
	}
}
