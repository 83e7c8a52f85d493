package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/agentryleigh/decoherence-log/backend/internal/models"
	"github.com/agentryleigh/decoherence-log/backend/internal/store"
)

type NotificationHandler struct {
	router   *store.Router
	settings *store.Settings
}

func NewNotificationHandler(router *store.Router, settings *store.Settings) *NotificationHandler {
	return &NotificationHandler{router: router, settings: settings}
}

// GetNotifications returns the caller's alerts, newest first (PROTECTED)
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	notifications, err := h.router.List(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	// If no notifications, return empty array not null
	if notifications == nil {
		notifications = []models.Notification{}
	}

	c.JSON(http.StatusOK, notifications)
}

// MarkSeen marks one of the caller's notifications as read (PROTECTED)
func (h *NotificationHandler) MarkSeen(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification id"})
		return
	}

	if err := h.router.MarkSeen(userID, uint(id)); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notification"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification seen"})
}

// UpdateSettings toggles alert categories for the caller (PROTECTED)
func (h *NotificationHandler) UpdateSettings(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input map[string]bool
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Expected a category to boolean mapping"})
		return
	}

	for category, enabled := range input {
		h.settings.Set(userID, category, enabled)
	}

	c.JSON(http.StatusOK, gin.H{"settings": h.settings.For(userID)})
}
