package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/agentryleigh/decoherence-log/backend/internal/models"
	"github.com/agentryleigh/decoherence-log/backend/internal/store"
)

type ModerationHandler struct {
	db    *gorm.DB
	posts *store.PostStore
}

func NewModerationHandler(db *gorm.DB, posts *store.PostStore) *ModerationHandler {
	return &ModerationHandler{db: db, posts: posts}
}

// GetReported returns the architect queue (ADMIN)
func (h *ModerationHandler) GetReported(c *gin.Context) {
	posts, err := h.posts.ListReported()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reported posts"})
		return
	}

	responses := make([]gin.H, 0, len(posts))
	for _, post := range posts {
		responses = append(responses, postResponse(post))
	}
	c.JSON(http.StatusOK, responses)
}

// UpdateStatus applies a moderation decision to a post (ADMIN)
func (h *ModerationHandler) UpdateStatus(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post id"})
		return
	}

	var input struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status is required"})
		return
	}

	actor, ok := h.currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.posts.SetStatus(*actor, uint(postID), input.Status); err != nil {
		switch {
		case errors.Is(err, store.ErrPermission):
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		case errors.Is(err, store.ErrStatusLocked):
			c.JSON(http.StatusConflict, gin.H{"error": "Removed posts cannot be reopened"})
		case errors.Is(err, store.ErrBadStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status transition"})
		case errors.Is(err, store.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "Post status changed concurrently, please retry"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update status"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Status updated"})
}

func (h *ModerationHandler) currentUser(c *gin.Context) (*models.User, bool) {
	id, ok := currentUserID(c)
	if !ok {
		return nil, false
	}
	var user models.User
	if err := h.db.First(&user, id).Error; err != nil {
		return nil, false
	}
	return &user, true
}
