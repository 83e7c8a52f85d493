package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/agentryleigh/decoherence-log/backend/internal/media"
	"github.com/agentryleigh/decoherence-log/backend/internal/models"
	"github.com/agentryleigh/decoherence-log/backend/internal/resonance"
	"github.com/agentryleigh/decoherence-log/backend/internal/store"
)

// entanglementWindow bounds the candidate scan for new posts.
const entanglementWindow = 24 * time.Hour

type PostHandler struct {
	db       *gorm.DB
	posts    *store.PostStore
	ledger   *store.VoteLedger
	matcher  *store.Matcher
	router   *store.Router
	settings *store.Settings
	media    *media.Store
}

func NewPostHandler(db *gorm.DB, posts *store.PostStore, ledger *store.VoteLedger,
	matcher *store.Matcher, router *store.Router, settings *store.Settings, mediaStore *media.Store) *PostHandler {
	return &PostHandler{
		db:       db,
		posts:    posts,
		ledger:   ledger,
		matcher:  matcher,
		router:   router,
		settings: settings,
		media:    mediaStore,
	}
}

// currentUserID extracts the authenticated user's id from the context.
func currentUserID(c *gin.Context) (uint, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		return uint(v), true
	case float64:
		return uint(v), true
	default:
		return 0, false
	}
}

func (h *PostHandler) currentUser(c *gin.Context) (*models.User, bool) {
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

func postResponse(post models.Post) gin.H {
	reading := resonance.Score(post.Protons, post.Electrons, post.Neutrons)
	return gin.H{
		"id":         post.ID,
		"user_id":    post.UserID,
		"username":   post.Username,
		"body":       post.Body,
		"media_path": post.MediaPath,
		"media_type": post.MediaType,
		"tags":       post.TagList(),
		"protons":    post.Protons,
		"electrons":  post.Electrons,
		"neutrons":   post.Neutrons,
		"status":     post.Status,
		"resonance":  reading,
		"created_at": post.CreatedAt,
	}
}

// GetPosts returns the feed, newest first. On the architect route,
// where RequireAdmin has put the role on the context,
// ?include_hidden=true also lists reported and removed posts.
func (h *PostHandler) GetPosts(c *gin.Context) {
	includeHidden := false
	if c.Query("include_hidden") == "true" {
		if role, _ := c.Get("role"); role == models.RoleAdmin {
			includeHidden = true
		}
	}

	posts, err := h.posts.List(includeHidden)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	responses := make([]gin.H, 0, len(posts))
	for _, post := range posts {
		responses = append(responses, postResponse(post))
	}

	c.JSON(http.StatusOK, responses)
}

// GetPost returns a single post by ID
func (h *PostHandler) GetPost(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post id"})
		return
	}

	post, err := h.posts.Get(uint(postID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	c.JSON(http.StatusOK, postResponse(*post))
}

// GetResonance returns just the stability reading for a post.
func (h *PostHandler) GetResonance(c *gin.Context) {
	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post id"})
		return
	}

	post, err := h.posts.Get(uint(postID))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	c.JSON(http.StatusOK, resonance.Score(post.Protons, post.Electrons, post.Neutrons))
}

// CreatePost logs a new anomaly report (PROTECTED - requires authentication).
// Accepts multipart form fields body, tags and an optional media file.
func (h *PostHandler) CreatePost(c *gin.Context) {
	user, ok := h.currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	body := c.PostForm("body")
	tags := c.PostForm("tags")

	mediaPath, mediaType := "", ""
	if file, err := c.FormFile("media"); err == nil {
		opened, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read upload"})
			return
		}
		data, err := io.ReadAll(opened)
		opened.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read upload"})
			return
		}

		mediaPath, mediaType, err = h.media.Save(data, file.Header.Get("Content-Type"))
		if err != nil {
			if errors.Is(err, media.ErrUnsupportedMedia) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported media type"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store media"})
			return
		}
	}

	post, err := h.posts.Create(*user, body, tags, mediaPath, mediaType)
	if err != nil {
		if errors.Is(err, store.ErrEmptyBody) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Status report cannot be empty"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create post"})
		return
	}

	matches, err := h.matcher.FindEntanglements(post.ID, entanglementWindow)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to scan for entanglements"})
		return
	}
	if len(matches) > 0 {
		text := fmt.Sprintf("SYSTEM SYNC DETECTED: %d witness report(s) share your resonance tags", len(matches))
		if _, err := h.router.Notify(user.ID, models.CategoryEntanglement, text, h.settings.For(user.ID)); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deliver alert"})
			return
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"post":         postResponse(*post),
		"entanglement": len(matches),
	})
}

// VotePost injects a particle reaction (PROTECTED - requires authentication)
func (h *PostHandler) VotePost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post id"})
		return
	}

	var input struct {
		Kind string `json:"kind" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Vote kind is required"})
		return
	}

	result, err := h.ledger.Cast(userID, uint(postID), input.Kind)
	if errors.Is(err, store.ErrConflict) {
		// Lost a race with another writer; the sequence is safe to retry.
		result, err = h.ledger.Cast(userID, uint(postID), input.Kind)
	}
	if err != nil {
		switch {
		case errors.Is(err, store.ErrInvalidKind):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Vote kind must be proton, electron or neutron"})
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		case errors.Is(err, store.ErrConflict):
			c.JSON(http.StatusConflict, gin.H{"error": "Vote conflict, please retry"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to vote"})
		}
		return
	}

	if result == store.VoteUnchanged {
		c.JSON(http.StatusOK, gin.H{"result": result, "message": "Energy signature already recorded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result, "message": "Particle injected"})
}

// ReportPost flags a post for the architect queue (PROTECTED)
func (h *PostHandler) ReportPost(c *gin.Context) {
	if _, ok := currentUserID(c); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	postID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post id"})
		return
	}

	if err := h.posts.Report(uint(postID)); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		case errors.Is(err, store.ErrStatusLocked):
			c.JSON(http.StatusConflict, gin.H{"error": "Post has been removed"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to report post"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post reported"})
}

// GetUserPosts returns all posts by a specific user
func (h *PostHandler) GetUserPosts(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	posts, err := h.posts.ListByUser(uint(userID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user posts"})
		return
	}

	responses := make([]gin.H, 0, len(posts))
	for _, post := range posts {
		responses = append(responses, postResponse(post))
	}
	c.JSON(http.StatusOK, responses)
}
