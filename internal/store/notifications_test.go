package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentryleigh/decoherence-log/backend/internal/models"
)

type recordingSender struct {
	sent []string
}

func (r *recordingSender) Send(text string) error {
	r.sent = append(r.sent, text)
	return nil
}

func TestNotify_DisabledCategory(t *testing.T) {
	db := newTestDB(t)
	router := NewRouter(db, nil)
	user := createTestUser(t, db, "ryleigh")

	settings := map[string]bool{models.CategoryBrand: false}
	notification, err := router.Notify(user.ID, models.CategoryBrand, "sponsored static", settings)
	require.NoError(t, err)
	assert.Nil(t, notification)

	list, err := router.List(user.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestNotify_EnabledCategory(t *testing.T) {
	db := newTestDB(t)
	router := NewRouter(db, nil)
	user := createTestUser(t, db, "ryleigh")

	settings := map[string]bool{models.CategoryBrand: true}
	notification, err := router.Notify(user.ID, models.CategoryBrand, "sponsored static", settings)
	require.NoError(t, err)
	require.NotNil(t, notification)
	assert.False(t, notification.Read)

	list, err := router.List(user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, notification.ID, list[0].ID)
}

func TestNotify_UnknownCategoryFailsOpen(t *testing.T) {
	db := newTestDB(t)
	router := NewRouter(db, nil)
	user := createTestUser(t, db, "ryleigh")

	notification, err := router.Notify(user.ID, "seance", "unclassified signal", map[string]bool{})
	require.NoError(t, err)
	assert.NotNil(t, notification)
}

func TestNotify_MostRecentFirst(t *testing.T) {
	db := newTestDB(t)
	router := NewRouter(db, nil)
	user := createTestUser(t, db, "ryleigh")

	first, err := router.Notify(user.ID, models.CategoryMessage, "first", nil)
	require.NoError(t, err)
	second, err := router.Notify(user.ID, models.CategoryMessage, "second", nil)
	require.NoError(t, err)

	list, err := router.List(user.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)
	assert.Equal(t, first.ID, list[1].ID)
}

func TestMarkSeen_Idempotent(t *testing.T) {
	db := newTestDB(t)
	router := NewRouter(db, nil)
	user := createTestUser(t, db, "ryleigh")

	notification, err := router.Notify(user.ID, models.CategoryObserver, "the fold answered", nil)
	require.NoError(t, err)

	require.NoError(t, router.MarkSeen(user.ID, notification.ID))
	require.NoError(t, router.MarkSeen(user.ID, notification.ID))

	list, err := router.List(user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].Read)
}

func TestMarkSeen_NotFound(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "ryleigh")

	err := NewRouter(db, nil).MarkSeen(user.ID, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMarkSeen_OtherUsersNotification(t *testing.T) {
	db := newTestDB(t)
	router := NewRouter(db, nil)
	owner := createTestUser(t, db, "ryleigh")
	stranger := createTestUser(t, db, "marrow")

	notification, err := router.Notify(owner.ID, models.CategoryObserver, "the fold answered", nil)
	require.NoError(t, err)

	err = router.MarkSeen(stranger.ID, notification.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := router.List(owner.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.False(t, list[0].Read)
}

func TestNotify_SMSFanOutForEntanglement(t *testing.T) {
	db := newTestDB(t)
	sender := &recordingSender{}
	router := NewRouter(db, sender)
	user := createTestUser(t, db, "ryleigh")

	_, err := router.Notify(user.ID, models.CategoryEntanglement, "sync detected", nil)
	require.NoError(t, err)
	_, err = router.Notify(user.ID, models.CategoryMessage, "plain message", nil)
	require.NoError(t, err)

	// Only entanglement alerts fan out over SMS.
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "sync detected", sender.sent[0])
}

func TestSettings_DefaultsAndToggles(t *testing.T) {
	settings := NewSettings()

	// Untouched users have an empty map: every category fails open.
	assert.Empty(t, settings.For(1))

	settings.Set(1, models.CategoryBrand, false)
	settings.Set(1, models.CategoryEntanglement, true)

	got := settings.For(1)
	assert.False(t, got[models.CategoryBrand])
	assert.True(t, got[models.CategoryEntanglement])

	// Another user is unaffected.
	assert.Empty(t, settings.For(2))
}
