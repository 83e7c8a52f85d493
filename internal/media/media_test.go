package media

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentryleigh/decoherence-log/backend/internal/models"
)

func TestSave_Image(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "uploads"))

	path, kind, err := store.Save([]byte{0x89, 0x50, 0x4E, 0x47}, "image/png")
	require.NoError(t, err)
	assert.Equal(t, models.MediaImage, kind)
	assert.True(t, strings.HasSuffix(path, ".png"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 0x50, 0x4E, 0x47}, data)
}

func TestSave_Video(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "uploads"))

	path, kind, err := store.Save([]byte("mp4 bytes"), "video/mp4")
	require.NoError(t, err)
	assert.Equal(t, models.MediaVideo, kind)
	assert.True(t, strings.HasSuffix(path, ".mp4"))
}

func TestSave_UnsupportedMime(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	store := NewStore(dir)

	_, _, err := store.Save([]byte("#!/bin/sh"), "application/x-sh")
	assert.ErrorIs(t, err, ErrUnsupportedMedia)

	// nothing written, not even the directory
	_, statErr := os.Stat(dir)
	assert.True(t, os.IsNotExist(statErr))
}

func TestSave_UniqueNames(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "uploads"))

	first, _, err := store.Save([]byte("a"), "image/jpeg")
	require.NoError(t, err)
	second, _, err := store.Save([]byte("b"), "image/jpeg")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}
