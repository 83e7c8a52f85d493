package store

import "errors"

var (
	ErrEmptyBody    = errors.New("post body is empty")
	ErrInvalidKind  = errors.New("unknown vote kind")
	ErrNotFound     = errors.New("record not found")
	ErrPermission   = errors.New("permission denied")
	ErrConflict     = errors.New("concurrent write detected")
	ErrBadStatus    = errors.New("unknown moderation status")
	ErrStatusLocked = errors.New("removed posts cannot change status")
)
