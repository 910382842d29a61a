package repository

import "errors"

var (
	// ErrNotFound is returned by a versioned update when no row has the given id
	ErrNotFound = errors.New("record not found")
	// ErrStaleVersion is returned by a versioned update when the stored version
	// differs from the version the caller read; the stored row is left unchanged
	ErrStaleVersion = errors.New("stale version")
	// ErrUnknownSortField is returned by listings asked to order by a field outside the whitelist
	ErrUnknownSortField = errors.New("unknown sort field")
)
