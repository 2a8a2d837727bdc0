// Package entity defines the entities and errors shared by the shortener layers.
// It includes the URL struct, the single persisted record that maps an original
// URL to its short code, together with its request and usage counters.
package entity

import (
	"errors"
	"time"
)

var (
	// ErrConflict is returned by a repository when creating a URL violates the
	// uniqueness of either its short code or its original URL.
	ErrConflict = errors.New("url record conflict")
	// ErrURLNotFound is returned when no URL matches the requested short code or original URL.
	ErrURLNotFound = errors.New("url not found")
)

// URL represents a shortened URL.
type URL struct {
	ID          int64     // ID is the unique identifier of the URL in the database.
	ShortCode   string    // ShortCode is the prefixed code the original URL was shortened to.
	OriginalURL string    // OriginalURL is the full URL that the short code resolves to.
	URLStats              // URLStats contains the counters of the URL.
	CreatedAt   time.Time // CreatedAt is the timestamp when the URL was created.
	UpdatedAt   time.Time // UpdatedAt is the timestamp when a counter of the URL last changed.
}

// URLStats contains the counters of a shortened URL.
type URLStats struct {
	RequestCount int64 // RequestCount is the number of times shortening was requested for the original URL.
	UsedCount    int64 // UsedCount is the number of times the short code was resolved.
}
