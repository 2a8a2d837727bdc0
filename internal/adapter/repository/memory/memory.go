// Package memory provides an in-process URL repository.
//
// It enforces the same two uniqueness constraints as the Postgres repository and
// applies every operation atomically under a single lock, which makes it suitable
// for development and for exercising concurrent shortening in tests. Records do not
// survive a restart.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/vadimbarashkov/shortly/internal/entity"
)

type URLRepository struct {
	mu            sync.RWMutex
	nextID        int64
	byShortCode   map[string]*entity.URL
	byOriginalURL map[string]*entity.URL
}

func NewURLRepository() *URLRepository {
	return &URLRepository{
		byShortCode:   make(map[string]*entity.URL),
		byOriginalURL: make(map[string]*entity.URL),
	}
}

func (r *URLRepository) FindByOriginalURL(_ context.Context, originalURL string) (*entity.URL, error) {
	const op = "adapter.repository.memory.URLRepository.FindByOriginalURL"

	r.mu.RLock()
	defer r.mu.RUnlock()

	url, ok := r.byOriginalURL[originalURL]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
	}

	return clone(url), nil
}

func (r *URLRepository) FindByShortCode(_ context.Context, shortCode string) (*entity.URL, error) {
	const op = "adapter.repository.memory.URLRepository.FindByShortCode"

	r.mu.RLock()
	defer r.mu.RUnlock()

	url, ok := r.byShortCode[shortCode]
	if !ok {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
	}

	return clone(url), nil
}

func (r *URLRepository) CreateIfAbsent(_ context.Context, url *entity.URL) (*entity.URL, error) {
	const op = "adapter.repository.memory.URLRepository.CreateIfAbsent"

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byShortCode[url.ShortCode]; ok {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrConflict)
	}
	if _, ok := r.byOriginalURL[url.OriginalURL]; ok {
		return nil, fmt.Errorf("%s: %w", op, entity.ErrConflict)
	}

	r.nextID++
	now := time.Now()

	rec := clone(url)
	rec.ID = r.nextID
	rec.CreatedAt = now
	rec.UpdatedAt = now

	r.byShortCode[rec.ShortCode] = rec
	r.byOriginalURL[rec.OriginalURL] = rec

	return clone(rec), nil
}

func (r *URLRepository) IncrementRequestCount(_ context.Context, originalURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if url, ok := r.byOriginalURL[originalURL]; ok {
		url.RequestCount++
		url.UpdatedAt = time.Now()
	}

	return nil
}

func (r *URLRepository) IncrementUsedCount(_ context.Context, shortCode string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if url, ok := r.byShortCode[shortCode]; ok {
		url.UsedCount++
		url.UpdatedAt = time.Now()
	}

	return nil
}

func clone(url *entity.URL) *entity.URL {
	c := *url
	return &c
}
