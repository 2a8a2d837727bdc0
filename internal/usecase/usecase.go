package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/vadimbarashkov/shortly/internal/entity"
)

const (
	// maxRetries bounds the salted attempts made to find a free short code.
	maxRetries = 5
	// maxCreatePasses bounds full create passes when a conflict leaves no visible record.
	maxCreatePasses = 2
)

var (
	// ErrCodeSpaceExhausted is returned when every candidate short code for a URL is already taken.
	ErrCodeSpaceExhausted = errors.New("no free short code within retry budget")
	// ErrInconsistentConflict is returned when creating a URL conflicts
	// but no record with the same original URL can be found.
	ErrInconsistentConflict = errors.New("create conflict without matching url")
)

type urlRepository interface {
	FindByOriginalURL(ctx context.Context, originalURL string) (*entity.URL, error)
	FindByShortCode(ctx context.Context, shortCode string) (*entity.URL, error)
	CreateIfAbsent(ctx context.Context, url *entity.URL) (*entity.URL, error)
	IncrementRequestCount(ctx context.Context, originalURL string) error
	IncrementUsedCount(ctx context.Context, shortCode string) error
}

type urlCache interface {
	GetOriginalURL(ctx context.Context, shortCode string) (string, bool, error)
	SetOriginalURL(ctx context.Context, shortCode, originalURL string) error
}

type codeGenerator interface {
	Generate(url string, attempt int) string
}

// URLUseCase shortens URLs and serves their resolution and statistics.
//
// It keeps no mutable state of its own: concurrent shortening of the same URL is
// arbitrated by the repository's uniqueness constraints, and both counters are
// changed only through the repository's atomic increments.
type URLUseCase struct {
	urlRepo urlRepository
	gen     codeGenerator
	cache   urlCache
	logger  *slog.Logger
}

// Option configures optional dependencies of URLUseCase.
type Option func(*URLUseCase)

// WithCache makes ResolveShortCode consult cache before the repository.
func WithCache(cache urlCache) Option {
	return func(uc *URLUseCase) {
		uc.cache = cache
	}
}

// WithLogger sets the logger used for conflict and cache diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(uc *URLUseCase) {
		uc.logger = logger
	}
}

func NewURLUseCase(urlRepo urlRepository, gen codeGenerator, opts ...Option) *URLUseCase {
	uc := &URLUseCase{
		urlRepo: urlRepo,
		gen:     gen,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// ShortenURL returns the record for originalURL, creating it on the first request.
//
// The record is created optimistically. When the repository reports a conflict, some
// other request already owns originalURL: its request count is incremented and the
// existing record is returned with the count it is expected to hold afterwards.
// That count is advisory under concurrent requests.
func (uc *URLUseCase) ShortenURL(ctx context.Context, originalURL string) (*entity.URL, error) {
	const op = "usecase.URLUseCase.ShortenURL"

	for pass := 0; pass < maxCreatePasses; pass++ {
		url, err := uc.create(ctx, originalURL)
		if err == nil {
			return url, nil
		}
		if !errors.Is(err, entity.ErrConflict) {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		uc.logger.Info("url already shortened", slog.String("original_url", originalURL))

		existing, err := uc.urlRepo.FindByOriginalURL(ctx, originalURL)
		if err != nil {
			if errors.Is(err, entity.ErrURLNotFound) {
				continue
			}

			return nil, fmt.Errorf("%s: failed to find existing url: %w", op, err)
		}

		if err := uc.urlRepo.IncrementRequestCount(ctx, originalURL); err != nil {
			return nil, fmt.Errorf("%s: failed to increment request count: %w", op, err)
		}

		existing.RequestCount++

		return existing, nil
	}

	uc.logger.Warn("url conflict without existing record", slog.String("original_url", originalURL))

	return nil, fmt.Errorf("%s: %w", op, ErrInconsistentConflict)
}

func (uc *URLUseCase) create(ctx context.Context, originalURL string) (*entity.URL, error) {
	shortCode, err := uc.freeShortCode(ctx, originalURL)
	if err != nil {
		return nil, err
	}

	return uc.urlRepo.CreateIfAbsent(ctx, &entity.URL{
		ShortCode:   shortCode,
		OriginalURL: originalURL,
		URLStats: entity.URLStats{
			RequestCount: 1,
			UsedCount:    0,
		},
	})
}

func (uc *URLUseCase) freeShortCode(ctx context.Context, originalURL string) (string, error) {
	for attempt := 0; attempt < maxRetries; attempt++ {
		shortCode := uc.gen.Generate(originalURL, attempt)

		_, err := uc.urlRepo.FindByShortCode(ctx, shortCode)
		if errors.Is(err, entity.ErrURLNotFound) {
			return shortCode, nil
		}
		if err != nil {
			return "", fmt.Errorf("failed to check short code: %w", err)
		}
	}

	uc.logger.Warn("failed to find free short code", slog.String("original_url", originalURL))

	return "", ErrCodeSpaceExhausted
}

// ResolveShortCode returns the original URL behind shortCode. It reports false when
// the code is unknown and never counts a use; see RecordUsed.
func (uc *URLUseCase) ResolveShortCode(ctx context.Context, shortCode string) (string, bool, error) {
	const op = "usecase.URLUseCase.ResolveShortCode"

	if uc.cache != nil {
		originalURL, ok, err := uc.cache.GetOriginalURL(ctx, shortCode)
		if err != nil {
			uc.logger.Warn("failed to read url cache", slog.String("short_code", shortCode), slog.Any("err", err))
		}
		if ok {
			return originalURL, true, nil
		}
	}

	url, err := uc.urlRepo.FindByShortCode(ctx, shortCode)
	if err != nil {
		if errors.Is(err, entity.ErrURLNotFound) {
			return "", false, nil
		}

		return "", false, fmt.Errorf("%s: failed to resolve short code: %w", op, err)
	}

	if uc.cache != nil {
		if err := uc.cache.SetOriginalURL(ctx, shortCode, url.OriginalURL); err != nil {
			uc.logger.Warn("failed to fill url cache", slog.String("short_code", shortCode), slog.Any("err", err))
		}
	}

	return url.OriginalURL, true, nil
}

// RecordUsed counts one resolution of shortCode. Unknown codes are ignored.
func (uc *URLUseCase) RecordUsed(ctx context.Context, shortCode string) error {
	const op = "usecase.URLUseCase.RecordUsed"

	if err := uc.urlRepo.IncrementUsedCount(ctx, shortCode); err != nil {
		return fmt.Errorf("%s: failed to increment used count: %w", op, err)
	}

	return nil
}

// GetURLStats returns the record of shortCode with its current counters.
// It reports false when the code is unknown.
func (uc *URLUseCase) GetURLStats(ctx context.Context, shortCode string) (*entity.URL, bool, error) {
	const op = "usecase.URLUseCase.GetURLStats"

	url, err := uc.urlRepo.FindByShortCode(ctx, shortCode)
	if err != nil {
		if errors.Is(err, entity.ErrURLNotFound) {
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("%s: failed to get url stats: %w", op, err)
	}

	return url, true, nil
}
