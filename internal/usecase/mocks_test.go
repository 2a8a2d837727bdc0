package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vadimbarashkov/shortly/internal/entity"
)

type mockURLRepository struct {
	mock.Mock
}

func (r *mockURLRepository) FindByOriginalURL(ctx context.Context, originalURL string) (*entity.URL, error) {
	args := r.Called(ctx, originalURL)
	url, _ := args.Get(0).(*entity.URL)
	return url, args.Error(1)
}

func (r *mockURLRepository) FindByShortCode(ctx context.Context, shortCode string) (*entity.URL, error) {
	args := r.Called(ctx, shortCode)
	url, _ := args.Get(0).(*entity.URL)
	return url, args.Error(1)
}

func (r *mockURLRepository) CreateIfAbsent(ctx context.Context, url *entity.URL) (*entity.URL, error) {
	args := r.Called(ctx, url)
	created, _ := args.Get(0).(*entity.URL)
	return created, args.Error(1)
}

func (r *mockURLRepository) IncrementRequestCount(ctx context.Context, originalURL string) error {
	args := r.Called(ctx, originalURL)
	return args.Error(0)
}

func (r *mockURLRepository) IncrementUsedCount(ctx context.Context, shortCode string) error {
	args := r.Called(ctx, shortCode)
	return args.Error(0)
}

type mockURLCache struct {
	mock.Mock
}

func (c *mockURLCache) GetOriginalURL(ctx context.Context, shortCode string) (string, bool, error) {
	args := c.Called(ctx, shortCode)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (c *mockURLCache) SetOriginalURL(ctx context.Context, shortCode, originalURL string) error {
	args := c.Called(ctx, shortCode, originalURL)
	return args.Error(0)
}
