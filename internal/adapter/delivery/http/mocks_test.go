package http

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vadimbarashkov/shortly/internal/entity"
)

type mockURLUseCase struct {
	mock.Mock
}

func (m *mockURLUseCase) ShortenURL(ctx context.Context, originalURL string) (*entity.URL, error) {
	args := m.Called(ctx, originalURL)

	var url *entity.URL
	if v := args.Get(0); v != nil {
		url = v.(*entity.URL)
	}

	return url, args.Error(1)
}

func (m *mockURLUseCase) ResolveShortCode(ctx context.Context, shortCode string) (string, bool, error) {
	args := m.Called(ctx, shortCode)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *mockURLUseCase) RecordUsed(ctx context.Context, shortCode string) error {
	args := m.Called(ctx, shortCode)
	return args.Error(0)
}

func (m *mockURLUseCase) GetURLStats(ctx context.Context, shortCode string) (*entity.URL, bool, error) {
	args := m.Called(ctx, shortCode)

	var url *entity.URL
	if v := args.Get(0); v != nil {
		url = v.(*entity.URL)
	}

	return url, args.Bool(1), args.Error(2)
}
