package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/gamevault/catalog-api/internal/game"
	"github.com/gamevault/catalog-api/internal/store"
)

// MockStore is a mock implementation of the ItemStore interface.
type MockStore struct {
	mock.Mock
}

var _ ItemStore = (*MockStore)(nil)

func (m *MockStore) Put(ctx context.Context, g game.Game) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *MockStore) Get(ctx context.Context, itemType, itemID string) (game.Record, error) {
	args := m.Called(ctx, itemType, itemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(game.Record), args.Error(1)
}

func (m *MockStore) UpdateFields(ctx context.Context, itemType, itemID string, fields map[string]any) (game.Record, error) {
	args := m.Called(ctx, itemType, itemID, fields)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(game.Record), args.Error(1)
}

func (m *MockStore) DeleteOne(ctx context.Context, itemType, itemID string) error {
	args := m.Called(ctx, itemType, itemID)
	return args.Error(0)
}

func (m *MockStore) ScanByType(ctx context.Context, itemType string, visible *bool) ([]game.Record, error) {
	args := m.Called(ctx, itemType, visible)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]game.Record), args.Error(1)
}

func (m *MockStore) ScanKeysByType(ctx context.Context, itemType string) ([]store.Key, error) {
	args := m.Called(ctx, itemType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.Key), args.Error(1)
}

func (m *MockStore) DeleteBatch(ctx context.Context, keys []store.Key) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

// MockTranslator is a mock implementation of the Translator interface.
type MockTranslator struct {
	mock.Mock
}

var _ Translator = (*MockTranslator)(nil)

func (m *MockTranslator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	args := m.Called(ctx, text, sourceLang, targetLang)
	return args.String(0), args.Error(1)
}
