package kv

import (
	"context"
	"testing"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	getFn  func(ctx context.Context, key string) ([]byte, error)
	putFn  func(ctx context.Context, key string, value []byte) (int64, error)
	genFn  func(ctx context.Context, key string) (int64, error)
	pingFn func(ctx context.Context) error
}

func (m *mockStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return []byte("[]"), nil
}

func (m *mockStore) Put(ctx context.Context, key string, value []byte) (int64, error) {
	if m.putFn != nil {
		return m.putFn(ctx, key, value)
	}
	return 1, nil
}

func (m *mockStore) Generation(ctx context.Context, key string) (int64, error) {
	if m.genFn != nil {
		return m.genFn(ctx, key)
	}
	return 0, nil
}

func (m *mockStore) Ping(ctx context.Context) error {
	if m.pingFn != nil {
		return m.pingFn(ctx)
	}
	return nil
}

const testKey = "coursesearch:catalog"

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, testKey), ms
}
