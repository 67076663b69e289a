package settings

import (
	"context"
)

const testPrefix = "nivosearch:"

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetFn         func(ctx context.Context, key string, fields map[string]string) error
	hgetAllFn      func(ctx context.Context, key string) (map[string]string, error)
	hgetAllMultiFn func(ctx context.Context, keys []string) ([]map[string]string, error)
	hdelFn         func(ctx context.Context, key string, fields ...string) error
	delFn          func(ctx context.Context, key string) error
	existsFn       func(ctx context.Context, key string) (bool, error)
	scanFn         func(ctx context.Context, pattern string) ([]string, error)
	incrFn         func(ctx context.Context, key string) (int64, error)
}

func (m *mockStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	if m.hsetFn != nil {
		return m.hsetFn(ctx, key, fields)
	}
	return nil
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return map[string]string{}, nil
}

func (m *mockStore) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	if m.hgetAllMultiFn != nil {
		return m.hgetAllMultiFn(ctx, keys)
	}
	return nil, nil
}

func (m *mockStore) HDel(ctx context.Context, key string, fields ...string) error {
	if m.hdelFn != nil {
		return m.hdelFn(ctx, key, fields...)
	}
	return nil
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func (m *mockStore) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, key)
	}
	return false, nil
}

func (m *mockStore) Scan(ctx context.Context, pattern string) ([]string, error) {
	if m.scanFn != nil {
		return m.scanFn(ctx, pattern)
	}
	return nil, nil
}

func (m *mockStore) Incr(ctx context.Context, key string) (int64, error) {
	if m.incrFn != nil {
		return m.incrFn(ctx, key)
	}
	return 1, nil
}

func newTestRepo(s *mockStore) *Repo {
	return New(s, testPrefix)
}
