package redis

import (
	"context"

	"github.com/kailas-cloud/nivosearch/internal/db"
)

// Incr atomically increments a counter and returns the new value.
func (s *Store) Incr(ctx context.Context, key string) (int64, error) {
	cmd := s.b().Incr().Key(key).Build()
	n, err := s.do(ctx, cmd).AsInt64()
	if err != nil {
		return 0, &db.Error{Op: db.OpIncr, Err: err}
	}
	return n, nil
}
