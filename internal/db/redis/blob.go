package redis

import (
	"context"
	"fmt"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/coursesearch/internal/db"
)

// Get retrieves a value by key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	cmd := s.b().Get().Key(key).Build()
	data, err := s.do(ctx, cmd).AsBytes()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, db.ErrKeyNotFound
		}
		return nil, &db.Error{Op: db.OpGet, Key: key, Err: err}
	}
	return data, nil
}

// Put replaces the value at key and increments its generation inside one
// MULTI/EXEC, returning the new generation.
func (s *Store) Put(ctx context.Context, key string, value []byte) (int64, error) {
	results := s.client.DoMulti(ctx,
		s.b().Multi().Build(),
		s.b().Set().Key(key).Value(rueidis.BinaryString(value)).Build(),
		s.b().Incr().Key(db.GenerationKey(key)).Build(),
		s.b().Exec().Build(),
	)
	for _, res := range results {
		if err := res.Error(); err != nil {
			return 0, &db.Error{Op: db.OpPut, Key: key, Err: err}
		}
	}

	replies, err := results[len(results)-1].ToArray()
	if err != nil {
		return 0, &db.Error{Op: db.OpPut, Key: key, Err: err}
	}
	if len(replies) != 2 {
		return 0, &db.Error{Op: db.OpPut, Key: key, Err: fmt.Errorf("transaction aborted: %d replies", len(replies))}
	}
	gen, err := replies[1].AsInt64()
	if err != nil {
		return 0, &db.Error{Op: db.OpPut, Key: key, Err: err}
	}
	return gen, nil
}

// Generation returns how many times key was written by Put. A key never
// written has generation 0.
func (s *Store) Generation(ctx context.Context, key string) (int64, error) {
	cmd := s.b().Get().Key(db.GenerationKey(key)).Build()
	n, err := s.do(ctx, cmd).AsInt64()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return 0, nil
		}
		return 0, &db.Error{Op: db.OpGeneration, Key: key, Err: err}
	}
	return n, nil
}
