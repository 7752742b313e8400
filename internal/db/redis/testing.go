package redis

import "github.com/redis/rueidis"

// NewStoreForTest wraps a prepared rueidis client, typically a
// github.com/redis/rueidis/mock client.
func NewStoreForTest(c rueidis.Client) *Store {
	return &Store{client: c}
}
