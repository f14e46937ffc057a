package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"billing/internal/core/apperror"
	"billing/internal/domain/drafts"
)

// DefaultDraftPrefix namespaces draft keys.
const DefaultDraftPrefix = "billing:draft:"

// RedisDraftStore keeps drafts in Redis. Expiry is delegated to key TTLs.
type RedisDraftStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisDraftStore creates a Redis-backed draft store.
func NewRedisDraftStore(client redis.UniversalClient, prefix string) *RedisDraftStore {
	if prefix == "" {
		prefix = DefaultDraftPrefix
	}
	return &RedisDraftStore{client: client, prefix: prefix}
}

func (s *RedisDraftStore) key(token string) string {
	return s.prefix + token
}

// Save implements drafts.Store.
func (s *RedisDraftStore) Save(ctx context.Context, d *drafts.Draft, ttl time.Duration) error {
	if ttl <= 0 {
		return apperror.NewValidation("draft ttl must be positive")
	}
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	if err := s.client.Set(ctx, s.key(d.Token), data, ttl).Err(); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

// Get implements drafts.Store.
func (s *RedisDraftStore) Get(ctx context.Context, token string) (*drafts.Draft, error) {
	data, err := s.client.Get(ctx, s.key(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperror.NewNotFound("draft", token)
	}
	if err != nil {
		return nil, fmt.Errorf("get draft: %w", err)
	}

	var d drafts.Draft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("unmarshal draft: %w", err)
	}
	return &d, nil
}

// Delete implements drafts.Store.
func (s *RedisDraftStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.key(token)).Err(); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}

var _ drafts.Store = (*RedisDraftStore)(nil)
