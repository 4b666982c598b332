package redis

import (
	"context"
	"fmt"

	"line-relay/internal/domain/model"
	"line-relay/internal/domain/ports/repository"
)

var _ repository.UserRegistry = (*UserRegistry)(nil)

// UserRegistry stores user ids in a single Redis set. SADD reports how many
// members were actually added, which makes RecordIfNew atomic across every
// process sharing the key.
type UserRegistry struct {
	client RedisClient
	key    string
}

func NewUserRegistry(client RedisClient, key string) *UserRegistry {
	if key == "" {
		key = "line:users"
	}
	return &UserRegistry{client: client, key: key}
}

func (r *UserRegistry) Contains(ctx context.Context, id model.UserID) (bool, error) {
	ok, err := r.client.SIsMember(ctx, r.key, id.String())
	if err != nil {
		return false, fmt.Errorf("redis sismember: %w", err)
	}
	return ok, nil
}

func (r *UserRegistry) RecordIfNew(ctx context.Context, id model.UserID) (bool, error) {
	n, err := r.client.SAdd(ctx, r.key, id.String())
	if err != nil {
		return false, fmt.Errorf("redis sadd: %w", err)
	}
	return n == 1, nil
}

func (r *UserRegistry) List(ctx context.Context) ([]model.UserID, error) {
	members, err := r.client.SMembers(ctx, r.key)
	if err != nil {
		return nil, fmt.Errorf("redis smembers: %w", err)
	}
	out := make([]model.UserID, 0, len(members))
	for _, m := range members {
		out = append(out, model.UserID(m))
	}
	return out, nil
}
