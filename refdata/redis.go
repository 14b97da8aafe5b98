package refdata

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func idsKey(kind string) string {
	return fmt.Sprintf("freightcore:ids:%s", kind)
}

// SetIDs replaces the cached id set for one kind. An empty marker member
// keeps the key present even when the table is empty, so a synced empty
// set is distinguishable from a cold cache.
func (r *RedisStore) SetIDs(ctx context.Context, kind string, ids []int64) error {
	key := idsKey(kind)
	pipe := r.client.Pipeline()
	pipe.Del(ctx, key)
	members := make([]any, 0, len(ids)+1)
	members = append(members, "_synced")
	for _, id := range ids {
		members = append(members, id)
	}
	pipe.SAdd(ctx, key, members...)
	_, err := pipe.Exec(ctx)
	return err
}

// HasID reports membership of an id in a kind's cached set. found is
// false when the set has never been synced.
func (r *RedisStore) HasID(ctx context.Context, kind string, id int64) (ok, found bool, err error) {
	key := idsKey(kind)
	pipe := r.client.Pipeline()
	existsCmd := pipe.Exists(ctx, key)
	memberCmd := pipe.SIsMember(ctx, key, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, false, err
	}
	if existsCmd.Val() == 0 {
		return false, false, nil
	}
	return memberCmd.Val(), true, nil
}

func (r *RedisStore) AddID(ctx context.Context, kind string, id int64) error {
	return r.client.SAdd(ctx, idsKey(kind), id).Err()
}

func (r *RedisStore) RemoveID(ctx context.Context, kind string, id int64) error {
	return r.client.SRem(ctx, idsKey(kind), id).Err()
}

func (r *RedisStore) Flush(ctx context.Context, kinds []string) error {
	keys := make([]string, len(kinds))
	for i, k := range kinds {
		keys[i] = idsKey(k)
	}
	return r.client.Del(ctx, keys...).Err()
}
