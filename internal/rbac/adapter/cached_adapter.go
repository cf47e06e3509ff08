package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"creatorstack/internal/rbac/model"
	"creatorstack/internal/rbac/util"

	"github.com/redis/go-redis/v9"
)

const (
	principalKeyPrefix = "creatorstack:principal:"
	roleIndexKeyPrefix = "creatorstack:role-holders:"
)

// CachedPrincipalAdapter fronts another PrincipalAdapter with Redis. Each
// cached principal is also indexed under its role so a role edit can drop
// every affected entry.
type CachedPrincipalAdapter struct {
	next   PrincipalAdapter
	client redis.UniversalClient
	ttl    time.Duration
}

func NewCachedPrincipalAdapter(next PrincipalAdapter, client redis.UniversalClient, ttl time.Duration) *CachedPrincipalAdapter {
	return &CachedPrincipalAdapter{next: next, client: client, ttl: ttl}
}

func (a *CachedPrincipalAdapter) ResolvePrincipal(ctx context.Context, userID string) (*model.Principal, error) {
	key := principalKeyPrefix + userID

	raw, err := a.client.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var p model.Principal
		if jsonErr := json.Unmarshal(raw, &p); jsonErr == nil {
			return &p, nil
		}
		// corrupt entry: fall through and overwrite
	case errors.Is(err, redis.Nil):
	default:
		util.GetLogger().Warn("principal cache read failed", "user_id", userID, "error", err)
	}

	p, err := a.next.ResolvePrincipal(ctx, userID)
	if err != nil {
		return nil, err
	}
	a.store(ctx, p)
	return p, nil
}

func (a *CachedPrincipalAdapter) store(ctx context.Context, p *model.Principal) {
	if a.ttl <= 0 {
		return
	}
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	pipe := a.client.TxPipeline()
	pipe.Set(ctx, principalKeyPrefix+p.ID, data, a.ttl)
	if p.Role != nil {
		idx := roleIndexKeyPrefix + p.Role.ID
		pipe.SAdd(ctx, idx, p.ID)
		pipe.Expire(ctx, idx, a.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		util.GetLogger().Warn("principal cache write failed", "user_id", p.ID, "error", err)
	}
}

func (a *CachedPrincipalAdapter) Invalidate(ctx context.Context, userID string) error {
	if err := a.client.Del(ctx, principalKeyPrefix+userID).Err(); err != nil {
		return err
	}
	return a.next.Invalidate(ctx, userID)
}

func (a *CachedPrincipalAdapter) InvalidateRole(ctx context.Context, roleID string) error {
	idx := roleIndexKeyPrefix + roleID
	holders, err := a.client.SMembers(ctx, idx).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}

	keys := make([]string, 0, len(holders)+1)
	for _, id := range holders {
		keys = append(keys, principalKeyPrefix+id)
	}
	keys = append(keys, idx)
	if err := a.client.Del(ctx, keys...).Err(); err != nil {
		return err
	}
	return a.next.InvalidateRole(ctx, roleID)
}
