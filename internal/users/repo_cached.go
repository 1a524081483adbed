package users

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/NancyCima/Azure-Dashboard/internal/shared/metrics"
	"github.com/NancyCima/Azure-Dashboard/internal/shared/storage/cache"
	"github.com/NancyCima/Azure-Dashboard/internal/shared/telemetry"
	"github.com/NancyCima/Azure-Dashboard/internal/shared/util"
)

const defaultCacheTTL = 10 * time.Minute

// CachedRepo keeps credentials in Redis in front of another Repo. A changed
// password is only seen once the cached entry expires.
type CachedRepo struct {
	Repo   Repo
	Cache  *cache.RedisClient
	TTL    time.Duration
	Logger telemetry.Logger
}

// NewCachedRepo wraps repo with a Redis cache.
func NewCachedRepo(repo Repo, c *cache.RedisClient, ttl time.Duration, logger telemetry.Logger) *CachedRepo {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if logger == nil {
		logger = telemetry.Default()
	}
	return &CachedRepo{Repo: repo, Cache: c, TTL: ttl, Logger: logger}
}

// CacheKey is the Redis key for username.
func CacheKey(username string) string {
	return "credentials:" + util.HashKey(username)
}

func (r *CachedRepo) GetByUsername(ctx context.Context, username string) (Credential, error) {
	key := CacheKey(username)
	val, err := r.Cache.Get(ctx, key)
	switch {
	case err == nil:
		var cred Credential
		if jsonErr := json.Unmarshal([]byte(val), &cred); jsonErr == nil {
			metrics.CredentialCache.WithLabelValues("hit").Inc()
			return cred, nil
		}
		metrics.CredentialCache.WithLabelValues("error").Inc()
		r.Logger.Warn("users.cache_decode_failed", map[string]any{"key": key})
	case errors.Is(err, cache.ErrMiss):
		metrics.CredentialCache.WithLabelValues("miss").Inc()
	default:
		metrics.CredentialCache.WithLabelValues("error").Inc()
		r.Logger.Warn("users.cache_get_failed", map[string]any{"key": key, "error": err.Error()})
	}

	cred, err := r.Repo.GetByUsername(ctx, username)
	if err != nil {
		return Credential{}, err
	}
	data, err := json.Marshal(cred)
	if err == nil {
		err = r.Cache.Set(ctx, key, data, r.TTL)
	}
	if err != nil {
		r.Logger.Warn("users.cache_set_failed", map[string]any{"key": key, "error": err.Error()})
	}
	return cred, nil
}

func (r *CachedRepo) Create(ctx context.Context, username, passwordHash string) (Credential, error) {
	cred, err := r.Repo.Create(ctx, username, passwordHash)
	if err != nil {
		return Credential{}, err
	}
	if err := r.Cache.Del(ctx, CacheKey(username)); err != nil {
		r.Logger.Warn("users.cache_del_failed", map[string]any{"error": err.Error()})
	}
	return cred, nil
}
