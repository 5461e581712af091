// Package cache provides caching implementations for repository interfaces.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"task_backend/internal/feature/tasks/domain/entity"
	"task_backend/internal/feature/tasks/usecase"
)

// CachingTaskRepository decorates a TaskRepository with Redis caching.
// Keys are partitioned by owner ("<namespace>:<ownerID>:..."), so a cached
// entry can only ever be served to the user who owns it.
//
// Each owner has a generation counter at "<namespace>:<ownerID>:gen" and
// entries live under "<namespace>:<ownerID>:<gen>:...". A write bumps the
// counter after the store committed, so a fill computed from a read that
// raced the write lands under a generation that is never read again.
// Abandoned generations expire with the TTL.
type CachingTaskRepository struct {
	inner     usecase.TaskRepository
	rdb       *redis.Client
	ttl       time.Duration
	namespace string
	now       func() time.Time
}

var _ usecase.TaskRepository = (*CachingTaskRepository)(nil)

// NewCachingTaskRepository decorates a TaskRepository with Redis caching.
// If ttl is 0, it defaults to 5 minutes. If namespace is empty, it uses "tasks".
// A nil rdb disables caching.
func NewCachingTaskRepository(rdb *redis.Client, ttl time.Duration, inner usecase.TaskRepository, namespace string) *CachingTaskRepository {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if namespace == "" {
		namespace = "tasks"
	}
	return &CachingTaskRepository{
		inner:     inner,
		rdb:       rdb,
		ttl:       ttl,
		namespace: namespace,
		now:       time.Now,
	}
}

// ListByOwner returns the owner's tasks, checking cache first then falling back to the database.
func (c *CachingTaskRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]entity.Task, error) {
	if c.rdb == nil {
		return c.inner.ListByOwner(ctx, ownerID)
	}
	gen, ok := c.generation(ctx, ownerID)
	if !ok {
		return c.inner.ListByOwner(ctx, ownerID)
	}

	key := c.listKey(ownerID, gen)
	var out []entity.Task
	if c.get(ctx, key, &out) {
		return out, nil
	}

	out, err := c.inner.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, out)
	return out, nil
}

// FindOwned returns a single task, checking cache first. Misses are not cached.
func (c *CachingTaskRepository) FindOwned(ctx context.Context, id, ownerID uuid.UUID) (*entity.Task, error) {
	if c.rdb == nil {
		return c.inner.FindOwned(ctx, id, ownerID)
	}
	gen, ok := c.generation(ctx, ownerID)
	if !ok {
		return c.inner.FindOwned(ctx, id, ownerID)
	}

	key := c.itemKey(ownerID, gen, id)
	var cached entity.Task
	if c.get(ctx, key, &cached) {
		return &cached, nil
	}

	task, err := c.inner.FindOwned(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	c.set(ctx, key, task)
	return task, nil
}

// Create inserts a task and invalidates the owner's cache entries.
func (c *CachingTaskRepository) Create(ctx context.Context, task *entity.Task) error {
	if err := c.inner.Create(ctx, task); err != nil {
		return err
	}
	c.invalidate(ctx, task.UserID)
	return nil
}

// UpdateOwned updates a task and invalidates the owner's cache entries.
func (c *CachingTaskRepository) UpdateOwned(ctx context.Context, id, ownerID uuid.UUID, patch entity.TaskPatch) (*entity.Task, error) {
	task, err := c.inner.UpdateOwned(ctx, id, ownerID, patch)
	if err != nil {
		return nil, err
	}
	c.invalidate(ctx, ownerID)
	return task, nil
}

// DeleteOwned deletes a task and invalidates the owner's cache entries.
func (c *CachingTaskRepository) DeleteOwned(ctx context.Context, id, ownerID uuid.UUID) error {
	if err := c.inner.DeleteOwned(ctx, id, ownerID); err != nil {
		return err
	}
	c.invalidate(ctx, ownerID)
	return nil
}

// generation returns the owner's current cache generation. A missing
// counter is seeded from the clock so a lost counter never revives entries
// of an earlier generation. ok is false when Redis cannot be reached.
func (c *CachingTaskRepository) generation(ctx context.Context, ownerID uuid.UUID) (string, bool) {
	key := c.genKey(ownerID)
	gen, err := c.rdb.Get(ctx, key).Result()
	if err == nil && gen != "" {
		return gen, true
	}
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", false
	}

	seed := c.seed()
	created, err := c.rdb.SetNX(ctx, key, seed, 0).Result()
	if err != nil {
		return "", false
	}
	if created {
		return seed, true
	}
	// Another request seeded it first.
	gen, err = c.rdb.Get(ctx, key).Result()
	if err != nil || gen == "" {
		return "", false
	}
	return gen, true
}

func (c *CachingTaskRepository) seed() string {
	return strconv.FormatInt(c.now().UnixNano(), 10)
}

// get decodes a cached value into dst. Corrupted entries are deleted.
func (c *CachingTaskRepository) get(ctx context.Context, key string, dst any) bool {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil || len(b) == 0 {
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		// Delete corrupted cache entry
		_ = c.rdb.Del(ctx, key).Err()
		return false
	}
	return true
}

// set stores v in cache (best effort).
func (c *CachingTaskRepository) set(ctx context.Context, key string, v any) {
	if b, err := json.Marshal(v); err == nil {
		_ = c.rdb.Set(ctx, key, b, c.ttl).Err()
	}
}

// invalidate moves the owner to a new generation (best effort). If Redis
// is unreachable here, entries of the old generation stay visible until
// their TTL expires.
func (c *CachingTaskRepository) invalidate(ctx context.Context, ownerID uuid.UUID) {
	if c.rdb == nil {
		return
	}
	key := c.genKey(ownerID)
	if err := c.rdb.SetNX(ctx, key, c.seed(), 0).Err(); err != nil {
		return
	}
	_ = c.rdb.Incr(ctx, key).Err()
}

func (c *CachingTaskRepository) ownerPrefix(ownerID uuid.UUID) string {
	return fmt.Sprintf("%s:%s:", c.namespace, ownerID)
}

func (c *CachingTaskRepository) genKey(ownerID uuid.UUID) string {
	return c.ownerPrefix(ownerID) + "gen"
}

func (c *CachingTaskRepository) listKey(ownerID uuid.UUID, gen string) string {
	return c.ownerPrefix(ownerID) + gen + ":list"
}

func (c *CachingTaskRepository) itemKey(ownerID uuid.UUID, gen string, id uuid.UUID) string {
	return c.ownerPrefix(ownerID) + gen + ":item:" + id.String()
}
