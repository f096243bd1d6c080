package repository

import (
	"context"

	"github.com/duccv/student-service/config"
	"github.com/duccv/student-service/internal/model"
	"github.com/duccv/student-service/pkg/cache"
	"github.com/redis/go-redis/v9"
)

// teacherEntry is the cached form of a teacher. model.Teacher hides the hash
// from JSON, which would drop it on the way through Redis.
type teacherEntry struct {
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
}

// CachedTeacherRepository serves login lookups from a read-through cache.
// Teachers are immutable once created, but a hit outlives a removed row until
// its TTL runs out. Misses are not cached, so a username registered after a
// failed lookup is visible immediately.
type CachedTeacherRepository struct {
	next  TeacherRepository
	mem   cache.Cache[teacherEntry]
	cache *cache.MultiLevel[teacherEntry]
}

// NewCachedTeacherRepository wraps next with an LRU cache and, when redisClient
// is not nil, a shared Redis level.
func NewCachedTeacherRepository(
	next TeacherRepository,
	cfg config.CacheConfig,
	redisClient redis.UniversalClient,
) *CachedTeacherRepository {
	mem := cache.NewCache[teacherEntry](cfg)
	return &CachedTeacherRepository{
		next:  next,
		mem:   mem,
		cache: cache.NewMultiLevel[teacherEntry](mem, redisClient, "teacher:", cfg.DefaultTTL),
	}
}

func (r *CachedTeacherRepository) Create(ctx context.Context, teacher model.Teacher) error {
	if err := r.next.Create(ctx, teacher); err != nil {
		return err
	}
	// a shared Redis level can outlive the row it was loaded from
	r.cache.Forget(ctx, teacher.Username)
	return nil
}

func (r *CachedTeacherRepository) FindByUsername(ctx context.Context, username string) (model.Teacher, error) {
	entry, err := r.cache.Get(ctx, username, func(ctx context.Context, key string) (teacherEntry, error) {
		t, err := r.next.FindByUsername(ctx, key)
		if err != nil {
			return teacherEntry{}, err
		}
		return teacherEntry{Username: t.Username, PasswordHash: t.PasswordHash}, nil
	})
	if err != nil {
		return model.Teacher{}, err
	}
	return model.Teacher{Username: entry.Username, PasswordHash: entry.PasswordHash}, nil
}

// Stop releases the in-memory cache's cleanup goroutine.
func (r *CachedTeacherRepository) Stop() {
	r.mem.Stop()
}
