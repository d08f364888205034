package redis

import (
	"context"
	"encoding/json"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/itayyoh/k8s-questions-gen/internal/app"
	"github.com/itayyoh/k8s-questions-gen/internal/domain"
)

// ContentRepository caches optional content in Redis and falls back to a loader on cache miss.
// Each content kind is stored as JSON: SET content:{name} <json> EX ttl
type ContentRepository struct {
	client *redis.Client
	loader app.ContentLoader
	ttl    time.Duration
	sf     singleflight.Group

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewContentRepository(client *redis.Client, loader app.ContentLoader, ttl time.Duration) *ContentRepository {
	return &ContentRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *ContentRepository) UIConfig(ctx context.Context) (domain.UIConfig, error) {
	return cached(r, ctx, "ui_config", r.loader.UIConfig)
}

func (r *ContentRepository) InterviewScenarios(ctx context.Context) (domain.ScenarioSet, error) {
	return cached(r, ctx, "interview_scenarios", r.loader.InterviewScenarios)
}

func (r *ContentRepository) Homepage(ctx context.Context) (domain.HomepageContent, error) {
	return cached(r, ctx, "homepage", r.loader.Homepage)
}

func cached[T any](r *ContentRepository, ctx context.Context, name string, load func(context.Context) (T, error)) (T, error) {
	key := contentKey(name)
	if v, ok := readJSON[T](ctx, r.client, key); ok {
		return v, nil
	}

	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if v, ok := readJSON[T](ctx, r.client, key); ok {
			return v, nil
		}
		value, err := load(ctx)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(value)
		if err == nil {
			err = r.client.Set(ctx, key, data, r.ttlWithJitter()).Err()
		}
		if err != nil {
			log.Printf("cache %s: %v", key, err)
		}
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}

func readJSON[T any](ctx context.Context, client *redis.Client, key string) (T, bool) {
	var out T
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return out, false
	}
	if err := json.Unmarshal(data, &out); err != nil {
		log.Printf("discarding corrupt cache entry %s: %v", key, err)
		return out, false
	}
	return out, true
}

func contentKey(name string) string {
	return "content:" + name
}

func (r *ContentRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
