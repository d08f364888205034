package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/itayyoh/k8s-questions-gen/internal/app"
	"github.com/itayyoh/k8s-questions-gen/internal/domain"
)

// ContentRepository caches optional content with TTL to avoid repeated API hits.
// Failed loads are not cached.
type ContentRepository struct {
	loader app.ContentLoader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group

	mu    sync.RWMutex
	rnd   *rand.Rand
	cache map[string]cachedContent
}

type cachedContent struct {
	value     any
	expiresAt time.Time
}

func NewContentRepository(loader app.ContentLoader, ttl time.Duration) *ContentRepository {
	return &ContentRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[string]cachedContent),
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

// Invalidate drops every cached entry.
func (r *ContentRepository) Invalidate() {
	r.mu.Lock()
	r.cache = make(map[string]cachedContent)
	r.mu.Unlock()
}

func (r *ContentRepository) lookup(key string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cache[key]
	if !ok || !entry.expiresAt.After(r.clock()) {
		return nil, false
	}
	return entry.value, true
}

func cached[T any](r *ContentRepository, ctx context.Context, key string, load func(context.Context) (T, error)) (T, error) {
	if v, ok := r.lookup(key); ok {
		return v.(T), nil
	}

	result, err, _ := r.sf.Do(key, func() (interface{}, error) {
		if v, ok := r.lookup(key); ok {
			return v, nil
		}
		value, err := load(ctx)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		r.cache[key] = cachedContent{value: value, expiresAt: r.clock().Add(r.ttlWithJitter())}
		r.mu.Unlock()
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}

// ttlWithJitter must be called with r.mu held.
func (r *ContentRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}

// StaticContentLoader serves fixed content (useful for tests/offline demos).
type StaticContentLoader struct {
	UI        domain.UIConfig
	Scenarios domain.ScenarioSet
	Home      domain.HomepageContent
}

// NewStaticContentLoader serves the built-in defaults.
func NewStaticContentLoader() *StaticContentLoader {
	return &StaticContentLoader{
		UI:        domain.DefaultUIConfig,
		Scenarios: domain.DefaultScenarioSet,
		Home:      domain.DefaultHomepage,
	}
}

func (l *StaticContentLoader) UIConfig(context.Context) (domain.UIConfig, error) {
	return l.UI, nil
}

func (l *StaticContentLoader) InterviewScenarios(context.Context) (domain.ScenarioSet, error) {
	return l.Scenarios, nil
}

func (l *StaticContentLoader) Homepage(context.Context) (domain.HomepageContent, error) {
	return l.Home, nil
}
