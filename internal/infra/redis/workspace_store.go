package redis

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/itayyoh/k8s-questions-gen/internal/app"
	"github.com/itayyoh/k8s-questions-gen/internal/infra/memory"
)

// WorkspaceStore is a Redis-aware implementation of app.WorkspaceRepository.
// Workspaces stay in process memory because their timers and subscribers are
// local; Redis only records which workspace ids are alive, so other instances
// and operators can see them.
type WorkspaceStore struct {
	client *redis.Client
	ttl    time.Duration
	local  *memory.WorkspaceStore
}

func NewWorkspaceStore(client *redis.Client, ttl time.Duration, create memory.NewWorkspaceFunc) *WorkspaceStore {
	return &WorkspaceStore{
		client: client,
		ttl:    ttl,
		local:  memory.NewWorkspaceStore(create),
	}
}

func (s *WorkspaceStore) GetOrCreate(ctx context.Context, id string) *app.Workspace {
	ws := s.local.GetOrCreate(ctx, id)
	// best-effort liveness marker; an existing marker keeps its value
	if err := s.client.SetNX(ctx, s.key(id), ws.CreatedAt().UTC().Format(time.RFC3339), s.ttl).Err(); err != nil {
		log.Printf("mark workspace %s alive: %v", id, err)
	}
	return ws
}

func (s *WorkspaceStore) Get(id string) (*app.Workspace, bool) {
	return s.local.Get(id)
}

// Touch extends the liveness marker of a workspace still in use.
func (s *WorkspaceStore) Touch(ctx context.Context, id string) error {
	return s.client.Expire(ctx, s.key(id), s.ttl).Err()
}

func (s *WorkspaceStore) DeleteIfIdle(id string) bool {
	if !s.local.DeleteIfIdle(id) {
		return false
	}
	_ = s.client.Del(context.Background(), s.key(id)).Err()
	return true
}

func (s *WorkspaceStore) key(id string) string {
	return "prep:workspace:" + id
}
