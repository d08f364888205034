package memory

import (
	"context"
	"sync"

	"github.com/itayyoh/k8s-questions-gen/internal/app"
)

// NewWorkspaceFunc builds a fresh workspace for id.
type NewWorkspaceFunc func(ctx context.Context, id string) *app.Workspace

// WorkspaceStore is an in-memory implementation of app.WorkspaceRepository.
type WorkspaceStore struct {
	create NewWorkspaceFunc

	mu         sync.RWMutex
	workspaces map[string]*app.Workspace
}

func NewWorkspaceStore(create NewWorkspaceFunc) *WorkspaceStore {
	return &WorkspaceStore{
		create:     create,
		workspaces: make(map[string]*app.Workspace),
	}
}

// GetOrCreate builds missing workspaces outside the store lock; when two
// callers race on the same id the first stored workspace wins.
func (s *WorkspaceStore) GetOrCreate(ctx context.Context, id string) *app.Workspace {
	if ws, ok := s.Get(id); ok {
		return ws
	}
	fresh := s.create(ctx, id)

	s.mu.Lock()
	if ws, ok := s.workspaces[id]; ok {
		s.mu.Unlock()
		fresh.Close()
		return ws
	}
	s.workspaces[id] = fresh
	s.mu.Unlock()
	return fresh
}

func (s *WorkspaceStore) Get(id string) (*app.Workspace, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ws, ok := s.workspaces[id]
	return ws, ok
}

// DeleteIfIdle closes and forgets the workspace when no client holds it.
func (s *WorkspaceStore) DeleteIfIdle(id string) bool {
	s.mu.Lock()
	ws, ok := s.workspaces[id]
	if !ok || !ws.IsIdle() {
		s.mu.Unlock()
		return false
	}
	delete(s.workspaces, id)
	s.mu.Unlock()
	ws.Close()
	return true
}

func (s *WorkspaceStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.workspaces)
}
