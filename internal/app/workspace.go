package app

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/itayyoh/k8s-questions-gen/internal/domain"
)

const historyTimeout = 5 * time.Second

// WorkspaceRepository abstracts where workspaces live (in-memory, Redis-tracked, etc).
type WorkspaceRepository interface {
	GetOrCreate(ctx context.Context, id string) *Workspace
	Get(id string) (*Workspace, bool)
	// DeleteIfIdle closes and removes the workspace only when no client is attached.
	DeleteIfIdle(id string) bool
}

// WorkspaceToucher is implemented by repositories that keep an expiring
// liveness marker per workspace.
type WorkspaceToucher interface {
	Touch(ctx context.Context, id string) error
}

// Backend is the remote API a workspace talks to.
type Backend interface {
	QuestionSource
	Grader
	QuestionWriter
	ApplicationStore
}

// Workspace is one client's practice state.
type Workspace struct {
	ID           string
	Quiz         *QuizController
	Interview    *InterviewController
	Applications *ApplicationManager
	Questions    *QuestionAuthor

	createdAt time.Time
	mu        sync.Mutex
	clients   int
}

func (w *Workspace) CreatedAt() time.Time { return w.createdAt }

// Close stops background work owned by the workspace.
func (w *Workspace) Close() {
	w.Interview.Close()
}

func (w *Workspace) attach() {
	w.mu.Lock()
	w.clients++
	w.mu.Unlock()
}

// detach reports whether no clients remain.
func (w *Workspace) detach() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.clients > 0 {
		w.clients--
	}
	return w.clients == 0
}

// IsIdle reports whether no client is attached.
func (w *Workspace) IsIdle() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.clients == 0
}

// WorkspaceFactory builds workspaces wired to the backend, content and history.
type WorkspaceFactory struct {
	backend   Backend
	content   *ContentService
	history   *HistoryRecorder
	interview []InterviewOption
	now       func() time.Time
}

func NewWorkspaceFactory(backend Backend, content *ContentService, history *HistoryRecorder, opts ...InterviewOption) *WorkspaceFactory {
	return &WorkspaceFactory{
		backend:   backend,
		content:   content,
		history:   history,
		interview: opts,
		now:       time.Now,
	}
}

// New creates a workspace with the interview content loaded through the content service.
func (f *WorkspaceFactory) New(ctx context.Context, id string) *Workspace {
	// Record logs its own failures; a lost history entry never fails the session.
	record := func(kind HistoryKind, summary any) {
		ctx, cancel := context.WithTimeout(context.Background(), historyTimeout)
		defer cancel()
		_ = f.history.Record(ctx, id, kind, summary)
	}

	opts := append([]InterviewOption{}, f.interview...)
	opts = append(opts, WithInterviewCompletion(func(s InterviewSummary) { record(HistoryInterview, s) }))

	return &Workspace{
		ID: id,
		Quiz: NewQuizController(f.backend, f.backend,
			WithQuizCompletion(func(s QuizScore) { record(HistoryQuiz, s) })),
		Interview:    NewInterviewController(f.content.Scenarios(ctx), opts...),
		Applications: NewApplicationManager(f.backend),
		Questions:    NewQuestionAuthor(f.backend),
		createdAt:    f.now(),
	}
}

// PrepService tracks which clients hold which workspace.
type PrepService struct {
	workspaces WorkspaceRepository
	content    *ContentService
	history    *HistoryRecorder

	// mu orders attach against detach-and-delete for the same workspace.
	mu sync.Mutex
}

func NewPrepService(workspaces WorkspaceRepository, content *ContentService, history *HistoryRecorder) *PrepService {
	return &PrepService{workspaces: workspaces, content: content, history: history}
}

// Join attaches a client to the workspace with id, creating it when unknown.
// The workspace is built without holding mu.
func (s *PrepService) Join(ctx context.Context, id string) *Workspace {
	for {
		ws := s.workspaces.GetOrCreate(ctx, id)
		s.mu.Lock()
		if current, ok := s.workspaces.Get(id); ok && current == ws {
			ws.attach()
			s.mu.Unlock()
			return ws
		}
		// dropped by a concurrent Leave before we attached
		s.mu.Unlock()
	}
}

// Leave detaches a client and drops the workspace once nobody holds it.
func (s *PrepService) Leave(_ context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ws, ok := s.workspaces.Get(id)
	if !ok {
		return
	}
	if ws.detach() {
		s.workspaces.DeleteIfIdle(id)
	}
}

// Touch refreshes the workspace liveness marker when the repository keeps one.
func (s *PrepService) Touch(ctx context.Context, id string) {
	toucher, ok := s.workspaces.(WorkspaceToucher)
	if !ok {
		return
	}
	if err := toucher.Touch(ctx, id); err != nil {
		log.Printf("touch workspace %s: %v", id, err)
	}
}

// Workspace returns a live workspace.
func (s *PrepService) Workspace(id string) (*Workspace, error) {
	ws, ok := s.workspaces.Get(id)
	if !ok {
		return nil, domain.ErrWorkspaceNotFound
	}
	return ws, nil
}

func (s *PrepService) Content() *ContentService { return s.content }

// History lists recently finished quizzes and interviews.
func (s *PrepService) History(ctx context.Context, limit int) ([]HistoryEntry, error) {
	return s.history.Recent(ctx, limit)
}
