package app_test

import (
	"context"
	"sync"
	"time"

	"github.com/itayyoh/k8s-questions-gen/internal/domain"
)

// manualScheduler fires ticks only when the test asks for them.
type manualScheduler struct {
	mu   sync.Mutex
	jobs []*manualJob
}

type manualJob struct {
	fn      func()
	stopped bool
}

func (s *manualScheduler) Every(_ time.Duration, fn func()) func() {
	job := &manualJob{fn: fn}
	s.mu.Lock()
	s.jobs = append(s.jobs, job)
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		job.stopped = true
		s.mu.Unlock()
	}
}

// Tick runs every live job once.
func (s *manualScheduler) Tick() {
	s.mu.Lock()
	var live []func()
	for _, job := range s.jobs {
		if !job.stopped {
			live = append(live, job.fn)
		}
	}
	s.mu.Unlock()
	for _, fn := range live {
		fn()
	}
}

func (s *manualScheduler) TickN(n int) {
	for i := 0; i < n; i++ {
		s.Tick()
	}
}

func (s *manualScheduler) Live() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, job := range s.jobs {
		if !job.stopped {
			n++
		}
	}
	return n
}

// Job returns the i-th armed callback, stopped or not.
func (s *manualScheduler) Job(i int) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[i].fn
}

func iq(id, limit int) domain.InterviewQuestion {
	return domain.InterviewQuestion{ID: id, Question: "question", Type: "open", TimeLimit: limit}
}

// smallScenarioSet has 4 questions: two personal, one technical, one scenario.
func smallScenarioSet() domain.ScenarioSet {
	return domain.ScenarioSet{Phases: map[domain.Phase]domain.PhaseDefinition{
		domain.PhasePersonal:  {Title: "Personal", Questions: []domain.InterviewQuestion{iq(1, 3), iq(2, 2)}},
		domain.PhaseTechnical: {Title: "Technical", Questions: []domain.InterviewQuestion{iq(3, 1)}},
		domain.PhaseScenario:  {Title: "Scenario", Questions: []domain.InterviewQuestion{iq(4, 5)}},
	}}
}

// blockingGrader holds every submission until release is closed.
type blockingGrader struct {
	release chan struct{}
	result  domain.SubmissionResult
}

func (g *blockingGrader) Submit(ctx context.Context, _ domain.Submission) (domain.SubmissionResult, error) {
	select {
	case <-g.release:
		return g.result, nil
	case <-ctx.Done():
		return domain.SubmissionResult{}, ctx.Err()
	}
}

// staticSource serves the same questions for every load, optionally blocking.
type staticSource struct {
	questions []domain.Question
	gate      chan struct{}
}

func (s *staticSource) wait(ctx context.Context) error {
	if s.gate == nil {
		return nil
	}
	select {
	case <-s.gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *staticSource) RandomQuestions(ctx context.Context, count int) ([]domain.Question, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	if count < len(s.questions) {
		return s.questions[:count], nil
	}
	return s.questions, nil
}

func (s *staticSource) QuestionsByCategory(ctx context.Context, category string) ([]domain.Question, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	var out []domain.Question
	for _, q := range s.questions {
		if q.Category == category {
			out = append(out, q)
		}
	}
	return out, nil
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}
