package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/itayyoh/k8s-questions-gen/internal/domain"
	"github.com/itayyoh/k8s-questions-gen/internal/metrics"
)

// DefaultQuestionCount is the quiz size used until the user picks another.
const DefaultQuestionCount = 5

// QuizStage is the coarse screen of the quiz flow.
type QuizStage string

const (
	QuizSetup   QuizStage = "setup"
	QuizActive  QuizStage = "active"
	QuizResults QuizStage = "results"
)

// QuestionSource loads question sets.
type QuestionSource interface {
	RandomQuestions(ctx context.Context, count int) ([]domain.Question, error)
	QuestionsByCategory(ctx context.Context, category string) ([]domain.Question, error)
}

// Grader grades a single answer.
type Grader interface {
	Submit(ctx context.Context, sub domain.Submission) (domain.SubmissionResult, error)
}

// QuizScore summarises graded answers.
type QuizScore struct {
	Correct    int `json:"correct"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// QuizSnapshot is a serialisable view of the quiz state.
type QuizSnapshot struct {
	Stage       QuizStage                          `json:"stage"`
	Category    string                             `json:"category"`
	Count       int                                `json:"count"`
	Loading     bool                               `json:"loading"`
	Questions   []domain.Question                  `json:"questions"`
	Index       int                                `json:"index"`
	Current     *domain.Question                   `json:"current,omitempty"`
	Selected    map[string]string                  `json:"selected"`
	Submissions map[string]domain.SubmissionResult `json:"submissions"`
	Revealed    map[string]bool                    `json:"revealed"`
	Pending     []string                           `json:"pending"`
	Score       QuizScore                          `json:"score"`
}

// QuizOption configures a QuizController.
type QuizOption func(*QuizController)

// WithQuizCompletion registers fn to run each time the quiz reaches results.
func WithQuizCompletion(fn func(QuizScore)) QuizOption {
	return func(c *QuizController) { c.onComplete = fn }
}

// QuizController runs one practice quiz: setup, answering and results.
//
// Each successful load starts a new generation; grading responses that
// arrive for an older generation are discarded.
type QuizController struct {
	questions  QuestionSource
	grader     Grader
	onComplete func(QuizScore)

	mu          sync.Mutex
	stage       QuizStage
	category    string
	count       int
	loading     bool
	generation  uint64
	items       []domain.Question
	index       int
	selected    map[string]string
	submissions map[string]domain.SubmissionResult
	revealed    map[string]bool
	inflight    map[string]bool
}

func NewQuizController(questions QuestionSource, grader Grader, opts ...QuizOption) *QuizController {
	c := &QuizController{questions: questions, grader: grader}
	c.resetLocked()
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SelectCategory picks the category for the next load. Blank means all categories.
func (c *QuizController) SelectCategory(category string) {
	category = strings.TrimSpace(category)
	if category == "" {
		category = domain.AllCategories
	}
	c.mu.Lock()
	c.category = category
	c.mu.Unlock()
}

// SelectCount picks how many random questions an all-categories load fetches.
func (c *QuizController) SelectCount(n int) error {
	if n < 1 {
		return &domain.ValidationError{Field: "count", Message: "must be at least 1"}
	}
	c.mu.Lock()
	c.count = n
	c.mu.Unlock()
	return nil
}

// LoadQuestions fetches a new question set and starts the quiz.
// A specific category loads every question in it; count only applies to all categories.
func (c *QuizController) LoadQuestions(ctx context.Context) error {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return domain.ErrLoadInProgress
	}
	c.loading = true
	category, count, generation := c.category, c.count, c.generation
	c.mu.Unlock()

	var (
		items []domain.Question
		err   error
	)
	if category == domain.AllCategories {
		items, err = c.questions.RandomQuestions(ctx, count)
	} else {
		items, err = c.questions.QuestionsByCategory(ctx, category)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		log.Printf("load questions (category=%s): %v", category, err)
		return fmt.Errorf("load questions: %w", err)
	}
	if generation != c.generation {
		log.Printf("discarding question load for category=%s: quiz was reset", category)
		return nil
	}

	c.generation++
	c.items = items
	c.index = 0
	c.selected = make(map[string]string)
	c.submissions = make(map[string]domain.SubmissionResult)
	c.revealed = make(map[string]bool)
	c.inflight = make(map[string]bool)
	c.stage = QuizActive
	return nil
}

// SelectAnswer stores the chosen or typed answer for a question not yet graded.
// The answer is frozen while its grading request is outstanding.
func (c *QuizController) SelectAnswer(questionID, answer string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stage != QuizActive {
		return domain.ErrQuizNotActive
	}
	if _, ok := c.findLocked(questionID); !ok {
		return domain.ErrQuestionNotFound
	}
	if _, done := c.submissions[questionID]; done {
		return domain.ErrAlreadySubmitted
	}
	if c.inflight[questionID] {
		return domain.ErrSubmissionInFlight
	}
	c.selected[questionID] = answer
	return nil
}

// SubmitAnswer sends the selected answer for grading.
// At most one request per question is outstanding at a time.
func (c *QuizController) SubmitAnswer(ctx context.Context, questionID string) (domain.SubmissionResult, error) {
	c.mu.Lock()
	if c.stage != QuizActive {
		c.mu.Unlock()
		return domain.SubmissionResult{}, domain.ErrQuizNotActive
	}
	q, ok := c.findLocked(questionID)
	if !ok {
		c.mu.Unlock()
		return domain.SubmissionResult{}, domain.ErrQuestionNotFound
	}
	if _, done := c.submissions[questionID]; done {
		c.mu.Unlock()
		return domain.SubmissionResult{}, domain.ErrAlreadySubmitted
	}
	if c.inflight[questionID] {
		c.mu.Unlock()
		return domain.SubmissionResult{}, domain.ErrSubmissionInFlight
	}
	answer := c.selected[questionID]
	if strings.TrimSpace(answer) == "" {
		c.mu.Unlock()
		return domain.SubmissionResult{}, domain.ErrEmptyAnswer
	}
	c.inflight[questionID] = true
	generation := c.generation
	c.mu.Unlock()

	res, err := c.grader.Submit(ctx, domain.Submission{QuestionID: questionID, Answer: answer, Type: q.Type})

	c.mu.Lock()
	defer c.mu.Unlock()
	if generation != c.generation {
		log.Printf("discarding grade for question %s: quiz was reloaded", questionID)
		return res, err
	}
	delete(c.inflight, questionID)
	if err != nil {
		log.Printf("submit answer for question %s: %v", questionID, err)
		return domain.SubmissionResult{}, fmt.Errorf("submit answer %s: %w", questionID, err)
	}
	c.submissions[questionID] = res
	metrics.Submission(res.Correct)
	return res, nil
}

// ToggleShowAnswer flips answer reveal for a question. It does not affect scoring.
func (c *QuizController) ToggleShowAnswer(questionID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stage != QuizActive {
		return domain.ErrQuizNotActive
	}
	if _, ok := c.findLocked(questionID); !ok {
		return domain.ErrQuestionNotFound
	}
	c.revealed[questionID] = !c.revealed[questionID]
	return nil
}

// Advance moves to the next question, or to results after the last one.
func (c *QuizController) Advance() error {
	c.mu.Lock()
	if c.stage != QuizActive {
		c.mu.Unlock()
		return domain.ErrQuizNotActive
	}
	if c.index < len(c.items)-1 {
		c.index++
		c.mu.Unlock()
		return nil
	}
	c.stage = QuizResults
	score := c.scoreLocked()
	c.mu.Unlock()

	if c.onComplete != nil {
		c.onComplete(score)
	}
	return nil
}

// Retreat moves to the previous question; it is a no-op on the first.
func (c *QuizController) Retreat() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stage != QuizActive {
		return domain.ErrQuizNotActive
	}
	if c.index > 0 {
		c.index--
	}
	return nil
}

// Score counts correct graded answers against all loaded questions.
func (c *QuizController) Score() QuizScore {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scoreLocked()
}

// Reset returns to setup with default selections.
func (c *QuizController) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

// Snapshot returns a copy of the current state.
func (c *QuizController) Snapshot() QuizSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := QuizSnapshot{
		Stage:       c.stage,
		Category:    c.category,
		Count:       c.count,
		Loading:     c.loading,
		Questions:   append([]domain.Question{}, c.items...),
		Index:       c.index,
		Selected:    make(map[string]string, len(c.selected)),
		Submissions: make(map[string]domain.SubmissionResult, len(c.submissions)),
		Revealed:    make(map[string]bool, len(c.revealed)),
		Pending:     make([]string, 0, len(c.inflight)),
		Score:       c.scoreLocked(),
	}
	if c.stage == QuizActive && c.index < len(c.items) {
		q := c.items[c.index]
		snap.Current = &q
	}
	for k, v := range c.selected {
		snap.Selected[k] = v
	}
	for k, v := range c.submissions {
		snap.Submissions[k] = v
	}
	for k, v := range c.revealed {
		if v {
			snap.Revealed[k] = true
		}
	}
	for k := range c.inflight {
		snap.Pending = append(snap.Pending, k)
	}
	return snap
}

func (c *QuizController) resetLocked() {
	c.generation++
	c.stage = QuizSetup
	c.category = domain.AllCategories
	c.count = DefaultQuestionCount
	c.items = nil
	c.index = 0
	c.selected = make(map[string]string)
	c.submissions = make(map[string]domain.SubmissionResult)
	c.revealed = make(map[string]bool)
	c.inflight = make(map[string]bool)
}

func (c *QuizController) findLocked(id string) (domain.Question, bool) {
	for _, q := range c.items {
		if q.ID == id {
			return q, true
		}
	}
	return domain.Question{}, false
}

func (c *QuizController) scoreLocked() QuizScore {
	s := QuizScore{Total: len(c.items)}
	for _, res := range c.submissions {
		if res.Correct {
			s.Correct++
		}
	}
	s.Percentage = domain.Percent(s.Correct, s.Total)
	return s
}
