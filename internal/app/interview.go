package app

import (
	"log"
	"strings"
	"sync"
	"time"

	"github.com/itayyoh/k8s-questions-gen/internal/domain"
	"github.com/itayyoh/k8s-questions-gen/internal/metrics"
)

// InterviewAnswer is a recorded response to one interview question.
type InterviewAnswer struct {
	QuestionID int          `json:"questionId"`
	Question   string       `json:"question"`
	Answer     string       `json:"answer"`
	TimeSpent  int          `json:"timeSpent"` // seconds
	Phase      domain.Phase `json:"phase"`
}

// InterviewSummary is shown on the results screen.
type InterviewSummary struct {
	Answered       int               `json:"answered"`
	TotalQuestions int               `json:"totalQuestions"`
	TimeSpent      int               `json:"timeSpent"` // sum of recorded answers, seconds
	Answers        []InterviewAnswer `json:"answers"`
}

// InterviewSnapshot is a serialisable view of the interview state.
type InterviewSnapshot struct {
	Phase              domain.Phase              `json:"phase"`
	PhaseTitle         string                    `json:"phaseTitle,omitempty"`
	PhaseNumber        int                       `json:"phaseNumber"`
	PhaseCount         int                       `json:"phaseCount"`
	QuestionIndex      int                       `json:"questionIndex"`
	PhaseQuestionCount int                       `json:"phaseQuestionCount"`
	Progress           float64                   `json:"progress"`
	Question           *domain.InterviewQuestion `json:"question,omitempty"`
	TimeRemaining      int                       `json:"timeRemaining"`
	Answer             string                    `json:"answer"`
	Answered           int                       `json:"answered"`
	Summary            *InterviewSummary         `json:"summary,omitempty"`
}

// InterviewOption configures an InterviewController.
type InterviewOption func(*InterviewController)

// WithScheduler replaces the ticker used for the countdown.
func WithScheduler(s Scheduler) InterviewOption {
	return func(c *InterviewController) { c.sched = s }
}

// WithTickInterval sets the wall-clock length of one countdown second.
func WithTickInterval(d time.Duration) InterviewOption {
	return func(c *InterviewController) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithInterviewCompletion registers fn to run once each time the interview reaches results.
func WithInterviewCompletion(fn func(InterviewSummary)) InterviewOption {
	return func(c *InterviewController) { c.onComplete = fn }
}

// InterviewController drives the timed personal -> technical -> scenario interview.
//
// Every question entry bumps an entry token and arms exactly one countdown
// bound to it; ticks carrying an older token are ignored.
type InterviewController struct {
	sched      Scheduler
	interval   time.Duration
	onComplete func(InterviewSummary)
	updates    *broadcaster[InterviewSnapshot]

	mu        sync.Mutex
	scenarios domain.ScenarioSet
	phase     domain.Phase
	index     int
	remaining int
	buffer    string
	answers   map[int]InterviewAnswer
	order     []int
	entry     uint64
	stopTick  func()
}

func NewInterviewController(scenarios domain.ScenarioSet, opts ...InterviewOption) *InterviewController {
	c := &InterviewController{
		sched:     TickerScheduler{},
		interval:  time.Second,
		updates:   newBroadcaster[InterviewSnapshot](),
		scenarios: scenarios,
		phase:     domain.PhaseIntro,
		answers:   make(map[int]InterviewAnswer),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Scenarios returns the loaded interview content.
func (c *InterviewController) Scenarios() domain.ScenarioSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scenarios
}

// SetScenarios replaces the interview content. It is refused mid-interview.
func (c *InterviewController) SetScenarios(set domain.ScenarioSet) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase.Active() {
		return domain.ErrInterviewInProgress
	}
	c.scenarios = set
	return nil
}

// Start begins the interview at the first personal question.
func (c *InterviewController) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.scenarios.Playable() {
		log.Printf("interview start refused: %v", domain.ErrScenarioUnavailable)
		return domain.ErrScenarioUnavailable
	}
	c.answers = make(map[int]InterviewAnswer)
	c.order = nil
	c.buffer = ""
	c.phase = domain.InterviewPhases[0]
	c.index = 0
	c.enterLocked()
	c.updates.publish(c.snapshotLocked())
	return nil
}

// SetAnswerBuffer replaces the in-progress answer for the current question.
func (c *InterviewController) SetAnswerBuffer(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.phase.Active() {
		return domain.ErrInterviewNotActive
	}
	c.buffer = text
	c.updates.publish(c.snapshotLocked())
	return nil
}

// Advance records the current answer and moves to the next question, phase or results.
func (c *InterviewController) Advance() error {
	c.mu.Lock()
	if !c.phase.Active() {
		c.mu.Unlock()
		return domain.ErrInterviewNotActive
	}
	summary := c.advanceLocked()
	c.updates.publish(c.snapshotLocked())
	c.mu.Unlock()

	if summary != nil {
		c.complete(*summary)
	}
	return nil
}

// Reset returns to the intro screen and forgets all answers.
func (c *InterviewController) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disarmLocked()
	c.phase = domain.PhaseIntro
	c.index = 0
	c.remaining = 0
	c.buffer = ""
	c.answers = make(map[int]InterviewAnswer)
	c.order = nil
	c.updates.publish(c.snapshotLocked())
}

// Close stops the countdown; the controller keeps its state.
func (c *InterviewController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disarmLocked()
}

// Snapshot returns the current state.
func (c *InterviewController) Snapshot() InterviewSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// Summary returns the answers recorded so far.
func (c *InterviewController) Summary() InterviewSummary {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.summaryLocked()
}

// Subscribe returns a channel of snapshots, including one per countdown tick.
// The caller must invoke the returned cancel function to avoid leaks.
func (c *InterviewController) Subscribe() (<-chan InterviewSnapshot, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.updates.subscribe(c.snapshotLocked())
}

func (c *InterviewController) tick(entry uint64) {
	c.mu.Lock()
	if entry != c.entry || !c.phase.Active() {
		c.mu.Unlock()
		return
	}
	c.remaining--
	if c.remaining > 0 {
		c.updates.publish(c.snapshotLocked())
		c.mu.Unlock()
		return
	}

	c.remaining = 0
	c.updates.publish(c.snapshotLocked())
	summary := c.advanceLocked()
	c.updates.publish(c.snapshotLocked())
	c.mu.Unlock()

	if summary != nil {
		c.complete(*summary)
	}
}

// enterLocked starts the countdown for the current question.
func (c *InterviewController) enterLocked() {
	c.disarmLocked()
	c.remaining = c.currentLocked().TimeLimit
	entry := c.entry
	c.stopTick = c.sched.Every(c.interval, func() { c.tick(entry) })
}

// disarmLocked stops the running countdown and invalidates its pending ticks.
func (c *InterviewController) disarmLocked() {
	if c.stopTick != nil {
		c.stopTick()
		c.stopTick = nil
	}
	c.entry++
}

// advanceLocked returns a summary when the interview has just finished.
func (c *InterviewController) advanceLocked() *InterviewSummary {
	q := c.currentLocked()
	if strings.TrimSpace(c.buffer) != "" {
		spent := q.TimeLimit - c.remaining
		if spent < 0 {
			spent = 0
		}
		if _, seen := c.answers[q.ID]; !seen {
			c.order = append(c.order, q.ID)
		}
		c.answers[q.ID] = InterviewAnswer{
			QuestionID: q.ID,
			Question:   q.Question,
			Answer:     c.buffer,
			TimeSpent:  spent,
			Phase:      c.phase,
		}
	}
	c.buffer = ""

	if c.index < len(c.scenarios.Phases[c.phase].Questions)-1 {
		c.index++
		c.enterLocked()
		return nil
	}
	if next := c.phase.Number(); next < len(domain.InterviewPhases) {
		c.phase = domain.InterviewPhases[next]
		c.index = 0
		c.enterLocked()
		return nil
	}

	c.disarmLocked()
	c.phase = domain.PhaseResults
	c.index = 0
	c.remaining = 0
	summary := c.summaryLocked()
	return &summary
}

func (c *InterviewController) complete(summary InterviewSummary) {
	metrics.InterviewCompleted()
	if c.onComplete != nil {
		c.onComplete(summary)
	}
}

func (c *InterviewController) currentLocked() domain.InterviewQuestion {
	return c.scenarios.Phases[c.phase].Questions[c.index]
}

func (c *InterviewController) summaryLocked() InterviewSummary {
	s := InterviewSummary{
		TotalQuestions: c.scenarios.TotalQuestions(),
		Answers:        make([]InterviewAnswer, 0, len(c.order)),
	}
	for _, id := range c.order {
		a := c.answers[id]
		s.Answers = append(s.Answers, a)
		s.TimeSpent += a.TimeSpent
	}
	s.Answered = len(s.Answers)
	return s
}

func (c *InterviewController) snapshotLocked() InterviewSnapshot {
	snap := InterviewSnapshot{
		Phase:         c.phase,
		PhaseNumber:   c.phase.Number(),
		PhaseCount:    len(domain.InterviewPhases),
		TimeRemaining: c.remaining,
		Answer:        c.buffer,
		Answered:      len(c.order),
	}
	switch {
	case c.phase.Active():
		def := c.scenarios.Phases[c.phase]
		q := def.Questions[c.index]
		snap.PhaseTitle = def.Title
		snap.QuestionIndex = c.index
		snap.PhaseQuestionCount = len(def.Questions)
		snap.Progress = float64(c.index+1) / float64(len(def.Questions))
		snap.Question = &q
	case c.phase == domain.PhaseResults:
		summary := c.summaryLocked()
		snap.Summary = &summary
	}
	return snap
}
