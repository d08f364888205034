package domain

import "time"

// Difficulty grades a question bank entry.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// QuestionType selects how a question is answered and graded.
type QuestionType string

const (
	TypeMultipleChoice QuestionType = "multiple-choice"
	TypeOpenEnded      QuestionType = "open-ended"
	TypeShortAnswer    QuestionType = "short-answer"
)

// AllCategories is the category selector value that asks for a random sample.
const AllCategories = "all"

// Question is a question bank entry as served by the API.
type Question struct {
	ID         string       `json:"id"`
	Question   string       `json:"question"`
	Answer     string       `json:"answer"`
	Category   string       `json:"category"`
	Difficulty Difficulty   `json:"difficulty"`
	Type       QuestionType `json:"type"`
	Options    []string     `json:"options,omitempty"`
}

// Submission is sent to the grading endpoint.
type Submission struct {
	QuestionID string       `json:"question_id"`
	Answer     string       `json:"answer"`
	Type       QuestionType `json:"type"`
}

// SubmissionResult is the grader's verdict for one submission.
type SubmissionResult struct {
	Correct       bool   `json:"correct"`
	CorrectAnswer string `json:"correct_answer,omitempty"`
	Explanation   string `json:"explanation,omitempty"`
	Score         int    `json:"score,omitempty"`
}

// Phase is a stage of the interview simulation.
type Phase string

const (
	PhaseIntro     Phase = "intro"
	PhasePersonal  Phase = "personal"
	PhaseTechnical Phase = "technical"
	PhaseScenario  Phase = "scenario"
	PhaseResults   Phase = "results"
)

// InterviewPhases is the fixed traversal order of the question phases.
var InterviewPhases = []Phase{PhasePersonal, PhaseTechnical, PhaseScenario}

// Number returns the 1-based position of a question phase, or 0 for intro/results.
func (p Phase) Number() int {
	for i, phase := range InterviewPhases {
		if phase == p {
			return i + 1
		}
	}
	return 0
}

// Active reports whether the phase presents timed questions.
func (p Phase) Active() bool {
	return p.Number() > 0
}

// InterviewQuestion is a single timed interview prompt.
type InterviewQuestion struct {
	ID        int      `json:"id"`
	Question  string   `json:"question"`
	Type      string   `json:"type"`
	TimeLimit int      `json:"timeLimit"` // seconds
	Hints     []string `json:"hints,omitempty"`
}

// PhaseDefinition describes one interview phase and its questions.
type PhaseDefinition struct {
	Title     string              `json:"title"`
	Icon      string              `json:"icon"`
	Color     string              `json:"color"`
	Questions []InterviewQuestion `json:"questions"`
}

// Scenario is an incident-response card shown alongside the interview.
type Scenario struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Situation   string   `json:"situation"`
	Type        string   `json:"type"`
	TimeLimit   int      `json:"timeLimit"`
	Hints       []string `json:"hints,omitempty"`
}

// ScenarioSet is the interview content served by the API.
type ScenarioSet struct {
	Phases    map[Phase]PhaseDefinition `json:"phases"`
	Scenarios []Scenario                `json:"scenarios,omitempty"`
}

// Playable reports whether every question phase has at least one question.
func (s ScenarioSet) Playable() bool {
	for _, phase := range InterviewPhases {
		if len(s.Phases[phase].Questions) == 0 {
			return false
		}
	}
	return true
}

// TotalQuestions counts questions across all question phases.
func (s ScenarioSet) TotalQuestions() int {
	total := 0
	for _, phase := range InterviewPhases {
		total += len(s.Phases[phase].Questions)
	}
	return total
}

// ApplicationStatus is the pipeline stage of a job application.
type ApplicationStatus string

const (
	StatusApplied   ApplicationStatus = "applied"
	StatusInterview ApplicationStatus = "interview"
	StatusOffer     ApplicationStatus = "offer"
	StatusRejected  ApplicationStatus = "rejected"
	StatusWithdrawn ApplicationStatus = "withdrawn"
)

// StatusAll disables the status filter.
const StatusAll = "all"

// ApplicationStatuses lists every valid status in display order.
var ApplicationStatuses = []ApplicationStatus{StatusApplied, StatusInterview, StatusOffer, StatusRejected, StatusWithdrawn}

// Valid reports whether s is one of ApplicationStatuses.
func (s ApplicationStatus) Valid() bool {
	for _, status := range ApplicationStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// JobApplication is a tracked application with its canonical id.
type JobApplication struct {
	ID          string            `json:"id"`
	Company     string            `json:"company"`
	AppliedDate string            `json:"appliedDate"`
	Status      ApplicationStatus `json:"status"`
	Location    string            `json:"location,omitempty"`
}

// ApplicationFields is the create/update form payload.
type ApplicationFields struct {
	Company     string            `json:"company"`
	AppliedDate string            `json:"appliedDate"`
	Status      ApplicationStatus `json:"status"`
	Location    string            `json:"location,omitempty"`
}

// Fields returns the editable fields of an application, e.g. to pre-populate an edit form.
func (a JobApplication) Fields() ApplicationFields {
	return ApplicationFields{
		Company:     a.Company,
		AppliedDate: a.AppliedDate,
		Status:      a.Status,
		Location:    a.Location,
	}
}

// NewApplicationFields returns an empty form dated today with status applied.
func NewApplicationFields(now time.Time) ApplicationFields {
	return ApplicationFields{
		AppliedDate: now.Format(DateLayout),
		Status:      StatusApplied,
	}
}

// DateLayout is the ISO calendar date used for appliedDate.
const DateLayout = "2006-01-02"

// UIConfig maps categories and difficulties to display colours.
type UIConfig struct {
	CategoryColors     map[string]string `json:"categoryColors"`
	DifficultyColors   map[string]string `json:"difficultyColors"`
	DefaultColor       string            `json:"defaultColor"`
	FallbackCategories []string          `json:"fallbackCategories"`
}

// CategoryColor returns the colour for a category or the default colour.
func (c UIConfig) CategoryColor(category string) string {
	if color, ok := c.CategoryColors[category]; ok {
		return color
	}
	return c.DefaultColor
}

// DifficultyColor returns the colour for a difficulty or the default colour.
func (c UIConfig) DifficultyColor(difficulty Difficulty) string {
	if color, ok := c.DifficultyColors[string(difficulty)]; ok {
		return color
	}
	return c.DefaultColor
}

// Feature is a homepage bullet.
type Feature struct {
	Icon string `json:"icon"`
	Text string `json:"text"`
}

// Stat is a homepage headline number.
type Stat struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// HomepageMetadata holds the homepage title block.
type HomepageMetadata struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

// HomepageContent is the descriptive landing page content.
type HomepageContent struct {
	Features map[string][]Feature `json:"features"`
	Stats    []Stat               `json:"stats"`
	Metadata HomepageMetadata     `json:"metadata"`
}

// Percent returns round-half-up 100*part/total, or 0 when total is 0.
func Percent(part, total int) int {
	if total <= 0 || part <= 0 {
		return 0
	}
	return (200*part + total) / (2 * total)
}
