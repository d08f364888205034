package domain

import (
	"strings"
	"time"
)

// NewQuestion is the payload of the add-question form.
type NewQuestion struct {
	Question   string       `json:"question"`
	Answer     string       `json:"answer"`
	Category   string       `json:"category"`
	Difficulty Difficulty   `json:"difficulty"`
	Type       QuestionType `json:"type"`
	Options    []string     `json:"options,omitempty"`
}

// Validate checks the form locally and returns the normalised payload to send.
func (q NewQuestion) Validate() (NewQuestion, error) {
	out := NewQuestion{
		Question:   strings.TrimSpace(q.Question),
		Answer:     strings.TrimSpace(q.Answer),
		Category:   strings.TrimSpace(q.Category),
		Difficulty: q.Difficulty,
		Type:       q.Type,
	}
	if out.Question == "" {
		return NewQuestion{}, invalid("question", "Question is required")
	}
	if out.Answer == "" {
		return NewQuestion{}, invalid("answer", "Answer is required")
	}
	if out.Category == "" {
		return NewQuestion{}, invalid("category", "Category is required")
	}
	if out.Difficulty == "" {
		out.Difficulty = DifficultyEasy
	}
	switch out.Difficulty {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
	default:
		return NewQuestion{}, invalid("difficulty", "Difficulty must be Easy, Medium or Hard")
	}
	switch out.Type {
	case TypeMultipleChoice:
	case TypeOpenEnded, TypeShortAnswer:
		return out, nil
	default:
		return NewQuestion{}, invalid("type", "Type must be multiple-choice, open-ended or short-answer")
	}

	for _, option := range q.Options {
		if option = strings.TrimSpace(option); option != "" {
			out.Options = append(out.Options, option)
		}
	}
	if len(out.Options) < 2 {
		return NewQuestion{}, invalid("options", "Multiple choice questions need at least 2 options")
	}
	for _, option := range out.Options {
		if option == out.Answer {
			return out, nil
		}
	}
	return NewQuestion{}, invalid("answer", "Answer must be one of the options for multiple choice questions")
}

// Validate checks an application form and returns it with defaults applied.
func (f ApplicationFields) Validate() (ApplicationFields, error) {
	out := ApplicationFields{
		Company:     strings.TrimSpace(f.Company),
		AppliedDate: strings.TrimSpace(f.AppliedDate),
		Status:      f.Status,
		Location:    strings.TrimSpace(f.Location),
	}
	if out.Company == "" {
		return ApplicationFields{}, invalid("company", "Company name is required")
	}
	if out.AppliedDate == "" {
		return ApplicationFields{}, invalid("appliedDate", "Applied date is required")
	}
	if _, err := time.Parse(DateLayout, out.AppliedDate); err != nil {
		return ApplicationFields{}, invalid("appliedDate", "Applied date must be YYYY-MM-DD")
	}
	if out.Status == "" {
		out.Status = StatusApplied
	}
	if !out.Status.Valid() {
		return ApplicationFields{}, invalid("status", "Unknown status "+string(out.Status))
	}
	return out, nil
}
