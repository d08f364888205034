package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
)

// HistoryKind tells which practice mode produced an entry.
type HistoryKind string

const (
	HistoryQuiz      HistoryKind = "quiz"
	HistoryInterview HistoryKind = "interview"
)

// HistoryEntry is one finished quiz or interview.
type HistoryEntry struct {
	ID          string          `json:"id"`
	WorkspaceID string          `json:"workspaceId"`
	Kind        HistoryKind     `json:"kind"`
	Summary     json.RawMessage `json:"summary"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// HistoryRepository archives finished practice sessions.
type HistoryRepository interface {
	Save(ctx context.Context, entry HistoryEntry) error
	// Recent returns at most limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]HistoryEntry, error)
}

// HistoryRecorder turns completion hooks into history entries.
// A nil recorder records nothing.
type HistoryRecorder struct {
	repo HistoryRepository
}

func NewHistoryRecorder(repo HistoryRepository) *HistoryRecorder {
	return &HistoryRecorder{repo: repo}
}

// Record stores summary as a new entry for workspaceID.
func (r *HistoryRecorder) Record(ctx context.Context, workspaceID string, kind HistoryKind, summary any) error {
	if r == nil {
		return nil
	}
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode %s summary: %w", kind, err)
	}
	entry := HistoryEntry{
		ID:          uuid.NewString(),
		WorkspaceID: workspaceID,
		Kind:        kind,
		Summary:     data,
		CreatedAt:   time.Now().UTC(),
	}
	if err := r.repo.Save(ctx, entry); err != nil {
		log.Printf("save %s history for workspace %s: %v", kind, workspaceID, err)
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}

func (r *HistoryRecorder) Recent(ctx context.Context, limit int) ([]HistoryEntry, error) {
	if r == nil {
		return []HistoryEntry{}, nil
	}
	if limit <= 0 {
		limit = 10
	}
	return r.repo.Recent(ctx, limit)
}
