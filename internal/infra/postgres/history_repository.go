package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/itayyoh/k8s-questions-gen/internal/app"
)

// HistoryRepository stores practice history as JSONB rows.
type HistoryRepository struct {
	pool *pgxpool.Pool
}

func NewHistoryRepository(pool *pgxpool.Pool) *HistoryRepository {
	return &HistoryRepository{pool: pool}
}

func (r *HistoryRepository) Save(ctx context.Context, entry app.HistoryEntry) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO practice_history (id, workspace_id, kind, summary, created_at) VALUES ($1, $2, $3, $4, $5)`,
		entry.ID, entry.WorkspaceID, string(entry.Kind), []byte(entry.Summary), entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	return nil
}

func (r *HistoryRepository) Recent(ctx context.Context, limit int) ([]app.HistoryEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id::text, workspace_id, kind, summary, created_at FROM practice_history ORDER BY created_at DESC LIMIT $1`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	out := []app.HistoryEntry{}
	for rows.Next() {
		var (
			entry   app.HistoryEntry
			kind    string
			summary []byte
		)
		if err := rows.Scan(&entry.ID, &entry.WorkspaceID, &kind, &summary, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		entry.Kind = app.HistoryKind(kind)
		entry.Summary = summary
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	return out, nil
}
