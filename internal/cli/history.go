package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/itayyoh/k8s-questions-gen/internal/app"
)

// NewHistoryCmd prints recently finished quizzes and interviews.
func NewHistoryCmd(configPath *string) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent practice results (needs postgres.url)",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadRuntime(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer rt.Close()

			entries, err := rt.history.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			printHistory(cmd.OutOrStdout(), entries)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "number of entries")
	return cmd
}

func printHistory(out io.Writer, entries []app.HistoryEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(out, "No practice history yet.")
		return
	}
	for _, e := range entries {
		fmt.Fprintf(out, "%s  %-9s  %s\n", e.CreatedAt.Local().Format(time.DateTime), e.Kind, describeSummary(e))
	}
}

func describeSummary(e app.HistoryEntry) string {
	switch e.Kind {
	case app.HistoryQuiz:
		var s app.QuizScore
		if err := json.Unmarshal(e.Summary, &s); err == nil {
			return fmt.Sprintf("%d/%d correct (%d%%)", s.Correct, s.Total, s.Percentage)
		}
	case app.HistoryInterview:
		var s app.InterviewSummary
		if err := json.Unmarshal(e.Summary, &s); err == nil {
			return fmt.Sprintf("answered %d/%d in %ds", s.Answered, s.TotalQuestions, s.TimeSpent)
		}
	}
	return string(e.Summary)
}
