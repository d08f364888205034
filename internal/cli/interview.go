package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/itayyoh/k8s-questions-gen/internal/app"
	"github.com/itayyoh/k8s-questions-gen/internal/domain"
)

// NewInterviewCmd runs the timed mock interview in the terminal.
func NewInterviewCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "interview",
		Short: "Run a timed mock interview (personal, technical, scenario)",
		Long: "Run a timed mock interview. Each line you type is recorded as the answer to the " +
			"current question. When a question's time runs out the interview moves on by itself.",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadRuntime(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer rt.Close()
			ws := rt.factory.New(cmd.Context(), uuid.NewString())
			defer ws.Close()
			return runInterview(cmd.Context(), ws.Interview, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func runInterview(ctx context.Context, interview *app.InterviewController, in io.Reader, out io.Writer) error {
	updates, cancel := interview.Subscribe()
	defer cancel()

	lines := make(chan string)
	go func() {
		defer close(lines)
		reader := newLineReader(in)
		for {
			line, ok := reader.Next()
			if !ok {
				return
			}
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
	}()

	if err := interview.Start(); err != nil {
		return err
	}
	first := interview.Snapshot()
	printInterviewQuestion(out, first)
	shown := first.Question.ID

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				lines = nil
				finishUnanswered(interview)
				continue
			}
			if err := interview.SetAnswerBuffer(line); err != nil {
				continue
			}
			_ = interview.Advance()
		case snap, ok := <-updates:
			if !ok {
				return nil
			}
			if snap.Phase == domain.PhaseResults && snap.Summary != nil {
				printSummary(out, *snap.Summary)
				return nil
			}
			if snap.Question == nil || snap.Question.ID == shown {
				continue
			}
			shown = snap.Question.ID
			printInterviewQuestion(out, snap)
		}
	}
}

// finishUnanswered skips every remaining question once input is exhausted.
func finishUnanswered(interview *app.InterviewController) {
	for {
		if err := interview.Advance(); err != nil {
			return
		}
	}
}

func printInterviewQuestion(out io.Writer, snap app.InterviewSnapshot) {
	q := snap.Question
	fmt.Fprintf(out, "\nPhase %d/%d: %s · question %d/%d · %ds\n%s\n",
		snap.PhaseNumber, snap.PhaseCount, snap.PhaseTitle,
		snap.QuestionIndex+1, snap.PhaseQuestionCount, q.TimeLimit, q.Question)
	if len(q.Hints) > 0 {
		fmt.Fprintf(out, "Hints: %s\n", strings.Join(q.Hints, "; "))
	}
}

func printSummary(out io.Writer, s app.InterviewSummary) {
	fmt.Fprintf(out, "\nInterview complete: answered %d of %d questions in %d:%02d\n",
		s.Answered, s.TotalQuestions, s.TimeSpent/60, s.TimeSpent%60)
	for _, a := range s.Answers {
		fmt.Fprintf(out, "- [%s] %s (%ds)\n  %s\n", a.Phase, a.Question, a.TimeSpent, a.Answer)
	}
}
