package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/itayyoh/k8s-questions-gen/internal/app"
	"github.com/itayyoh/k8s-questions-gen/internal/domain"
)

// NewQuizCmd runs a practice quiz in the terminal.
func NewQuizCmd(configPath *string) *cobra.Command {
	var (
		category string
		count    int
	)
	cmd := &cobra.Command{
		Use:   "quiz",
		Short: "Answer practice questions from the question bank",
		Long: "Answer practice questions. Type an answer (or an option number) to submit it, " +
			"'?' to reveal the expected answer, or an empty line to skip.",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadRuntime(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer rt.Close()
			ws := rt.factory.New(cmd.Context(), uuid.NewString())
			defer ws.Close()
			return runQuiz(cmd.Context(), ws.Quiz, category, count, newLineReader(cmd.InOrStdin()), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&category, "category", domain.AllCategories, "question category, or 'all' for a random mix")
	cmd.Flags().IntVar(&count, "count", app.DefaultQuestionCount, "number of random questions when category is 'all'")
	return cmd
}

func runQuiz(ctx context.Context, quiz *app.QuizController, category string, count int, in *lineReader, out io.Writer) error {
	quiz.SelectCategory(category)
	if err := quiz.SelectCount(count); err != nil {
		return err
	}
	if err := quiz.LoadQuestions(ctx); err != nil {
		return err
	}

	for {
		snap := quiz.Snapshot()
		if snap.Stage == app.QuizResults {
			break
		}
		if snap.Current == nil {
			fmt.Fprintln(out, "No questions found for this category.")
			_ = quiz.Advance()
			continue
		}
		askQuestion(ctx, quiz, snap, in, out)
		if err := quiz.Advance(); err != nil {
			return err
		}
	}

	score := quiz.Score()
	fmt.Fprintf(out, "\nScore: %d/%d (%d%%)\n", score.Correct, score.Total, score.Percentage)
	return nil
}

func askQuestion(ctx context.Context, quiz *app.QuizController, snap app.QuizSnapshot, in *lineReader, out io.Writer) {
	q := *snap.Current
	fmt.Fprintf(out, "\n[%d/%d] %s · %s\n%s\n", snap.Index+1, len(snap.Questions), q.Category, q.Difficulty, q.Question)
	for i, opt := range q.Options {
		fmt.Fprintf(out, "  %d) %s\n", i+1, opt)
	}

	for {
		fmt.Fprint(out, "> ")
		line, ok := in.Next()
		if !ok || line == "" {
			return
		}
		if line == "?" {
			_ = quiz.ToggleShowAnswer(q.ID)
			fmt.Fprintf(out, "Answer: %s\n", q.Answer)
			continue
		}
		answer := line
		if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(q.Options) {
			answer = q.Options[n-1]
		}
		if err := quiz.SelectAnswer(q.ID, answer); err != nil {
			fmt.Fprintf(out, "error: %v\n", err)
			return
		}
		res, err := quiz.SubmitAnswer(ctx, q.ID)
		if err != nil {
			fmt.Fprintf(out, "could not grade answer: %v\n", err)
			return
		}
		if res.Correct {
			fmt.Fprintln(out, "✓ Correct!")
		} else {
			fmt.Fprintf(out, "✗ %s\n", strings.TrimSpace(res.Explanation+" Expected: "+res.CorrectAnswer))
		}
		return
	}
}
