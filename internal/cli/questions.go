package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/itayyoh/k8s-questions-gen/internal/app"
	"github.com/itayyoh/k8s-questions-gen/internal/domain"
)

// NewQuestionsCmd groups question-bank authoring commands.
func NewQuestionsCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "questions",
		Short: "Manage the question bank",
	}
	cmd.AddCommand(newQuestionsAddCmd(configPath))
	return cmd
}

func newQuestionsAddCmd(configPath *string) *cobra.Command {
	var (
		q          domain.NewQuestion
		difficulty string
		kind       string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a question to the bank",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := loadRuntime(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer rt.Close()

			q.Difficulty = domain.Difficulty(difficulty)
			q.Type = domain.QuestionType(kind)
			id, err := app.NewQuestionAuthor(rt.client).Add(cmd.Context(), q)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added question %s\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&q.Question, "question", "", "question text")
	cmd.Flags().StringVar(&q.Answer, "answer", "", "expected answer")
	cmd.Flags().StringVar(&q.Category, "category", "", "category")
	cmd.Flags().StringVar(&difficulty, "difficulty", string(domain.DifficultyEasy), "Easy, Medium or Hard")
	cmd.Flags().StringVar(&kind, "type", string(domain.TypeMultipleChoice), "multiple-choice, open-ended or short-answer")
	cmd.Flags().StringArrayVar(&q.Options, "option", nil, "answer option (repeat for each option)")
	return cmd
}
