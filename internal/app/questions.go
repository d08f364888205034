package app

import (
	"context"
	"fmt"
	"log"

	"github.com/itayyoh/k8s-questions-gen/internal/domain"
)

// QuestionWriter stores authored questions.
type QuestionWriter interface {
	AddQuestion(ctx context.Context, q domain.NewQuestion) (string, error)
}

// QuestionAuthor validates new questions before they reach the bank.
type QuestionAuthor struct {
	writer QuestionWriter
}

func NewQuestionAuthor(writer QuestionWriter) *QuestionAuthor {
	return &QuestionAuthor{writer: writer}
}

// Add validates q and returns the id the server assigned.
func (a *QuestionAuthor) Add(ctx context.Context, q domain.NewQuestion) (string, error) {
	valid, err := q.Validate()
	if err != nil {
		return "", err
	}
	id, err := a.writer.AddQuestion(ctx, valid)
	if err != nil {
		log.Printf("add question (category=%s): %v", valid.Category, err)
		return "", fmt.Errorf("add question: %w", err)
	}
	return id, nil
}
