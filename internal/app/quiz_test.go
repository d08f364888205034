package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/itayyoh/k8s-questions-gen/internal/app"
	"github.com/itayyoh/k8s-questions-gen/internal/domain"
	"github.com/itayyoh/k8s-questions-gen/internal/infra/httpapi"
	"github.com/itayyoh/k8s-questions-gen/internal/infra/httpapi/httpapitest"
)

func newQuiz(t *testing.T, opts ...app.QuizOption) (*app.QuizController, *httpapitest.Server) {
	t.Helper()
	srv := httpapitest.NewServer(httpapitest.SampleQuestions())
	t.Cleanup(srv.Close)
	client := httpapi.NewClient(srv.URL, time.Second)
	return app.NewQuizController(client, client, opts...), srv
}

func TestQuizLoadAllUsesCount(t *testing.T) {
	quiz, srv := newQuiz(t)
	if err := quiz.SelectCount(3); err != nil {
		t.Fatalf("select count: %v", err)
	}
	if err := quiz.LoadQuestions(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	snap := quiz.Snapshot()
	if snap.Stage != app.QuizActive || len(snap.Questions) != 3 || snap.Index != 0 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if srv.Requests("GET /api/questions/random/3") != 1 {
		t.Fatalf("expected one random request with count 3")
	}
}

func TestQuizCategoryLoadIsNotTruncated(t *testing.T) {
	quiz, _ := newQuiz(t)
	_ = quiz.SelectCount(1)
	quiz.SelectCategory("Workloads")
	if err := quiz.LoadQuestions(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := len(quiz.Snapshot().Questions); got != 3 {
		t.Fatalf("expected every workload question, got %d", got)
	}
}

func TestQuizScoreAfterMixedAnswers(t *testing.T) {
	completed := make(chan app.QuizScore, 1)
	quiz, _ := newQuiz(t, app.WithQuizCompletion(func(s app.QuizScore) { completed <- s }))
	ctx := context.Background()
	if err := quiz.LoadQuestions(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	questions := quiz.Snapshot().Questions
	if len(questions) != 5 {
		t.Fatalf("expected default count 5, got %d", len(questions))
	}
	for i, q := range questions[:4] {
		answer := q.Answer
		if i == 3 {
			answer = "zzz"
		}
		if err := quiz.SelectAnswer(q.ID, answer); err != nil {
			t.Fatalf("select: %v", err)
		}
		if _, err := quiz.SubmitAnswer(ctx, q.ID); err != nil {
			t.Fatalf("submit %s: %v", q.ID, err)
		}
	}
	for range questions {
		if err := quiz.Advance(); err != nil {
			t.Fatalf("advance: %v", err)
		}
	}

	score := quiz.Score()
	if score != (app.QuizScore{Correct: 3, Total: 5, Percentage: 60}) {
		t.Fatalf("unexpected score %+v", score)
	}
	if quiz.Snapshot().Stage != app.QuizResults {
		t.Fatalf("expected results stage")
	}
	select {
	case got := <-completed:
		if got != score {
			t.Fatalf("completion hook got %+v", got)
		}
	default:
		t.Fatalf("expected completion hook to fire")
	}
}

func TestQuizEmptyCategoryScoresZero(t *testing.T) {
	quiz, _ := newQuiz(t)
	quiz.SelectCategory("Core Concepts")
	if err := quiz.LoadQuestions(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if quiz.Snapshot().Stage != app.QuizActive {
		t.Fatalf("expected active stage for empty list")
	}
	_ = quiz.Advance()
	if score := quiz.Score(); score != (app.QuizScore{}) {
		t.Fatalf("expected zero score, got %+v", score)
	}
}

func TestQuizSubmitGuards(t *testing.T) {
	quiz, srv := newQuiz(t)
	ctx := context.Background()

	if _, err := quiz.SubmitAnswer(ctx, "q1"); !errors.Is(err, domain.ErrQuizNotActive) {
		t.Fatalf("expected ErrQuizNotActive, got %v", err)
	}

	quiz.SelectCategory("Networking")
	_ = quiz.LoadQuestions(ctx)
	if _, err := quiz.SubmitAnswer(ctx, "q2"); !errors.Is(err, domain.ErrEmptyAnswer) {
		t.Fatalf("expected ErrEmptyAnswer, got %v", err)
	}
	if err := quiz.SelectAnswer("q1", "x"); !errors.Is(err, domain.ErrQuestionNotFound) {
		t.Fatalf("expected ErrQuestionNotFound, got %v", err)
	}

	_ = quiz.SelectAnswer("q2", "Ingress")
	res, err := quiz.SubmitAnswer(ctx, "q2")
	if err != nil || res.Correct || res.CorrectAnswer != "Service" {
		t.Fatalf("unexpected result %+v err=%v", res, err)
	}
	if _, err := quiz.SubmitAnswer(ctx, "q2"); !errors.Is(err, domain.ErrAlreadySubmitted) {
		t.Fatalf("expected ErrAlreadySubmitted, got %v", err)
	}
	if err := quiz.SelectAnswer("q2", "Service"); !errors.Is(err, domain.ErrAlreadySubmitted) {
		t.Fatalf("expected graded answer to be locked, got %v", err)
	}
	if srv.Requests("POST /api/submit") != 1 {
		t.Fatalf("expected exactly one grading request")
	}
}

func TestQuizRevealDoesNotScore(t *testing.T) {
	quiz, _ := newQuiz(t)
	quiz.SelectCategory("CLI")
	_ = quiz.LoadQuestions(context.Background())

	if err := quiz.ToggleShowAnswer("q7"); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !quiz.Snapshot().Revealed["q7"] {
		t.Fatalf("expected q7 revealed")
	}
	_ = quiz.ToggleShowAnswer("q7")
	if quiz.Snapshot().Revealed["q7"] || quiz.Score().Correct != 0 {
		t.Fatalf("toggle must not affect scoring")
	}
}

func TestQuizNavigation(t *testing.T) {
	quiz, _ := newQuiz(t)
	quiz.SelectCategory("Workloads")
	_ = quiz.LoadQuestions(context.Background())

	_ = quiz.Retreat()
	if quiz.Snapshot().Index != 0 {
		t.Fatalf("retreat must clamp at 0")
	}
	_ = quiz.Advance()
	_ = quiz.Advance()
	if snap := quiz.Snapshot(); snap.Index != 2 || snap.Stage != app.QuizActive {
		t.Fatalf("expected last question, got %+v", snap)
	}
	_ = quiz.Advance()
	if quiz.Snapshot().Stage != app.QuizResults {
		t.Fatalf("expected results after last question")
	}

	quiz.Reset()
	snap := quiz.Snapshot()
	if snap.Stage != app.QuizSetup || snap.Category != domain.AllCategories || snap.Count != app.DefaultQuestionCount || len(snap.Questions) != 0 {
		t.Fatalf("unexpected reset state %+v", snap)
	}
}

func TestQuizLoadFailureKeepsState(t *testing.T) {
	quiz, srv := newQuiz(t)
	srv.Close()

	if err := quiz.LoadQuestions(context.Background()); err == nil {
		t.Fatalf("expected load error")
	}
	if snap := quiz.Snapshot(); snap.Stage != app.QuizSetup || snap.Loading {
		t.Fatalf("expected setup state after failure, got %+v", snap)
	}
	if err := quiz.SelectCount(0); err == nil {
		t.Fatalf("expected validation error for count 0")
	}
}

func TestQuizSecondLoadWhileLoading(t *testing.T) {
	source := &staticSource{questions: httpapitest.SampleQuestions(), gate: make(chan struct{})}
	quiz := app.NewQuizController(source, &blockingGrader{release: make(chan struct{})})

	done := make(chan error, 1)
	go func() { done <- quiz.LoadQuestions(context.Background()) }()
	if !waitFor(func() bool { return quiz.Snapshot().Loading }) {
		t.Fatalf("load never started")
	}
	if err := quiz.LoadQuestions(context.Background()); !errors.Is(err, domain.ErrLoadInProgress) {
		t.Fatalf("expected ErrLoadInProgress, got %v", err)
	}
	close(source.gate)
	if err := <-done; err != nil {
		t.Fatalf("first load: %v", err)
	}
}

func TestQuizStaleGradeIsDropped(t *testing.T) {
	source := &staticSource{questions: httpapitest.SampleQuestions()}
	grader := &blockingGrader{release: make(chan struct{}), result: domain.SubmissionResult{Correct: true, Score: 1}}
	quiz := app.NewQuizController(source, grader)
	ctx := context.Background()
	_ = quiz.LoadQuestions(ctx)

	q := quiz.Snapshot().Questions[0]
	_ = quiz.SelectAnswer(q.ID, q.Answer)

	done := make(chan error, 1)
	go func() {
		_, err := quiz.SubmitAnswer(ctx, q.ID)
		done <- err
	}()
	if !waitFor(func() bool { return len(quiz.Snapshot().Pending) == 1 }) {
		t.Fatalf("submission never went in flight")
	}
	if _, err := quiz.SubmitAnswer(ctx, q.ID); !errors.Is(err, domain.ErrSubmissionInFlight) {
		t.Fatalf("expected ErrSubmissionInFlight, got %v", err)
	}
	if err := quiz.SelectAnswer(q.ID, "something else"); !errors.Is(err, domain.ErrSubmissionInFlight) {
		t.Fatalf("expected answer frozen while grading, got %v", err)
	}
	if got := quiz.Snapshot().Selected[q.ID]; got != q.Answer {
		t.Fatalf("selection changed during grading: %q", got)
	}

	if err := quiz.LoadQuestions(ctx); err != nil {
		t.Fatalf("reload: %v", err)
	}
	close(grader.release)
	<-done

	snap := quiz.Snapshot()
	if len(snap.Submissions) != 0 || len(snap.Pending) != 0 {
		t.Fatalf("stale grade leaked into reloaded quiz: %+v", snap.Submissions)
	}
}
