package cli

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/itayyoh/k8s-questions-gen/internal/domain"
	"github.com/itayyoh/k8s-questions-gen/internal/infra/httpapi/httpapitest"
)

func newBackend(t *testing.T) *httpapitest.Server {
	t.Helper()
	srv := httpapitest.NewServer(httpapitest.SampleQuestions())
	t.Cleanup(srv.Close)
	t.Setenv("API_BASE_URL", srv.URL)
	return srv
}

func run(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(input))
	cmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestAppsCommands(t *testing.T) {
	srv := newBackend(t)

	if _, err := run(t, "", "apps", "add", "--company", "Acme", "--date", "2024-05-01", "--location", "Berlin"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := run(t, "", "apps", "add", "--company", "Globex", "--date", "2024-05-02", "--status", "offer"); err != nil {
		t.Fatalf("add: %v", err)
	}

	out, err := run(t, "", "apps", "list", "--search", "acme")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "Acme") || strings.Contains(out, "Globex") {
		t.Fatalf("unexpected list output:\n%s", out)
	}

	out, err = run(t, "", "apps", "stats")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if !strings.Contains(out, "Total: 2") || !strings.Contains(out, "Offer rate: 50%") {
		t.Fatalf("unexpected stats output:\n%s", out)
	}

	id := srv.Applications()[0].ID
	if _, err := run(t, "", "apps", "update", id, "--status", "interview"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if got := srv.Applications()[0]; got.Status != domain.StatusInterview || got.Company != "Acme" {
		t.Fatalf("update must keep unset fields, got %+v", got)
	}

	if _, err := run(t, "n\n", "apps", "delete", id); !errors.Is(err, domain.ErrDeleteNotConfirmed) {
		t.Fatalf("expected declined delete, got %v", err)
	}
	if srv.Requests("DELETE") != 0 {
		t.Fatalf("declined delete reached the server")
	}
	if _, err := run(t, "", "apps", "delete", "--yes", id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(srv.Applications()) != 1 {
		t.Fatalf("expected one application left")
	}
}

func TestAppsAddValidation(t *testing.T) {
	srv := newBackend(t)
	_, err := run(t, "", "apps", "add", "--company", "Acme", "--date", "May 1st")
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Field != "appliedDate" {
		t.Fatalf("expected date validation error, got %v", err)
	}
	if srv.Requests("POST") != 0 {
		t.Fatalf("invalid application must not be sent")
	}
}

func TestQuizCommand(t *testing.T) {
	newBackend(t)
	out, err := run(t, "?\n1\n", "quiz", "--category", "Networking")
	if err != nil {
		t.Fatalf("quiz: %v", err)
	}
	if !strings.Contains(out, "Answer: Service") || !strings.Contains(out, "Correct!") {
		t.Fatalf("unexpected quiz output:\n%s", out)
	}
	if !strings.Contains(out, "Score: 1/1 (100%)") {
		t.Fatalf("expected full score:\n%s", out)
	}
}

func TestQuestionsAddValidatesLocally(t *testing.T) {
	srv := newBackend(t)
	_, err := run(t, "", "questions", "add",
		"--question", "Which object schedules pods?", "--answer", "Kubelet", "--category", "Architecture",
		"--option", "Scheduler", "--option", "Controller")
	var verr *domain.ValidationError
	if !errors.As(err, &verr) || verr.Field != "answer" {
		t.Fatalf("expected answer validation error, got %v", err)
	}
	if srv.Requests("POST /api/questions") != 0 {
		t.Fatalf("invalid question must not be sent")
	}

	out, err := run(t, "", "questions", "add",
		"--question", "Which component schedules pods?", "--answer", "kube-scheduler", "--category", "Architecture",
		"--option", "kube-scheduler", "--option", "kubelet", "--option", " ")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if !strings.Contains(out, "Added question q") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestInterviewCommandFinishesOnEOF(t *testing.T) {
	newBackend(t)
	out, err := run(t, "I run the platform team\nCI/CD and GitOps\nI mentor juniors\n", "interview")
	if err != nil {
		t.Fatalf("interview: %v", err)
	}
	if !strings.Contains(out, "Phase 1/3: Getting to Know You") {
		t.Fatalf("expected first phase header:\n%s", out)
	}
	if !strings.Contains(out, "answered 3 of 8 questions") {
		t.Fatalf("expected summary of 3 answers:\n%s", out)
	}
}

func TestHistoryCommandWithoutPostgres(t *testing.T) {
	newBackend(t)
	out, err := run(t, "", "history")
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if !strings.Contains(out, "No practice history yet.") {
		t.Fatalf("unexpected output %q", out)
	}
}
