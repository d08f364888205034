package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gorilla/websocket"
	goredis "github.com/redis/go-redis/v9"

	"github.com/itayyoh/k8s-questions-gen/internal/app"
	"github.com/itayyoh/k8s-questions-gen/internal/domain"
	"github.com/itayyoh/k8s-questions-gen/internal/infra/httpapi"
	"github.com/itayyoh/k8s-questions-gen/internal/infra/httpapi/httpapitest"
	"github.com/itayyoh/k8s-questions-gen/internal/infra/memory"
	infraredis "github.com/itayyoh/k8s-questions-gen/internal/infra/redis"
)

type message struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func newTestServer(t *testing.T, origins ...string) (*httptest.Server, *httpapitest.Server, *memory.WorkspaceStore) {
	t.Helper()
	backend := httpapitest.NewServer(httpapitest.SampleQuestions())
	t.Cleanup(backend.Close)

	client := httpapi.NewClient(backend.URL, time.Second)
	content := app.NewContentService(memory.NewContentRepository(client, time.Minute), client)
	history := app.NewHistoryRecorder(memory.NewHistoryRepository())
	factory := app.NewWorkspaceFactory(client, content, history)
	store := memory.NewWorkspaceStore(factory.New)
	service := app.NewPrepService(store, content, history)

	server := httptest.NewServer(NewRouter(service, origins))
	t.Cleanup(server.Close)
	return server, backend, store
}

func dial(t *testing.T, server *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws" + query
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// readUntil skips messages until one of type typ arrives.
func readUntil(t *testing.T, conn *websocket.Conn, typ string, out any) {
	t.Helper()
	for i := 0; i < 20; i++ {
		var msg message
		_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read json waiting for %s: %v", typ, err)
		}
		if msg.Type != typ {
			continue
		}
		if out != nil {
			if err := json.Unmarshal(msg.Payload, out); err != nil {
				t.Fatalf("decode %s: %v", typ, err)
			}
		}
		return
	}
	t.Fatalf("no %s message received", typ)
}

func send(t *testing.T, conn *websocket.Conn, typ string, payload any) {
	t.Helper()
	if err := conn.WriteJSON(map[string]any{"type": typ, "payload": payload}); err != nil {
		t.Fatalf("write %s: %v", typ, err)
	}
}

func TestWebSocketQuizFlow(t *testing.T) {
	server, _, _ := newTestServer(t)
	conn := dial(t, server, "")

	var session struct{ ID string }
	readUntil(t, conn, "session", &session)
	if session.ID == "" {
		t.Fatalf("expected issued session id")
	}

	send(t, conn, "quiz.category", map[string]any{"category": "Networking"})
	send(t, conn, "quiz.load", nil)
	var snap app.QuizSnapshot
	for snap.Stage != app.QuizActive {
		readUntil(t, conn, "quiz", &snap)
	}
	if len(snap.Questions) != 1 || snap.Questions[0].ID != "q2" {
		t.Fatalf("unexpected questions %+v", snap.Questions)
	}

	send(t, conn, "quiz.select", map[string]any{"questionId": "q2", "answer": "Service"})
	send(t, conn, "quiz.submit", map[string]any{"questionId": "q2"})
	for len(snap.Submissions) == 0 {
		readUntil(t, conn, "quiz", &snap)
	}
	if !snap.Submissions["q2"].Correct || snap.Score.Percentage != 100 {
		t.Fatalf("expected graded correct answer, got %+v", snap.Submissions)
	}
}

func TestWebSocketInterviewAndErrors(t *testing.T) {
	server, _, _ := newTestServer(t)
	conn := dial(t, server, "?session=ws-1")
	readUntil(t, conn, "session", nil)

	send(t, conn, "interview.next", nil)
	var failure errorPayload
	readUntil(t, conn, "error", &failure)
	if failure.Message != domain.ErrInterviewNotActive.Error() {
		t.Fatalf("unexpected error %+v", failure)
	}

	send(t, conn, "interview.start", nil)
	var snap app.InterviewSnapshot
	for snap.Phase != domain.PhasePersonal {
		readUntil(t, conn, "interview", &snap)
	}
	if snap.Question == nil || snap.TimeRemaining != snap.Question.TimeLimit {
		t.Fatalf("unexpected first interview snapshot %+v", snap)
	}

	send(t, conn, "apps.create", map[string]any{"fields": map[string]any{"company": "", "appliedDate": "2024-01-01"}})
	readUntil(t, conn, "error", &failure)
	if failure.Field != "company" {
		t.Fatalf("expected company field error, got %+v", failure)
	}

	send(t, conn, "nope", nil)
	readUntil(t, conn, "error", &failure)
	if failure.Message != "unsupported message type" {
		t.Fatalf("unexpected error %+v", failure)
	}
}

func TestWebSocketDeleteNeedsConfirmation(t *testing.T) {
	server, backend, _ := newTestServer(t)
	id := backend.SeedApplication(domain.ApplicationFields{Company: "Acme", AppliedDate: "2024-05-01", Status: domain.StatusApplied})
	conn := dial(t, server, "")
	readUntil(t, conn, "session", nil)

	send(t, conn, "apps.delete", map[string]any{"id": id})
	var failure errorPayload
	readUntil(t, conn, "error", &failure)
	if failure.Message != domain.ErrDeleteNotConfirmed.Error() || backend.Requests("DELETE") != 0 {
		t.Fatalf("expected unconfirmed delete to be refused, got %+v", failure)
	}

	send(t, conn, "apps.delete", map[string]any{"id": id, "confirmed": true})
	var view app.ApplicationsView
	readUntil(t, conn, "applications", &view)
	if len(view.Items) != 0 || len(backend.Applications()) != 0 {
		t.Fatalf("expected application deleted, got %+v", view.Items)
	}
}

func TestWorkspaceDroppedOnDisconnect(t *testing.T) {
	server, _, store := newTestServer(t)
	conn := dial(t, server, "?session=ws-2")
	readUntil(t, conn, "session", nil)
	if _, ok := store.Get("ws-2"); !ok {
		t.Fatalf("expected workspace while connected")
	}
	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for store.Len() != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if store.Len() != 0 {
		t.Fatalf("expected workspace removed after disconnect")
	}
}

func TestConnectedClientKeepsWorkspaceAlive(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	backend := httpapitest.NewServer(httpapitest.SampleQuestions())
	t.Cleanup(backend.Close)
	client := httpapi.NewClient(backend.URL, time.Second)
	content := app.NewContentService(memory.NewContentRepository(client, time.Minute), client)
	factory := app.NewWorkspaceFactory(client, content, nil)
	store := infraredis.NewWorkspaceStore(rdb, time.Minute, factory.New)
	service := app.NewPrepService(store, content, nil)

	handler := NewWSHandler(service, nil)
	handler.touchEvery = 10 * time.Millisecond
	server := httptest.NewServer(http.HandlerFunc(handler.ServeWS))
	t.Cleanup(server.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+"?session=ws-live", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	readUntil(t, conn, "session", nil)

	for i := 0; i < 3; i++ {
		mr.FastForward(45 * time.Second)
		deadline := time.Now().Add(2 * time.Second)
		for mr.TTL("prep:workspace:ws-live") != time.Minute && time.Now().Before(deadline) {
			time.Sleep(5 * time.Millisecond)
		}
	}
	if !mr.Exists("prep:workspace:ws-live") {
		t.Fatalf("liveness key expired while the client was connected")
	}
}

func TestContentRouteAndOrigins(t *testing.T) {
	server, backend, _ := newTestServer(t, "http://allowed.example")
	backend.SetContentDown(true)

	resp, err := http.Get(server.URL + "/api/content")
	if err != nil {
		t.Fatalf("get content: %v", err)
	}
	defer resp.Body.Close()
	var bundle app.ContentBundle
	if err := json.NewDecoder(resp.Body).Decode(&bundle); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.StatusCode != http.StatusOK || bundle.Homepage.Metadata.Title != domain.DefaultHomepage.Metadata.Title {
		t.Fatalf("expected fallback content with 200, got %d %+v", resp.StatusCode, bundle.Homepage)
	}

	u := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	header := http.Header{"Origin": []string{"http://evil.example"}}
	if _, _, err := websocket.DefaultDialer.DialContext(context.Background(), u, header); err == nil {
		t.Fatalf("expected foreign origin to be rejected")
	}
}
