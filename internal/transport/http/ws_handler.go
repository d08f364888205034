package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/itayyoh/k8s-questions-gen/internal/app"
	"github.com/itayyoh/k8s-questions-gen/internal/domain"
	"github.com/itayyoh/k8s-questions-gen/internal/metrics"
)

// touchInterval is how often a connected client refreshes its workspace liveness marker.
const touchInterval = time.Minute

type WSHandler struct {
	service    *app.PrepService
	upgrader   websocket.Upgrader
	touchEvery time.Duration
}

func NewWSHandler(service *app.PrepService, checkOrigin func(r *http.Request) bool) *WSHandler {
	if checkOrigin == nil {
		checkOrigin = func(r *http.Request) bool { return true }
	}
	return &WSHandler{
		service:    service,
		touchEvery: touchInterval,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type outboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type sessionPayload struct {
	ID string `json:"id"`
}

type questionPayload struct {
	QuestionID string `json:"questionId"`
	Answer     string `json:"answer,omitempty"`
}

type categoryPayload struct {
	Category string `json:"category"`
}

type countPayload struct {
	Count int `json:"count"`
}

type textPayload struct {
	Text string `json:"text"`
}

type applicationPayload struct {
	ID        string                   `json:"id"`
	Fields    domain.ApplicationFields `json:"fields"`
	Confirmed bool                     `json:"confirmed"`
}

type filterPayload struct {
	Search string `json:"search"`
	Status string `json:"status"`
}

type historyPayload struct {
	Limit int `json:"limit"`
}

type addedPayload struct {
	ID string `json:"id"`
}

var errBadPayload = errors.New("invalid payload")

// ServeWS upgrades HTTP requests to websockets and binds them to a workspace.
// Clients resume a workspace with ?session=<id>; without one a new id is issued.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("session")
	if id == "" {
		id = uuid.NewString()
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	metrics.ConnectionOpened()
	defer metrics.ConnectionClosed()

	ctx, cancelCtx := context.WithCancel(context.Background())
	defer cancelCtx()

	ws := h.service.Join(ctx, id)
	defer h.service.Leave(ctx, id)

	updates, cancel := ws.Interview.Subscribe()
	defer cancel()

	c := &wsClient{
		service:   h.service,
		workspace: ws,
		send:      make(chan outboundMessage, 16),
		closed:    make(chan struct{}),
	}

	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range c.send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		keepAlive := time.NewTicker(h.touchEvery)
		defer keepAlive.Stop()
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				c.emit("interview", update)
			case <-keepAlive.C:
				h.service.Touch(ctx, id)
			case <-c.closed:
				return
			}
		}
	}()

	c.emit("session", sessionPayload{ID: id})
	c.emit("quiz", ws.Quiz.Snapshot())

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		if err := c.handle(ctx, inbound); err != nil {
			c.fail(err)
		}
	}

	cancelCtx()
	close(c.closed)
	c.pending.Wait()
	<-updatesDone
	close(c.send)
	<-writerDone
}

// wsClient is the per-connection event dispatcher.
type wsClient struct {
	service   *app.PrepService
	workspace *app.Workspace
	send      chan outboundMessage
	closed    chan struct{}
	pending   sync.WaitGroup
}

func (c *wsClient) emit(typ string, payload any) {
	select {
	case c.send <- outboundMessage{Type: typ, Payload: payload}:
	case <-c.closed:
	}
}

func (c *wsClient) fail(err error) {
	payload := errorPayload{Message: err.Error()}
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		payload = errorPayload{Message: verr.Message, Field: verr.Field}
	}
	c.emit("error", payload)
}

func (c *wsClient) handle(ctx context.Context, in inboundMessage) error {
	ws := c.workspace
	switch in.Type {
	case "content.get":
		c.emit("content", c.service.Content().Bundle(ctx))
		return nil
	case "history.get":
		var p historyPayload
		_ = decode(in.Payload, &p)
		entries, err := c.service.History(ctx, p.Limit)
		if err != nil {
			return err
		}
		c.emit("history", entries)
		return nil

	case "quiz.category":
		var p categoryPayload
		if err := decode(in.Payload, &p); err != nil {
			return err
		}
		ws.Quiz.SelectCategory(p.Category)
		return c.quiz(nil)
	case "quiz.count":
		var p countPayload
		if err := decode(in.Payload, &p); err != nil {
			return err
		}
		return c.quiz(ws.Quiz.SelectCount(p.Count))
	case "quiz.load":
		return c.quiz(ws.Quiz.LoadQuestions(ctx))
	case "quiz.select":
		var p questionPayload
		if err := decode(in.Payload, &p); err != nil {
			return err
		}
		return c.quiz(ws.Quiz.SelectAnswer(p.QuestionID, p.Answer))
	case "quiz.submit":
		var p questionPayload
		if err := decode(in.Payload, &p); err != nil {
			return err
		}
		// grading runs off the read loop so the socket stays responsive
		c.pending.Add(1)
		go func() {
			defer c.pending.Done()
			_, err := ws.Quiz.SubmitAnswer(ctx, p.QuestionID)
			if err := c.quiz(err); err != nil {
				c.fail(err)
			}
		}()
		return nil
	case "quiz.reveal":
		var p questionPayload
		if err := decode(in.Payload, &p); err != nil {
			return err
		}
		return c.quiz(ws.Quiz.ToggleShowAnswer(p.QuestionID))
	case "quiz.next":
		return c.quiz(ws.Quiz.Advance())
	case "quiz.prev":
		return c.quiz(ws.Quiz.Retreat())
	case "quiz.reset":
		ws.Quiz.Reset()
		return c.quiz(nil)

	case "interview.start":
		return ws.Interview.Start()
	case "interview.answer":
		var p textPayload
		if err := decode(in.Payload, &p); err != nil {
			return err
		}
		return ws.Interview.SetAnswerBuffer(p.Text)
	case "interview.next":
		return ws.Interview.Advance()
	case "interview.reset":
		ws.Interview.Reset()
		return nil

	case "apps.refresh":
		return c.applications(ws.Applications.Refresh(ctx))
	case "apps.create":
		var p applicationPayload
		if err := decode(in.Payload, &p); err != nil {
			return err
		}
		return c.applications(ws.Applications.Create(ctx, p.Fields))
	case "apps.update":
		var p applicationPayload
		if err := decode(in.Payload, &p); err != nil {
			return err
		}
		return c.applications(ws.Applications.Update(ctx, p.ID, p.Fields))
	case "apps.delete":
		var p applicationPayload
		if err := decode(in.Payload, &p); err != nil {
			return err
		}
		confirmed := app.ConfirmFunc(func(context.Context, string) bool { return p.Confirmed })
		return c.applications(ws.Applications.Remove(ctx, p.ID, confirmed))
	case "apps.filter":
		var p filterPayload
		if err := decode(in.Payload, &p); err != nil {
			return err
		}
		ws.Applications.SetSearch(p.Search)
		return c.applications(ws.Applications.SetStatusFilter(p.Status))

	case "questions.add":
		var p domain.NewQuestion
		if err := decode(in.Payload, &p); err != nil {
			return err
		}
		id, err := ws.Questions.Add(ctx, p)
		if err != nil {
			return err
		}
		c.emit("questionAdded", addedPayload{ID: id})
		return nil
	}
	return errors.New("unsupported message type")
}

// quiz sends the quiz snapshot and then reports err, if any.
func (c *wsClient) quiz(err error) error {
	c.emit("quiz", c.workspace.Quiz.Snapshot())
	return err
}

func (c *wsClient) applications(err error) error {
	c.emit("applications", c.workspace.Applications.View())
	return err
}

func decode(raw json.RawMessage, out any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errBadPayload
	}
	return nil
}
