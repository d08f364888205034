package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/itayyoh/k8s-questions-gen/internal/domain"
	"github.com/itayyoh/k8s-questions-gen/internal/metrics"
)

// StatusError is returned for any non-2xx API response.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.Path, e.Code, e.Body)
}

// Client talks to the question bank, grading, content and job-application API.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var out []string
	err := c.do(ctx, "categories", http.MethodGet, "/api/categories", nil, &out)
	return nonNil(out), err
}

// RandomQuestions asks the server for a random sample of count questions.
func (c *Client) RandomQuestions(ctx context.Context, count int) ([]domain.Question, error) {
	var out []domain.Question
	err := c.do(ctx, "questions_random", http.MethodGet, "/api/questions/random/"+strconv.Itoa(count), nil, &out)
	return nonNil(out), err
}

// QuestionsByCategory returns every question in category.
func (c *Client) QuestionsByCategory(ctx context.Context, category string) ([]domain.Question, error) {
	var out []domain.Question
	err := c.do(ctx, "questions_category", http.MethodGet, "/api/questions/category/"+url.PathEscape(category), nil, &out)
	return nonNil(out), err
}

// AddQuestion stores a new question and returns its server id.
func (c *Client) AddQuestion(ctx context.Context, q domain.NewQuestion) (string, error) {
	var out struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, "questions_add", http.MethodPost, "/api/questions", q, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

func (c *Client) Submit(ctx context.Context, submission domain.Submission) (domain.SubmissionResult, error) {
	var out domain.SubmissionResult
	err := c.do(ctx, "submit", http.MethodPost, "/api/submit", submission, &out)
	return out, err
}

func (c *Client) UIConfig(ctx context.Context) (domain.UIConfig, error) {
	var out domain.UIConfig
	err := c.do(ctx, "ui_config", http.MethodGet, "/api/ui-config", nil, &out)
	return out, err
}

func (c *Client) InterviewScenarios(ctx context.Context) (domain.ScenarioSet, error) {
	var out domain.ScenarioSet
	err := c.do(ctx, "interview_scenarios", http.MethodGet, "/api/interview-scenarios", nil, &out)
	return out, err
}

func (c *Client) Homepage(ctx context.Context) (domain.HomepageContent, error) {
	var out domain.HomepageContent
	err := c.do(ctx, "homepage", http.MethodGet, "/api/homepage-data", nil, &out)
	return out, err
}

// ListApplications returns all job applications with ids normalised.
func (c *Client) ListApplications(ctx context.Context) ([]domain.JobApplication, error) {
	var raw []applicationRecord
	if err := c.do(ctx, "applications_list", http.MethodGet, "/api/job-applications", nil, &raw); err != nil {
		return nil, err
	}
	out := make([]domain.JobApplication, 0, len(raw))
	for _, r := range raw {
		out = append(out, r.normalize())
	}
	return out, nil
}

func (c *Client) CreateApplication(ctx context.Context, fields domain.ApplicationFields) error {
	return c.do(ctx, "applications_create", http.MethodPost, "/api/job-applications", fields, nil)
}

func (c *Client) UpdateApplication(ctx context.Context, id string, fields domain.ApplicationFields) error {
	if id == "" {
		return domain.ErrMissingID
	}
	return c.do(ctx, "applications_update", http.MethodPut, "/api/job-applications/"+url.PathEscape(id), fields, nil)
}

func (c *Client) DeleteApplication(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrMissingID
	}
	return c.do(ctx, "applications_delete", http.MethodDelete, "/api/job-applications/"+url.PathEscape(id), nil, nil)
}

// applicationRecord accepts either a Mongo-style "_id" or a plain "id".
type applicationRecord struct {
	MongoID     string                   `json:"_id"`
	ID          string                   `json:"id"`
	Company     string                   `json:"company"`
	AppliedDate string                   `json:"appliedDate"`
	Status      domain.ApplicationStatus `json:"status"`
	Location    string                   `json:"location"`
}

func (r applicationRecord) normalize() domain.JobApplication {
	id := r.MongoID
	if id == "" {
		id = r.ID
	}
	return domain.JobApplication{
		ID:          id,
		Company:     r.Company,
		AppliedDate: r.AppliedDate,
		Status:      r.Status,
		Location:    r.Location,
	}
}

func (c *Client) do(ctx context.Context, endpoint, method, path string, in, out any) (err error) {
	defer func() { metrics.BackendRequest(endpoint, err) }()

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", endpoint, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, err)
	}
	return nil
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
