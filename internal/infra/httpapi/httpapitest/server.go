// Package httpapitest provides an in-process fake of the question and
// job-application API for tests.
package httpapitest

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/gorilla/mux"

	"github.com/itayyoh/k8s-questions-gen/internal/domain"
)

// Server is a fake API backed by in-memory slices. Applications are served
// with a Mongo-style "_id" key, as the real server does.
type Server struct {
	*httptest.Server

	mu           sync.Mutex
	questions    []domain.Question
	applications []domain.JobApplication
	nextID       int
	requests     map[string]int
	contentDown  bool
}

// NewServer starts a fake API seeded with questions.
func NewServer(questions []domain.Question) *Server {
	s := &Server{
		questions: questions,
		requests:  make(map[string]int),
	}
	r := mux.NewRouter()
	r.HandleFunc("/api/categories", s.categories).Methods(http.MethodGet)
	r.HandleFunc("/api/questions/random/{count}", s.random).Methods(http.MethodGet)
	r.HandleFunc("/api/questions/category/{category}", s.byCategory).Methods(http.MethodGet)
	r.HandleFunc("/api/questions", s.addQuestion).Methods(http.MethodPost)
	r.HandleFunc("/api/submit", s.submit).Methods(http.MethodPost)
	r.HandleFunc("/api/ui-config", s.content(domain.DefaultUIConfig)).Methods(http.MethodGet)
	r.HandleFunc("/api/interview-scenarios", s.content(domain.DefaultScenarioSet)).Methods(http.MethodGet)
	r.HandleFunc("/api/homepage-data", s.content(domain.DefaultHomepage)).Methods(http.MethodGet)
	r.HandleFunc("/api/job-applications", s.listApplications).Methods(http.MethodGet)
	r.HandleFunc("/api/job-applications", s.createApplication).Methods(http.MethodPost)
	r.HandleFunc("/api/job-applications/{id}", s.updateApplication).Methods(http.MethodPut)
	r.HandleFunc("/api/job-applications/{id}", s.deleteApplication).Methods(http.MethodDelete)
	s.Server = httptest.NewServer(s.count(r))
	return s
}

// SetContentDown makes the optional content endpoints answer 503.
func (s *Server) SetContentDown(down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contentDown = down
}

// Requests returns how many requests hit "METHOD /path-prefix" keys, e.g. "DELETE /api/job-applications".
func (s *Server) Requests(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for k, n := range s.requests {
		if strings.HasPrefix(k, key) {
			total += n
		}
	}
	return total
}

// TotalRequests returns the number of requests served.
func (s *Server) TotalRequests() int {
	return s.Requests("")
}

// Applications returns a copy of the stored applications.
func (s *Server) Applications() []domain.JobApplication {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.JobApplication(nil), s.applications...)
}

// SeedApplication stores an application and returns its id.
func (s *Server) SeedApplication(fields domain.ApplicationFields) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(fields)
}

func (s *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests[r.Method+" "+r.URL.Path]++
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) categories(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := map[string]bool{}
	out := []string{}
	for _, q := range s.questions {
		if !seen[q.Category] {
			seen[q.Category] = true
			out = append(out, q.Category)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) random(w http.ResponseWriter, r *http.Request) {
	count, err := strconv.Atoi(mux.Vars(r)["count"])
	if err != nil {
		count = 5
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	picked := append([]domain.Question(nil), s.questions...)
	rand.Shuffle(len(picked), func(i, j int) { picked[i], picked[j] = picked[j], picked[i] })
	if count < len(picked) {
		picked = picked[:count]
	}
	writeJSON(w, http.StatusOK, picked)
}

func (s *Server) byCategory(w http.ResponseWriter, r *http.Request) {
	category := mux.Vars(r)["category"]
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Question{}
	for _, q := range s.questions {
		if q.Category == category {
			out = append(out, q)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) addQuestion(w http.ResponseWriter, r *http.Request) {
	var in domain.NewQuestion
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	id := "q" + strconv.Itoa(s.nextID+len(s.questions))
	s.questions = append(s.questions, domain.Question{
		ID:         id,
		Question:   in.Question,
		Answer:     in.Answer,
		Category:   in.Category,
		Difficulty: in.Difficulty,
		Type:       in.Type,
		Options:    in.Options,
	})
	writeJSON(w, http.StatusCreated, map[string]any{"message": "questions added", "id": id})
}

func (s *Server) submit(w http.ResponseWriter, r *http.Request) {
	var in domain.Submission
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, q := range s.questions {
		if q.ID != in.QuestionID {
			continue
		}
		res := domain.SubmissionResult{CorrectAnswer: q.Answer}
		if q.Type == domain.TypeMultipleChoice {
			res.Correct = strings.EqualFold(strings.TrimSpace(in.Answer), strings.TrimSpace(q.Answer))
		} else {
			user, want := strings.ToLower(in.Answer), strings.ToLower(q.Answer)
			res.Correct = strings.Contains(user, want) || strings.Contains(want, user)
		}
		if res.Correct {
			res.Score = 1
			res.Explanation = "Correct!"
		} else {
			res.Explanation = "Incorrect. Please review the correct answer."
		}
		writeJSON(w, http.StatusOK, res)
		return
	}
	http.Error(w, "Question not found", http.StatusNotFound)
}

func (s *Server) content(body any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		s.mu.Lock()
		down := s.contentDown
		s.mu.Unlock()
		if down {
			http.Error(w, "File not found", http.StatusServiceUnavailable)
			return
		}
		writeJSON(w, http.StatusOK, body)
	}
}

type storedApplication struct {
	ID string `json:"_id"`
	domain.ApplicationFields
}

func (s *Server) listApplications(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]storedApplication, 0, len(s.applications))
	for _, app := range s.applications {
		out = append(out, storedApplication{ID: app.ID, ApplicationFields: app.Fields()})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createApplication(w http.ResponseWriter, r *http.Request) {
	var in domain.ApplicationFields
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.insertLocked(in)
	writeJSON(w, http.StatusCreated, storedApplication{ID: id, ApplicationFields: in})
}

func (s *Server) updateApplication(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var in domain.ApplicationFields
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid JSON format", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.applications {
		if s.applications[i].ID == id {
			s.applications[i] = domain.JobApplication{ID: id, Company: in.Company, AppliedDate: in.AppliedDate, Status: in.Status, Location: in.Location}
			writeJSON(w, http.StatusOK, storedApplication{ID: id, ApplicationFields: in})
			return
		}
	}
	http.Error(w, "application not found", http.StatusNotFound)
}

func (s *Server) deleteApplication(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.applications {
		if s.applications[i].ID == id {
			s.applications = append(s.applications[:i], s.applications[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	http.Error(w, "application not found", http.StatusNotFound)
}

func (s *Server) insertLocked(fields domain.ApplicationFields) string {
	s.nextID++
	id := "app-" + strconv.Itoa(s.nextID)
	s.applications = append(s.applications, domain.JobApplication{
		ID:          id,
		Company:     fields.Company,
		AppliedDate: fields.AppliedDate,
		Status:      fields.Status,
		Location:    fields.Location,
	})
	return id
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// SampleQuestions is a small mixed question bank.
func SampleQuestions() []domain.Question {
	return []domain.Question{
		{ID: "q1", Question: "Which object keeps a set of pods running?", Answer: "ReplicaSet", Category: "Workloads", Difficulty: domain.DifficultyEasy, Type: domain.TypeMultipleChoice, Options: []string{"ConfigMap", "ReplicaSet", "Service"}},
		{ID: "q2", Question: "What exposes pods on a stable virtual IP?", Answer: "Service", Category: "Networking", Difficulty: domain.DifficultyEasy, Type: domain.TypeMultipleChoice, Options: []string{"Service", "Ingress", "Secret"}},
		{ID: "q3", Question: "What stores non-confidential configuration?", Answer: "ConfigMap", Category: "Configuration", Difficulty: domain.DifficultyEasy, Type: domain.TypeMultipleChoice, Options: []string{"ConfigMap", "Secret"}},
		{ID: "q4", Question: "Explain what etcd is used for.", Answer: "cluster state", Category: "Architecture", Difficulty: domain.DifficultyMedium, Type: domain.TypeOpenEnded},
		{ID: "q5", Question: "Which controller runs one pod per node?", Answer: "DaemonSet", Category: "Workloads", Difficulty: domain.DifficultyMedium, Type: domain.TypeMultipleChoice, Options: []string{"DaemonSet", "StatefulSet", "Job"}},
		{ID: "q6", Question: "Which workload gives pods stable identities?", Answer: "StatefulSet", Category: "Workloads", Difficulty: domain.DifficultyHard, Type: domain.TypeMultipleChoice, Options: []string{"Deployment", "StatefulSet"}},
		{ID: "q7", Question: "Name the command that applies a manifest.", Answer: "kubectl apply", Category: "CLI", Difficulty: domain.DifficultyEasy, Type: domain.TypeShortAnswer},
	}
}
