package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/itayyoh/k8s-questions-gen/internal/domain"
)

// DeletePrompt is shown before an application is removed.
const DeletePrompt = "Are you sure you want to delete this application?"

// ApplicationStore persists job applications.
type ApplicationStore interface {
	ListApplications(ctx context.Context) ([]domain.JobApplication, error)
	CreateApplication(ctx context.Context, fields domain.ApplicationFields) error
	UpdateApplication(ctx context.Context, id string, fields domain.ApplicationFields) error
	DeleteApplication(ctx context.Context, id string) error
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool { return f(ctx, prompt) }

// ApplicationsView is the filtered list plus analytics over the full list.
type ApplicationsView struct {
	Items        []domain.JobApplication `json:"items"`
	Analytics    domain.Analytics        `json:"analytics"`
	Search       string                  `json:"search"`
	StatusFilter string                  `json:"statusFilter"`
}

// ApplicationManager keeps the local copy of the job-application list in sync with the store.
type ApplicationManager struct {
	store ApplicationStore

	mu     sync.RWMutex
	items  []domain.JobApplication
	search string
	status string
}

func NewApplicationManager(store ApplicationStore) *ApplicationManager {
	return &ApplicationManager{store: store, status: domain.StatusAll}
}

// Refresh replaces the local list with the server's. A failed refresh leaves the list empty.
func (m *ApplicationManager) Refresh(ctx context.Context) error {
	list, err := m.store.ListApplications(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		m.items = nil
		log.Printf("refresh applications: %v", err)
		return fmt.Errorf("refresh applications: %w", err)
	}
	m.items = list
	return nil
}

// Create validates fields, stores a new application and refreshes the list.
func (m *ApplicationManager) Create(ctx context.Context, fields domain.ApplicationFields) error {
	valid, err := fields.Validate()
	if err != nil {
		return err
	}
	if err := m.store.CreateApplication(ctx, valid); err != nil {
		log.Printf("create application for %s: %v", valid.Company, err)
		return fmt.Errorf("create application: %w", err)
	}
	return m.Refresh(ctx)
}

// Update replaces every field of the application with id.
func (m *ApplicationManager) Update(ctx context.Context, id string, fields domain.ApplicationFields) error {
	id = strings.TrimSpace(id)
	if id == "" {
		log.Printf("update application: %v", domain.ErrMissingID)
		return domain.ErrMissingID
	}
	valid, err := fields.Validate()
	if err != nil {
		return err
	}
	if err := m.store.UpdateApplication(ctx, id, valid); err != nil {
		log.Printf("update application %s: %v", id, err)
		return fmt.Errorf("update application %s: %w", id, err)
	}
	return m.Refresh(ctx)
}

// Remove deletes the application after the user confirms.
// An empty id is rejected before anyone is asked.
func (m *ApplicationManager) Remove(ctx context.Context, id string, confirm Confirmer) error {
	id = strings.TrimSpace(id)
	if id == "" {
		log.Printf("delete application: %v", domain.ErrMissingID)
		return domain.ErrMissingID
	}
	if confirm == nil || !confirm.Confirm(ctx, DeletePrompt) {
		return domain.ErrDeleteNotConfirmed
	}
	if err := m.store.DeleteApplication(ctx, id); err != nil {
		log.Printf("delete application %s: %v", id, err)
		return fmt.Errorf("delete application %s: %w", id, err)
	}
	return m.Refresh(ctx)
}

func (m *ApplicationManager) SetSearch(term string) {
	m.mu.Lock()
	m.search = term
	m.mu.Unlock()
}

// SetStatusFilter accepts "all" or any application status.
func (m *ApplicationManager) SetStatusFilter(status string) error {
	status = strings.TrimSpace(status)
	if status == "" {
		status = domain.StatusAll
	}
	if status != domain.StatusAll && !domain.ApplicationStatus(status).Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}
	m.mu.Lock()
	m.status = status
	m.mu.Unlock()
	return nil
}

// Find returns the application with id from the local list.
func (m *ApplicationManager) Find(id string) (domain.JobApplication, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.items {
		if a.ID == id {
			return a, true
		}
	}
	return domain.JobApplication{}, false
}

func (m *ApplicationManager) View() ApplicationsView {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return ApplicationsView{
		Items:        domain.FilterApplications(m.items, m.search, m.status),
		Analytics:    domain.AnalyzeApplications(m.items),
		Search:       m.search,
		StatusFilter: m.status,
	}
}
