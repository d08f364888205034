package app

import (
	"context"
	"log"

	"github.com/itayyoh/k8s-questions-gen/internal/domain"
	"github.com/itayyoh/k8s-questions-gen/internal/metrics"
)

// ContentLoader fetches the optional UI, interview and homepage content.
type ContentLoader interface {
	UIConfig(ctx context.Context) (domain.UIConfig, error)
	InterviewScenarios(ctx context.Context) (domain.ScenarioSet, error)
	Homepage(ctx context.Context) (domain.HomepageContent, error)
}

// CategorySource lists the question categories known to the server.
type CategorySource interface {
	Categories(ctx context.Context) ([]string, error)
}

// ContentBundle is everything the setup and home screens render.
type ContentBundle struct {
	UIConfig   domain.UIConfig        `json:"uiConfig"`
	Homepage   domain.HomepageContent `json:"homepage"`
	Categories []string               `json:"categories"`
}

// ContentService never fails: any loader error is replaced with built-in defaults.
type ContentService struct {
	loader     ContentLoader
	categories CategorySource
}

func NewContentService(loader ContentLoader, categories CategorySource) *ContentService {
	return &ContentService{loader: loader, categories: categories}
}

func (s *ContentService) UIConfig(ctx context.Context) domain.UIConfig {
	cfg, err := s.loader.UIConfig(ctx)
	if err != nil {
		fallback("ui_config", err)
		return domain.DefaultUIConfig
	}
	if cfg.DefaultColor == "" {
		cfg.DefaultColor = domain.DefaultUIConfig.DefaultColor
	}
	return cfg
}

// Scenarios returns the interview content. A set missing any phase counts as a failure.
func (s *ContentService) Scenarios(ctx context.Context) domain.ScenarioSet {
	set, err := s.loader.InterviewScenarios(ctx)
	if err == nil && !set.Playable() {
		err = domain.ErrScenarioUnavailable
	}
	if err != nil {
		fallback("interview_scenarios", err)
		return domain.DefaultScenarioSet
	}
	return set
}

func (s *ContentService) Homepage(ctx context.Context) domain.HomepageContent {
	home, err := s.loader.Homepage(ctx)
	if err != nil {
		fallback("homepage", err)
		return domain.DefaultHomepage
	}
	return home
}

// Categories returns the server's categories. On failure it returns the
// configured fallback list together with the error.
func (s *ContentService) Categories(ctx context.Context) ([]string, error) {
	list, err := s.categories.Categories(ctx)
	if err == nil {
		return list, nil
	}
	fallback("categories", err)
	if cfg := s.UIConfig(ctx); len(cfg.FallbackCategories) > 0 {
		return append([]string(nil), cfg.FallbackCategories...), err
	}
	return append([]string(nil), domain.DefaultCategories...), err
}

// Bundle loads all screen content at once.
func (s *ContentService) Bundle(ctx context.Context) ContentBundle {
	categories, _ := s.Categories(ctx)
	return ContentBundle{
		UIConfig:   s.UIConfig(ctx),
		Homepage:   s.Homepage(ctx),
		Categories: categories,
	}
}

func fallback(content string, err error) {
	log.Printf("using default %s: %v", content, err)
	metrics.ContentFallback(content)
}
