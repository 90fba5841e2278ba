package intelligence

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/itinera/internal/domain"
	"github.com/alexanderramin/itinera/internal/itinerary"
	"github.com/alexanderramin/itinera/internal/llm"
)

// GenerateService drafts a new itinerary from trip preferences.
type GenerateService interface {
	// Generate returns itinerary text in the canonical day/bullet format.
	Generate(ctx context.Context, prefs domain.TripPrefs) (string, error)
}

// RefineService rewrites an existing itinerary according to a change request.
type RefineService interface {
	Refine(ctx context.Context, current, request string) (string, error)
}

type generateService struct {
	client llm.LLMClient
}

// NewGenerateService creates a GenerateService backed by an LLM client.
func NewGenerateService(client llm.LLMClient) GenerateService {
	return &generateService{client: client}
}

func (s *generateService) Generate(ctx context.Context, prefs domain.TripPrefs) (string, error) {
	prefs = prefs.Normalize()
	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskItinerary,
		SystemPrompt: buildItinerarySystemPrompt(prefs.Days),
		UserPrompt:   buildItineraryUserPrompt(prefs),
	})
	if err != nil {
		return "", fmt.Errorf("generating itinerary: %w", err)
	}
	return checkItineraryText(resp.Text)
}

type refineService struct {
	client llm.LLMClient
}

// NewRefineService creates a RefineService backed by an LLM client.
func NewRefineService(client llm.LLMClient) RefineService {
	return &refineService{client: client}
}

func (s *refineService) Refine(ctx context.Context, current, request string) (string, error) {
	request = strings.TrimSpace(request)
	if request == "" {
		return "", ErrEmptyRequest
	}
	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskRefine,
		SystemPrompt: refineSystemPrompt,
		UserPrompt:   buildRefineUserPrompt(current, request),
	})
	if err != nil {
		return "", fmt.Errorf("refining itinerary: %w", err)
	}
	return checkItineraryText(resp.Text)
}

// checkItineraryText rejects answers the parser would turn into nothing, so
// callers never replace a trip with an empty one.
func checkItineraryText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if itinerary.Parse(text).IsEmpty() {
		return "", ErrEmptyItinerary
	}
	return text, nil
}
