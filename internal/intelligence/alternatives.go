package intelligence

import (
	"context"
	"strings"

	"github.com/alexanderramin/itinera/internal/domain"
	"github.com/alexanderramin/itinera/internal/llm"
)

const maxAlternatives = 5

// defaultAlternativeIdeas is the fixed pool offered when no model is
// available or the model answer is unusable.
var defaultAlternativeIdeas = []string{
	"Visit a local market",
	"Guided neighborhood walking tour",
	"Coffee at a top-rated cafe",
	"Scenic viewpoint at sunset",
	"Modern art gallery visit",
}

// AlternativesService builds the alternatives pool for an activity. It never
// fails: without a usable model answer it falls back to a fixed pool.
type AlternativesService interface {
	Suggest(ctx context.Context, activity domain.Activity, dayTitle string) []domain.PoolItem
}

type alternativesService struct {
	client llm.LLMClient
}

// NewAlternativesService creates an AlternativesService. client may be nil,
// in which case only the fixed pool is used.
func NewAlternativesService(client llm.LLMClient) AlternativesService {
	return &alternativesService{client: client}
}

type alternativesPayload struct {
	Alternatives []string `json:"alternatives"`
}

func (s *alternativesService) Suggest(ctx context.Context, a domain.Activity, dayTitle string) []domain.PoolItem {
	if s.client == nil {
		return DeterministicAlternatives(a)
	}
	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskAlternatives,
		SystemPrompt: alternativesSystemPrompt,
		UserPrompt:   buildAlternativesUserPrompt(a, dayTitle),
		JSON:         true,
	})
	if err != nil {
		return DeterministicAlternatives(a)
	}
	payload, err := llm.ExtractJSON[alternativesPayload](resp.Text, nil)
	if err != nil {
		return DeterministicAlternatives(a)
	}

	items := poolFrom(a, payload.Alternatives)
	if len(items) == 0 {
		return DeterministicAlternatives(a)
	}
	return items
}

// DeterministicAlternatives returns the fixed pool, keeping the activity's
// time slot so a promoted alternative lands in the same slot.
func DeterministicAlternatives(a domain.Activity) []domain.PoolItem {
	return poolFrom(a, defaultAlternativeIdeas)
}

func poolFrom(a domain.Activity, ideas []string) []domain.PoolItem {
	seen := map[string]bool{strings.ToLower(strings.TrimSpace(a.Text)): true}
	items := make([]domain.PoolItem, 0, maxAlternatives)
	for _, idea := range ideas {
		idea = strings.TrimSpace(idea)
		key := strings.ToLower(idea)
		if idea == "" || seen[key] {
			continue
		}
		seen[key] = true
		items = append(items, domain.PoolItem{Text: idea, Start: a.Start, End: a.End})
		if len(items) == maxAlternatives {
			break
		}
	}
	return items
}
