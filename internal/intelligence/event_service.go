package intelligence

import (
	"context"
	"fmt"
	"strings"

	"github.com/alexanderramin/itinera/internal/domain"
	"github.com/alexanderramin/itinera/internal/llm"
)

const maxEvents = 5

// EventQuery describes where and when to look for happenings. Date is
// "YYYY-MM-DD" or empty.
type EventQuery struct {
	Location string
	Date     string
}

// EventService suggests events that can be promoted into a day.
type EventService interface {
	Suggest(ctx context.Context, q EventQuery) ([]domain.Event, error)
}

type eventService struct {
	client llm.LLMClient
}

// NewEventService creates an EventService backed by an LLM client.
func NewEventService(client llm.LLMClient) EventService {
	return &eventService{client: client}
}

// rawEvent accepts whatever the model sends; every field is coerced before
// it reaches the domain.
type rawEvent struct {
	Name  any `json:"name"`
	When  any `json:"when"`
	Date  any `json:"date"`
	Venue any `json:"venue"`
	City  any `json:"city"`
	URL   any `json:"url"`
}

type eventsPayload struct {
	Events []rawEvent `json:"events"`
}

func (s *eventService) Suggest(ctx context.Context, q EventQuery) ([]domain.Event, error) {
	q.Location = strings.TrimSpace(q.Location)
	q.Date = strings.TrimSpace(q.Date)
	if q.Location == "" {
		return nil, ErrEmptyLocation
	}

	resp, err := s.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskEvents,
		SystemPrompt: eventsSystemPrompt,
		UserPrompt:   buildEventsUserPrompt(q),
		JSON:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("suggesting events: %w", err)
	}

	payload, err := llm.ExtractJSON[eventsPayload](resp.Text, nil)
	if err != nil {
		return nil, fmt.Errorf("suggesting events: %w", err)
	}
	return coerceEvents(payload.Events), nil
}

// coerceEvents turns untrusted entries into events: a missing name becomes
// "Event", non-string fields are stringified, entries with nothing at all
// are dropped and the list is capped.
func coerceEvents(in []rawEvent) []domain.Event {
	out := make([]domain.Event, 0, len(in))
	for _, r := range in {
		ev := domain.Event{
			Name:  asString(r.Name),
			When:  domain.CoalesceStr(asString(r.When), asString(r.Date)),
			Venue: domain.CoalesceStr(asString(r.Venue), asString(r.City)),
			URL:   asString(r.URL),
		}
		if ev == (domain.Event{}) {
			continue
		}
		if ev.When == "unknown" {
			ev.When = ""
		}
		ev.Name = domain.CoalesceStr(ev.Name, "Event")
		out = append(out, ev)
		if len(out) == maxEvents {
			break
		}
	}
	return out
}

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	case float64:
		return strings.TrimSpace(fmt.Sprintf("%g", t))
	case bool:
		return fmt.Sprintf("%t", t)
	default:
		return ""
	}
}
