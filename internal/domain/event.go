package domain

import "strings"

// Event is a named happening returned by the event-suggestion collaborator.
type Event struct {
	Name  string `json:"name"`
	When  string `json:"when,omitempty"`
	Venue string `json:"venue,omitempty"`
	URL   string `json:"url,omitempty"`
}

// PoolItem is a template in a suggestion pool. Pool items are never owned by
// the itinerary; promoting one copies it under a fresh id.
type PoolItem struct {
	Text  string `json:"text"`
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
	Place *Place `json:"place,omitempty"`
}

// PoolItem converts the event into a promotable template such as
// "Jazz Night @ Blue Note (2025-09-02 20:00)".
func (e Event) PoolItem() PoolItem {
	var b strings.Builder
	b.WriteString(CoalesceStr(strings.TrimSpace(e.Name), "Event"))
	if v := strings.TrimSpace(e.Venue); v != "" {
		b.WriteString(" @ ")
		b.WriteString(v)
	}
	if w := strings.TrimSpace(e.When); w != "" {
		b.WriteString(" (")
		b.WriteString(w)
		b.WriteString(")")
	}
	return PoolItem{Text: b.String()}
}
