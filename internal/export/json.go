package export

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/alexanderramin/itinera/internal/domain"
)

// Document is the JSON download shape.
type Document struct {
	Title     string       `json:"title"`
	StartDate string       `json:"startDate,omitempty"`
	Days      []domain.Day `json:"days"`
}

// JSON writes the itinerary as an indented JSON document. Ids are kept so
// the file can be imported back without losing identity.
func JSON(w io.Writer, it domain.Itinerary, meta Meta) error {
	doc := Document{Title: meta.title(), Days: it.Days}
	if doc.Days == nil {
		doc.Days = []domain.Day{}
	}
	if meta.StartDate != nil {
		doc.StartDate = meta.StartDate.Format(time.DateOnly)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}
