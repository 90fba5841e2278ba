package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/alexanderramin/itinera/internal/domain"
)

// ImportSchema is the JSON trip document accepted by "trip import". It is the
// shape written by the JSON export, so exported trips import back with their
// ids intact.
type ImportSchema struct {
	Title     string      `json:"title"`
	StartDate string      `json:"startDate,omitempty"`
	Days      []DayImport `json:"days"`
}

// DayImport defines one day. A blank ID is minted on conversion.
type DayImport struct {
	ID         string           `json:"id,omitempty"`
	Title      string           `json:"title"`
	Activities []ActivityImport `json:"activities"`
}

// ActivityImport defines one activity. Start and End are "HH:MM" or blank.
type ActivityImport struct {
	ID    string        `json:"id,omitempty"`
	Text  string        `json:"text"`
	Start string        `json:"start,omitempty"`
	End   string        `json:"end,omitempty"`
	Place *domain.Place `json:"place,omitempty"`
}

// LooksLikeJSON reports whether data should be read as an import document
// rather than itinerary text.
func LooksLikeJSON(data []byte) bool {
	return bytes.HasPrefix(bytes.TrimSpace(data), []byte("{"))
}

// ParseImportSchema decodes an import document. Unknown fields are rejected
// so typos surface instead of silently dropping data.
func ParseImportSchema(data []byte) (*ImportSchema, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var schema ImportSchema
	if err := dec.Decode(&schema); err != nil {
		return nil, fmt.Errorf("parsing import file: %w", err)
	}
	return &schema, nil
}

// LoadImportSchema reads and parses an import document from path.
func LoadImportSchema(path string) (*ImportSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseImportSchema(data)
}
