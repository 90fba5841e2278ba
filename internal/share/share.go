// Package share encodes an itinerary and its start date into a URL-safe
// token and restores it. Restoring is all or nothing.
package share

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/itinera/internal/domain"
)

const tokenVersion = 1

// ErrInvalidToken is returned for any token that cannot be restored in full.
var ErrInvalidToken = errors.New("invalid share token")

// Snapshot is what a token carries.
type Snapshot struct {
	StartDate *time.Time
	Itinerary domain.Itinerary
}

type envelope struct {
	Version   int          `json:"v"`
	StartDate string       `json:"startDate,omitempty"`
	Days      []domain.Day `json:"days"`
}

// Encode serializes the snapshot into an unpadded base64url token.
func Encode(s Snapshot) (string, error) {
	env := envelope{Version: tokenVersion, Days: s.Itinerary.Days}
	if env.Days == nil {
		env.Days = []domain.Day{}
	}
	if s.StartDate != nil {
		env.StartDate = s.StartDate.Format(time.DateOnly)
	}
	data, err := json.Marshal(env)
	if err != nil {
		return "", fmt.Errorf("encoding share token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(data), nil
}

// Decode restores a snapshot. Any defect (bad encoding, unknown version,
// unknown or missing fields, duplicate ids, invalid places) fails the whole
// token with ErrInvalidToken; ids and order come back exactly as encoded.
func Decode(token string) (Snapshot, error) {
	data, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(strings.TrimSpace(token), "="))
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var env envelope
	if err := dec.Decode(&env); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if env.Version != tokenVersion {
		return Snapshot{}, fmt.Errorf("%w: unsupported version %d", ErrInvalidToken, env.Version)
	}
	if env.Days == nil {
		return Snapshot{}, fmt.Errorf("%w: missing days", ErrInvalidToken)
	}

	var snap Snapshot
	if env.StartDate != "" {
		d, err := time.Parse(time.DateOnly, env.StartDate)
		if err != nil {
			return Snapshot{}, fmt.Errorf("%w: start date: %v", ErrInvalidToken, err)
		}
		snap.StartDate = &d
	}

	it := domain.Itinerary{Days: env.Days}
	if err := validate(it); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	snap.Itinerary = it
	return snap, nil
}

func validate(it domain.Itinerary) error {
	if err := it.ValidateIDs(); err != nil {
		return err
	}
	for di := range it.Days {
		d := &it.Days[di]
		if d.Activities == nil {
			d.Activities = []domain.Activity{}
		}
		for _, a := range d.Activities {
			if a.Place == nil {
				continue
			}
			if err := a.Place.Validate(); err != nil {
				return err
			}
		}
	}
	return nil
}
