package intelligence

import "errors"

var (
	// ErrEmptyItinerary indicates the model answered without any day header,
	// so there is nothing to adopt.
	ErrEmptyItinerary = errors.New("model returned no itinerary")

	// ErrEmptyRequest indicates a refine call without a change request.
	ErrEmptyRequest = errors.New("change request is empty")

	// ErrEmptyLocation indicates an event lookup without a location hint.
	ErrEmptyLocation = errors.New("event lookup needs a location")
)
