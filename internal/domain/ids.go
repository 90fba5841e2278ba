package domain

import "github.com/google/uuid"

// NewID mints an opaque unique identifier for days, activities and trips.
func NewID() string {
	return uuid.New().String()
}
