// Package itinerary converts model-generated itinerary text into the editable
// day/activity structure, renders it back, and implements the edit commands,
// drag reconciliation and undo history that back the interactive editor.
package itinerary

import (
	"regexp"
	"strings"

	"github.com/alexanderramin/itinera/internal/domain"
)

var (
	// **Day 3: Hanoi Old Quarter**, with or without the bold markers.
	dayHeaderPattern = regexp.MustCompile(`(?i)^(?:\*\*)?day\s+(\d+):\s*(.+?)(?:\*\*)?\s*$`)

	// -, *, • or a numbered "1." prefix. Only one marker is stripped, so
	// "- 2.5 km hike" keeps its text.
	bulletPattern = regexp.MustCompile(`^(?:[-*\x{2022}]|\d+\.)\s*`)
)

// Parse converts markdown-like itinerary text into an Itinerary. It never
// fails: text before the first day header, commentary lines and malformed
// lines are ignored, and input without any day header yields an empty
// Itinerary. Every day and activity receives a fresh id; the day number in
// the header is not kept.
func Parse(text string) domain.Itinerary {
	var days []domain.Day
	var current *domain.Day

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if m := dayHeaderPattern.FindStringSubmatch(line); m != nil {
			if current != nil {
				days = append(days, *current)
			}
			current = &domain.Day{
				ID:         domain.NewID(),
				Title:      strings.TrimSpace(m[2]),
				Activities: []domain.Activity{},
			}
			continue
		}

		if current != nil && bulletPattern.MatchString(line) {
			current.Activities = append(current.Activities, domain.Activity{
				ID:   domain.NewID(),
				Text: stripBullet(line),
			})
		}
	}
	if current != nil {
		days = append(days, *current)
	}

	return domain.Itinerary{Days: days}
}

func stripBullet(line string) string {
	return strings.TrimSpace(bulletPattern.ReplaceAllString(line, ""))
}
