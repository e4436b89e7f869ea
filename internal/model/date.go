package model

import (
	"fmt"
	"time"

	"tasky/internal/service"
)

// DateLayout is the command-line date format.
const DateLayout = "01/02/2006"

// dueHour is the fixed wall-clock marker given to every due date.
const dueHour = 12

// ParseDate parses a MM/DD/YYYY date into a normalised due date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want MM/DD/YYYY)", s)
	}
	return NormalizeDue(d), nil
}

// NormalizeDue drops the time of day, keeping only the calendar date.
func NormalizeDue(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), dueHour, 0, 0, 0, time.UTC)
}

func parseDue(s string) (time.Time, error) {
	t, err := time.Parse(service.DueLayout, s)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid due date %q: %w", s, err)
		}
	}
	return NormalizeDue(t.UTC()), nil
}

func formatDue(t time.Time) string {
	return t.UTC().Format(service.DueLayout)
}
