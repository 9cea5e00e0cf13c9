// utils/sprint.go
package utils

import (
	"fmt"
	"regexp"
	"time"
)

// Sprint keys are calendar months formatted "YYYY-MM". The key is passed
// explicitly into every query and report; services never read the clock.

var sprintRe = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// ValidSprint reports whether s is a well-formed sprint key.
func ValidSprint(s string) bool {
	return sprintRe.MatchString(s)
}

// SprintOf returns the sprint key for a point in time. Only HTTP and CLI
// edges call this; they thread the result down as a parameter.
func SprintOf(t time.Time) string {
	return t.Format("2006-01")
}

// PreviousSprint returns the key of the month before s.
func PreviousSprint(s string) (string, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return "", fmt.Errorf("invalid sprint key %q: %w", s, err)
	}
	return t.AddDate(0, -1, 0).Format("2006-01"), nil
}
