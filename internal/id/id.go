package id

import (
	"fmt"
	"strconv"
	"strings"
)

// Format returns the display form of a transaction ID.
func Format(id int) string {
	return strconv.Itoa(id)
}

// Parse parses a transaction ID as typed by a user: "2" or "#2".
func Parse(s string) (int, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid transaction ID %q: %w", s, err)
	}
	if n < 1 {
		return 0, fmt.Errorf("invalid transaction ID %q: must be positive", s)
	}
	return n, nil
}
