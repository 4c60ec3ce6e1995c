package errors

import (
	"math"
	"strconv"
	"strings"
)

// ParseWeight parses a user-supplied edge weight.
// The input is trimmed before parsing. A weight must be a finite number
// strictly greater than zero; anything else yields ErrCodeInvalidWeight.
func ParseWeight(s string) (float64, error) {
	w, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, New(ErrCodeInvalidWeight, "weight must be a positive number: %q", s)
	}
	if err := ValidateWeight(w); err != nil {
		return 0, err
	}
	return w, nil
}

// ValidateWeight rejects zero, negative, NaN and infinite weights.
func ValidateWeight(w float64) error {
	if math.IsNaN(w) || math.IsInf(w, 0) || w <= 0 {
		return New(ErrCodeInvalidWeight, "weight must be a positive number: %v", w)
	}
	return nil
}

// FormatWeight renders a weight the way it is shown as an edge label.
func FormatWeight(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}

// ValidateLabel validates a node label typed by the user.
// Labels become node ids verbatim, so the only rule is that they are not empty.
func ValidateLabel(label string) error {
	if label == "" {
		return New(ErrCodeInvalidInput, "node label cannot be empty")
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
