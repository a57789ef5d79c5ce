// Package catalog reconciles the official feed against the local mirror.
package catalog

import (
	"strconv"
	"strings"

	"github.com/ongekimuseum/museum-server/internal/errors"
)

// ParseLevel converts a feed level string to its fixed-point form.
// "10" and "10.0" become 100, "13.8" becomes 138, "10+" becomes 105.
// Anything else is a COERCION error; callers skip the chart and move on.
func ParseLevel(s string) (int, error) {
	if base, ok := strings.CutSuffix(s, "+"); ok {
		n, err := strconv.Atoi(base)
		if err != nil {
			return 0, errors.Coercionf("unparsable level string %q", s)
		}
		return n*10 + 5, nil
	}

	whole, frac, hasFrac := strings.Cut(s, ".")
	n, err := strconv.Atoi(whole)
	if err != nil || n < 0 {
		return 0, errors.Coercionf("unparsable level string %q", s)
	}
	if !hasFrac {
		return n * 10, nil
	}

	f, err := strconv.Atoi(frac)
	if err != nil || f < 0 {
		return 0, errors.Coercionf("unparsable level string %q", s)
	}
	// Only the first fractional digit carries level information.
	for range len(frac) - 1 {
		f /= 10
	}
	return n*10 + f, nil
}
