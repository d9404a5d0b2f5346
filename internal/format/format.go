// Package format holds the display helpers that were previously
// redefined per page: currency, dates and image URL derivation, fixed
// to the en-NP locale and NPR.
package format

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const currencySymbol = "Rs."

// Currency renders an NPR amount with en-NP digit grouping (last three
// digits, then pairs): 1234567.5 -> "Rs. 12,34,567.50".
func Currency(amount float64) string {
	neg := amount < 0
	amount = math.Abs(amount)

	whole := int64(amount)
	frac := int64(math.Round((amount - float64(whole)) * 100))
	if frac == 100 {
		whole++
		frac = 0
	}

	s := fmt.Sprintf("%d", whole)
	var grouped string
	if len(s) > 3 {
		head, tail := s[:len(s)-3], s[len(s)-3:]
		var parts []string
		for len(head) > 2 {
			parts = append([]string{head[len(head)-2:]}, parts...)
			head = head[:len(head)-2]
		}
		if head != "" {
			parts = append([]string{head}, parts...)
		}
		grouped = strings.Join(parts, ",") + "," + tail
	} else {
		grouped = s
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%s %s%s.%02d", currencySymbol, sign, grouped, frac)
}

// Date renders timestamps the way order pages show them.
func Date(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}

func DateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006 3:04 PM")
}

// ImageURL resolves an upstream image path against the asset base.
// Absolute URLs pass through untouched.
func ImageURL(base, path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if base == "" {
		return path
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
