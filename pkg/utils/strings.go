package utils

import (
	"slices"
	"strings"
)

func RemoveEmptyStrings(slice []string) []string {
	var result []string

	for _, s := range slice {
		if s != "" {
			result = append(result, s)
		}
	}

	return result
}

// SplitAndTrim splits s on sep, trims every part and drops the empty ones.
func SplitAndTrim(s, sep string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, sep)
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return RemoveEmptyStrings(parts)
}

// NormalizeSet trims values, drops empties and duplicates and keeps first-seen order.
// It never returns nil, so an explicitly provided empty set stays distinguishable from an omitted one.
func NormalizeSet(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || slices.Contains(out, v) {
			continue
		}
		out = append(out, v)
	}
	return out
}
