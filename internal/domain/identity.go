package domain

import (
	"fmt"
	"strings"
)

// IdentityKey names the article field used to detect repeated ingestion of the same article.
// One key is used system-wide.
type IdentityKey string

const (
	IdentityURL   IdentityKey = "url"
	IdentityTitle IdentityKey = "title"
)

func ParseIdentityKey(s string) (IdentityKey, error) {
	switch k := IdentityKey(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return IdentityURL, nil
	case IdentityURL, IdentityTitle:
		return k, nil
	default:
		return "", fmt.Errorf("unsupported identity key %q, expected one of %v", s, []IdentityKey{IdentityURL, IdentityTitle})
	}
}

// Of returns the normalized dedup key for the article, or "" when the keyed field is empty.
func (k IdentityKey) Of(a Article) string {
	var v string
	switch k {
	case IdentityTitle:
		v = a.Title
	default:
		v = a.URL
	}
	return NormalizeKey(v)
}

func NormalizeKey(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}
