package provider

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// sanitize reduces any HTML markup in s to its text and collapses whitespace.
func sanitize(s string) string {
	if strings.ContainsAny(s, "<&") {
		if doc, err := goquery.NewDocumentFromReader(strings.NewReader(s)); err == nil {
			s = doc.Text()
		}
	}
	return strings.Join(strings.Fields(s), " ")
}
