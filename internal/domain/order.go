package domain

import (
	"bytes"
	"slices"
)

// CompareNewestFirst orders articles by published time descending and then by id descending.
// Every store uses this order so pages over an unchanged corpus never overlap.
func CompareNewestFirst(a, b Article) int {
	if c := b.PublishedAt.Compare(a.PublishedAt); c != 0 {
		return c
	}
	return bytes.Compare(b.ID[:], a.ID[:])
}

func SortNewestFirst(articles []Article) {
	slices.SortFunc(articles, CompareNewestFirst)
}
