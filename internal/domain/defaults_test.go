package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaults(t *testing.T) {
	tests := []struct {
		name string
		in   Article
		want Article
	}{
		{
			name: "missing optional fields get defaults",
			in:   Article{Title: "Tech Innovations", Source: "Tech Source"},
			want: Article{Title: "Tech Innovations", Source: "Tech Source", Author: "Unknown", Category: "General", Description: ""},
		},
		{
			name: "provided fields are kept",
			in:   Article{Title: "t", Author: "John Doe", Category: "Technology", Description: "d"},
			want: Article{Title: "t", Author: "John Doe", Category: "Technology", Description: "d"},
		},
		{
			name: "whitespace only counts as missing",
			in:   Article{Title: "  t ", Author: "   ", Category: "\t"},
			want: Article{Title: "t", Author: "Unknown", Category: "General"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ApplyDefaults(tt.in))
		})
	}
}
