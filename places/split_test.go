package places

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{
			name:  "no separators returns query as-is",
			query: "butter chicken",
			want:  []string{"butter chicken"},
		},
		{
			name:  "comma splits into parts",
			query: "momos, biryani",
			want:  []string{"momos", "biryani"},
		},
		{
			name:  "and splits into parts",
			query: "momos and rolls",
			want:  []string{"momos", "rolls"},
		},
		{
			name:  "noise words stripped from parts",
			query: "best momos, famous biryani",
			want:  []string{"momos", "biryani"},
		},
		{
			name:  "short parts dropped after stripping",
			query: "momos, best",
			want:  []string{"momos"},
		},
		{
			name:  "all parts stripped falls back to original",
			query: "best, top",
			want:  []string{"best, top"},
		},
		{
			name:  "hidden gems phrase stripped",
			query: "hidden gems cafes, street food",
			want:  []string{"cafes", "street food"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitQuery(tt.query))
		})
	}
}
