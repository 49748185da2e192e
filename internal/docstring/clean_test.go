package docstring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanDoc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "single line", in: "Hello.", want: "Hello."},
		{name: "leading whitespace on first line", in: "   Hello.", want: "Hello."},
		{
			name: "common indentation removed",
			in:   "Summary.\n\n    Body line one.\n      Nested.\n    ",
			want: "Summary.\n\nBody line one.\n  Nested.",
		},
		{
			name: "leading blank lines dropped",
			in:   "\n    Summary.\n\n    Body.\n    ",
			want: "Summary.\n\nBody.",
		},
		{name: "tabs expand to eight columns", in: "Summary.\n\tBody.", want: "Summary.\nBody."},
		{name: "blank", in: "   \n  ", want: ""},
		{name: "crlf line endings", in: "Summary.\r\n\r\n    Body.\r\n    ", want: "Summary.\n\nBody."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, CleanDoc(tt.in))
		})
	}
}
