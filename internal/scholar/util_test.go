package scholar

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeFilename(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain title", "A Study of Things", "A_Study_of_Things"},
		{"unsafe characters stripped", `bad<>:"/\|?*name`, "badname"},
		{"surrounding whitespace trimmed", "  padded title  ", "padded_title"},
		{"mixed", ` results: 10/10? "yes" `, "results_1010_yes"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, SanitizeFilename(tc.in))
		})
	}
}

func TestSanitizeFilename_Truncates(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("a", 300)
	got := SanitizeFilename(long)
	require.Len(t, got, maxFilenameLen)
}

func TestSanitizeFilename_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"A Study of Things",
		`bad<>:"/\|?*name with spaces`,
		strings.Repeat("title word ", 40),
	}
	for _, in := range inputs {
		once := SanitizeFilename(in)
		require.Equal(t, once, SanitizeFilename(once))
	}
}
