package format

import (
	"strings"
	"testing"

	"billetera/internal/core"

	"golang.org/x/text/language"
)

func TestColonesFormat(t *testing.T) {
	f := NewColones(language.English)
	cases := []struct {
		in   int64
		want string
	}{
		{100, "₡1.00"},
		{50901540, "₡509,015.40"},
		{-2500, "-₡25.00"},
	}
	for _, tc := range cases {
		if got := f.Format(core.Money{Cents: tc.in}); got != tc.want {
			t.Errorf("Format(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDefaultUsesColonSymbol(t *testing.T) {
	got := Default.Format(core.Money{Cents: 1000000})
	if !strings.HasPrefix(got, "₡") || !strings.Contains(got, "10") {
		t.Fatalf("unexpected default format %q", got)
	}
}
