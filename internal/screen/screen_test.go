package screen

import (
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/tabula-dev/tabula/internal/taberr"
)

func TestScreenerRejects(t *testing.T) {
	s := New()

	cases := []struct {
		name  string
		code  string
		token string
	}{
		{"bare token", "import fs", "import"},
		{"case insensitive", "EVAL('1+1')", "eval"},
		{"mid expression", "var x = process.env", "process"},
		{"punctuation boundary", "a;delete b.c", "delete"},
		{"global escape", "globalThis.constructor", "globalthis"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := s.Screen(tc.code)
			if !taberr.Is(err, taberr.ErrScreeningRejected) {
				t.Fatalf("expected rejection, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.token) {
				t.Fatalf("error does not name token %q: %v", tc.token, err)
			}
		})
	}
}

func TestScreenerPasses(t *testing.T) {
	s := New()

	// Substrings of denylisted tokens are not matches.
	cases := []string{
		"",
		"var files_system = 1;",
		"var reopened = true;",
		"df.describe()",
		"var processor_count = 4;",
		"stats.mean(df.values('sepal_length'))",
		"var important = 2; // importance weighting",
	}
	for _, code := range cases {
		if err := s.Screen(code); err != nil {
			t.Errorf("Screen(%q) = %v, want pass", code, err)
		}
	}
}

func TestScreenerCustomTokens(t *testing.T) {
	s := New("forbidden")
	if err := s.Screen("import x"); err != nil {
		t.Fatalf("custom denylist still matched default token: %v", err)
	}
	if err := s.Screen("a forbidden word"); err == nil {
		t.Fatal("custom token did not match")
	}
}

func TestScreenerWholeTokenProperty(t *testing.T) {
	s := New()

	// Embedding any denylisted token inside a longer identifier must pass;
	// the token standing alone must be rejected.
	rapid.Check(t, func(t *rapid.T) {
		token := rapid.SampledFrom(DefaultTokens).Draw(t, "token")
		prefix := rapid.StringMatching(`[a-z]{1,8}`).Draw(t, "prefix")
		suffix := rapid.StringMatching(`[a-z0-9_]{1,8}`).Draw(t, "suffix")

		embedded := "var " + prefix + token + suffix + " = 1;"
		if v := s.Check(embedded); !v.OK {
			t.Fatalf("embedded token matched %q in %q", v.Token, embedded)
		}

		bare := prefix + " " + token + " " + suffix
		if v := s.Check(bare); v.OK {
			t.Fatalf("bare token %q not matched in %q", token, bare)
		}
	})
}
