// Package screen rejects code that mentions denylisted tokens before it
// reaches the sandbox. Matching is whole-token only, so identifiers that
// merely contain a denylisted word (files_system, reopen) pass. The screen
// is a tripwire for obvious probing, not a security boundary; containment
// comes from the sandbox's restricted bindings.
package screen

import (
	"regexp"
	"sort"
	"strings"

	"github.com/tabula-dev/tabula/internal/taberr"
)

// DefaultTokens is the builtin denylist. Tokens cover host access routes
// the sandbox does not bind anyway, plus interpreter escape hatches.
var DefaultTokens = []string{
	"import",
	"require",
	"eval",
	"exec",
	"open",
	"file",
	"system",
	"subprocess",
	"process",
	"spawn",
	"globalthis",
	"globals",
	"reflect",
	"proxy",
	"delete",
	"fetch",
	"xmlhttprequest",
	"websocket",
}

// Verdict is the outcome of screening one code string.
type Verdict struct {
	OK    bool   `json:"ok"`
	Token string `json:"token,omitempty"`
}

// Screener matches lowercased code against a compiled token alternation.
type Screener struct {
	tokens []string
	re     *regexp.Regexp
}

// New builds a screener from the given tokens. With no tokens it uses
// DefaultTokens.
func New(tokens ...string) *Screener {
	if len(tokens) == 0 {
		tokens = DefaultTokens
	}
	normalized := make([]string, 0, len(tokens))
	seen := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		tok = strings.ToLower(strings.TrimSpace(tok))
		if tok == "" || seen[tok] {
			continue
		}
		seen[tok] = true
		normalized = append(normalized, tok)
	}
	sort.Strings(normalized)

	quoted := make([]string, len(normalized))
	for i, tok := range normalized {
		quoted[i] = regexp.QuoteMeta(tok)
	}
	re := regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)

	return &Screener{tokens: normalized, re: re}
}

// Tokens returns the active denylist, sorted.
func (s *Screener) Tokens() []string {
	return append([]string(nil), s.tokens...)
}

// Check screens one code string. The first matching token (by position in
// the code) is reported.
func (s *Screener) Check(code string) Verdict {
	match := s.re.FindString(strings.ToLower(code))
	if match == "" {
		return Verdict{OK: true}
	}
	return Verdict{OK: false, Token: match}
}

// Screen returns nil when the code passes, or a screening-rejected error
// naming the matched token.
func (s *Screener) Screen(code string) error {
	v := s.Check(code)
	if v.OK {
		return nil
	}
	return taberr.New(taberr.ErrScreeningRejected, "code mentions a blocked token").
		WithToken(v.Token).
		WithHelp("rewrite the code without the blocked operation")
}
