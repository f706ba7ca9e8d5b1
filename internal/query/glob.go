package query

import (
	"regexp"
	"regexp/syntax"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// Wildcard matches any run of characters in a filter pattern.
const Wildcard = "*"

// Pattern is a compiled, case-insensitive wildcard pattern anchored at both
// ends of the value.
type Pattern struct {
	source string
	re     *regexp.Regexp
}

// CompilePattern escapes every regexp metacharacter of pattern, expands each
// '*' into a match-anything run and anchors the result.
// CompilePattern escapes every regexp metacharacter of pattern, expands each
// '*' into a match-anything run and anchors the result. Patterns that are not
// valid UTF-8 are rejected with ErrInvalidPattern.
func CompilePattern(pattern string) (*Pattern, error) {
	if !utf8.ValidString(pattern) {
		return nil, &InvalidPatternError{Pattern: pattern, Err: &syntax.Error{Code: syntax.ErrInvalidUTF8, Expr: pattern}}
	}
	pieces := strings.Split(fold(pattern), Wildcard)
	for i, piece := range pieces {
		pieces[i] = regexp.QuoteMeta(piece)
	}
	expr := "^(?s:" + strings.Join(pieces, ".*") + ")$"
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, &InvalidPatternError{Pattern: pattern, Err: err}
	}
	return &Pattern{source: pattern, re: re}, nil
}

// Match reports whether value matches the whole pattern, ignoring case.
func (p *Pattern) Match(value string) bool {
	if p == nil {
		return false
	}
	return p.re.MatchString(fold(value))
}

func (p *Pattern) String() string {
	if p == nil {
		return ""
	}
	return p.source
}

// Matches compiles pattern and tests value against it. A pattern that fails
// to compile matches nothing.
func Matches(value, pattern string) bool {
	compiled, err := CompilePattern(pattern)
	if err != nil {
		return false
	}
	return compiled.Match(value)
}

// fold applies Unicode case folding. Casers keep state, so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}
