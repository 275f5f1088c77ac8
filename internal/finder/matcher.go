// Package finder walks a source tree for files whose names contain a serial
// and copies them into a destination folder.
package finder

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Matcher tests file names for a literal serial. Both sides are NFC
// normalized so decomposed names reported by some filesystems still match.
type Matcher struct {
	needle string
	fold   bool
	caser  cases.Caser
}

// NewMatcher builds a matcher for serial. With fold set, comparison ignores
// case using Unicode case folding.
func NewMatcher(serial string, fold bool) *Matcher {
	m := &Matcher{fold: fold}
	if fold {
		m.caser = cases.Fold()
	}
	m.needle = m.canonical(serial)
	return m
}

func (m *Matcher) canonical(s string) string {
	s = norm.NFC.String(s)
	if m.fold {
		s = m.caser.String(s)
	}
	return s
}

// Serial returns the canonical form the matcher searches for.
func (m *Matcher) Serial() string {
	return m.needle
}

// Match reports whether name contains the serial. An empty serial never
// matches.
func (m *Matcher) Match(name string) bool {
	if m.needle == "" {
		return false
	}
	return strings.Contains(m.canonical(name), m.needle)
}
