package report

import (
	"fmt"
	"regexp"
	"strings"
)

// Match selects how candidate lines are looked up in the baseline.
type Match string

const (
	// MatchText treats a line as present when it occurs anywhere in the
	// baseline text, which is what the published scripts were built with.
	MatchText Match = "text"

	// MatchLines compares whole lines. A commented-out line counts as present.
	MatchLines Match = "lines"
)

// ParseMatch validates a match mode name. An empty name selects MatchText.
func ParseMatch(s string) (Match, error) {
	switch Match(s) {
	case "", MatchText:
		return MatchText, nil
	case MatchLines:
		return MatchLines, nil
	}
	return "", fmt.Errorf("unknown match mode %q (want %q or %q)", s, MatchText, MatchLines)
}

// Baseline is the previously published version script, kept verbatim.
type Baseline struct {
	text  string
	lines map[string]struct{}
}

// NewBaseline wraps text.
func NewBaseline(text string) *Baseline {
	return &Baseline{text: text}
}

// Text returns the baseline exactly as given.
func (b *Baseline) Text() string { return b.text }

// Contains reports whether the formatted stanza line is already published.
func (b *Baseline) Contains(line string, mode Match) bool {
	if mode != MatchLines {
		return strings.Contains(b.text, line)
	}
	if b.lines == nil {
		b.lines = make(map[string]struct{})
		for _, l := range strings.Split(b.text, "\n") {
			l = strings.TrimRight(l, "\r")
			b.lines[l] = struct{}{}
			if rest, ok := strings.CutPrefix(l, "#"); ok {
				b.lines[rest] = struct{}{}
			}
		}
	}
	_, ok := b.lines[line]
	return ok
}

// Stanza is one version block of a version script.
type Stanza struct {
	Name    string
	Closed  bool
	Extends string // version named by the closing brace, if any
}

var (
	headerRe = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_.]*)\s*\{`)
	closerRe = regexp.MustCompile(`^\}\s*([A-Za-z_][A-Za-z0-9_.]*)?\s*;`)
)

// Stanzas lists the version blocks of a version script in order. Comment
// lines are ignored.
func (b *Baseline) Stanzas() []Stanza {
	var stanzas []Stanza
	depth := 0

	for _, line := range strings.Split(b.text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		if depth == 0 {
			if m := headerRe.FindStringSubmatch(trimmed); m != nil {
				stanzas = append(stanzas, Stanza{Name: m[1]})
			}
		}
		for i, r := range trimmed {
			switch r {
			case '{':
				depth++
			case '}':
				depth--
				if depth < 0 {
					depth = 0
				} else if depth == 0 && len(stanzas) > 0 {
					s := &stanzas[len(stanzas)-1]
					s.Closed = true
					if m := closerRe.FindStringSubmatch(trimmed[i:]); m != nil {
						s.Extends = m[1]
					}
				}
			}
		}
	}
	return stanzas
}
