// Package report compares classified symbols against the published version
// script and emits the script with a stanza holding only the additions.
package report

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/phobologic/symbolmap/internal/symbol"
)

// Options controls how the new stanza is built.
type Options struct {
	// Namespace is the library namespace; symbols without "<Namespace>::"
	// are never added.
	Namespace string

	// Version names a stanza to open after the baseline. It is ignored when
	// the baseline already ends in an open stanza of the same name.
	Version string

	// Extends names the version the new stanza extends. Detected from the
	// baseline when empty.
	Extends string

	Match Match
}

// Report is the regenerated version script.
type Report struct {
	Baseline *Baseline
	Added    []string // sorted symbols new in this version
	Open     string   // stanza header written after the baseline, if any
	Extends  string
}

// ErrNoNamespace is returned when Options.Namespace is empty.
var ErrNoNamespace = errors.New("library namespace not set")

// Build selects the public symbols missing from the baseline and resolves
// the stanza the additions belong to.
func Build(b *Baseline, public []string, opts Options) (*Report, error) {
	if opts.Namespace == "" {
		return nil, ErrNoNamespace
	}

	open, extends, err := resolveStanza(b.Stanzas(), opts.Version, opts.Extends)
	if err != nil {
		return nil, err
	}

	sorted := append([]string(nil), public...)
	sort.Strings(sorted)

	marker := opts.Namespace + "::"
	var added []string
	for _, sym := range sorted {
		line := symbol.Line(sym)
		if b.Contains(line, opts.Match) || !strings.Contains(line, marker) {
			continue
		}
		added = append(added, sym)
	}

	return &Report{Baseline: b, Added: added, Open: open, Extends: extends}, nil
}

func resolveStanza(stanzas []Stanza, version, extends string) (open, ext string, err error) {
	endsOpen := len(stanzas) > 0 && !stanzas[len(stanzas)-1].Closed

	switch {
	case endsOpen:
		last := stanzas[len(stanzas)-1].Name
		if version != "" && version != last {
			return "", "", fmt.Errorf("baseline already opens stanza %s, not %s", last, version)
		}
		if extends == "" && len(stanzas) > 1 {
			extends = stanzas[len(stanzas)-2].Name
		}
	case version != "":
		open = version
		if extends == "" && len(stanzas) > 0 {
			extends = stanzas[len(stanzas)-1].Name
		}
	default:
		return "", "", errors.New("baseline has no open stanza and no version to open")
	}

	if extends == "" {
		return "", "", errors.New("cannot determine the version being extended")
	}
	return open, extends, nil
}

// WriteTo writes the baseline unchanged, an optional stanza header, the
// additions wrapped in an extern "C++" block, and the closing marker naming
// the extended version. The block is omitted when nothing is new.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, r.String())
	return int64(n), err
}

func (r *Report) String() string {
	var b strings.Builder

	text := r.Baseline.Text()
	b.WriteString(text)
	if !strings.HasSuffix(text, "\n") {
		b.WriteString("\n")
	}

	if r.Open != "" {
		fmt.Fprintf(&b, "\n%s {\nglobal:\n", r.Open)
	}

	if len(r.Added) > 0 {
		b.WriteString("  extern \"C++\" {\n")
		for _, sym := range r.Added {
			b.WriteString(symbol.Line(sym))
			b.WriteString("\n")
		}
		b.WriteString("  };\n")
	}

	fmt.Fprintf(&b, "} %s;\n", r.Extends)
	return b.String()
}
