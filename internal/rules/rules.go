// Package rules holds the small declarative tables that decide which
// documented entities are artifacts rather than ABI.
package rules

import (
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// Default values for the rule tables.
var (
	DefaultOrigins = []string{"/examples/", "/test/", "[generated]", "[STL]"}

	// DefaultSentinels are names Doxygen produces when it misparses a macro
	// attribute as a declaration.
	DefaultSentinels = []string{"__attribute__"}
)

// DefaultPureVirtualMarker ends the argsstring of a pure virtual declaration.
const DefaultPureVirtualMarker = "=0"

// Rule is a named string predicate.
type Rule struct {
	Name  string
	Match func(s string) bool
}

// Rules evaluates the exclusion tables.
type Rules struct {
	origins           []Rule
	sentinels         map[string]struct{}
	pureVirtualMarker string
}

// Options configures New. Zero fields fall back to the defaults.
type Options struct {
	Origins           []string // substrings of a declaring file that exclude it
	Patterns          []string // gitignore-style patterns on declaring files
	Sentinels         []string
	PureVirtualMarker string
	Root              string // patterns also match paths relative to Root
}

// Default returns the rule set used when nothing is configured.
func Default() *Rules {
	return New(Options{})
}

// New compiles the rule tables.
func New(opts Options) *Rules {
	origins := opts.Origins
	if origins == nil {
		origins = DefaultOrigins
	}
	sentinels := opts.Sentinels
	if sentinels == nil {
		sentinels = DefaultSentinels
	}
	marker := opts.PureVirtualMarker
	if marker == "" {
		marker = DefaultPureVirtualMarker
	}

	r := &Rules{
		sentinels:         make(map[string]struct{}, len(sentinels)),
		pureVirtualMarker: marker,
	}
	for _, o := range origins {
		r.origins = append(r.origins, Rule{
			Name:  "origin " + o,
			Match: func(file string) bool { return strings.Contains(file, o) },
		})
	}
	if len(opts.Patterns) > 0 {
		gi := ignore.CompileIgnoreLines(opts.Patterns...)
		root := opts.Root
		r.origins = append(r.origins, Rule{
			Name:  "pattern",
			Match: func(file string) bool { return matchPath(gi, root, file) },
		})
	}
	for _, s := range sentinels {
		r.sentinels[s] = struct{}{}
	}
	return r
}

func matchPath(gi *ignore.GitIgnore, root, file string) bool {
	p := filepath.ToSlash(file)
	if gi.MatchesPath(p) {
		return true
	}
	if root == "" || !filepath.IsAbs(file) {
		return false
	}
	rel, err := filepath.Rel(root, file)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}
	return gi.MatchesPath(filepath.ToSlash(rel))
}

// ExcludedOrigin reports whether a compound declared in file is excluded,
// and the name of the rule that excluded it.
func (r *Rules) ExcludedOrigin(file string) (string, bool) {
	for _, rule := range r.origins {
		if rule.Match(file) {
			return rule.Name, true
		}
	}
	return "", false
}

// Sentinel reports whether name is a known parser-confusion token.
func (r *Rules) Sentinel(name string) bool {
	_, ok := r.sentinels[name]
	return ok
}

// PureVirtual reports whether an argsstring declares a pure virtual function.
func (r *Rules) PureVirtual(args string) bool {
	return strings.HasSuffix(args, r.pureVirtualMarker)
}
