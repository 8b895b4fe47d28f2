package classify

import (
	"sort"

	"github.com/phobologic/symbolmap/internal/symbol"
)

// Registry accumulates the public and private symbols of one run.
// The two sets are disjoint: a symbol recorded as public at any point stays
// public, since collapsed globs such as Class::operator* must remain exported
// when any of the declarations they cover is.
type Registry struct {
	public  map[string]struct{}
	private map[string]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		public:  make(map[string]struct{}),
		private: make(map[string]struct{}),
	}
}

// Add records sym, rewriting destructor tildes first.
func (r *Registry) Add(publish bool, sym string) {
	sym = symbol.Encode(sym)
	if publish {
		r.public[sym] = struct{}{}
		delete(r.private, sym)
		return
	}
	if _, ok := r.public[sym]; ok {
		return
	}
	r.private[sym] = struct{}{}
}

// Merge unions other into r.
func (r *Registry) Merge(other *Registry) {
	for sym := range other.public {
		r.public[sym] = struct{}{}
		delete(r.private, sym)
	}
	for sym := range other.private {
		if _, ok := r.public[sym]; !ok {
			r.private[sym] = struct{}{}
		}
	}
}

// Public returns the public symbols in sorted order.
func (r *Registry) Public() []string { return sortedKeys(r.public) }

// Private returns the private symbols in sorted order.
func (r *Registry) Private() []string { return sortedKeys(r.private) }

// IsPublic reports whether sym is in the public set.
func (r *Registry) IsPublic(sym string) bool {
	_, ok := r.public[sym]
	return ok
}

// IsPrivate reports whether sym is in the private set.
func (r *Registry) IsPrivate(sym string) bool {
	_, ok := r.private[sym]
	return ok
}

// Len returns the number of symbols in both sets.
func (r *Registry) Len() int {
	return len(r.public) + len(r.private)
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
