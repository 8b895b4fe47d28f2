// Package classify decides which documented entities belong to the public ABI.
package classify

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"

	"github.com/phobologic/symbolmap/internal/doxygen"
	"github.com/phobologic/symbolmap/internal/model"
	"github.com/phobologic/symbolmap/internal/rules"
	"github.com/phobologic/symbolmap/internal/symbol"
)

// InlineOracle reports member functions whose definition sits inside the
// class body in the declaring header. Such functions are implicitly inline.
type InlineOracle interface {
	DefinedInline(file, class, name string) bool
}

// Classifier applies the visibility rules to compounds and members.
// It holds no per-run state and is safe for concurrent use.
type Classifier struct {
	rules   *rules.Rules
	oracle  InlineOracle
	logger  *slog.Logger
	workers int
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithOracle consults o in addition to the documented inline attribute.
func WithOracle(o InlineOracle) Option {
	return func(c *Classifier) { c.oracle = o }
}

// WithLogger sets the logger for classification traces.
func WithLogger(l *slog.Logger) Option {
	return func(c *Classifier) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithWorkers bounds the number of documents classified at once.
func WithWorkers(n int) Option {
	return func(c *Classifier) { c.workers = n }
}

// New returns a Classifier. A nil r uses the default rules.
func New(r *rules.Rules, opts ...Option) *Classifier {
	if r == nil {
		r = rules.Default()
	}
	c := &Classifier{
		rules:   r,
		logger:  slog.New(slog.DiscardHandler),
		workers: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Document classifies every compound in doc into a fresh registry. On error
// nothing from doc is kept.
func (c *Classifier) Document(doc *doxygen.Document) (*Registry, error) {
	reg := NewRegistry()
	for _, comp := range doc.Compounds() {
		ce, err := comp.Entity()
		if err != nil {
			return nil, err
		}
		if !c.Compound(reg, ce) {
			continue
		}
		for _, m := range comp.Members() {
			me, err := m.Entity()
			if err != nil {
				return nil, err
			}
			c.Member(reg, ce, me)
		}
	}
	return reg, nil
}

// Compound applies the compound-level rules, records vtable and typeinfo
// symbols for classes and structs, and reports whether members should be
// visited.
func (c *Classifier) Compound(reg *Registry, ce model.CompoundEntity) bool {
	switch {
	case ce.Kind.Ignored():
		return false
	case ce.Kind == model.Namespace, ce.Kind == model.Group:
		return true
	}

	c.logger.Debug("compound", "name", ce.Name, "kind", ce.Kind, "prot", ce.Protection, "file", ce.File)

	if rule, ok := c.rules.ExcludedOrigin(ce.File); ok {
		c.logger.Debug("excluded origin", "name", ce.Name, "rule", rule)
		return false
	}
	if ce.Template {
		return false
	}
	if !ce.Kind.ClassLike() {
		return true
	}

	publish := ce.Protection != model.Private
	c.record(reg, publish, symbol.VTable(ce.Name))
	c.record(reg, publish, symbol.TypeInfo(ce.Name))
	return publish
}

// Member applies the member-level rules to m, declared in ce.
func (c *Classifier) Member(reg *Registry, ce model.CompoundEntity, m model.MemberEntity) {
	if m.Kind == model.Enum || m.Kind == model.Typedef || m.Template {
		return
	}
	if m.IsFunction() && c.inline(ce, m) {
		return
	}
	if c.rules.Sentinel(m.Name) {
		c.logger.Debug("ignoring doxygen mis-parsing", "name", m.Name, "args", m.Args)
		return
	}

	scope := ce.Name
	if ce.Kind == model.Group {
		scope = ""
	}
	sym := symbol.Glob(symbol.Qualify(scope, symbol.Normalize(m.Name)))

	publish := c.shouldPublish(ce.Kind.ClassLike(), m)
	c.record(reg, publish, sym)
	if m.IsFunction() && m.Virtuality == model.Virtual {
		c.record(reg, publish, symbol.Thunk(sym))
	}
}

func (c *Classifier) inline(ce model.CompoundEntity, m model.MemberEntity) bool {
	if m.Inline {
		return true
	}
	if c.oracle == nil || !ce.Kind.ClassLike() || ce.File == "" {
		return false
	}
	if c.oracle.DefinedInline(ce.File, ce.Name, m.Name) {
		c.logger.Debug("defined in class body", "class", ce.Name, "name", m.Name)
		return true
	}
	return false
}

// shouldPublish evaluates the publish rules in order; the first failing rule
// suppresses the member.
func (c *Classifier) shouldPublish(isClass bool, m model.MemberEntity) bool {
	if m.Kind == model.Define {
		return false
	}
	if isClass && !m.IsFunction() && !m.Static {
		return false
	}
	if m.Protection == model.Private && !(m.IsFunction() && m.Virtuality == model.Virtual) {
		return false
	}
	if m.HasArgs && c.rules.PureVirtual(m.Args) {
		return false
	}
	return true
}

func (c *Classifier) record(reg *Registry, publish bool, sym string) {
	reg.Add(publish, sym)
	if publish {
		c.logger.Debug("PUBLISH", "symbol", sym)
	} else {
		c.logger.Debug("NOPUBLISH", "symbol", sym)
	}
}

// DocumentError is a per-document failure. The run continues past it.
type DocumentError struct {
	Path string
	Err  error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *DocumentError) Unwrap() error { return e.Err }

// Result is the outcome of classifying a set of documents.
type Result struct {
	Registry *Registry
	Parsed   int              // documents classified without error
	Errors   []*DocumentError // in input order
}

// Files parses and classifies every path. Each document is classified into
// its own registry; the registries are merged in input order once all
// workers finish, so the result does not depend on scheduling.
func (c *Classifier) Files(ctx context.Context, paths []string) *Result {
	type result struct {
		reg *Registry
		err error
	}

	numWorkers := c.workers
	if numWorkers < 1 {
		numWorkers = 1
	}
	if numWorkers > len(paths) {
		numWorkers = len(paths)
	}

	results := make([]result, len(paths))
	work := make(chan int, len(paths))

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range work {
				if err := ctx.Err(); err != nil {
					results[idx] = result{err: err}
					continue
				}
				c.logger.Debug("processing", "path", paths[idx])
				doc, err := doxygen.ParseFile(paths[idx])
				if err != nil {
					results[idx] = result{err: err}
					continue
				}
				reg, err := c.Document(doc)
				results[idx] = result{reg: reg, err: err}
			}
		}()
	}

	for i := range paths {
		work <- i
	}
	close(work)
	wg.Wait()

	out := &Result{Registry: NewRegistry()}
	for i, r := range results {
		if r.err != nil {
			out.Errors = append(out.Errors, &DocumentError{Path: paths[i], Err: r.err})
			continue
		}
		out.Registry.Merge(r.reg)
		out.Parsed++
	}
	c.logger.Debug("processing complete", "parsed", out.Parsed, "failed", len(out.Errors))
	return out
}
