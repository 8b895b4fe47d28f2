// Package header finds member functions defined inside their class body by
// parsing C++ headers with tree-sitter. C++ makes such functions implicitly
// inline, so they have no stable exported symbol even when the generated
// documentation does not mark them inline.
package header

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/cpp"
)

//go:embed queries/cpp.scm
var querySource []byte

var whitespaceRe = regexp.MustCompile(`\s+`)

var (
	queryOnce sync.Once
	query     *sitter.Query
	queryErr  error
)

// Query returns the compiled member query (safe to share across goroutines).
func Query() (*sitter.Query, error) {
	queryOnce.Do(func() {
		q, err := sitter.NewQuery(querySource, cpp.GetLanguage())
		if err != nil {
			queryErr = fmt.Errorf("compiling query: %w", err)
			return
		}
		query = q
	})
	return query, queryErr
}

// Members records, per qualified class, which member names are defined in
// the class body and which are only declared there.
type Members struct {
	defined  map[string]int
	declared map[string]int
}

// Inline reports whether every in-class declaration of class::name is a
// definition. An overload declared without a body keeps the name out-of-line.
func (m *Members) Inline(class, name string) bool {
	key := class + "::" + name
	return m.defined[key] > 0 && m.declared[key] == 0
}

// Scan parses C++ source and collects its in-class member functions.
// Each call uses its own parser.
func Scan(ctx context.Context, source []byte) (*Members, error) {
	q, err := Query()
	if err != nil {
		return nil, err
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(cpp.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(q, tree.RootNode())

	m := &Members{defined: make(map[string]int), declared: make(map[string]int)}
	for {
		match, ok := qc.NextMatch()
		if !ok {
			break
		}

		var nameNode, outer *sitter.Node
		var captureName string
		for _, c := range match.Captures {
			switch cname := q.CaptureNameForId(c.Index); cname {
			case "name":
				nameNode = c.Node
			case "definition.inline", "declaration":
				captureName = cname
				outer = c.Node
			}
		}
		if nameNode == nil || outer == nil {
			continue
		}

		class := scopeOf(outer, source)
		if class == "" {
			continue
		}
		key := class + "::" + collapseWhitespace(nodeText(nameNode, source))
		if captureName == "definition.inline" {
			m.defined[key]++
		} else {
			m.declared[key]++
		}
	}
	return m, nil
}

// scopeOf returns the "::"-joined namespaces and classes enclosing n.
func scopeOf(n *sitter.Node, source []byte) string {
	var parts []string
	for p := n.Parent(); p != nil; p = p.Parent() {
		switch p.Type() {
		case "class_specifier", "struct_specifier", "namespace_definition":
			if name := p.ChildByFieldName("name"); name != nil {
				parts = append(parts, nodeText(name, source))
			}
		}
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return strings.Join(parts, "::")
}

func nodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

type entry struct {
	once    sync.Once
	members *Members
}

// Index lazily scans the headers compounds are declared in. It is safe for
// concurrent use.
type Index struct {
	root   string
	logger *slog.Logger

	mu    sync.Mutex
	files map[string]*entry
}

// NewIndex returns an Index resolving relative locations against root.
func NewIndex(root string, logger *slog.Logger) *Index {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Index{root: root, logger: logger, files: make(map[string]*entry)}
}

// DefinedInline reports whether class::name is defined inside its class body
// in file. Unreadable headers report false.
func (ix *Index) DefinedInline(file, class, name string) bool {
	m := ix.load(ix.resolve(file))
	return m != nil && m.Inline(class, name)
}

func (ix *Index) resolve(file string) string {
	if filepath.IsAbs(file) || ix.root == "" {
		return file
	}
	return filepath.Join(ix.root, file)
}

func (ix *Index) load(path string) *Members {
	ix.mu.Lock()
	e, ok := ix.files[path]
	if !ok {
		e = &entry{}
		ix.files[path] = e
	}
	ix.mu.Unlock()

	e.once.Do(func() {
		source, err := os.ReadFile(path)
		if err != nil {
			ix.logger.Debug("header unavailable", "path", path, "err", err)
			return
		}
		m, err := Scan(context.Background(), source)
		if err != nil {
			ix.logger.Warn("failed to scan header", "path", path, "err", err)
			return
		}
		e.members = m
	})
	return e.members
}
