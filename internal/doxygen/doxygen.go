// Package doxygen reads the XML that Doxygen generates and exposes its
// compounddef and memberdef elements as model entities.
package doxygen

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/phobologic/symbolmap/internal/model"
)

// MalformedDocumentError reports an input that is not well-formed Doxygen XML.
type MalformedDocumentError struct {
	Path string
	Err  error
}

func (e *MalformedDocumentError) Error() string {
	return fmt.Sprintf("malformed document: %v", e.Err)
}

func (e *MalformedDocumentError) Unwrap() error { return e.Err }

// MissingAttributeError reports an entity without an attribute its kind requires.
type MissingAttributeError struct {
	Element   string // tag of the element, e.g. "memberdef"
	Name      string // documented name, if known
	Attribute string
}

func (e *MissingAttributeError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s %q: missing %q", e.Element, e.Name, e.Attribute)
	}
	return fmt.Sprintf("%s: missing %q", e.Element, e.Attribute)
}

type node struct {
	tag      string // empty for text nodes
	text     string
	attrs    map[string]string
	children []*node
}

// Document is a parsed Doxygen XML file.
type Document struct {
	Path string
	root *node
}

// ParseFile reads and parses the XML file at path.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(path, f)
}

// Parse builds a Document from r. name identifies the input in errors.
func Parse(name string, r io.Reader) (*Document, error) {
	dec := xml.NewDecoder(r)
	root := &node{}
	stack := []*node{root}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &MalformedDocumentError{Path: name, Err: err}
		}

		top := stack[len(stack)-1]
		switch t := tok.(type) {
		case xml.StartElement:
			n := &node{tag: t.Name.Local, attrs: make(map[string]string, len(t.Attr))}
			for _, a := range t.Attr {
				n.attrs[a.Name.Local] = a.Value
			}
			top.children = append(top.children, n)
			stack = append(stack, n)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			top.children = append(top.children, &node{text: string(t)})
		}
	}

	if len(stack) != 1 {
		return nil, &MalformedDocumentError{Path: name, Err: io.ErrUnexpectedEOF}
	}
	if len(Element{root}.elements()) == 0 {
		return nil, &MalformedDocumentError{Path: name, Err: errors.New("no root element")}
	}
	return &Document{Path: name, root: root}, nil
}

// Compounds returns every compounddef whose kind can contribute symbols,
// in document order.
func (d *Document) Compounds() []Compound {
	var out []Compound
	for _, el := range (Element{d.root}).Descendants("compounddef") {
		if model.CompoundKind(el.n.attrs["kind"]).Ignored() {
			continue
		}
		out = append(out, Compound{el})
	}
	return out
}

// Element is a read-only view of one XML element.
type Element struct {
	n *node
}

// Tag returns the element name.
func (e Element) Tag() string { return e.n.tag }

// Attr returns the value of attribute key.
func (e Element) Attr(key string) (string, error) {
	v, ok := e.n.attrs[key]
	if !ok {
		return "", &MissingAttributeError{Element: e.n.tag, Attribute: key}
	}
	return v, nil
}

// Descendants returns every element below e named tag, depth first.
func (e Element) Descendants(tag string) []Element {
	var out []Element
	var walk func(n *node)
	walk = func(n *node) {
		for _, c := range n.children {
			if c.tag == "" {
				continue
			}
			if c.tag == tag {
				out = append(out, Element{c})
			}
			walk(c)
		}
	}
	walk(e.n)
	return out
}

// Text concatenates the text of every descendant element named tag,
// including text nested in markup.
func (e Element) Text(tag string) string {
	var b strings.Builder
	for _, el := range e.Descendants(tag) {
		writeText(&b, el.n)
	}
	return b.String()
}

func writeText(b *strings.Builder, n *node) {
	for _, c := range n.children {
		if c.tag == "" {
			b.WriteString(c.text)
		} else {
			writeText(b, c)
		}
	}
}

// HasChild reports whether a direct child element has one of the given tags.
func (e Element) HasChild(tags ...string) bool {
	for _, c := range e.elements() {
		for _, t := range tags {
			if c.n.tag == t {
				return true
			}
		}
	}
	return false
}

// Location returns the file attribute of the first direct location child.
func (e Element) Location() (string, bool) {
	for _, c := range e.elements() {
		if c.n.tag == "location" {
			f, ok := c.n.attrs["file"]
			return f, ok
		}
	}
	return "", false
}

func (e Element) elements() []Element {
	var out []Element
	for _, c := range e.n.children {
		if c.tag != "" {
			out = append(out, Element{c})
		}
	}
	return out
}
