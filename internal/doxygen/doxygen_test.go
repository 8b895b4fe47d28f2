package doxygen

import (
	"errors"
	"strings"
	"testing"

	"github.com/phobologic/symbolmap/internal/model"
)

const sampleXML = `<?xml version='1.0' encoding='UTF-8' standalone='no'?>
<doxygen version="1.9.1">
  <compounddef id="classmiral_1_1Window" kind="class" language="C++" prot="public">
    <compoundname>miral::Window</compoundname>
    <sectiondef kind="public-func">
      <memberdef kind="function" id="a1" prot="public" static="no" const="no" explicit="no" inline="no" virt="non-virtual">
        <type><ref refid="x">Size</ref></type>
        <name>size</name>
        <argsstring>() const</argsstring>
      </memberdef>
      <memberdef kind="function" id="a2" prot="public" static="no" inline="no" virt="virtual">
        <name>~Window</name>
        <argsstring>()</argsstring>
      </memberdef>
    </sectiondef>
    <location file="include/miral/window.h" line="37"/>
  </compounddef>
  <compounddef id="pg" kind="page">
    <compoundname>index</compoundname>
  </compounddef>
  <compounddef id="namespacemiral" kind="namespace" language="C++">
    <compoundname>miral</compoundname>
  </compounddef>
</doxygen>
`

func mustParse(t *testing.T, src string) *Document {
	t.Helper()
	doc, err := Parse("test.xml", strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return doc
}

func TestCompoundsSkipsIgnoredKinds(t *testing.T) {
	t.Parallel()
	doc := mustParse(t, sampleXML)

	compounds := doc.Compounds()
	if len(compounds) != 2 {
		t.Fatalf("expected 2 compounds, got %d", len(compounds))
	}
	if compounds[0].Kind() != model.Class {
		t.Errorf("compound 0 kind = %q, want class", compounds[0].Kind())
	}
	if compounds[1].Kind() != model.Namespace {
		t.Errorf("compound 1 kind = %q, want namespace", compounds[1].Kind())
	}
}

func TestCompoundEntity(t *testing.T) {
	t.Parallel()
	doc := mustParse(t, sampleXML)

	ce, err := doc.Compounds()[0].Entity()
	if err != nil {
		t.Fatalf("Entity: %v", err)
	}
	if ce.Name != "miral::Window" {
		t.Errorf("name = %q", ce.Name)
	}
	if ce.File != "include/miral/window.h" {
		t.Errorf("file = %q", ce.File)
	}
	if ce.Protection != model.Public {
		t.Errorf("prot = %q", ce.Protection)
	}
	if ce.Template {
		t.Error("unexpected template flag")
	}

	ns, err := doc.Compounds()[1].Entity()
	if err != nil {
		t.Fatalf("namespace Entity: %v", err)
	}
	if ns.File != "" {
		t.Errorf("namespace file = %q, want empty", ns.File)
	}
}

func TestMembers(t *testing.T) {
	t.Parallel()
	doc := mustParse(t, sampleXML)

	members := doc.Compounds()[0].Members()
	if len(members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(members))
	}

	size, err := members[0].Entity()
	if err != nil {
		t.Fatalf("Entity: %v", err)
	}
	if size.Name != "size" || size.Args != "() const" || !size.HasArgs {
		t.Errorf("size entity = %+v", size)
	}
	if size.Virtuality != model.NonVirtual || size.Inline || size.Static {
		t.Errorf("size flags = %+v", size)
	}

	dtor, err := members[1].Entity()
	if err != nil {
		t.Fatalf("Entity: %v", err)
	}
	if dtor.Name != "~Window" || dtor.Virtuality != model.Virtual {
		t.Errorf("dtor entity = %+v", dtor)
	}
}

func TestTextIncludesNestedMarkup(t *testing.T) {
	t.Parallel()
	doc := mustParse(t, `<doxygen><compounddef kind="namespace"><compoundname>a<b>b</b>c</compoundname></compounddef></doxygen>`)

	if got := doc.Compounds()[0].Name(); got != "abc" {
		t.Errorf("Name() = %q, want abc", got)
	}
}

func TestHasChildIsDirectOnly(t *testing.T) {
	t.Parallel()
	doc := mustParse(t, `<doxygen><compounddef kind="class" prot="public">
  <compoundname>X</compoundname>
  <sectiondef><templateparamlist/></sectiondef>
  <location file="x.h"/>
</compounddef></doxygen>`)

	c := doc.Compounds()[0]
	if c.HasChild("templateparamlist") {
		t.Error("nested templateparamlist should not count as a direct child")
	}
	if !c.HasChild("sectiondef", "templateparamlist") {
		t.Error("expected sectiondef child")
	}
}

func TestMissingFunctionAttribute(t *testing.T) {
	t.Parallel()
	doc := mustParse(t, `<doxygen><compounddef kind="namespace"><compoundname>n</compoundname>
  <memberdef kind="function" prot="public" static="no" inline="no"><name>f</name></memberdef>
</compounddef></doxygen>`)

	_, err := doc.Compounds()[0].Members()[0].Entity()
	var me *MissingAttributeError
	if !errors.As(err, &me) {
		t.Fatalf("expected MissingAttributeError, got %v", err)
	}
	if me.Attribute != "virt" || me.Name != "f" {
		t.Errorf("error = %+v", me)
	}
}

func TestMissingLocation(t *testing.T) {
	t.Parallel()
	doc := mustParse(t, `<doxygen><compounddef kind="struct" prot="public"><compoundname>S</compoundname></compounddef></doxygen>`)

	_, err := doc.Compounds()[0].Entity()
	var me *MissingAttributeError
	if !errors.As(err, &me) || me.Attribute != "location" {
		t.Fatalf("expected missing location, got %v", err)
	}
}

func TestParseMalformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
	}{
		{"unclosed", "<doxygen><compounddef>"},
		{"mismatched", "<doxygen></compounddef>"},
		{"empty", ""},
		{"text only", "just text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse("bad.xml", strings.NewReader(tt.src))
			var me *MalformedDocumentError
			if !errors.As(err, &me) {
				t.Fatalf("expected MalformedDocumentError, got %v", err)
			}
			if me.Path != "bad.xml" {
				t.Errorf("path = %q", me.Path)
			}
		})
	}
}
