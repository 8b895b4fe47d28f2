// Package model defines core data structures for symbolmap.
package model

// CompoundKind is the Doxygen kind of a documented unit.
type CompoundKind string

const (
	Namespace CompoundKind = "namespace"
	Class     CompoundKind = "class"
	Struct    CompoundKind = "struct"
	Group     CompoundKind = "group"
	Page      CompoundKind = "page"
	File      CompoundKind = "file"
	Example   CompoundKind = "example"
	Union     CompoundKind = "union"
)

// Ignored reports whether compounds of this kind never contribute symbols.
func (k CompoundKind) Ignored() bool {
	switch k {
	case Page, File, Example, Union:
		return true
	}
	return false
}

// ClassLike reports whether the kind gets vtable and typeinfo symbols.
func (k CompoundKind) ClassLike() bool {
	return k == Class || k == Struct
}

// MemberKind is the Doxygen kind of a declaration inside a compound.
type MemberKind string

const (
	Function MemberKind = "function"
	Variable MemberKind = "variable"
	Enum     MemberKind = "enum"
	Typedef  MemberKind = "typedef"
	Define   MemberKind = "define"
)

// Protection is the access level of an entity.
type Protection string

const (
	Public    Protection = "public"
	Protected Protection = "protected"
	Private   Protection = "private"
)

// Virtuality of a function member.
type Virtuality string

const (
	NonVirtual  Virtuality = "non-virtual"
	Virtual     Virtuality = "virtual"
	PureVirtual Virtuality = "pure-virtual"
)

// CompoundEntity is a documented namespace, class, struct, group or other unit.
type CompoundEntity struct {
	Kind       CompoundKind
	Protection Protection // only set for class and struct
	Name       string     // qualified, e.g. "miral::Window"
	File       string     // declaring file; empty for namespaces and groups
	Template   bool
}

// MemberEntity is a function, variable, enum, typedef or define.
type MemberEntity struct {
	Kind       MemberKind
	Protection Protection
	Static     bool
	Virtuality Virtuality // functions only
	Inline     bool       // functions only
	Name       string     // raw name token as documented
	Args       string     // argsstring text
	HasArgs    bool       // whether an argsstring element is present
	Template   bool
}

// IsFunction reports whether the member is a function.
func (m MemberEntity) IsFunction() bool {
	return m.Kind == Function
}

// Visibility is the classification outcome of a symbol.
type Visibility string

const (
	Published  Visibility = "public"
	Suppressed Visibility = "private"
)

// SymbolEntry is one classified symbol.
type SymbolEntry struct {
	Symbol     string
	Visibility Visibility
	New        bool // public and absent from the baseline
}

// SymbolMap is the classification summary of a run, ready for serialization.
type SymbolMap struct {
	Namespace string
	Extends   string
	Documents int
	Failed    int
	Symbols   []SymbolEntry
}
