// Package symbol builds the textual symbol forms used in linker version scripts.
package symbol

import "strings"

const (
	// Placeholder stands in for characters the version script cannot spell:
	// the destructor tilde and the spaces of demangled special names.
	Placeholder = "?"

	thunkPrefix    = "non-virtual" + Placeholder + "thunk" + Placeholder + "to" + Placeholder
	vtablePrefix   = "vtable" + Placeholder + "for" + Placeholder
	typeinfoPrefix = "typeinfo" + Placeholder + "for" + Placeholder

	operatorToken = "operator"
	separator     = "::"
)

// Qualify joins scope and name with "::". An empty scope returns name.
func Qualify(scope, name string) string {
	if scope == "" {
		return name
	}
	return scope + separator + name
}

// Normalize collapses every operator overload onto the bare token "operator".
func Normalize(name string) string {
	if strings.HasPrefix(name, operatorToken) {
		return operatorToken
	}
	return name
}

// Encode rewrites destructor tildes to the placeholder.
func Encode(sym string) string {
	return strings.ReplaceAll(sym, "~", Placeholder)
}

// Glob marks sym as matching any compiler-suffixed variant.
func Glob(sym string) string {
	return sym + "*"
}

// Thunk returns the non-virtual thunk symbol for a virtual function.
func Thunk(sym string) string {
	return thunkPrefix + sym
}

// VTable returns the vtable symbol for a class.
func VTable(class string) string {
	return vtablePrefix + class
}

// TypeInfo returns the typeinfo symbol for a class.
func TypeInfo(class string) string {
	return typeinfoPrefix + class
}

// Line formats sym as a version-script stanza entry.
func Line(sym string) string {
	return "    " + sym + ";"
}
