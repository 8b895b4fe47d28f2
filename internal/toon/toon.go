// Package toon implements TOON (Token-Oriented Object Notation) encoding.
package toon

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/phobologic/symbolmap/internal/model"
)

var (
	needsQuoting = regexp.MustCompile(`[,:"\\{}\[\]]`)
	looksNumeric = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?$`)
	keywords     = map[string]struct{}{
		"true":  {},
		"false": {},
		"null":  {},
	}
)

// Encode converts a SymbolMap into TOON format.
func Encode(sm *model.SymbolMap) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("namespace: %s", encodeValue(sm.Namespace)))
	parts = append(parts, fmt.Sprintf("extends: %s", encodeValue(sm.Extends)))
	parts = append(parts, fmt.Sprintf("documents: %d", sm.Documents))
	parts = append(parts, fmt.Sprintf("failed: %d", sm.Failed))

	var rows [][]string
	for i := range sm.Symbols {
		e := &sm.Symbols[i]
		rows = append(rows, []string{
			e.Symbol,
			string(e.Visibility),
			fmt.Sprintf("%t", e.New),
		})
	}
	parts = append(parts, formatTabular("symbols", []string{"symbol", "visibility", "new"}, rows))

	return strings.Join(parts, "\n")
}

func formatTabular(name string, columns []string, rows [][]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d]{%s}:", name, len(rows), strings.Join(columns, ","))
	for _, row := range rows {
		encoded := make([]string, len(row))
		for i, cell := range row {
			encoded[i] = encodeCell(cell)
		}
		fmt.Fprintf(&b, "\n  %s", strings.Join(encoded, ","))
	}
	return b.String()
}

// encodeCell leaves the boolean column bare; every other cell goes through
// encodeValue.
func encodeCell(value string) string {
	if value == "true" || value == "false" {
		return value
	}
	return encodeValue(value)
}

func encodeValue(value string) string {
	if value == "" {
		return `""`
	}

	if value != strings.TrimSpace(value) {
		return quote(value)
	}

	if strings.ContainsAny(value, "\n\r\t") {
		return quote(value)
	}

	if _, ok := keywords[strings.ToLower(value)]; ok {
		return quote(value)
	}

	if looksNumeric.MatchString(value) {
		return value
	}

	if needsQuoting.MatchString(value) {
		return quote(value)
	}

	if strings.HasPrefix(value, "-") {
		return quote(value)
	}

	return value
}

func quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\r", `\r`)
	escaped = strings.ReplaceAll(escaped, "\t", `\t`)
	return `"` + escaped + `"`
}
