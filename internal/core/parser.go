package core

import "strings"

// ParseLine splits one line of delimited text into trimmed fields.
//
// Commas inside a double-quoted region are part of the field. A quote
// toggles quote mode and is never emitted; there is no "" escape. An
// unbalanced quote simply runs to the end of the line.
func ParseLine(line string) []string {
	var (
		fields  []string
		current strings.Builder
		quoted  bool
	)

	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
		case r == ',' && !quoted:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	fields = append(fields, strings.TrimSpace(current.String()))

	return fields
}

// Field returns fields[i], or "" when the line had fewer fields.
func Field(fields []string, i int) string {
	if i < 0 || i >= len(fields) {
		return ""
	}
	return fields[i]
}
