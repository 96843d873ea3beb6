package query

import "strings"

// fieldTag is the parsed form of a `query:"name,opts"` struct tag.
type fieldTag struct {
	Name   string
	Omit   bool
	Char   bool
	Ignore bool
}

// parseTag parses a struct tag value. The first comma-separated part names
// the wire key ("-" drops the field); the remaining parts are options that
// modify the behaviour of the field.
func parseTag(str string) fieldTag {
	str = strings.TrimSpace(str)
	if str == "-" {
		return fieldTag{Ignore: true}
	}

	parts := strings.Split(str, ",")
	var t fieldTag

	name := strings.TrimSpace(parts[0])
	if name == "-" {
		t.Ignore = true
	} else {
		t.Name = name
	}

	for _, p := range parts[1:] {
		switch strings.TrimSpace(p) {
		case "omitempty":
			t.Omit = true
		case "char":
			t.Char = true
		}
	}

	return t
}
