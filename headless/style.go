package headless

import (
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
)

// inline style handling for the style attribute; declarations keep their order.

func parseStyle(s string) []*css.Declaration {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	decls, err := parser.ParseDeclarations(s)
	if err != nil {
		// browsers drop an unparsable style attribute
		return nil
	}
	out := decls[:0]
	for _, d := range decls {
		if d == nil || d.Property == "" {
			continue
		}
		d.Property = strings.ToLower(strings.TrimSpace(d.Property))
		out = append(out, d)
	}
	return out
}

func formatStyle(decls []*css.Declaration) string {
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		part := d.Property + ": " + d.Value
		if d.Important {
			part += " !important"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, "; ")
}

func setDeclaration(decls []*css.Declaration, prop, value string) []*css.Declaration {
	prop = strings.ToLower(strings.TrimSpace(prop))
	for i, d := range decls {
		if d.Property == prop {
			if value == "" {
				return append(decls[:i], decls[i+1:]...)
			}
			d.Value, d.Important = value, false
			return decls
		}
	}
	if value == "" {
		return decls
	}
	return append(decls, &css.Declaration{Property: prop, Value: value})
}
