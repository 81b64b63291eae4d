package javaapi

import (
	"fmt"
	"io"
	"sort"
)

// WriteTree renders the API as an indented package/type/member tree. Packages
// are sorted by name; types and members keep their loaded order, listed as
// fields, then constructors, then methods. Each node carries its source URI.
func WriteTree(w io.Writer, api *API) error {
	pkgs := make([]*Package, len(api.Packages))
	copy(pkgs, api.Packages)
	sort.SliceStable(pkgs, func(i, j int) bool {
		return pkgs[i].Name < pkgs[j].Name
	})

	for _, p := range pkgs {
		if _, err := fmt.Fprintln(w, p.Name); err != nil {
			return err
		}
		for _, t := range p.Types {
			if err := writeNode(w, 1, typeLabel(t), t.Source); err != nil {
				return err
			}
			for _, kind := range []MemberKind{MemberField, MemberConstructor, MemberMethod} {
				for _, m := range t.MembersOf(kind) {
					if err := writeNode(w, 2, memberLabel(m), m.Source); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}

func writeNode(w io.Writer, depth int, label string, src *Provenance) error {
	indent := "  "
	if depth == 2 {
		indent = "    "
	}
	if src == nil || src.SourceURI == "" {
		_, err := fmt.Fprintf(w, "%s%s\n", indent, label)
		return err
	}
	_, err := fmt.Fprintf(w, "%s%s\t%s\n", indent, label, src.SourceURI)
	return err
}

func typeLabel(t *Type) string {
	switch t.Kind {
	case KindInterface:
		return "[IF]" + t.Name
	case KindClass:
		return "[CLS]" + t.Name
	default:
		return t.Name
	}
}

func memberLabel(m *Member) string {
	switch m.Kind {
	case MemberField:
		return "[F]" + m.Name
	case MemberConstructor:
		return "[C]" + m.String()
	case MemberMethod:
		return "[M]" + m.String()
	default:
		return m.Name
	}
}
