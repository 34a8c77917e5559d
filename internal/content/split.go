package content

import (
	"cmp"
	"slices"
)

// Parts is a page's records partitioned for rendering.
type Parts struct {
	Header *Section
	Footer *Section
	Body   []Section // ascending Position, chrome records excluded
	// Demoted lists the IDs of extra header or footer records.  They are
	// not rendered.
	Demoted []string
}

// Split extracts the page's header and footer records and returns the
// remaining sections in render order.  The first header (and footer) by
// position wins; later ones are reported in Demoted.
func Split(sections []Section) Parts {
	sorted := SortByPosition(sections)

	var p Parts
	p.Body = make([]Section, 0, len(sorted))
	for i := range sorted {
		s := sorted[i]
		switch s.Kind().Primitive {
		case PrimitiveHeader:
			if p.Header == nil {
				p.Header = &s
				continue
			}
			p.Demoted = append(p.Demoted, s.ID)
			continue
		case PrimitiveFooter:
			if p.Footer == nil {
				p.Footer = &s
				continue
			}
			p.Demoted = append(p.Demoted, s.ID)
			continue
		}
		p.Body = append(p.Body, s)
	}
	return p
}

// SortByPosition returns a copy ordered by Position, then ID so equal
// positions (which the store should prevent) still sort deterministically.
func SortByPosition(sections []Section) []Section {
	out := slices.Clone(sections)
	slices.SortStableFunc(out, func(a, b Section) int {
		if c := cmp.Compare(a.Position, b.Position); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}
