package merge

import (
	"github.com/yanizio/sitebuilder/internal/content"
)

// Chrome is the resolved header and footer for one page render.  Either
// may be nil, in which case it is not rendered.
type Chrome struct {
	Header *content.HeaderContent
	Footer *content.FooterContent
}

// PageChrome resolves the header and footer for a page.
//
// The page-level value is built from the page's own header (or footer)
// record first and the page override field second, so an explicit page
// override beats a stored header block.  The result is then merged over
// the site baseline with Header and Footer.
//
// Records whose payload cannot be decoded contribute nothing.
func PageChrome(site content.Site, page content.Page, headerRec, footerRec *content.Section) Chrome {
	pageHeader := Header(recordHeader(headerRec), page.Header)
	pageFooter := Footer(recordFooter(footerRec), page.Footer)
	return Chrome{
		Header: Header(site.Header, pageHeader),
		Footer: Footer(site.Footer, pageFooter),
	}
}

func recordHeader(s *content.Section) *content.HeaderContent {
	if s == nil {
		return nil
	}
	p, err := content.Decode(s.Kind(), s.Content)
	if err != nil {
		return nil
	}
	h, ok := p.(content.HeaderContent)
	if !ok {
		return nil
	}
	return &h
}

func recordFooter(s *content.Section) *content.FooterContent {
	if s == nil {
		return nil
	}
	p, err := content.Decode(s.Kind(), s.Content)
	if err != nil {
		return nil
	}
	f, ok := p.(content.FooterContent)
	if !ok {
		return nil
	}
	return &f
}
