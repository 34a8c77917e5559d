// internal/merge/merge.go
//
// Header and footer override merging.
//
// Context
// -------
// A site defines a baseline header and footer.  A page may override
// either one, wholly or in part.  The rules, applied in order:
//
//  1. No page value → site value unchanged (may be nil).
//  2. No site value → page value unchanged.
//  3. Both present → field by field.  A field set on the page wins; an
//     unset field falls through to the site.  Collections (nav items,
//     footer columns, social links, legal links) are replaced wholesale,
//     never merged element by element.
//  4. Neither present → nil, and the block is omitted from the render.
//
// Every function here is pure.  Results never alias the page or site
// structs themselves, though slices and pointed-to values are shared; treat
// them as read-only.
package merge

import "github.com/yanizio/sitebuilder/internal/content"

// Header merges a page-level header over the site baseline.
func Header(site, page *content.HeaderContent) *content.HeaderContent {
	switch {
	case page == nil:
		return site
	case site == nil:
		return page
	}
	return &content.HeaderContent{
		Logo:     pick(page.Logo, site.Logo),
		LogoURL:  pick(page.LogoURL, site.LogoURL),
		SiteName: pick(page.SiteName, site.SiteName),
		Nav:      pickSlice(page.Nav, site.Nav),
		CTA:      pick(page.CTA, site.CTA),
		Sticky:   pick(page.Sticky, site.Sticky),
		Layout:   pick(page.Layout, site.Layout),
	}
}

// Footer merges a page-level footer over the site baseline.
func Footer(site, page *content.FooterContent) *content.FooterContent {
	switch {
	case page == nil:
		return site
	case site == nil:
		return page
	}
	return &content.FooterContent{
		Copyright:     pick(page.Copyright, site.Copyright),
		Tagline:       pick(page.Tagline, site.Tagline),
		Columns:       pickSlice(page.Columns, site.Columns),
		Social:        pickSlice(page.Social, site.Social),
		Legal:         pickSlice(page.Legal, site.Legal),
		ShowPoweredBy: pick(page.ShowPoweredBy, site.ShowPoweredBy),
	}
}

func pick[T any](page, site *T) *T {
	if page != nil {
		return page
	}
	return site
}

// pickSlice treats nil as unset.  A non-nil empty page slice clears the
// site list on purpose.
func pickSlice[T any](page, site []T) []T {
	if page != nil {
		return page
	}
	return site
}
