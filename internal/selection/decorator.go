package selection

import (
	"github.com/yanizio/sitebuilder/internal/render"
)

// Attribute names the editor script reads from block wrappers.
const (
	AttrBlockID  = "data-block-id"
	AttrHovered  = "data-hovered"
	AttrSelected = "data-selected"
)

// Decorator marks block wrappers with the synchronizer's current state so
// the preview can draw hover and selection outlines.  Blocks themselves
// are untouched.
func Decorator(s Synchronizer) render.Decorator {
	if s == nil {
		s = Noop{}
	}
	return render.DecoratorFunc(func(w *render.Wrapper) {
		w.Set(AttrBlockID, w.ID)
		w.AddClass("is-editable")
		if id := s.HoveredID(); id != "" && id == w.ID {
			w.Set(AttrHovered, "true")
			w.AddClass("is-hovered")
		}
		if id := s.SelectedID(); id != "" && id == w.ID {
			w.Set(AttrSelected, "true")
			w.AddClass("is-selected")
		}
	})
}
