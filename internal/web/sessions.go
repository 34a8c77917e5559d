package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/sitebuilder/internal/selection"
)

type sessionResponse struct {
	ID     string                    `json:"id"`
	PageID string                    `json:"pageId"`
	State  selection.State           `json:"state"`
	Scroll []selection.ScrollCommand `json:"scroll"`
}

func view(e *selection.Entry, drain bool) sessionResponse {
	resp := sessionResponse{ID: e.ID, PageID: e.PageID, State: e.State(), Scroll: []selection.ScrollCommand{}}
	if drain {
		if cmds := e.Drain(); cmds != nil {
			resp.Scroll = cmds
		}
	}
	return resp
}

// session resolves {sid} or writes 404.
func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*selection.Entry, bool) {
	e, ok := h.sessions.Get(chi.URLParam(r, "sid"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown session")
	}
	return e, ok
}

func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	var in struct {
		PageID string `json:"pageId" validate:"required,max=64"`
	}
	if !decode(w, r, &in) {
		return
	}
	if _, err := h.store.PageByID(r.Context(), in.PageID); err != nil {
		h.storeError(w, r, "session page", err)
		return
	}
	e := h.sessions.Create(in.PageID)
	writeJSON(w, http.StatusCreated, view(e, false))
}

// getSession is the editor's poll: current state plus any scrolls that
// fired since the last poll.
func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	e, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, view(e, true))
}

func (h *Handler) closeSession(w http.ResponseWriter, r *http.Request) {
	h.sessions.Close(chi.URLParam(r, "sid"))
	w.WriteHeader(http.StatusNoContent)
}

type blockInput struct {
	ID          string `json:"id"          validate:"required,max=64"`
	Interactive bool   `json:"interactive"`
}

func (h *Handler) hover(w http.ResponseWriter, r *http.Request) {
	e, ok := h.session(w, r)
	if !ok {
		return
	}
	var in blockInput
	if !decode(w, r, &in) {
		return
	}
	e.Hover(in.ID)
	writeJSON(w, http.StatusOK, view(e, false))
}

func (h *Handler) unhover(w http.ResponseWriter, r *http.Request) {
	e, ok := h.session(w, r)
	if !ok {
		return
	}
	e.Unhover()
	writeJSON(w, http.StatusOK, view(e, false))
}

// click is a click inside the preview.  Interactive targets (links,
// buttons, inputs) do not change the selection.
func (h *Handler) click(w http.ResponseWriter, r *http.Request) {
	e, ok := h.session(w, r)
	if !ok {
		return
	}
	var in blockInput
	if !decode(w, r, &in) {
		return
	}
	e.Click(in.ID, in.Interactive)
	writeJSON(w, http.StatusOK, view(e, false))
}

// selectBlock is a selection made from the outline.  An empty id clears
// the selection.
func (h *Handler) selectBlock(w http.ResponseWriter, r *http.Request) {
	e, ok := h.session(w, r)
	if !ok {
		return
	}
	var in struct {
		ID string `json:"id" validate:"max=64"`
	}
	if !decode(w, r, &in) {
		return
	}
	e.Select(in.ID)
	writeJSON(w, http.StatusOK, view(e, false))
}

// anchors registers or removes anchors for elements the client mounted
// or unmounted outside a preview or outline fetch.
func (h *Handler) anchors(w http.ResponseWriter, r *http.Request) {
	e, ok := h.session(w, r)
	if !ok {
		return
	}
	var in struct {
		Panel     selection.Panel `json:"panel"     validate:"required,oneof=outline preview"`
		Mounted   []string        `json:"mounted"   validate:"max=500,dive,required,max=64"`
		Unmounted []string        `json:"unmounted" validate:"max=500,dive,required,max=64"`
	}
	if !decode(w, r, &in) {
		return
	}
	for _, id := range in.Unmounted {
		e.Unregister(in.Panel, id)
	}
	for _, id := range in.Mounted {
		e.Mount(in.Panel, id)
	}
	w.WriteHeader(http.StatusNoContent)
}
