package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/sitebuilder/internal/site"
)

type jobResponse struct {
	ID        string         `json:"id"`
	SiteID    string         `json:"siteId"`
	Status    site.JobStatus `json:"status"`
	ColorMode string         `json:"colorMode,omitempty"`
	Error     string         `json:"error,omitempty"`
	ThemeID   string         `json:"themeId,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func jobView(j *site.Job) jobResponse {
	return jobResponse{
		ID:        j.ID,
		SiteID:    j.SiteID,
		Status:    j.Status,
		ColorMode: j.ColorMode,
		Error:     j.Error.String,
		ThemeID:   j.ThemeID.String,
		CreatedAt: j.CreatedAt,
		UpdatedAt: j.UpdatedAt,
	}
}

// generateTheme queues a theme generation request.  The generator runs
// out of process; the editor polls the job.
func (h *Handler) generateTheme(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Prompt    string `json:"prompt"    validate:"required,max=2000"`
		ColorMode string `json:"colorMode" validate:"omitempty,oneof=light dark system user_choice"`
	}
	if !decode(w, r, &in) {
		return
	}
	siteID := chi.URLParam(r, "siteID")
	if _, err := h.store.SiteByID(r.Context(), siteID); err != nil {
		h.storeError(w, r, "generate theme site", err)
		return
	}
	j, err := h.store.SubmitJob(r.Context(), siteID, in.Prompt, in.ColorMode)
	if err != nil {
		h.storeError(w, r, "submit job", err)
		return
	}
	w.Header().Set("Location", "/editor/jobs/"+j.ID)
	writeJSON(w, http.StatusAccepted, jobView(j))
}

// job reports a generation job.  A finished job drops the site from the
// tenant cache so public pages pick up the new theme.
func (h *Handler) job(w http.ResponseWriter, r *http.Request) {
	j, err := h.store.Job(r.Context(), chi.URLParam(r, "jobID"))
	if err != nil {
		h.storeError(w, r, "job", err)
		return
	}
	if j.Status == site.JobSucceeded && h.tenants != nil {
		h.tenants.InvalidateSite(j.SiteID)
	}
	writeJSON(w, http.StatusOK, jobView(j))
}
