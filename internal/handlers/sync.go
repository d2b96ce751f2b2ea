package handlers

import (
	"errors"
	"log"
	"net/http"
	"net/url"

	"github.com/diewo77/go-shop/httpx"
	"github.com/diewo77/go-shop/internal/gist"
	"github.com/diewo77/go-shop/internal/middleware"
	"github.com/diewo77/go-shop/internal/services"
)

type SyncHandler struct {
	*Shell
}

func NewSyncHandler(shell *Shell) *SyncHandler {
	return &SyncHandler{Shell: shell}
}

// statusJSON is the JSON shape of a sync outcome.
type statusJSON struct {
	Action string `json:"action"`
	Phase  string `json:"phase"`
	Code   string `json:"code"`
	Detail string `json:"detail,omitempty"`
}

// Page shows the sync settings and the status of each action. Connectivity is
// probed afresh since the user is about to reach the network.
func (h *SyncHandler) Page(w http.ResponseWriter, r *http.Request) {
	if h.net != nil {
		h.net.Invalidate()
	}
	meta, err := h.sync.Meta(r.Context())
	if err != nil {
		log.Printf("sync meta: %v", err)
	}
	h.render(w, r, "sync", http.StatusOK, map[string]any{
		"Meta":     meta,
		"Filename": h.sync.Filename(),
		"Create":   h.sync.Status(services.ActionCreate),
		"Update":   h.sync.Status(services.ActionUpdate),
		"Pull":     h.sync.Status(services.ActionPull),
		"Last":     h.sync.Last(),
	})
}

func (h *SyncHandler) Create(w http.ResponseWriter, r *http.Request) {
	_, err := h.sync.Create(r.Context(), r.FormValue("token"))
	h.finish(w, r, services.ActionCreate, err)
}

func (h *SyncHandler) Update(w http.ResponseWriter, r *http.Request) {
	err := h.sync.Update(r.Context(), r.FormValue("token"), r.FormValue("gist_id"))
	h.finish(w, r, services.ActionUpdate, err)
}

func (h *SyncHandler) Pull(w http.ResponseWriter, r *http.Request) {
	err := h.sync.Pull(r.Context(), r.FormValue("gist_id"))
	h.finish(w, r, services.ActionPull, err)
}

// Forget drops the stored token and gist id.
func (h *SyncHandler) Forget(w http.ResponseWriter, r *http.Request) {
	if err := h.sync.Forget(r.Context()); err != nil {
		h.fail(w, r, "/sync", err)
		return
	}
	h.done(w, r, "/sync", "credentials_forgotten", http.StatusNoContent, nil)
}

// finish records connectivity and sends the user back to the sync view, where
// the action's status message is shown.
func (h *SyncHandler) finish(w http.ResponseWriter, r *http.Request, action services.SyncAction, err error) {
	h.reportConnectivity(err)
	busy := errors.Is(err, services.ErrSyncInProgress)
	if httpx.WantsJSON(r) {
		st := h.sync.Status(action)
		out := statusJSON{Action: string(action), Phase: string(st.Phase), Code: st.Code, Detail: st.Detail}
		switch {
		case busy:
			out.Code = "sync_in_progress"
			httpx.JSON(w, http.StatusConflict, out)
		case err != nil:
			httpx.JSON(w, http.StatusBadGateway, out)
		default:
			httpx.JSON(w, http.StatusOK, out)
		}
		return
	}
	if busy {
		middleware.FlashError(w, "sync_in_progress")
	}
	http.Redirect(w, r, "/sync", http.StatusSeeOther)
}

// reportConnectivity feeds sync outcomes to the connectivity monitor: any
// answer from the API means online, a transport failure means offline.
func (h *SyncHandler) reportConnectivity(err error) {
	if h.net == nil {
		return
	}
	var apiErr *gist.APIError
	var urlErr *url.Error
	switch {
	case err == nil, errors.As(err, &apiErr):
		h.net.Report(nil)
	case errors.As(err, &urlErr):
		h.net.Report(err)
	}
}
