package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"spacetraveling/internal/prismic"
	"spacetraveling/internal/site"
	"spacetraveling/pkg/logger"
)

type Handlers struct {
	Publisher *site.Publisher
}

func New(pub *site.Publisher) *Handlers {
	return &Handlers{Publisher: pub}
}

// GET /
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	res, err := h.Publisher.Home(r.Context())
	h.writePage(w, r, res, err)
}

// GET /post/{uid}
func (h *Handlers) Post(w http.ResponseWriter, r *http.Request) {
	res, err := h.Publisher.Post(r.Context(), chi.URLParam(r, "uid"))
	h.writePage(w, r, res, err)
}

// GET /api/posts?cursor=
func (h *Handlers) LoadMore(w http.ResponseWriter, r *http.Request) {
	resp, err := h.Publisher.LoadMore(r.Context(), r.URL.Query().Get("cursor"))
	if err != nil {
		status := site.HTTPStatus(err)
		logger.From(r.Context()).Warn("failed to load more posts", "status", status, "error", err)
		writeJSON(w, status, map[string]string{"error": site.ErrorMessage(status)})
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	h.writePage(w, r, nil, prismic.ErrNotFound)
}

func (h *Handlers) MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
}

func (h *Handlers) writePage(w http.ResponseWriter, r *http.Request, res *site.Result, err error) {
	if err != nil {
		status, body := h.Publisher.ErrorPage(err)
		if status >= http.StatusInternalServerError {
			logger.From(r.Context()).Error("failed to serve page", "status", status, "error", err)
		}
		writeHTML(w, status, body, "no-store")
		return
	}
	w.Header().Set("X-Page-State", string(res.State))
	writeHTML(w, http.StatusOK, res.Body, h.Publisher.CacheControl(res))
}

func writeHTML(w http.ResponseWriter, status int, body []byte, cacheControl string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", cacheControl)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}
