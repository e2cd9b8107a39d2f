package dochttp

import (
	"net/http"

	"github.com/goliatone/go-docflow/adapters/docapi"
	"github.com/goliatone/go-docflow/document"
)

// Config configures the HTTP adapter.
type Config = docapi.Config

// Handler exposes document endpoints on net/http.
type Handler struct {
	controller *docapi.Controller
}

// NewHandler creates a new HTTP handler.
func NewHandler(cfg Config) *Handler {
	return &Handler{controller: docapi.NewController(cfg)}
}

// RegisterRoutes registers handlers on a compatible router such as
// http.ServeMux.
func (h *Handler) RegisterRoutes(router any) {
	pattern := h.basePath() + "/"
	switch r := router.(type) {
	case interface{ Handle(string, http.Handler) }:
		r.Handle(pattern, h)
	case interface {
		HandleFunc(string, func(http.ResponseWriter, *http.Request))
	}:
		r.HandleFunc(pattern, h.ServeHTTP)
	}
}

// ServeHTTP routes document endpoints.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if w == nil {
		return
	}
	if h == nil || h.controller == nil {
		docapi.WriteError(httpResponse{w: w}, document.NewError(document.KindInternal, "handler is nil", nil))
		return
	}
	h.controller.Serve(httpRequest{r: r}, httpResponse{w: w})
}

func (h *Handler) basePath() string {
	if h == nil || h.controller == nil || h.controller.BasePath() == "" {
		return docapi.DefaultBasePath
	}
	return h.controller.BasePath()
}
