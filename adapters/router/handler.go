package docrouter

import (
	"net/http"

	"github.com/goliatone/go-docflow/adapters/docapi"
	"github.com/goliatone/go-docflow/document"
	"github.com/goliatone/go-router"
)

// Config configures the go-router adapter.
type Config = docapi.Config

// Handler exposes document routes for go-router.
type Handler struct {
	controller *docapi.Controller
}

// NewHandler creates a go-router handler.
func NewHandler(cfg Config) *Handler {
	return &Handler{controller: docapi.NewController(cfg)}
}

// RegisterRoutes registers every document route on a compatible go-router
// router.
func (h *Handler) RegisterRoutes(r any) {
	registrar, ok := r.(routeRegistrar)
	if !ok || h == nil || h.controller == nil {
		return
	}
	for _, route := range h.controller.Routes() {
		switch route.Method {
		case http.MethodGet:
			registrar.Get(route.Path, h.Handle)
		case http.MethodPost:
			registrar.Post(route.Path, h.Handle)
		}
	}
}

// Handle executes the shared controller.
func (h *Handler) Handle(c router.Context) error {
	if c == nil {
		return nil
	}
	if h == nil || h.controller == nil {
		docapi.WriteError(routerResponse{ctx: c}, document.NewError(document.KindInternal, "handler is nil", nil))
		return nil
	}
	h.controller.Serve(routerRequest{ctx: c}, routerResponse{ctx: c})
	return nil
}

type routeRegistrar interface {
	Get(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
	Post(path string, handler router.HandlerFunc, mw ...router.MiddlewareFunc) router.RouteInfo
}
