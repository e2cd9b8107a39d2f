package command

import (
	"context"

	gcmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-docflow/document"
	"github.com/goliatone/go-errors"
)

// RenderDocumentHandler handles render commands.
type RenderDocumentHandler struct {
	Service document.Service
}

func NewRenderDocumentHandler(svc document.Service) *RenderDocumentHandler {
	return &RenderDocumentHandler{Service: svc}
}

func (h *RenderDocumentHandler) Execute(ctx context.Context, msg RenderDocument) error {
	if h == nil || h.Service == nil {
		return errors.New("document service is required", errors.CategoryInternal).
			WithTextCode("SERVICE_REQUIRED")
	}
	artifact, err := h.Service.Render(ctx, msg.Actor, msg.Request)
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = artifact
	}
	if res := gcmd.ResultFromContext[document.RenderedArtifact](ctx); res != nil {
		res.Store(artifact)
	}
	return nil
}
