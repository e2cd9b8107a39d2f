package query

import (
	"context"

	"github.com/goliatone/go-docflow/document"
	"github.com/goliatone/go-errors"
)

// PreviewDocumentHandler returns the preview fragment with count and total.
type PreviewDocumentHandler struct {
	Service document.Service
}

func NewPreviewDocumentHandler(svc document.Service) *PreviewDocumentHandler {
	return &PreviewDocumentHandler{Service: svc}
}

func (h *PreviewDocumentHandler) Query(ctx context.Context, msg PreviewDocument) (document.PreviewResult, error) {
	if h == nil || h.Service == nil {
		return document.PreviewResult{}, errors.New("document service is required", errors.CategoryInternal).
			WithTextCode("SERVICE_REQUIRED")
	}
	return h.Service.Preview(ctx, msg.Actor, msg.Request)
}
