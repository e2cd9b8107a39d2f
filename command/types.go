package command

import (
	"github.com/goliatone/go-docflow/document"
	"github.com/goliatone/go-errors"
)

// RenderDocument renders a document request into a downloadable artifact.
type RenderDocument struct {
	Actor   document.Actor
	Request document.DocumentRequest
	Result  *document.RenderedArtifact
}

func (RenderDocument) Type() string { return "document:render" }

func (msg RenderDocument) Validate() error {
	if msg.Request.Type == "" {
		return errors.New("document type is required", errors.CategoryValidation).
			WithTextCode("DOCUMENT_TYPE_REQUIRED")
	}
	return nil
}
