package query

import (
	"github.com/goliatone/go-docflow/document"
	"github.com/goliatone/go-errors"
)

// PreviewDocument requests the HTML preview of a document.
type PreviewDocument struct {
	Actor   document.Actor
	Request document.DocumentRequest
}

func (PreviewDocument) Type() string { return "document:preview" }

func (msg PreviewDocument) Validate() error {
	if msg.Request.Type == "" {
		return errors.New("document type is required", errors.CategoryValidation).
			WithTextCode("DOCUMENT_TYPE_REQUIRED")
	}
	return nil
}
