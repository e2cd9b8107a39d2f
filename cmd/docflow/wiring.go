package main

import (
	gcmd "github.com/goliatone/go-command"
	"github.com/goliatone/go-command/dispatcher"
	doccmd "github.com/goliatone/go-docflow/command"
	"github.com/goliatone/go-docflow/document"
	docqry "github.com/goliatone/go-docflow/query"
	"github.com/goliatone/go-errors"
)

// RegisterDocumentHandlers wires document commands and queries to go-command.
func RegisterDocumentHandlers(reg *gcmd.Registry, svc document.Service) ([]dispatcher.Subscription, error) {
	if svc == nil {
		return nil, errors.New("document service is required", errors.CategoryValidation).
			WithTextCode("SERVICE_REQUIRED")
	}

	render := doccmd.NewRenderDocumentHandler(svc)
	preview := docqry.NewPreviewDocumentHandler(svc)

	subscriptions := []dispatcher.Subscription{
		dispatcher.SubscribeCommand(render),
		dispatcher.SubscribeQuery(preview),
	}

	if reg != nil {
		for _, handler := range []any{render, preview} {
			if err := reg.RegisterCommand(handler); err != nil {
				return subscriptions, err
			}
		}
	}

	return subscriptions, nil
}
