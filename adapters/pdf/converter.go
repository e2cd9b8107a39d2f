package docpdf

import (
	"bytes"
	"context"
	"errors"

	"github.com/goliatone/go-docflow/document"
)

// DefaultMaxHTMLBytes caps the page size accepted for conversion.
const DefaultMaxHTMLBytes int64 = 8 * 1024 * 1024

// Page geometry shared with the layout renderer.
const (
	DefaultPageSize     = "A4"
	DefaultMarginTop    = "72pt"
	DefaultMarginSide   = "72pt"
	DefaultMarginBottom = "36pt"
)

// PageOptions controls paper geometry for engines that support it.
type PageOptions struct {
	PageSize        string
	Landscape       bool
	PrintBackground *bool
	Scale           float64
	MarginTop       string
	MarginBottom    string
	MarginLeft      string
	MarginRight     string
	// AllowExternalAssets lets the engine fetch http(s) resources referenced
	// by the page. Generated pages are self-contained, so it is off by default.
	AllowExternalAssets bool
}

// DefaultPageOptions returns A4 portrait with the document margins.
func DefaultPageOptions() PageOptions {
	return PageOptions{
		PageSize:        DefaultPageSize,
		PrintBackground: boolPtr(true),
		Scale:           defaultPDFScale,
		MarginTop:       DefaultMarginTop,
		MarginBottom:    DefaultMarginBottom,
		MarginLeft:      DefaultMarginSide,
		MarginRight:     DefaultMarginSide,
	}
}

// RenderRequest contains HTML input and page options for PDF engines.
type RenderRequest struct {
	HTML    []byte
	Options PageOptions
}

// Engine renders HTML content into PDF bytes.
type Engine interface {
	Render(ctx context.Context, req RenderRequest) ([]byte, error)
}

// EngineFunc adapts a function to an Engine.
type EngineFunc func(ctx context.Context, req RenderRequest) ([]byte, error)

func (f EngineFunc) Render(ctx context.Context, req RenderRequest) ([]byte, error) {
	if f == nil {
		return nil, errors.New("pdf engine func is nil")
	}
	return f(ctx, req)
}

// Converter adapts an Engine to document.Converter.
type Converter struct {
	Engine       Engine
	Options      PageOptions
	MaxHTMLBytes int64
}

var (
	_ document.Converter           = Converter{}
	_ document.AvailabilityChecker = Converter{}
)

// NewConverter wraps engine with the default page options.
func NewConverter(engine Engine) Converter {
	return Converter{Engine: engine, Options: DefaultPageOptions()}
}

// Convert renders html into a PDF.
func (c Converter) Convert(ctx context.Context, html []byte) ([]byte, error) {
	if c.Engine == nil {
		return nil, document.NewError(document.KindNotImpl, "pdf converter has no engine", nil)
	}
	limit := c.MaxHTMLBytes
	if limit <= 0 {
		limit = DefaultMaxHTMLBytes
	}
	if int64(len(html)) > limit {
		return nil, document.NewError(document.KindRenderFailure, "pdf converter max html bytes exceeded", nil)
	}

	out, err := c.Engine.Render(ctx, RenderRequest{HTML: html, Options: mergeOptions(DefaultPageOptions(), c.Options)})
	if err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		return nil, document.NewError(document.KindRenderFailure, "pdf engine returned non-pdf output", nil)
	}
	return out, nil
}

// Available reports whether the engine can run. Engines without a probe are
// assumed available.
func (c Converter) Available(ctx context.Context) error {
	if c.Engine == nil {
		return document.NewError(document.KindNotImpl, "pdf converter has no engine", nil)
	}
	if checker, ok := c.Engine.(document.AvailabilityChecker); ok {
		return checker.Available(ctx)
	}
	return nil
}

func mergeOptions(base, override PageOptions) PageOptions {
	merged := base
	if override.PageSize != "" {
		merged.PageSize = override.PageSize
	}
	merged.Landscape = override.Landscape
	if override.PrintBackground != nil {
		merged.PrintBackground = override.PrintBackground
	}
	if override.Scale != 0 {
		merged.Scale = override.Scale
	}
	if override.MarginTop != "" {
		merged.MarginTop = override.MarginTop
	}
	if override.MarginBottom != "" {
		merged.MarginBottom = override.MarginBottom
	}
	if override.MarginLeft != "" {
		merged.MarginLeft = override.MarginLeft
	}
	if override.MarginRight != "" {
		merged.MarginRight = override.MarginRight
	}
	merged.AllowExternalAssets = override.AllowExternalAssets
	return merged
}

func boolPtr(value bool) *bool {
	return &value
}
