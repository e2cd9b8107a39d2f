package document

import (
	"bytes"
	"context"
	"fmt"
	"sync/atomic"
)

// Tier is a backend capability level. Tiers only move downward.
type Tier int32

const (
	TierFullEngine Tier = iota + 1
	TierMarkupEngine
	TierMarkupOnly
)

func (t Tier) String() string {
	switch t {
	case TierFullEngine:
		return "full_engine"
	case TierMarkupEngine:
		return "markup_engine"
	case TierMarkupOnly:
		return "markup_only"
	default:
		return "unknown"
	}
}

// LayoutRenderer emits a paginated document from a model.
type LayoutRenderer interface {
	RenderLayout(ctx context.Context, model Model) ([]byte, error)
}

// MarkupRenderer emits inline-styled HTML from a model. RenderFragment is the
// embeddable body; RenderPage wraps it in a complete document.
type MarkupRenderer interface {
	RenderFragment(model Model) (string, error)
	RenderPage(model Model) (string, error)
}

// Converter turns a complete HTML page into a paginated document.
type Converter interface {
	Convert(ctx context.Context, html []byte) ([]byte, error)
}

// AvailabilityChecker is implemented by backends that can be probed before use.
type AvailabilityChecker interface {
	Available(ctx context.Context) error
}

// SelectorConfig wires the backends. Layout and Converter are optional;
// Markup is required.
type SelectorConfig struct {
	Layout    LayoutRenderer
	Markup    MarkupRenderer
	Converter Converter
	Logger    Logger
}

// Output is a backend result before packaging.
type Output struct {
	Bytes     []byte
	MediaType string
	Format    Format
	Tier      Tier
}

// Selector picks the best available backend and remembers degradations for
// the process lifetime.
type Selector struct {
	layout    LayoutRenderer
	markup    MarkupRenderer
	converter Converter
	logger    Logger

	tier atomic.Int32
}

var pdfMagic = []byte("%PDF-")

// NewSelector probes the configured backends once and returns a selector
// starting at the best tier available.
func NewSelector(ctx context.Context, cfg SelectorConfig) (*Selector, error) {
	if cfg.Markup == nil {
		return nil, NewError(KindInternal, "markup renderer is required", nil)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = NopLogger{}
	}

	s := &Selector{
		layout:    cfg.Layout,
		markup:    cfg.Markup,
		converter: cfg.Converter,
		logger:    logger,
	}

	start := TierFullEngine
	if cfg.Layout == nil || !s.probe(ctx, cfg.Layout) {
		start = TierMarkupEngine
		if cfg.Converter == nil || !s.probe(ctx, cfg.Converter) {
			start = TierMarkupOnly
		}
	}
	s.tier.Store(int32(start))
	logger.Infof("docflow: backend selector starting at tier=%s", start)
	return s, nil
}

func (s *Selector) probe(ctx context.Context, backend any) bool {
	checker, ok := backend.(AvailabilityChecker)
	if !ok {
		return true
	}
	if err := checker.Available(ctx); err != nil {
		s.logger.Infof("docflow: backend unavailable: %v", err)
		return false
	}
	return true
}

// Tier returns the current capability tier.
func (s *Selector) Tier() Tier {
	return Tier(s.tier.Load())
}

// Render produces the artifact bytes for a model using the current tier. A
// failing tier is dropped once and the next tier is tried within the same
// call. Context errors are returned without degrading.
func (s *Selector) Render(ctx context.Context, model Model) (Output, error) {
	if s == nil {
		return Output{}, NewError(KindInternal, "selector is nil", nil)
	}
	for {
		if err := ctx.Err(); err != nil {
			return Output{}, err
		}

		switch tier := s.Tier(); tier {
		case TierFullEngine:
			data, err := s.renderLayout(ctx, model)
			if err == nil {
				return Output{Bytes: data, MediaType: MediaTypePDF, Format: FormatPDF, Tier: tier}, nil
			}
			if ctx.Err() != nil {
				return Output{}, ctx.Err()
			}
			s.logger.Errorf("docflow: layout engine failed: %v", err)
			next := TierMarkupEngine
			if s.converter == nil {
				next = TierMarkupOnly
			}
			s.degrade(tier, next)

		case TierMarkupEngine:
			page, err := s.markup.RenderPage(model)
			if err != nil {
				return Output{}, renderFailure("markup render failed", err)
			}
			data, err := s.convert(ctx, page)
			if err == nil {
				return Output{Bytes: data, MediaType: MediaTypePDF, Format: FormatPDF, Tier: tier}, nil
			}
			if ctx.Err() != nil {
				return Output{}, ctx.Err()
			}
			s.logger.Errorf("docflow: markup conversion failed: %v", err)
			s.degrade(tier, TierMarkupOnly)
			return htmlOutput(page), nil

		default:
			page, err := s.markup.RenderPage(model)
			if err != nil {
				return Output{}, renderFailure("markup render failed", err)
			}
			return htmlOutput(page), nil
		}
	}
}

func htmlOutput(page string) Output {
	return Output{Bytes: []byte(page), MediaType: MediaTypeHTML, Format: FormatHTML, Tier: TierMarkupOnly}
}

func (s *Selector) renderLayout(ctx context.Context, model Model) (data []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			data = nil
			err = renderFailure("layout engine panic", fmt.Errorf("%v", r))
		}
	}()
	data, err = s.layout.RenderLayout(ctx, model)
	if err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return nil, renderFailure("layout engine returned no document", nil)
	}
	return data, nil
}

func (s *Selector) convert(ctx context.Context, page string) ([]byte, error) {
	data, err := s.converter.Convert(ctx, []byte(page))
	if err != nil {
		return nil, err
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return nil, renderFailure("converter returned no document", nil)
	}
	return data, nil
}

// degrade moves from one tier to a lower one. Concurrent callers that lost
// the race observe the tier another caller already set.
func (s *Selector) degrade(from, to Tier) {
	if to <= from {
		return
	}
	if s.tier.CompareAndSwap(int32(from), int32(to)) {
		s.logger.Infof("docflow: backend tier %s -> %s", from, to)
	}
}

func renderFailure(msg string, err error) error {
	if KindFromError(err) == KindRenderFailure {
		return err
	}
	return NewError(KindRenderFailure, msg, err)
}
