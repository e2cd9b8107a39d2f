package document

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// DefaultWatermark is the free-tier footer line.
const DefaultWatermark = "Создано с помощью DocuFlow"

// Service coordinates validation, access checks, model building and backend
// selection.
type Service interface {
	Render(ctx context.Context, actor Actor, req DocumentRequest) (RenderedArtifact, error)
	Preview(ctx context.Context, actor Actor, req DocumentRequest) (PreviewResult, error)
}

// ServiceConfig supplies dependencies for Service.
type ServiceConfig struct {
	Selector         *Selector
	Markup           MarkupRenderer
	Guard            Guard
	Logger           Logger
	Now              Clock
	Watermark        string
	FilenameTemplate string
	IDGenerator      func() string
}

type service struct {
	selector         *Selector
	markup           MarkupRenderer
	guard            Guard
	logger           Logger
	now              Clock
	watermark        string
	filenameTemplate string
	idGenerator      func() string
}

// NewService creates a Service with the provided configuration.
func NewService(cfg ServiceConfig) Service {
	nowFn := cfg.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = NopLogger{}
	}
	idGen := cfg.IDGenerator
	if idGen == nil {
		idGen = uuid.NewString
	}
	markup := cfg.Markup
	if markup == nil && cfg.Selector != nil {
		markup = cfg.Selector.markup
	}

	return &service{
		selector:         cfg.Selector,
		markup:           markup,
		guard:            cfg.Guard,
		logger:           logger,
		now:              nowFn,
		watermark:        cfg.Watermark,
		filenameTemplate: cfg.FilenameTemplate,
		idGenerator:      idGen,
	}
}

// Render produces a downloadable artifact at the best available tier.
func (s *service) Render(ctx context.Context, actor Actor, req DocumentRequest) (RenderedArtifact, error) {
	if s == nil || s.selector == nil {
		return RenderedArtifact{}, AsGoError(NewError(KindInternal, "renderer not configured", nil))
	}

	model, err := s.prepare(ctx, actor, req)
	if err != nil {
		return RenderedArtifact{}, AsGoError(err)
	}

	renderID := s.idGenerator()
	out, err := s.selector.Render(ctx, model)
	if err != nil {
		s.logger.Errorf("docflow: render %s failed type=%s: %v", renderID, model.Type, err)
		return RenderedArtifact{}, AsGoError(err)
	}

	filename, err := RenderFilename(s.filenameTemplate, model, out.Format, model.GeneratedAt)
	if err != nil {
		return RenderedArtifact{}, AsGoError(NewError(KindInternal, "filename render failed", err))
	}

	s.logger.Debugf("docflow: render %s type=%s tier=%s bytes=%d", renderID, model.Type, out.Tier, len(out.Bytes))
	return RenderedArtifact{
		Bytes:             out.Bytes,
		MediaType:         out.MediaType,
		SuggestedFilename: filename,
		Format:            out.Format,
		Tier:              out.Tier,
	}, nil
}

// Preview returns the HTML fragment with the item count and total.
func (s *service) Preview(ctx context.Context, actor Actor, req DocumentRequest) (PreviewResult, error) {
	if s == nil || s.markup == nil {
		return PreviewResult{}, AsGoError(NewError(KindInternal, "markup renderer not configured", nil))
	}

	model, err := s.prepare(ctx, actor, req)
	if err != nil {
		return PreviewResult{}, AsGoError(err)
	}

	fragment, err := s.markup.RenderFragment(model)
	if err != nil {
		return PreviewResult{}, AsGoError(renderFailure("preview render failed", err))
	}

	return PreviewResult{
		Type:       model.Type,
		HTML:       fragment,
		ItemsCount: model.ItemCount,
		Total:      model.Totals.Amount,
		TotalText:  model.Totals.Text(),
	}, nil
}

func (s *service) prepare(ctx context.Context, actor Actor, req DocumentRequest) (Model, error) {
	if err := ctx.Err(); err != nil {
		return Model{}, err
	}

	validated, err := ValidateRequest(req)
	if err != nil {
		return Model{}, err
	}

	if s.guard != nil {
		if err := s.guard.AuthorizeRender(ctx, actor, validated); err != nil {
			if KindFromError(err) == KindInternal {
				return Model{}, NewError(KindUnauthorized, "access denied", err)
			}
			return Model{}, err
		}
	}

	return Build(validated, BuildOptions{
		GeneratedAt: s.now(),
		Footer:      s.watermark,
	}), nil
}
