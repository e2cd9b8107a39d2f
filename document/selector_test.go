package document

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var fakePDF = []byte("%PDF-1.4\nfake\n%%EOF")

type layoutFunc func(ctx context.Context, model Model) ([]byte, error)

func (f layoutFunc) RenderLayout(ctx context.Context, model Model) ([]byte, error) {
	return f(ctx, model)
}

type converterStub struct {
	mu        sync.Mutex
	calls     int
	err       error
	out       []byte
	available error
}

func (c *converterStub) Convert(ctx context.Context, html []byte) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	if c.out != nil {
		return c.out, nil
	}
	return fakePDF, nil
}

func (c *converterStub) Available(ctx context.Context) error {
	return c.available
}

type markupStub struct {
	err error
}

func (m markupStub) RenderFragment(model Model) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return "<div>" + model.Title + "</div>", nil
}

func (m markupStub) RenderPage(model Model) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return "<!DOCTYPE html><html><body><div>" + model.Title + "</div></body></html>", nil
}

func newTestSelector(t *testing.T, cfg SelectorConfig) *Selector {
	t.Helper()
	if cfg.Markup == nil {
		cfg.Markup = markupStub{}
	}
	sel, err := NewSelector(context.Background(), cfg)
	if err != nil {
		t.Fatalf("new selector: %v", err)
	}
	return sel
}

func TestSelector_FullEngine(t *testing.T) {
	sel := newTestSelector(t, SelectorConfig{
		Layout: layoutFunc(func(context.Context, Model) ([]byte, error) { return fakePDF, nil }),
	})
	out, err := sel.Render(context.Background(), Model{Title: "T"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out.MediaType != MediaTypePDF || out.Tier != TierFullEngine || !bytes.Equal(out.Bytes, fakePDF) {
		t.Fatalf("unexpected output %+v", out.Tier)
	}
}

func TestSelector_LayoutFailureDegradesToConverter(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	layoutCalls := 0
	conv := &converterStub{}
	sel := newTestSelector(t, SelectorConfig{
		Layout: layoutFunc(func(context.Context, Model) ([]byte, error) {
			layoutCalls++
			return nil, NewError(KindRenderFailure, "glyph missing", nil)
		}),
		Converter: conv,
		Logger:    zap.New(core).Sugar(),
	})

	for i := 0; i < 2; i++ {
		out, err := sel.Render(context.Background(), Model{Title: "T"})
		if err != nil {
			t.Fatalf("render %d: %v", i, err)
		}
		if out.MediaType != MediaTypePDF || out.Tier != TierMarkupEngine {
			t.Fatalf("render %d: expected converted pdf, got %s/%s", i, out.MediaType, out.Tier)
		}
	}

	if layoutCalls != 1 {
		t.Fatalf("expected layout engine to be tried once, got %d", layoutCalls)
	}
	if conv.calls != 2 {
		t.Fatalf("expected two conversions, got %d", conv.calls)
	}
	if sel.Tier() != TierMarkupEngine {
		t.Fatalf("expected markup engine tier, got %s", sel.Tier())
	}
	if n := logs.FilterMessageSnippet("backend tier full_engine -> markup_engine").Len(); n != 1 {
		t.Fatalf("expected one tier transition log, got %d", n)
	}
}

func TestSelector_ConversionFailureReturnsMarkup(t *testing.T) {
	conv := &converterStub{err: errors.New("chromium crashed")}
	sel := newTestSelector(t, SelectorConfig{Converter: conv})

	if sel.Tier() != TierMarkupEngine {
		t.Fatalf("expected markup engine start tier, got %s", sel.Tier())
	}

	out, err := sel.Render(context.Background(), Model{Title: "T"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out.MediaType != MediaTypeHTML || out.Format != FormatHTML {
		t.Fatalf("expected html output, got %s", out.MediaType)
	}
	if !bytes.HasPrefix(out.Bytes, []byte("<!DOCTYPE html>")) {
		t.Fatalf("expected html bytes, got %q", out.Bytes)
	}

	if _, err := sel.Render(context.Background(), Model{Title: "T"}); err != nil {
		t.Fatalf("second render: %v", err)
	}
	if conv.calls != 1 {
		t.Fatalf("expected converter to be tried once, got %d", conv.calls)
	}
	if sel.Tier() != TierMarkupOnly {
		t.Fatalf("expected markup only tier, got %s", sel.Tier())
	}
}

func TestSelector_NonPDFConverterOutputIsFailure(t *testing.T) {
	conv := &converterStub{out: []byte("<html>not a pdf</html>")}
	sel := newTestSelector(t, SelectorConfig{Converter: conv})

	out, err := sel.Render(context.Background(), Model{Title: "T"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out.MediaType != MediaTypeHTML {
		t.Fatalf("media type must match content, got %s", out.MediaType)
	}
}

func TestSelector_PanicIsRenderFailure(t *testing.T) {
	sel := newTestSelector(t, SelectorConfig{
		Layout: layoutFunc(func(context.Context, Model) ([]byte, error) { panic("bad font") }),
	})

	out, err := sel.Render(context.Background(), Model{Title: "T"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if out.Tier != TierMarkupOnly || out.MediaType != MediaTypeHTML {
		t.Fatalf("expected markup only output, got %s", out.Tier)
	}
}

func TestSelector_ContextErrorDoesNotDegrade(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sel := newTestSelector(t, SelectorConfig{
		Layout: layoutFunc(func(context.Context, Model) ([]byte, error) {
			cancel()
			return nil, context.Canceled
		}),
		Converter: &converterStub{},
	})

	if _, err := sel.Render(ctx, Model{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
	if sel.Tier() != TierFullEngine {
		t.Fatalf("expected tier to stay full engine, got %s", sel.Tier())
	}
}

func TestSelector_StartupProbe(t *testing.T) {
	sel := newTestSelector(t, SelectorConfig{
		Converter: &converterStub{available: errors.New("no chromium")},
	})
	if sel.Tier() != TierMarkupOnly {
		t.Fatalf("expected markup only, got %s", sel.Tier())
	}

	if _, err := NewSelector(context.Background(), SelectorConfig{}); err == nil {
		t.Fatalf("expected error without markup renderer")
	}
}

func TestSelector_MarkupFailureIsRenderFailure(t *testing.T) {
	sel := newTestSelector(t, SelectorConfig{Markup: markupStub{err: errors.New("template")}})
	_, err := sel.Render(context.Background(), Model{})
	if !IsRenderFailure(err) {
		t.Fatalf("expected render failure, got %v", err)
	}
}

func TestSelector_ConcurrentDegradationIsMonotonic(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	sel := newTestSelector(t, SelectorConfig{
		Layout: layoutFunc(func(context.Context, Model) ([]byte, error) {
			return nil, errors.New("broken")
		}),
		Converter: &converterStub{},
		Logger:    zap.New(core).Sugar(),
	})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := sel.Render(context.Background(), Model{}); err != nil {
				t.Errorf("render: %v", err)
			}
		}()
	}
	wg.Wait()

	if sel.Tier() != TierMarkupEngine {
		t.Fatalf("expected markup engine tier, got %s", sel.Tier())
	}
	if n := logs.FilterMessageSnippet("backend tier").Len(); n != 1 {
		t.Fatalf("expected exactly one transition log, got %d", n)
	}
}
