package docpdf

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/goliatone/go-docflow/document"
)

func TestConverter_AppliesDefaultGeometry(t *testing.T) {
	var got RenderRequest
	conv := Converter{Engine: EngineFunc(func(ctx context.Context, req RenderRequest) ([]byte, error) {
		got = req
		return []byte("%PDF-1.4"), nil
	})}

	out, err := conv.Convert(context.Background(), []byte("<html>ok</html>"))
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if string(out) != "%PDF-1.4" {
		t.Fatalf("unexpected output %q", out)
	}
	if string(got.HTML) != "<html>ok</html>" {
		t.Fatalf("unexpected html %q", got.HTML)
	}
	if got.Options.PageSize != "A4" || got.Options.MarginTop != "72pt" || got.Options.MarginBottom != "36pt" {
		t.Fatalf("unexpected options %+v", got.Options)
	}
}

func TestConverter_RejectsNonPDFOutput(t *testing.T) {
	conv := NewConverter(EngineFunc(func(ctx context.Context, req RenderRequest) ([]byte, error) {
		return []byte("<html>"), nil
	}))
	_, err := conv.Convert(context.Background(), []byte("<html></html>"))
	if !document.IsRenderFailure(err) {
		t.Fatalf("expected render failure, got %v", err)
	}
}

func TestConverter_MaxHTMLBytes(t *testing.T) {
	conv := Converter{
		Engine: EngineFunc(func(ctx context.Context, req RenderRequest) ([]byte, error) {
			return []byte("%PDF"), nil
		}),
		MaxHTMLBytes: 4,
	}
	if _, err := conv.Convert(context.Background(), []byte("0123456789")); err == nil {
		t.Fatalf("expected size error")
	}
}

func TestConverter_Available(t *testing.T) {
	if err := (Converter{}).Available(context.Background()); document.KindFromError(err) != document.KindNotImpl {
		t.Fatalf("expected not_implemented without engine, got %v", err)
	}
	if err := NewConverter(EngineFunc(nil)).Available(context.Background()); err != nil {
		t.Fatalf("engines without a probe are available: %v", err)
	}
	engine := WKHTMLTOPDFEngine{lookPath: func(string) (string, error) { return "", errors.New("missing") }}
	if err := NewConverter(engine).Available(context.Background()); err == nil {
		t.Fatalf("expected probe error from engine")
	}
}

func TestWKHTMLTOPDFArgs(t *testing.T) {
	args, err := wkhtmltopdfArgs(DefaultPageOptions())
	if err != nil {
		t.Fatalf("args: %v", err)
	}
	want := []string{
		"--quiet", "--encoding", "utf-8",
		"--page-size", "A4",
		"--disable-external-links", "--disable-local-file-access",
		"--margin-top", "25.40mm",
		"--margin-bottom", "12.70mm",
		"--margin-left", "25.40mm",
		"--margin-right", "25.40mm",
	}
	if !reflect.DeepEqual(args, want) {
		t.Fatalf("unexpected args\n got %v\nwant %v", args, want)
	}
}

func TestWKHTMLTOPDFEngine_MissingBinaryIsRenderFailure(t *testing.T) {
	engine := WKHTMLTOPDFEngine{Command: "/nonexistent/wkhtmltopdf"}
	_, err := engine.Render(context.Background(), RenderRequest{HTML: []byte("<html></html>")})
	if !document.IsRenderFailure(err) {
		t.Fatalf("expected render failure, got %v", err)
	}
}
