package command

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	dochtml "github.com/goliatone/go-docflow/adapters/html"
	"github.com/goliatone/go-docflow/document"
)

func artifactFor(req document.DocumentRequest) document.RenderedArtifact {
	return document.RenderedArtifact{
		Bytes:             []byte("%PDF-1.4"),
		MediaType:         document.MediaTypePDF,
		SuggestedFilename: string(req.Type) + ".pdf",
	}
}

func renderingService() *stubService {
	return &stubService{
		render: func(ctx context.Context, actor document.Actor, req document.DocumentRequest) (document.RenderedArtifact, error) {
			return artifactFor(req), nil
		},
	}
}

func TestBatchCommand_RunHonorsLimits(t *testing.T) {
	var written []string
	writer := ArtifactWriterFunc(func(ctx context.Context, artifact document.RenderedArtifact) error {
		written = append(written, artifact.SuggestedFilename)
		return nil
	})
	loader := func(ctx context.Context) ([]BatchRequest, error) {
		return []BatchRequest{
			{Request: document.DocumentRequest{Type: document.TypeInvoice}},
			{Request: document.DocumentRequest{Type: document.TypeContract}},
		}, nil
	}

	cmd := NewBatchRenderCommand(renderingService(), writer,
		WithBatchLoader(loader),
		WithBatchLimits(BatchLimits{MaxRequests: 1, MinInterval: time.Millisecond}),
	)
	cmd.sleep = func(time.Duration) {}

	count, err := cmd.Run(context.Background(), "")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if count != 1 || len(written) != 1 || written[0] != "invoice.pdf" {
		t.Fatalf("expected one invoice artifact, got %d %v", count, written)
	}
}

func TestBatchCommand_StopsAtFirstFailure(t *testing.T) {
	svc := &stubService{
		render: func(ctx context.Context, actor document.Actor, req document.DocumentRequest) (document.RenderedArtifact, error) {
			if req.Type == "unknown" {
				return document.RenderedArtifact{}, document.NewError(document.KindUnsupportedType, "unsupported", nil)
			}
			return artifactFor(req), nil
		},
	}
	loader := func(ctx context.Context) ([]BatchRequest, error) {
		return []BatchRequest{
			{Request: document.DocumentRequest{Type: document.TypePriceList}},
			{Request: document.DocumentRequest{Type: "unknown"}},
			{Request: document.DocumentRequest{Type: document.TypeInvoice}},
		}, nil
	}
	writes := 0
	writer := ArtifactWriterFunc(func(ctx context.Context, artifact document.RenderedArtifact) error {
		writes++
		return nil
	})

	count, err := NewBatchRenderCommand(svc, writer, WithBatchLoader(loader)).Run(context.Background(), "")
	if !document.IsInvalidRequest(err) {
		t.Fatalf("expected invalid request, got %v", err)
	}
	if count != 1 || writes != 1 {
		t.Fatalf("expected one artifact before failure, got count=%d writes=%d", count, writes)
	}
}

func TestBatchCommand_LoadsFileAndWritesDir(t *testing.T) {
	dir := t.TempDir()
	from := filepath.Join(dir, "batch.json")
	payload := `[{"actor":{"ID":"cli"},"request":{"type":"pricelist","items":[{"name":"Widget","price":9.99}]}}]`
	if err := os.WriteFile(from, []byte(payload), 0o644); err != nil {
		t.Fatalf("write batch: %v", err)
	}
	out := filepath.Join(dir, "out")

	count, err := NewBatchRenderCommand(renderingService(), DirWriter{Dir: out}).Run(context.Background(), from)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 artifact, got %d", count)
	}
	data, err := os.ReadFile(filepath.Join(out, "pricelist.pdf"))
	if err != nil {
		t.Fatalf("read artifact: %v", err)
	}
	if string(data) != "%PDF-1.4" {
		t.Fatalf("unexpected artifact content %q", data)
	}
}

func TestBatchCommand_SameSecondFilenamesDoNotOverwrite(t *testing.T) {
	markup := dochtml.MustNew()
	selector, err := document.NewSelector(context.Background(), document.SelectorConfig{Markup: markup})
	if err != nil {
		t.Fatalf("selector: %v", err)
	}
	fixed := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)
	svc := document.NewService(document.ServiceConfig{
		Selector: selector,
		Markup:   markup,
		Now:      func() time.Time { return fixed },
	})

	dir := t.TempDir()
	from := filepath.Join(dir, "batch.json")
	payload := `[
		{"request":{"type":"pricelist","items":[{"name":"First","price":1}]}},
		{"request":{"type":"pricelist","items":[{"name":"Second","price":2}]}}
	]`
	if err := os.WriteFile(from, []byte(payload), 0o644); err != nil {
		t.Fatalf("write batch: %v", err)
	}
	out := filepath.Join(dir, "out")

	count, err := NewBatchRenderCommand(svc, DirWriter{Dir: out}).Run(context.Background(), from)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 artifacts, got %d", count)
	}
	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 files on disk, got %d", len(entries))
	}
	if _, err := os.Stat(filepath.Join(out, "pricelist_20240305_140709.html")); err != nil {
		t.Fatalf("expected first filename kept: %v", err)
	}
	second, err := os.ReadFile(filepath.Join(out, "pricelist_20240305_140709-2.html"))
	if err != nil {
		t.Fatalf("expected suffixed second filename: %v", err)
	}
	if !strings.Contains(string(second), "Second") {
		t.Fatalf("expected second artifact content in suffixed file")
	}
}

func TestBatchCommand_InvalidFile(t *testing.T) {
	from := filepath.Join(t.TempDir(), "batch.json")
	if err := os.WriteFile(from, []byte("{"), 0o644); err != nil {
		t.Fatalf("write batch: %v", err)
	}
	_, err := NewBatchRenderCommand(renderingService(), DirWriter{}).Run(context.Background(), from)
	if err == nil {
		t.Fatalf("expected invalid JSON error")
	}
}

func TestBatchCommand_RequiresDependencies(t *testing.T) {
	if _, err := NewBatchRenderCommand(nil, DirWriter{}).Run(context.Background(), ""); err == nil {
		t.Fatalf("expected missing service error")
	}
	if _, err := NewBatchRenderCommand(renderingService(), nil).Run(context.Background(), ""); err == nil {
		t.Fatalf("expected missing writer error")
	}
	if _, err := NewBatchRenderCommand(renderingService(), DirWriter{}).Run(context.Background(), ""); err == nil {
		t.Fatalf("expected missing loader error")
	}
	var nilWriter ArtifactWriterFunc
	if err := nilWriter.WriteArtifact(context.Background(), document.RenderedArtifact{}); err == nil {
		t.Fatalf("expected nil writer error")
	}
}
