package docfpdf

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goliatone/go-docflow/document"
	"github.com/jung-kurt/gofpdf"
)

const (
	marginSide   = 72.0
	marginTop    = 72.0
	marginBottom = 36.0
	footerOffset = -24.0
	footerSize   = 8.0
)

// FaceResolver supplies the body/bold face pair.
type FaceResolver interface {
	Resolve() document.FacePair
}

// Config configures the layout renderer.
type Config struct {
	Fonts              FaceResolver
	Logger             document.Logger
	DisableCompression bool
}

// Renderer implements document.LayoutRenderer on gofpdf.
type Renderer struct {
	fonts    FaceResolver
	logger   document.Logger
	compress bool
}

var _ document.LayoutRenderer = (*Renderer)(nil)

// New creates a Renderer. A nil Fonts falls back to the builtin face.
func New(cfg Config) *Renderer {
	logger := cfg.Logger
	if logger == nil {
		logger = document.NopLogger{}
	}
	return &Renderer{fonts: cfg.Fonts, logger: logger, compress: !cfg.DisableCompression}
}

// RenderLayout lays out the model on A4 pages and returns the PDF bytes.
// Engine errors are reported as render failures; no partial output is
// returned.
func (r *Renderer) RenderLayout(ctx context.Context, model document.Model) (out []byte, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	defer func() {
		if rec := recover(); rec != nil {
			out = nil
			err = document.NewError(document.KindRenderFailure, "layout engine panic", fmt.Errorf("%v", rec))
		}
	}()

	if r == nil {
		r = New(Config{})
	}
	faces := document.BuiltinFaces()
	if r.fonts != nil {
		faces = r.fonts.Resolve()
	}

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(marginSide, marginTop, marginSide)
	pdf.SetAutoPageBreak(true, marginBottom)
	pdf.SetTitle(model.Title, true)
	pdf.SetCreator("docflow", false)
	pdf.SetCompression(r.compress)
	if !model.GeneratedAt.IsZero() {
		pdf.SetCreationDate(model.GeneratedAt)
	}

	p := newPainter(pdf, faces)
	if model.Footer != "" {
		footer := model.Footer
		pdf.SetFooterFunc(func() {
			pdf.SetY(footerOffset)
			p.setFont(false, footerSize)
			p.setTextColor(colorMuted)
			pdf.CellFormat(0, footerSize+2, p.text(footer), "", 0, "C", false, 0, "")
		})
	}

	pdf.AddPage()
	for _, block := range model.Blocks {
		if pdf.Err() {
			break
		}
		p.block(model.Type, block)
	}
	if pdf.Err() {
		return nil, document.NewError(document.KindRenderFailure, "layout failed", pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, document.NewError(document.KindRenderFailure, "pdf output failed", err)
	}
	r.logf("docflow: layout rendered type=%s pages=%d bytes=%d", model.Type, pdf.PageNo(), buf.Len())
	return buf.Bytes(), nil
}

func (r *Renderer) logf(format string, args ...any) {
	if r.logger == nil {
		return
	}
	r.logger.Debugf(format, args...)
}

// painter maps content blocks to gofpdf flow primitives.
type painter struct {
	pdf     *gofpdf.Fpdf
	faces   document.FacePair
	unicode bool
	tr      func(string) string
}

func newPainter(pdf *gofpdf.Fpdf, faces document.FacePair) *painter {
	p := &painter{pdf: pdf, faces: faces, unicode: !faces.Body.Builtin}
	if p.unicode {
		pdf.AddUTF8FontFromBytes(faces.Body.Family, "", faces.Body.Data)
		pdf.AddUTF8FontFromBytes(faces.Bold.Family, "B", faces.Bold.Data)
		p.tr = newGlyphFilter(faces.Body.Data).filter
	} else {
		p.tr = pdf.UnicodeTranslatorFromDescriptor("")
	}
	return p
}

func (p *painter) text(s string) string {
	return p.tr(s)
}

func (p *painter) setFont(bold bool, size float64) {
	if bold {
		p.pdf.SetFont(p.faces.Bold.Family, "B", size)
		return
	}
	p.pdf.SetFont(p.faces.Body.Family, "", size)
}

func (p *painter) setTextColor(c rgb) {
	p.pdf.SetTextColor(c.R, c.G, c.B)
}

func (p *painter) setFillColor(c rgb) {
	p.pdf.SetFillColor(c.R, c.G, c.B)
}

func (p *painter) setDrawColor(c rgb) {
	p.pdf.SetDrawColor(c.R, c.G, c.B)
}

// split wraps already translated text to width w.
func (p *painter) split(s string, w float64) []string {
	if s == "" {
		return []string{""}
	}
	if p.unicode {
		return p.pdf.SplitText(s, w)
	}
	raw := p.pdf.SplitLines([]byte(s), w)
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		lines = append(lines, string(line))
	}
	return lines
}

func (p *painter) block(docType document.DocumentType, block document.ContentBlock) {
	switch b := block.(type) {
	case document.Heading:
		p.heading(b)
	case document.Paragraph:
		p.paragraph(b)
	case document.KeyValueList:
		p.lines(b)
	case document.Table:
		p.table(docType, b)
	case document.Spacer:
		p.pdf.Ln(b.Height)
	}
}

func (p *painter) heading(h document.Heading) {
	style := headingStyle(h.Level)
	if style.SpaceBefore > 0 {
		p.pdf.Ln(style.SpaceBefore)
	}
	p.setFont(true, style.Size)
	p.setTextColor(style.Color)
	p.pdf.MultiCell(0, style.Leading, p.text(h.Text), "", style.Align, false)
	if style.SpaceAfter > 0 {
		p.pdf.Ln(style.SpaceAfter)
	}
}

func (p *painter) paragraph(para document.Paragraph) {
	style := paragraphStyle(para.Style)
	p.setTextColor(style.Color)
	if para.Lead == "" {
		p.setFont(style.Bold, style.Size)
		p.pdf.MultiCell(0, style.Leading, p.text(para.Text), "", style.Align, false)
		return
	}

	p.setFont(true, style.Size)
	p.pdf.Write(style.Leading, p.text(para.Lead+" "))
	p.setFont(false, style.Size)
	p.pdf.Write(style.Leading, p.text(para.Text))
	p.pdf.Ln(style.Leading)
}

func (p *painter) lines(list document.KeyValueList) {
	style := paragraphStyle(list.Style)
	p.setFont(style.Bold, style.Size)
	p.setTextColor(style.Color)
	for _, line := range list.Lines {
		p.pdf.MultiCell(0, style.Leading, p.text(line), "", style.Align, false)
	}
}
