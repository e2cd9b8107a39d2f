package dochtml

import (
	"bytes"
	"embed"
	"strconv"

	"github.com/flosch/pongo2/v6"
	"github.com/goliatone/go-docflow/document"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer implements document.MarkupRenderer with pongo2 templates.
type Renderer struct {
	fragment *pongo2.Template
	page     *pongo2.Template
}

var _ document.MarkupRenderer = (*Renderer)(nil)

// New parses the embedded templates.
func New() (*Renderer, error) {
	fragment, err := loadTemplate("templates/fragment.html")
	if err != nil {
		return nil, err
	}
	page, err := loadTemplate("templates/page.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{fragment: fragment, page: page}, nil
}

// MustNew is New for program initialization.
func MustNew() *Renderer {
	r, err := New()
	if err != nil {
		panic(err)
	}
	return r
}

func loadTemplate(name string) (*pongo2.Template, error) {
	data, err := templateFS.ReadFile(name)
	if err != nil {
		return nil, err
	}
	tpl, err := pongo2.FromString(string(data))
	if err != nil {
		return nil, document.NewError(document.KindInternal, "parse template "+name, err)
	}
	return tpl, nil
}

// RenderFragment renders the self-contained document body.
func (r *Renderer) RenderFragment(model document.Model) (string, error) {
	if r == nil || r.fragment == nil {
		return "", document.NewError(document.KindInternal, "markup renderer not initialized", nil)
	}
	var buf bytes.Buffer
	err := r.fragment.ExecuteWriter(pongo2.Context{
		"blocks": blockViews(model.Blocks),
		"footer": model.Footer,
	}, &buf)
	if err != nil {
		return "", document.NewError(document.KindRenderFailure, "markup render failed", err)
	}
	return buf.String(), nil
}

// RenderPage wraps the fragment in a complete HTML document suitable for
// conversion or download.
func (r *Renderer) RenderPage(model document.Model) (string, error) {
	body, err := r.RenderFragment(model)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	err = r.page.ExecuteWriter(pongo2.Context{
		"title": model.Title,
		"body":  body,
	}, &buf)
	if err != nil {
		return "", document.NewError(document.KindRenderFailure, "markup page render failed", err)
	}
	return buf.String(), nil
}

func formatPx(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
