package docpdf

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-docflow/document"
)

// WKHTMLTOPDFEngine invokes wkhtmltopdf for HTML-to-PDF conversion.
type WKHTMLTOPDFEngine struct {
	Command string
	Args    []string
	Env     []string
	Timeout time.Duration

	lookPath func(string) (string, error)
}

var _ document.AvailabilityChecker = WKHTMLTOPDFEngine{}

func (e WKHTMLTOPDFEngine) command() string {
	if cmd := strings.TrimSpace(e.Command); cmd != "" {
		return cmd
	}
	return "wkhtmltopdf"
}

// Available reports whether the wkhtmltopdf binary is on PATH.
func (e WKHTMLTOPDFEngine) Available(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	look := e.lookPath
	if look == nil {
		look = exec.LookPath
	}
	_, err := look(e.command())
	return err
}

// Render executes wkhtmltopdf using stdin/stdout for HTML/PDF.
func (e WKHTMLTOPDFEngine) Render(ctx context.Context, req RenderRequest) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cmdCtx := ctx
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		cmdCtx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	args, err := wkhtmltopdfArgs(req.Options)
	if err != nil {
		return nil, err
	}
	args = append(args, e.Args...)
	args = append(args, "-", "-")
	cmd := exec.CommandContext(cmdCtx, e.command(), args...)
	if len(e.Env) > 0 {
		cmd.Env = append(os.Environ(), e.Env...)
	}
	cmd.Stdin = bytes.NewReader(req.HTML)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		message := strings.TrimSpace(stderr.String())
		if message == "" {
			message = "wkhtmltopdf failed"
		}
		return nil, document.NewError(document.KindRenderFailure, message, err)
	}
	return stdout.Bytes(), nil
}

// wkhtmltopdfArgs maps page options onto wkhtmltopdf flags. Margins are
// passed in millimetres.
func wkhtmltopdfArgs(opts PageOptions) ([]string, error) {
	args := []string{"--quiet", "--encoding", "utf-8"}
	size := opts.PageSize
	if size == "" {
		size = DefaultPageSize
	}
	args = append(args, "--page-size", strings.ToUpper(size))
	if opts.Landscape {
		args = append(args, "--orientation", "Landscape")
	}
	if opts.PrintBackground != nil && !*opts.PrintBackground {
		args = append(args, "--no-background")
	}
	if !opts.AllowExternalAssets {
		args = append(args, "--disable-external-links", "--disable-local-file-access")
	}

	margins := []struct {
		flag  string
		value string
	}{
		{"--margin-top", opts.MarginTop},
		{"--margin-bottom", opts.MarginBottom},
		{"--margin-left", opts.MarginLeft},
		{"--margin-right", opts.MarginRight},
	}
	for _, margin := range margins {
		if margin.value == "" {
			continue
		}
		inches, err := parseLengthInches(margin.value)
		if err != nil {
			return nil, err
		}
		args = append(args, margin.flag, strconv.FormatFloat(inches*25.4, 'f', 2, 64)+"mm")
	}
	return args, nil
}
