package docpdf

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/goliatone/go-docflow/document"
)

const defaultPDFScale = 1.0

var pdfLengthPattern = regexp.MustCompile(`^\s*([0-9]+(?:\.[0-9]+)?)\s*([a-zA-Z]*)\s*$`)

var pdfPageSizesInches = map[string]struct {
	width  float64
	height float64
}{
	"A3":     {width: 11.69, height: 16.54},
	"A4":     {width: 8.27, height: 11.69},
	"A5":     {width: 5.83, height: 8.27},
	"LETTER": {width: 8.5, height: 11},
}

// chromiumBinaries are looked up on PATH when BrowserPath is empty.
var chromiumBinaries = []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser"}

// ChromiumEngine renders PDF output using a shared headless Chromium instance.
type ChromiumEngine struct {
	BrowserPath string
	Headless    bool
	Timeout     time.Duration
	Args        []string

	lookPath func(string) (string, error)

	initOnce      sync.Once
	allocCtx      context.Context
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

var _ document.AvailabilityChecker = (*ChromiumEngine)(nil)

// Available reports whether a Chromium binary can be located.
func (e *ChromiumEngine) Available(ctx context.Context) error {
	if e == nil {
		return errors.New("chromium engine is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := e.binary()
	return err
}

func (e *ChromiumEngine) binary() (string, error) {
	look := e.lookPath
	if look == nil {
		look = exec.LookPath
	}
	if path := strings.TrimSpace(e.BrowserPath); path != "" {
		return look(path)
	}
	for _, candidate := range chromiumBinaries {
		if path, err := look(candidate); err == nil {
			return path, nil
		}
	}
	return "", errors.New("chromium binary not found")
}

// Render prints the HTML page to PDF.
func (e *ChromiumEngine) Render(ctx context.Context, req RenderRequest) ([]byte, error) {
	if e == nil {
		return nil, document.NewError(document.KindInternal, "chromium engine is nil", nil)
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if err := e.ensureBrowser(); err != nil {
		return nil, document.NewError(document.KindRenderFailure, "chromium engine init failed", err)
	}

	tabCtx, cancel := chromedp.NewContext(e.browserCtx)
	defer cancel()

	execCtx, cancelReq := context.WithCancel(tabCtx)
	defer cancelReq()
	go func() {
		select {
		case <-ctx.Done():
			cancelReq()
		case <-execCtx.Done():
		}
	}()
	if e.Timeout > 0 {
		var cancelTimeout context.CancelFunc
		execCtx, cancelTimeout = context.WithTimeout(execCtx, e.Timeout)
		defer cancelTimeout()
	}

	params, err := buildPrintToPDFParams(req.Options)
	if err != nil {
		return nil, err
	}

	var pdf []byte
	actions := []chromedp.Action{}
	if !req.Options.AllowExternalAssets {
		actions = append(actions,
			network.Enable(),
			network.SetBlockedURLs([]string{"http://*", "https://*"}),
		)
	}
	actions = append(actions,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, string(req.HTML)).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = params.Do(ctx)
			return err
		}),
	)

	if err := chromedp.Run(execCtx, actions...); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, document.NewError(document.KindRenderFailure, "chromium pdf render failed", err)
	}
	return pdf, nil
}

// Close releases Chromium resources if they have been initialized.
func (e *ChromiumEngine) Close() error {
	if e == nil {
		return nil
	}
	if e.browserCancel != nil {
		e.browserCancel()
	}
	if e.allocCancel != nil {
		e.allocCancel()
	}
	return nil
}

func (e *ChromiumEngine) ensureBrowser() error {
	e.initOnce.Do(func() {
		options := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
		if e.BrowserPath != "" {
			options = append(options, chromedp.ExecPath(e.BrowserPath))
		}
		options = append(options, chromedp.Flag("headless", e.Headless))
		options = append(options, allocatorOptionsFromArgs(e.Args)...)

		e.allocCtx, e.allocCancel = chromedp.NewExecAllocator(context.Background(), options...)
		e.browserCtx, e.browserCancel = chromedp.NewContext(e.allocCtx)
	})
	if e.allocCtx == nil || e.browserCtx == nil {
		return errors.New("chromium allocator unavailable")
	}
	return nil
}

func buildPrintToPDFParams(opts PageOptions) (*page.PrintToPDFParams, error) {
	params := page.PrintToPDF()

	scale := opts.Scale
	if scale == 0 {
		scale = defaultPDFScale
	}
	if scale < 0.1 || scale > 2.0 {
		return nil, document.NewError(document.KindInvalidRequest, "pdf scale must be between 0.1 and 2.0", nil)
	}
	params = params.WithScale(scale).WithLandscape(opts.Landscape)
	if opts.PrintBackground != nil {
		params = params.WithPrintBackground(*opts.PrintBackground)
	}

	sizeName := opts.PageSize
	if sizeName == "" {
		sizeName = DefaultPageSize
	}
	size, ok := pdfPageSizesInches[strings.ToUpper(sizeName)]
	if !ok {
		return nil, document.NewError(document.KindInvalidRequest, fmt.Sprintf("unsupported pdf page size: %s", sizeName), nil)
	}
	params = params.WithPaperWidth(size.width).WithPaperHeight(size.height)

	margins := []struct {
		value string
		apply func(float64)
	}{
		{opts.MarginTop, func(v float64) { params = params.WithMarginTop(v) }},
		{opts.MarginBottom, func(v float64) { params = params.WithMarginBottom(v) }},
		{opts.MarginLeft, func(v float64) { params = params.WithMarginLeft(v) }},
		{opts.MarginRight, func(v float64) { params = params.WithMarginRight(v) }},
	}
	for _, margin := range margins {
		if margin.value == "" {
			continue
		}
		value, err := parseLengthInches(margin.value)
		if err != nil {
			return nil, err
		}
		margin.apply(value)
	}

	return params, nil
}

func parseLengthInches(value string) (float64, error) {
	matches := pdfLengthPattern.FindStringSubmatch(value)
	if len(matches) != 3 {
		return 0, document.NewError(document.KindInvalidRequest, fmt.Sprintf("invalid pdf length: %s", value), nil)
	}

	unit := strings.ToLower(matches[2])
	if unit == "" {
		unit = "in"
	}
	amount, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0, document.NewError(document.KindInvalidRequest, fmt.Sprintf("invalid pdf length: %s", value), err)
	}

	switch unit {
	case "in":
		return amount, nil
	case "cm":
		return amount / 2.54, nil
	case "mm":
		return amount / 25.4, nil
	case "pt":
		return amount / 72.0, nil
	case "px":
		return amount / 96.0, nil
	default:
		return 0, document.NewError(document.KindInvalidRequest, fmt.Sprintf("unsupported pdf length unit: %s", unit), nil)
	}
}

func allocatorOptionsFromArgs(args []string) []chromedp.ExecAllocatorOption {
	options := make([]chromedp.ExecAllocatorOption, 0, len(args))
	for _, arg := range args {
		arg = strings.TrimPrefix(strings.TrimSpace(arg), "--")
		if arg == "" {
			continue
		}
		if name, value, ok := strings.Cut(arg, "="); ok {
			options = append(options, chromedp.Flag(name, value))
			continue
		}
		options = append(options, chromedp.Flag(arg, true))
	}
	return options
}
