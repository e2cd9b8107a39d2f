package main

import (
	"context"
	"fmt"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-docflow/adapters/docapi"
	docfpdf "github.com/goliatone/go-docflow/adapters/fpdf"
	dochtml "github.com/goliatone/go-docflow/adapters/html"
	docpdf "github.com/goliatone/go-docflow/adapters/pdf"
	docrouter "github.com/goliatone/go-docflow/adapters/router"
	"github.com/goliatone/go-docflow/auth"
	"github.com/goliatone/go-docflow/cmd/docflow/config"
	"github.com/goliatone/go-docflow/document"
	"go.uber.org/zap"
)

// App holds the application dependencies.
type App struct {
	Config        config.Config
	Logger        *zap.SugaredLogger
	Fonts         *document.FontResolver
	Selector      *document.Selector
	Service       document.Service
	Sessions      *auth.SessionStore
	Handler       *docrouter.Handler
	chromium      *docpdf.ChromiumEngine
	subscriptions []dispatcher.Subscription
}

// NewApp creates and initializes the application.
func NewApp(ctx context.Context, cfg config.Config, logger *zap.SugaredLogger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	app := &App{Config: cfg, Logger: logger}

	candidates := document.DefaultFontCandidates()
	if len(cfg.Render.FontDirs) > 0 {
		candidates = append(document.CandidatesFromDirs(cfg.Render.FontDirs), candidates...)
	}
	app.Fonts = document.NewFontResolver(document.FontResolverConfig{
		Candidates: candidates,
		Logger:     logger,
	})

	markup, err := dochtml.New()
	if err != nil {
		return nil, fmt.Errorf("failed to load markup templates: %w", err)
	}

	var layout document.LayoutRenderer
	if cfg.Render.LayoutEnabled {
		layout = docfpdf.New(docfpdf.Config{Fonts: app.Fonts, Logger: logger})
	}

	converter, err := app.buildConverter(cfg.Render)
	if err != nil {
		return nil, err
	}

	selector, err := document.NewSelector(ctx, document.SelectorConfig{
		Layout:    layout,
		Markup:    markup,
		Converter: converter,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create backend selector: %w", err)
	}
	app.Selector = selector

	var guard document.Guard
	if cfg.Auth.Enabled {
		guard = auth.RequireSession()
	}

	app.Service = document.NewService(document.ServiceConfig{
		Selector:         selector,
		Markup:           markup,
		Guard:            guard,
		Logger:           logger,
		Watermark:        cfg.Render.Watermark,
		FilenameTemplate: cfg.Render.FilenameTemplate,
	})

	var verifier docapi.LoginVerifier
	if cfg.Auth.BotToken != "" {
		app.Sessions = auth.NewSessionStore(auth.SessionConfig{TTL: cfg.Auth.SessionTTL})
		verifier = auth.NewTelegramVerifier(auth.VerifierConfig{
			BotToken: cfg.Auth.BotToken,
			MaxAge:   cfg.Auth.LoginMaxAge,
		})
	} else if cfg.Auth.Enabled {
		logger.Errorf("docflow: auth enabled without a bot token, every render will be rejected")
	}

	app.Handler = docrouter.NewHandler(docrouter.Config{
		Service:       app.Service,
		Sessions:      app.Sessions,
		Verifier:      verifier,
		BasePath:      cfg.Server.BasePath,
		SecureCookies: cfg.Auth.SecureCookies,
		Logger:        logger,
	})

	subscriptions, err := RegisterDocumentHandlers(nil, app.Service)
	if err != nil {
		return nil, fmt.Errorf("failed to register document handlers: %w", err)
	}
	app.subscriptions = subscriptions

	return app, nil
}

func (a *App) buildConverter(cfg config.RenderConfig) (document.Converter, error) {
	var engine docpdf.Engine
	switch cfg.Converter {
	case config.ConverterChromium:
		a.chromium = &docpdf.ChromiumEngine{
			BrowserPath: cfg.ChromiumPath,
			Headless:    true,
			Timeout:     cfg.ConverterTimeout,
			Args:        cfg.ChromiumArgs,
		}
		engine = a.chromium
	case config.ConverterWKHTMLTOPDF:
		engine = docpdf.WKHTMLTOPDFEngine{
			Command: cfg.WKHTMLTOPDFPath,
			Timeout: cfg.ConverterTimeout,
		}
	case config.ConverterNone, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown converter %q", cfg.Converter)
	}
	return docpdf.NewConverter(engine), nil
}

// Close releases the subscriptions and the shared browser.
func (a *App) Close() {
	for _, sub := range a.subscriptions {
		sub.Unsubscribe()
	}
	if a.chromium != nil {
		if err := a.chromium.Close(); err != nil {
			a.Logger.Errorf("docflow: close chromium: %v", err)
		}
	}
	_ = a.Logger.Sync()
}
