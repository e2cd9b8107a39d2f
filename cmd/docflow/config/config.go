package config

import "time"

// Config holds the docflow server configuration.
type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	Render   RenderConfig
	Features FeatureFlags
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host     string
	Port     string
	BasePath string
}

// AuthConfig holds login and session settings.
type AuthConfig struct {
	Enabled       bool
	BotToken      string
	SessionTTL    time.Duration
	LoginMaxAge   time.Duration
	SecureCookies bool
}

// RenderConfig holds backend selection settings.
type RenderConfig struct {
	LayoutEnabled    bool
	Converter        string
	ChromiumPath     string
	ChromiumArgs     []string
	WKHTMLTOPDFPath  string
	ConverterTimeout time.Duration
	FontDirs         []string
	Watermark        string
	FilenameTemplate string
}

// FeatureFlags toggles optional features.
type FeatureFlags struct {
	EnableCORS bool
	Debug      bool
}

// Converter names.
const (
	ConverterChromium    = "chromium"
	ConverterWKHTMLTOPDF = "wkhtmltopdf"
	ConverterNone        = "none"
)

// Defaults returns a Config with sensible defaults.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Host:     "localhost",
			Port:     "8080",
			BasePath: "/api",
		},
		Auth: AuthConfig{
			Enabled:     false,
			SessionTTL:  24 * time.Hour,
			LoginMaxAge: 24 * time.Hour,
		},
		Render: RenderConfig{
			LayoutEnabled:    true,
			Converter:        ConverterChromium,
			ConverterTimeout: 30 * time.Second,
			Watermark:        "Создано с помощью DocuFlow",
		},
		Features: FeatureFlags{
			EnableCORS: true,
		},
	}
}
