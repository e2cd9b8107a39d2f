package config

import (
	"strconv"
	"strings"
	"time"
)

// ApplyEnv overrides cfg from environment values looked up through getenv.
func ApplyEnv(cfg Config, getenv func(string) string) Config {
	if getenv == nil {
		return cfg
	}

	if port := getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}
	if host := getenv("HOST"); host != "" {
		cfg.Server.Host = host
	}
	if base := getenv("DOCFLOW_BASE_PATH"); base != "" {
		cfg.Server.BasePath = base
	}

	if enabled, ok := parseBool(getenv("DOCFLOW_AUTH_ENABLED")); ok {
		cfg.Auth.Enabled = enabled
	}
	if token := getenv("DOCFLOW_TELEGRAM_BOT_TOKEN"); token != "" {
		cfg.Auth.BotToken = token
	}
	if ttl, ok := parseDuration(getenv("DOCFLOW_SESSION_TTL")); ok {
		cfg.Auth.SessionTTL = ttl
	}
	if maxAge, ok := parseDuration(getenv("DOCFLOW_LOGIN_MAX_AGE")); ok {
		cfg.Auth.LoginMaxAge = maxAge
	}
	if secure, ok := parseBool(getenv("DOCFLOW_SECURE_COOKIES")); ok {
		cfg.Auth.SecureCookies = secure
	}

	if enabled, ok := parseBool(getenv("DOCFLOW_LAYOUT_ENABLED")); ok {
		cfg.Render.LayoutEnabled = enabled
	}
	if converter := strings.ToLower(strings.TrimSpace(getenv("DOCFLOW_CONVERTER"))); converter != "" {
		cfg.Render.Converter = converter
	}
	if path := getenv("DOCFLOW_CHROMIUM_PATH"); path != "" {
		cfg.Render.ChromiumPath = path
	}
	if args := getenv("DOCFLOW_CHROMIUM_ARGS"); args != "" {
		cfg.Render.ChromiumArgs = SplitCSV(args)
	}
	if path := getenv("DOCFLOW_WKHTMLTOPDF_PATH"); path != "" {
		cfg.Render.WKHTMLTOPDFPath = path
	}
	if timeout, ok := parseDuration(getenv("DOCFLOW_CONVERTER_TIMEOUT")); ok {
		cfg.Render.ConverterTimeout = timeout
	}
	if dirs := getenv("DOCFLOW_FONT_DIRS"); dirs != "" {
		cfg.Render.FontDirs = SplitCSV(dirs)
	}
	// DOCFLOW_WATERMARK=- disables the footer.
	if watermark, ok := lookup(getenv, "DOCFLOW_WATERMARK"); ok {
		cfg.Render.Watermark = watermark
	}
	if tmpl := getenv("DOCFLOW_FILENAME_TEMPLATE"); tmpl != "" {
		cfg.Render.FilenameTemplate = tmpl
	}

	if cors, ok := parseBool(getenv("DOCFLOW_CORS")); ok {
		cfg.Features.EnableCORS = cors
	}
	if debug, ok := parseBool(getenv("DOCFLOW_DEBUG")); ok {
		cfg.Features.Debug = debug
	}
	return cfg
}

// SplitCSV splits a comma separated list, dropping empty entries.
func SplitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

func parseBool(value string) (bool, bool) {
	if value == "" {
		return false, false
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, false
	}
	return parsed, true
}

// parseDuration accepts Go durations and plain seconds.
func parseDuration(value string) (time.Duration, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second, true
	}
	parsed, err := time.ParseDuration(value)
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}

func lookup(getenv func(string) string, key string) (string, bool) {
	value := getenv(key)
	if value == "" {
		return "", false
	}
	if value == "-" {
		return "", true
	}
	return value, true
}
