package docapi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-docflow/auth"
	"github.com/goliatone/go-docflow/document"
	errorslib "github.com/goliatone/go-errors"
)

// DefaultBasePath prefixes every route.
const DefaultBasePath = "/api"

// Route suffixes under the base path.
const (
	RouteGenerate = "/documents/generate"
	RoutePreview  = "/documents/preview"
	RouteLogin    = "/auth/telegram/login"
	RouteProfile  = "/auth/user/profile"
	RouteLogout   = "/auth/logout"
	RouteCheck    = "/auth/check-auth"
)

// LoginVerifier validates login widget payloads.
type LoginVerifier interface {
	Verify(fields auth.LoginFields) (auth.TelegramUser, error)
}

// Config configures the shared controller. Sessions and Verifier are
// optional; without them the login endpoints answer not implemented and
// every request is anonymous.
type Config struct {
	Service        document.Service
	ActorProvider  document.ActorProvider
	Sessions       *auth.SessionStore
	Verifier       LoginVerifier
	BasePath       string
	CookieName     string
	SecureCookies  bool
	RequestDecoder RequestDecoder
	MaxBodyBytes   int64
	Logger         document.Logger
}

// Controller exposes document API handlers for multiple transports.
type Controller struct {
	service        document.Service
	actorProvider  document.ActorProvider
	sessions       *auth.SessionStore
	verifier       LoginVerifier
	basePath       string
	cookieName     string
	secureCookies  bool
	requestDecoder RequestDecoder
	maxBodyBytes   int64
	logger         document.Logger
}

// NewController creates a shared controller.
func NewController(cfg Config) *Controller {
	basePath := strings.TrimRight(cfg.BasePath, "/")
	if basePath == "" {
		basePath = DefaultBasePath
	}
	logger := cfg.Logger
	if logger == nil {
		logger = document.NopLogger{}
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	decoder := cfg.RequestDecoder
	if decoder == nil {
		decoder = JSONRequestDecoder{MaxBytes: maxBody}
	}
	actors := cfg.ActorProvider
	if actors == nil {
		actors = auth.SessionActorProvider{}
	}
	cookieName := cfg.CookieName
	if cookieName == "" {
		cookieName = auth.SessionCookie
	}
	return &Controller{
		service:        cfg.Service,
		actorProvider:  actors,
		sessions:       cfg.Sessions,
		verifier:       cfg.Verifier,
		basePath:       basePath,
		cookieName:     cookieName,
		secureCookies:  cfg.SecureCookies,
		requestDecoder: decoder,
		maxBodyBytes:   maxBody,
		logger:         logger,
	}
}

// BasePath returns the configured base path.
func (c *Controller) BasePath() string {
	if c == nil {
		return ""
	}
	return c.basePath
}

// Routes lists the method and full path of every endpoint.
func (c *Controller) Routes() []Route {
	base := c.BasePath()
	return []Route{
		{Method: http.MethodPost, Path: base + RouteGenerate},
		{Method: http.MethodPost, Path: base + RoutePreview},
		{Method: http.MethodGet, Path: base + RoutePreview},
		{Method: http.MethodPost, Path: base + RouteLogin},
		{Method: http.MethodGet, Path: base + RouteProfile},
		{Method: http.MethodPost, Path: base + RouteLogout},
		{Method: http.MethodGet, Path: base + RouteCheck},
	}
}

// Route is one registered endpoint.
type Route struct {
	Method string
	Path   string
}

// Serve routes document endpoints.
func (c *Controller) Serve(req Request, res Response) {
	if res == nil {
		return
	}
	if c == nil {
		WriteError(res, document.NewError(document.KindInternal, "handler is nil", nil))
		return
	}
	if req == nil {
		WriteError(res, document.NewError(document.KindInternal, "request is nil", nil))
		return
	}
	if !strings.HasPrefix(req.Path(), c.basePath) {
		writeNotFound(res)
		return
	}
	suffix := "/" + strings.Trim(strings.TrimPrefix(req.Path(), c.basePath), "/")

	switch suffix {
	case RouteGenerate:
		if requireMethod(req, res, http.MethodPost) {
			c.handleGenerate(req, res)
		}
	case RoutePreview:
		switch req.Method() {
		case http.MethodPost:
			c.handlePreview(req, res)
		case http.MethodGet:
			writeJSON(res, http.StatusOK, PingResponse{Message: "Preview endpoint is working", Method: http.MethodGet})
		default:
			methodNotAllowed(res, http.MethodGet, http.MethodPost)
		}
	case RouteLogin:
		if requireMethod(req, res, http.MethodPost) {
			c.handleLogin(req, res)
		}
	case RouteProfile:
		if requireMethod(req, res, http.MethodGet) {
			c.handleProfile(req, res)
		}
	case RouteLogout:
		if requireMethod(req, res, http.MethodPost) {
			c.handleLogout(req, res)
		}
	case RouteCheck:
		if requireMethod(req, res, http.MethodGet) {
			c.handleCheck(req, res)
		}
	default:
		writeNotFound(res)
	}
}

func (c *Controller) handleGenerate(req Request, res Response) {
	if c.service == nil {
		WriteError(res, document.NewError(document.KindNotImpl, "document service not configured", nil))
		return
	}
	decoded, err := c.requestDecoder.Decode(req)
	if err != nil {
		WriteError(res, err)
		return
	}
	ctx, actor, err := c.actorFromRequest(req)
	if err != nil {
		WriteError(res, err)
		return
	}

	artifact, err := c.service.Render(ctx, actor, decoded)
	if err != nil {
		WriteError(res, err)
		return
	}
	setDownloadHeaders(res, sanitizeFilename(artifact.SuggestedFilename, artifact.Format), artifact.MediaType)
	res.SetHeader("X-Docflow-Tier", artifact.Tier.String())
	res.WriteHeader(http.StatusOK)
	if _, err := res.Write(artifact.Bytes); err != nil {
		c.logger.Errorf("docflow: write artifact failed: %v", err)
	}
}

func (c *Controller) handlePreview(req Request, res Response) {
	if c.service == nil {
		WriteError(res, document.NewError(document.KindNotImpl, "document service not configured", nil))
		return
	}
	decoded, err := c.requestDecoder.Decode(req)
	if err != nil {
		WriteError(res, err)
		return
	}
	ctx, actor, err := c.actorFromRequest(req)
	if err != nil {
		WriteError(res, err)
		return
	}

	preview, err := c.service.Preview(ctx, actor, decoded)
	if err != nil {
		WriteError(res, err)
		return
	}
	writeJSON(res, http.StatusOK, PreviewResponse{
		Success:     true,
		Message:     "Предварительный просмотр готов",
		Type:        preview.Type,
		ItemsCount:  preview.ItemsCount,
		Total:       preview.Total,
		TotalText:   preview.TotalText,
		PreviewHTML: preview.HTML,
	})
}

func (c *Controller) handleLogin(req Request, res Response) {
	if c.sessions == nil || c.verifier == nil {
		WriteError(res, document.NewError(document.KindNotImpl, "login is disabled", nil))
		return
	}
	body := req.Body()
	if body == nil {
		WriteError(res, errBodyRequired)
		return
	}
	defer body.Close()

	fields, err := auth.DecodeLoginFields(io.LimitReader(body, c.maxBodyBytes))
	if err != nil {
		WriteError(res, err)
		return
	}
	user, err := c.verifier.Verify(fields)
	if err != nil {
		WriteError(res, err)
		return
	}

	session := c.sessions.Create(user)
	res.SetCookie(c.sessionCookie(session.Token, session.ExpiresAt))
	c.logger.Infof("docflow: login user=%d", user.ID)
	writeJSON(res, http.StatusOK, LoginResponse{
		Success:   true,
		Message:   "Успешная авторизация через Telegram",
		User:      user,
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	})
}

func (c *Controller) handleProfile(req Request, res Response) {
	session, ok := c.currentSession(req)
	if !ok {
		WriteError(res, document.NewError(document.KindUnauthorized, "user is not authenticated", nil))
		return
	}
	user := session.User
	writeJSON(res, http.StatusOK, ProfileResponse{Authenticated: true, User: &user})
}

func (c *Controller) handleLogout(req Request, res Response) {
	if token := sessionToken(req, c.cookieName); token != "" {
		c.sessions.Delete(token)
	}
	res.SetCookie(c.sessionCookie("", time.Unix(0, 0)))
	writeJSON(res, http.StatusOK, StatusResponse{Success: true, Message: "Успешный выход из системы"})
}

func (c *Controller) handleCheck(req Request, res Response) {
	session, ok := c.currentSession(req)
	if !ok {
		writeJSON(res, http.StatusOK, ProfileResponse{})
		return
	}
	user := session.User
	writeJSON(res, http.StatusOK, ProfileResponse{Authenticated: true, User: &user})
}

func (c *Controller) currentSession(req Request) (auth.Session, bool) {
	if c.sessions == nil {
		return auth.Session{}, false
	}
	return c.sessions.Get(sessionToken(req, c.cookieName))
}

func (c *Controller) actorFromRequest(req Request) (context.Context, document.Actor, error) {
	ctx := req.Context()
	if session, ok := c.currentSession(req); ok {
		ctx = auth.WithSession(ctx, session)
	}
	actor, err := c.actorProvider.FromContext(ctx)
	if err != nil {
		return ctx, document.Actor{}, document.NewError(document.KindUnauthorized, "actor resolution failed", err)
	}
	return ctx, actor, nil
}

func (c *Controller) sessionCookie(value string, expires time.Time) *http.Cookie {
	cookie := &http.Cookie{
		Name:     c.cookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   c.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
	if value == "" {
		cookie.MaxAge = -1
	}
	return cookie
}

func requireMethod(req Request, res Response, method string) bool {
	if req.Method() == method {
		return true
	}
	methodNotAllowed(res, method)
	return false
}

func methodNotAllowed(res Response, methods ...string) {
	res.SetHeader("Allow", strings.Join(methods, ","))
	writeJSON(res, http.StatusMethodNotAllowed, ErrorResponse{Error: ErrorBody{Message: "method not allowed", Code: "method_not_allowed"}})
}

func writeNotFound(res Response) {
	writeJSON(res, http.StatusNotFound, ErrorResponse{Error: ErrorBody{Message: "not found", Code: "not_found"}})
}

// WriteError writes err as a JSON error body with a matching status code.
func WriteError(res Response, err error) {
	if err == nil {
		res.WriteHeader(http.StatusNoContent)
		return
	}
	ge := document.AsGoError(err)
	writeJSON(res, statusForError(ge), ErrorResponse{
		Error: ErrorBody{
			Message: ge.Message,
			Code:    ge.TextCode,
		},
	})
}

func writeJSON(res Response, status int, payload any) {
	_ = res.WriteJSON(status, payload)
}

func statusForError(err *errorslib.Error) int {
	if err == nil {
		return http.StatusInternalServerError
	}
	if err.TextCode == "not_implemented" {
		return http.StatusNotImplemented
	}
	switch err.Category {
	case errorslib.CategoryValidation:
		return http.StatusBadRequest
	case errorslib.CategoryAuthz:
		return http.StatusUnauthorized
	case errorslib.CategoryOperation:
		switch err.TextCode {
		case "timeout":
			return http.StatusGatewayTimeout
		case "canceled":
			return http.StatusRequestTimeout
		default:
			return http.StatusInternalServerError
		}
	default:
		return http.StatusInternalServerError
	}
}

func sanitizeFilename(filename string, format document.Format) string {
	name := strings.TrimSpace(filename)
	name = strings.ReplaceAll(name, "\"", "")
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	if name == "" {
		if format != "" {
			name = fmt.Sprintf("document.%s", format)
		} else {
			name = "document"
		}
	}
	return name
}

func setDownloadHeaders(res Response, filename, contentType string) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	res.SetHeader("Content-Type", contentType)
	res.SetHeader("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
}
