package docapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-docflow/auth"
	"github.com/goliatone/go-docflow/document"
)

type stubRequest struct {
	ctx     context.Context
	method  string
	path    string
	headers map[string]string
	cookies map[string]string
	body    string
	noBody  bool
}

func (r stubRequest) Context() context.Context {
	if r.ctx == nil {
		return context.Background()
	}
	return r.ctx
}
func (r stubRequest) Method() string            { return r.method }
func (r stubRequest) Path() string              { return r.path }
func (r stubRequest) Header(name string) string { return r.headers[name] }
func (r stubRequest) Query(name string) string  { return "" }
func (r stubRequest) Cookie(name string) string { return r.cookies[name] }
func (r stubRequest) Body() io.ReadCloser {
	if r.noBody {
		return nil
	}
	return io.NopCloser(strings.NewReader(r.body))
}

type stubResponse struct {
	status  int
	headers http.Header
	cookies []*http.Cookie
	body    strings.Builder
}

func newStubResponse() *stubResponse {
	return &stubResponse{headers: http.Header{}}
}

func (r *stubResponse) SetHeader(name, value string)  { r.headers.Set(name, value) }
func (r *stubResponse) SetCookie(cookie *http.Cookie) { r.cookies = append(r.cookies, cookie) }
func (r *stubResponse) WriteHeader(status int) {
	if r.status == 0 {
		r.status = status
	}
}
func (r *stubResponse) Write(data []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.body.Write(data)
}
func (r *stubResponse) WriteJSON(status int, payload any) error {
	r.SetHeader("Content-Type", "application/json")
	r.WriteHeader(status)
	return json.NewEncoder(&r.body).Encode(payload)
}

type stubService struct {
	artifact document.RenderedArtifact
	preview  document.PreviewResult
	err      error
	actor    document.Actor
	req      document.DocumentRequest
}

func (s *stubService) Render(ctx context.Context, actor document.Actor, req document.DocumentRequest) (document.RenderedArtifact, error) {
	s.actor, s.req = actor, req
	return s.artifact, s.err
}

func (s *stubService) Preview(ctx context.Context, actor document.Actor, req document.DocumentRequest) (document.PreviewResult, error) {
	s.actor, s.req = actor, req
	return s.preview, s.err
}

func decodeError(t *testing.T, res *stubResponse) ErrorBody {
	t.Helper()
	var payload ErrorResponse
	if err := json.Unmarshal([]byte(res.body.String()), &payload); err != nil {
		t.Fatalf("decode error body: %v (%s)", err, res.body.String())
	}
	return payload.Error
}

func TestGenerate_WritesDownload(t *testing.T) {
	svc := &stubService{artifact: document.RenderedArtifact{
		Bytes:             []byte("%PDF-1.4"),
		MediaType:         document.MediaTypePDF,
		SuggestedFilename: "invoice_42_20240305_140709.pdf",
		Format:            document.FormatPDF,
		Tier:              document.TierFullEngine,
	}}
	c := NewController(Config{Service: svc})
	res := newStubResponse()

	c.Serve(stubRequest{method: http.MethodPost, path: "/api/documents/generate", body: `{"type":"invoice","formData":{"invoiceNumber":"42"},"items":[{"name":"A","quantity":2,"price":5}],"total":999}`}, res)

	if res.status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", res.status, res.body.String())
	}
	if got := res.headers.Get("Content-Disposition"); got != `attachment; filename="invoice_42_20240305_140709.pdf"` {
		t.Fatalf("unexpected disposition %q", got)
	}
	if res.headers.Get("Content-Type") != document.MediaTypePDF || res.headers.Get("X-Docflow-Tier") != "full_engine" {
		t.Fatalf("unexpected headers %v", res.headers)
	}
	if res.body.String() != "%PDF-1.4" {
		t.Fatalf("unexpected body %q", res.body.String())
	}
	if svc.req.Type != document.TypeInvoice || len(svc.req.Items) != 1 || svc.req.Items[0].Qty() != 2 {
		t.Fatalf("unexpected decoded request %+v", svc.req)
	}
}

func TestGenerate_ErrorStatuses(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{name: "unsupported", err: document.NewError(document.KindUnsupportedType, "unsupported document type", nil), status: http.StatusBadRequest, code: "unsupported_document_type"},
		{name: "invalid", err: document.NewError(document.KindInvalidRequest, "item 1: negative price", nil), status: http.StatusBadRequest, code: "invalid_request"},
		{name: "unauthorized", err: document.NewError(document.KindUnauthorized, "authentication required", nil), status: http.StatusUnauthorized, code: "unauthorized"},
		{name: "render", err: document.NewError(document.KindRenderFailure, "markup render failed", nil), status: http.StatusInternalServerError, code: "render_failure"},
		{name: "not implemented", err: document.NewError(document.KindNotImpl, "off", nil), status: http.StatusNotImplemented, code: "not_implemented"},
		{name: "timeout", err: context.DeadlineExceeded, status: http.StatusGatewayTimeout, code: "timeout"},
		{name: "internal", err: errors.New("boom"), status: http.StatusInternalServerError, code: "internal"},
	}
	for _, tc := range cases {
		c := NewController(Config{Service: &stubService{err: document.AsGoError(tc.err)}})
		res := newStubResponse()
		c.Serve(stubRequest{method: http.MethodPost, path: "/api/documents/generate", body: `{"type":"x"}`}, res)
		if res.status != tc.status {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.status, res.status)
		}
		if body := decodeError(t, res); body.Code != tc.code {
			t.Fatalf("%s: expected code %s, got %s", tc.name, tc.code, body.Code)
		}
		if res.headers.Get("Content-Disposition") != "" {
			t.Fatalf("%s: failed render must not set download headers", tc.name)
		}
	}
}

func TestGenerate_BodyRequired(t *testing.T) {
	c := NewController(Config{Service: &stubService{}})
	for _, req := range []stubRequest{
		{method: http.MethodPost, path: "/api/documents/generate", body: ""},
		{method: http.MethodPost, path: "/api/documents/generate", noBody: true},
		{method: http.MethodPost, path: "/api/documents/generate", body: "{not json"},
	} {
		res := newStubResponse()
		c.Serve(req, res)
		if res.status != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", res.status)
		}
		if decodeError(t, res).Code != "invalid_request" {
			t.Fatalf("expected invalid_request code")
		}
	}
}

func TestPreview_ReturnsJSON(t *testing.T) {
	svc := &stubService{preview: document.PreviewResult{
		Type:       document.TypeInvoice,
		HTML:       "<div>preview</div>",
		ItemsCount: 2,
		Total:      3.3,
		TotalText:  "3.30 RUB",
	}}
	c := NewController(Config{Service: svc})
	res := newStubResponse()
	c.Serve(stubRequest{method: http.MethodPost, path: "/api/documents/preview/", body: `{"type":"invoice"}`}, res)

	var payload PreviewResponse
	if err := json.Unmarshal([]byte(res.body.String()), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !payload.Success || payload.PreviewHTML != "<div>preview</div>" || payload.ItemsCount != 2 || payload.Total != 3.3 {
		t.Fatalf("unexpected preview payload %+v", payload)
	}
}

func TestPreview_GetPing(t *testing.T) {
	c := NewController(Config{})
	res := newStubResponse()
	c.Serve(stubRequest{method: http.MethodGet, path: "/api/documents/preview"}, res)
	if res.status != http.StatusOK || !strings.Contains(res.body.String(), "Preview endpoint is working") {
		t.Fatalf("unexpected ping response %d %s", res.status, res.body.String())
	}
}

func TestServe_RoutingErrors(t *testing.T) {
	c := NewController(Config{Service: &stubService{}})

	res := newStubResponse()
	c.Serve(stubRequest{method: http.MethodGet, path: "/api/documents/generate"}, res)
	if res.status != http.StatusMethodNotAllowed || res.headers.Get("Allow") != http.MethodPost {
		t.Fatalf("expected 405 with Allow, got %d %v", res.status, res.headers)
	}

	res = newStubResponse()
	c.Serve(stubRequest{method: http.MethodGet, path: "/api/unknown"}, res)
	if res.status != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", res.status)
	}

	res = newStubResponse()
	c.Serve(stubRequest{method: http.MethodGet, path: "/other"}, res)
	if res.status != http.StatusNotFound {
		t.Fatalf("expected 404 outside base path, got %d", res.status)
	}
}

const testBotToken = "123:abc"

func loginBody(t *testing.T) string {
	t.Helper()
	fields := auth.LoginFields{"id": "42", "username": "ivan", "first_name": "Ivan", "auth_date": "1700000000"}
	hash := auth.Sign(testBotToken, fields)
	return `{"id":42,"username":"ivan","first_name":"Ivan","auth_date":1700000000,"hash":"` + hash + `"}`
}

func newAuthController(svc document.Service) (*Controller, *auth.SessionStore) {
	sessions := auth.NewSessionStore(auth.SessionConfig{TTL: time.Hour, IDGenerator: func() string { return "tok" }})
	return NewController(Config{
		Service:  svc,
		Sessions: sessions,
		Verifier: auth.NewTelegramVerifier(auth.VerifierConfig{BotToken: testBotToken}),
	}), sessions
}

func TestLoginProfileLogout(t *testing.T) {
	svc := &stubService{}
	c, sessions := newAuthController(svc)

	res := newStubResponse()
	c.Serve(stubRequest{method: http.MethodPost, path: "/api/auth/telegram/login", body: loginBody(t)}, res)
	if res.status != http.StatusOK {
		t.Fatalf("login: expected 200, got %d %s", res.status, res.body.String())
	}
	if len(res.cookies) != 1 || res.cookies[0].Value != "tok" || !res.cookies[0].HttpOnly {
		t.Fatalf("expected session cookie, got %+v", res.cookies)
	}

	res = newStubResponse()
	c.Serve(stubRequest{method: http.MethodGet, path: "/api/auth/user/profile", cookies: map[string]string{auth.SessionCookie: "tok"}}, res)
	var profile ProfileResponse
	if err := json.Unmarshal([]byte(res.body.String()), &profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if !profile.Authenticated || profile.User == nil || profile.User.Username != "ivan" {
		t.Fatalf("unexpected profile %+v", profile)
	}

	res = newStubResponse()
	c.Serve(stubRequest{method: http.MethodPost, path: "/api/documents/generate", body: `{"type":"pricelist"}`, headers: map[string]string{"Authorization": "Bearer tok"}}, res)
	if svc.actor.ID != "42" {
		t.Fatalf("expected session actor, got %+v", svc.actor)
	}

	res = newStubResponse()
	c.Serve(stubRequest{method: http.MethodPost, path: "/api/auth/logout", cookies: map[string]string{auth.SessionCookie: "tok"}}, res)
	if res.status != http.StatusOK || len(res.cookies) != 1 || res.cookies[0].MaxAge != -1 {
		t.Fatalf("expected cleared cookie, got %d %+v", res.status, res.cookies)
	}
	if _, ok := sessions.Get("tok"); ok {
		t.Fatalf("expected session to be removed")
	}

	res = newStubResponse()
	c.Serve(stubRequest{method: http.MethodGet, path: "/api/auth/user/profile", cookies: map[string]string{auth.SessionCookie: "tok"}}, res)
	if res.status != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", res.status)
	}
}

func TestLogin_Rejections(t *testing.T) {
	c, _ := newAuthController(&stubService{})

	res := newStubResponse()
	c.Serve(stubRequest{method: http.MethodPost, path: "/api/auth/telegram/login", body: `{"id":42,"hash":"deadbeef"}`}, res)
	if res.status != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad hash, got %d", res.status)
	}

	res = newStubResponse()
	c.Serve(stubRequest{method: http.MethodPost, path: "/api/auth/telegram/login", body: ``}, res)
	if res.status != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty body, got %d", res.status)
	}

	disabled := NewController(Config{})
	res = newStubResponse()
	disabled.Serve(stubRequest{method: http.MethodPost, path: "/api/auth/telegram/login", body: loginBody(t)}, res)
	if res.status != http.StatusNotImplemented {
		t.Fatalf("expected 501 when login disabled, got %d", res.status)
	}
}

func TestCheckAuth_Anonymous(t *testing.T) {
	c := NewController(Config{})
	res := newStubResponse()
	c.Serve(stubRequest{method: http.MethodGet, path: "/api/auth/check-auth"}, res)
	if strings.TrimSpace(res.body.String()) != `{"authenticated":false,"user":null}` {
		t.Fatalf("unexpected check-auth body %s", res.body.String())
	}
}

func TestSanitizeFilename(t *testing.T) {
	if got := sanitizeFilename(`a/b"c.pdf`, document.FormatPDF); got != "a_bc.pdf" {
		t.Fatalf("unexpected sanitized name %q", got)
	}
	if got := sanitizeFilename(" ", document.FormatHTML); got != "document.html" {
		t.Fatalf("unexpected fallback name %q", got)
	}
}
