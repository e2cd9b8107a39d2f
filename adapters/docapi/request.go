package docapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/goliatone/go-docflow/document"
)

// DefaultMaxBodyBytes caps request payloads.
const DefaultMaxBodyBytes int64 = 2 * 1024 * 1024

// Request provides minimal request access for transport adapters.
type Request interface {
	Context() context.Context
	Method() string
	Path() string
	Header(name string) string
	Query(name string) string
	Cookie(name string) string
	Body() io.ReadCloser
}

// RequestDecoder parses a request body into a document request.
type RequestDecoder interface {
	Decode(req Request) (document.DocumentRequest, error)
}

// JSONRequestDecoder decodes `{"type", "formData", "items"}` bodies. Unknown
// fields such as a client-side total are ignored.
type JSONRequestDecoder struct {
	MaxBytes int64
}

// Decode decodes a JSON request body into a document request.
func (d JSONRequestDecoder) Decode(req Request) (document.DocumentRequest, error) {
	if req == nil {
		return document.DocumentRequest{}, document.NewError(document.KindInternal, "request is nil", nil)
	}
	body := req.Body()
	if body == nil {
		return document.DocumentRequest{}, errBodyRequired
	}
	defer body.Close()

	limit := d.MaxBytes
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}
	var payload document.DocumentRequest
	if err := json.NewDecoder(io.LimitReader(body, limit)).Decode(&payload); err != nil {
		if errors.Is(err, io.EOF) {
			return document.DocumentRequest{}, errBodyRequired
		}
		return document.DocumentRequest{}, document.NewError(document.KindInvalidRequest, "invalid request payload", err)
	}
	return payload, nil
}

var errBodyRequired = document.NewError(document.KindInvalidRequest, "request body is required", nil)

// sessionToken reads the session token from the cookie or a bearer header.
func sessionToken(req Request, cookieName string) string {
	if token := strings.TrimSpace(req.Cookie(cookieName)); token != "" {
		return token
	}
	header := strings.TrimSpace(req.Header("Authorization"))
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
