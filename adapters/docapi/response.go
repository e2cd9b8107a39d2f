package docapi

import (
	"net/http"
	"time"

	"github.com/goliatone/go-docflow/auth"
	"github.com/goliatone/go-docflow/document"
)

// Response provides a minimal response interface for transport adapters.
type Response interface {
	SetHeader(name, value string)
	SetCookie(cookie *http.Cookie)
	WriteHeader(status int)
	Write(data []byte) (int, error)
	WriteJSON(status int, payload any) error
}

// ErrorResponse describes JSON error responses.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody contains error details.
type ErrorBody struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// PreviewResponse is the body of a preview call.
type PreviewResponse struct {
	Success     bool                  `json:"success"`
	Message     string                `json:"message"`
	Type        document.DocumentType `json:"type"`
	ItemsCount  int                   `json:"items_count"`
	Total       float64               `json:"total"`
	TotalText   string                `json:"total_text,omitempty"`
	PreviewHTML string                `json:"preview_html"`
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	User      auth.TelegramUser `json:"user"`
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// ProfileResponse describes the current user.
type ProfileResponse struct {
	Authenticated bool               `json:"authenticated"`
	User          *auth.TelegramUser `json:"user"`
}

// StatusResponse is a plain acknowledgement.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// PingResponse answers GET on the preview path.
type PingResponse struct {
	Message string `json:"message"`
	Method  string `json:"method"`
}
