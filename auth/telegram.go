package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-docflow/document"
)

const hashField = "hash"

// LoginFields are the raw key/value pairs posted by the login widget.
type LoginFields map[string]string

// TelegramUser is the verified identity from a login payload.
type TelegramUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
	PhotoURL  string `json:"photo_url,omitempty"`
	AuthDate  int64  `json:"auth_date,omitempty"`
}

// DecodeLoginFields reads a JSON login payload. Numbers keep their literal
// form so the signature is computed over the exact values Telegram signed.
func DecodeLoginFields(r io.Reader) (LoginFields, error) {
	if r == nil {
		return nil, document.NewError(document.KindInvalidRequest, "login payload is required", nil)
	}
	var raw map[string]any
	decoder := json.NewDecoder(r)
	decoder.UseNumber()
	if err := decoder.Decode(&raw); err != nil {
		if err == io.EOF {
			return nil, document.NewError(document.KindInvalidRequest, "login payload is required", nil)
		}
		return nil, document.NewError(document.KindInvalidRequest, "invalid login payload", err)
	}
	if len(raw) == 0 {
		return nil, document.NewError(document.KindInvalidRequest, "login payload is required", nil)
	}

	fields := make(LoginFields, len(raw))
	for key, value := range raw {
		switch v := value.(type) {
		case nil:
			continue
		case string:
			fields[key] = v
		case json.Number:
			fields[key] = v.String()
		case bool:
			fields[key] = strconv.FormatBool(v)
		default:
			return nil, document.NewError(document.KindInvalidRequest, "unsupported login field "+key, nil)
		}
	}
	return fields, nil
}

// DataCheckString joins every field except hash as sorted key=value lines.
func DataCheckString(fields LoginFields) string {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		if key == hashField {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		lines = append(lines, key+"="+fields[key])
	}
	return strings.Join(lines, "\n")
}

// Sign computes the login hash for fields: HMAC-SHA256 of the data check
// string keyed with SHA-256 of the bot token, hex encoded.
func Sign(botToken string, fields LoginFields) string {
	secret := sha256.Sum256([]byte(botToken))
	mac := hmac.New(sha256.New, secret[:])
	mac.Write([]byte(DataCheckString(fields)))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifierConfig configures TelegramVerifier.
type VerifierConfig struct {
	BotToken string
	// MaxAge rejects payloads whose auth_date is older. Zero disables the
	// check.
	MaxAge time.Duration
	Now    document.Clock
}

// TelegramVerifier checks login widget signatures.
type TelegramVerifier struct {
	botToken string
	maxAge   time.Duration
	now      document.Clock
}

// NewTelegramVerifier creates a verifier.
func NewTelegramVerifier(cfg VerifierConfig) *TelegramVerifier {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &TelegramVerifier{botToken: cfg.BotToken, maxAge: cfg.MaxAge, now: now}
}

// Verify validates the payload signature and returns the user it describes.
func (v *TelegramVerifier) Verify(fields LoginFields) (TelegramUser, error) {
	if v == nil || v.botToken == "" {
		return TelegramUser{}, document.NewError(document.KindNotImpl, "telegram login is not configured", nil)
	}
	if len(fields) == 0 {
		return TelegramUser{}, document.NewError(document.KindInvalidRequest, "login payload is required", nil)
	}
	received := strings.ToLower(strings.TrimSpace(fields[hashField]))
	if received == "" {
		return TelegramUser{}, document.NewError(document.KindUnauthorized, "invalid login data", nil)
	}
	expected := Sign(v.botToken, fields)
	if !hmac.Equal([]byte(expected), []byte(received)) {
		return TelegramUser{}, document.NewError(document.KindUnauthorized, "invalid login data", nil)
	}

	user, err := userFromFields(fields)
	if err != nil {
		return TelegramUser{}, err
	}
	if v.maxAge > 0 && user.AuthDate > 0 {
		issued := time.Unix(user.AuthDate, 0)
		if v.now().Sub(issued) > v.maxAge {
			return TelegramUser{}, document.NewError(document.KindUnauthorized, "login data expired", nil)
		}
	}
	return user, nil
}

func userFromFields(fields LoginFields) (TelegramUser, error) {
	user := TelegramUser{
		FirstName: fields["first_name"],
		LastName:  fields["last_name"],
		Username:  fields["username"],
		PhotoURL:  fields["photo_url"],
	}
	if raw := fields["id"]; raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return TelegramUser{}, document.NewError(document.KindInvalidRequest, "invalid user id", err)
		}
		user.ID = id
	}
	if raw := fields["auth_date"]; raw != "" {
		ts, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return TelegramUser{}, document.NewError(document.KindInvalidRequest, "invalid auth_date", err)
		}
		user.AuthDate = ts
	}
	return user, nil
}
