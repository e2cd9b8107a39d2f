package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-docflow/document"
)

const testBotToken = "123456:TEST-token"

func signedFields(t *testing.T, fields LoginFields) LoginFields {
	t.Helper()
	fields[hashField] = Sign(testBotToken, fields)
	return fields
}

func TestDataCheckString_SortedWithoutHash(t *testing.T) {
	got := DataCheckString(LoginFields{"username": "ivan", "id": "42", "hash": "ignored", "auth_date": "1700000000"})
	want := "auth_date=1700000000\nid=42\nusername=ivan"
	if got != want {
		t.Fatalf("unexpected data check string %q", got)
	}
}

func TestDecodeLoginFields_KeepsNumberLiterals(t *testing.T) {
	fields, err := DecodeLoginFields(strings.NewReader(`{"id": 42, "auth_date": 1700000000, "first_name": "Иван", "photo_url": null}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if fields["id"] != "42" || fields["auth_date"] != "1700000000" || fields["first_name"] != "Иван" {
		t.Fatalf("unexpected fields %v", fields)
	}
	if _, ok := fields["photo_url"]; ok {
		t.Fatalf("null fields must be dropped")
	}

	if _, err := DecodeLoginFields(strings.NewReader("")); !document.IsInvalidRequest(err) {
		t.Fatalf("expected invalid request for empty body, got %v", err)
	}
	if _, err := DecodeLoginFields(strings.NewReader(`{"id": {"x": 1}}`)); !document.IsInvalidRequest(err) {
		t.Fatalf("expected invalid request for nested value, got %v", err)
	}
}

func TestVerify_AcceptsSignedPayload(t *testing.T) {
	now := time.Unix(1700000100, 0)
	v := NewTelegramVerifier(VerifierConfig{BotToken: testBotToken, MaxAge: time.Hour, Now: func() time.Time { return now }})

	user, err := v.Verify(signedFields(t, LoginFields{"id": "42", "first_name": "Ivan", "username": "ivan", "auth_date": "1700000000"}))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if user.ID != 42 || user.Username != "ivan" || user.AuthDate != 1700000000 {
		t.Fatalf("unexpected user %+v", user)
	}
}

func TestVerify_Rejections(t *testing.T) {
	now := time.Unix(1700000000, 0).Add(48 * time.Hour)
	v := NewTelegramVerifier(VerifierConfig{BotToken: testBotToken, MaxAge: 24 * time.Hour, Now: func() time.Time { return now }})

	tampered := signedFields(t, LoginFields{"id": "42", "auth_date": "1700000000"})
	tampered["id"] = "43"

	cases := []struct {
		name   string
		fields LoginFields
		kind   document.ErrorKind
	}{
		{name: "empty", fields: LoginFields{}, kind: document.KindInvalidRequest},
		{name: "missing hash", fields: LoginFields{"id": "42"}, kind: document.KindUnauthorized},
		{name: "tampered", fields: tampered, kind: document.KindUnauthorized},
		{name: "expired", fields: signedFields(t, LoginFields{"id": "42", "auth_date": "1700000000"}), kind: document.KindUnauthorized},
	}
	for _, tc := range cases {
		_, err := v.Verify(tc.fields)
		if got := document.KindFromError(err); got != tc.kind {
			t.Fatalf("%s: expected %s, got %s (%v)", tc.name, tc.kind, got, err)
		}
	}
}

func TestVerify_NotConfigured(t *testing.T) {
	v := NewTelegramVerifier(VerifierConfig{})
	if _, err := v.Verify(LoginFields{"id": "1"}); document.KindFromError(err) != document.KindNotImpl {
		t.Fatalf("expected not_implemented, got %v", err)
	}
}
