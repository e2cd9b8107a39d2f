package auth

import (
	"context"
	"strconv"

	"github.com/goliatone/go-docflow/document"
)

type sessionContextKey struct{}

// WithSession stores a session in ctx.
func WithSession(ctx context.Context, session Session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, session)
}

// SessionFromContext returns the session stored in ctx.
func SessionFromContext(ctx context.Context) (Session, bool) {
	if ctx == nil {
		return Session{}, false
	}
	session, ok := ctx.Value(sessionContextKey{}).(Session)
	return session, ok
}

// ActorFromUser maps a Telegram user onto a document actor.
func ActorFromUser(user TelegramUser) document.Actor {
	return document.Actor{
		ID:       strconv.FormatInt(user.ID, 10),
		Username: user.Username,
		Details: map[string]any{
			"first_name": user.FirstName,
			"last_name":  user.LastName,
			"photo_url":  user.PhotoURL,
		},
	}
}

// SessionActorProvider resolves actors from sessions stored in context.
// Requests without a session resolve to the anonymous actor.
type SessionActorProvider struct{}

var _ document.ActorProvider = SessionActorProvider{}

// FromContext returns the actor for the session in ctx.
func (SessionActorProvider) FromContext(ctx context.Context) (document.Actor, error) {
	session, ok := SessionFromContext(ctx)
	if !ok {
		return document.Actor{}, nil
	}
	return ActorFromUser(session.User), nil
}

// RequireSession denies render and preview calls from anonymous actors.
func RequireSession() document.Guard {
	return document.GuardFunc(func(ctx context.Context, actor document.Actor, req document.DocumentRequest) error {
		if actor.ID == "" {
			return document.NewError(document.KindUnauthorized, "authentication required", nil)
		}
		return nil
	})
}
