package security

import (
	"context"
	"net/http"
	"strings"

	"github.com/ericfisherdev/selflearning/internal/domain/model"
)

// SessionCookieName is the cookie carrying the session token for browser requests.
const SessionCookieName = "session"

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p model.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal stored in ctx, or the anonymous
// principal when there is none.
func PrincipalFromContext(ctx context.Context) model.Principal {
	p, _ := ctx.Value(principalKey{}).(model.Principal)
	return p
}

// TokenFromRequest extracts a session token from the Authorization bearer
// header, falling back to the session cookie. It returns "" when neither is set.
func TokenFromRequest(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(SessionCookieName); err == nil {
		return c.Value
	}
	return ""
}
