package middleware

import (
	"context"
	"net/http"
	"strings"

	"traderhub-api/internal/model"
	"traderhub-api/internal/service"
	"traderhub-api/pkg/apierror"
	"traderhub-api/pkg/response"
)

const (
	sessionKey      contextKey = "session"
	sessionTokenKey contextKey = "session_token"
)

// ExtractToken reads the session token from X-Token or the Bearer
// Authorization header.
func ExtractToken(r *http.Request) string {
	if token := r.Header.Get("X-Token"); token != "" {
		return token
	}
	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return ""
}

func requireSession(tokens *service.TokenService, kind model.SessionKind) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)
			sess, err := tokens.ValidateToken(r.Context(), token)
			if err != nil {
				response.Error(w, err)
				return
			}
			if sess.Kind != kind {
				response.Error(w, apierror.Unauthorized("Invalid or expired token"))
				return
			}
			ctx := context.WithValue(r.Context(), sessionKey, sess)
			ctx = context.WithValue(ctx, sessionTokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalCustomerAuth resolves a customer session into the context when
// a valid token is presented, and lets the request through either way.
func OptionalCustomerAuth(tokens *service.TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)
			if token != "" {
				if sess, err := tokens.ValidateToken(r.Context(), token); err == nil && sess.Kind == model.SessionCustomer {
					ctx := context.WithValue(r.Context(), sessionKey, sess)
					ctx = context.WithValue(ctx, sessionTokenKey, token)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// TraderAuth guards CMS routes with a trader session.
func TraderAuth(tokens *service.TokenService) func(http.Handler) http.Handler {
	return requireSession(tokens, model.SessionTrader)
}

// CustomerAuth guards shop routes with a customer session.
func CustomerAuth(tokens *service.TokenService) func(http.Handler) http.Handler {
	return requireSession(tokens, model.SessionCustomer)
}

// GetSession returns the authenticated session from the context.
func GetSession(ctx context.Context) *model.SessionData {
	sess, _ := ctx.Value(sessionKey).(*model.SessionData)
	return sess
}

// GetSessionToken returns the raw session token from the context.
func GetSessionToken(ctx context.Context) string {
	token, _ := ctx.Value(sessionTokenKey).(string)
	return token
}
