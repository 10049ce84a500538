package middleware

import (
	"context"
	"net/http"
	"strings"

	kvauth "github.com/quellcrist/kvauth"
)

type authResultContextKey struct{}

// AuthResultFromContext returns the session identity stored by [Guard] or
// [AdminGuard].
func AuthResultFromContext(ctx context.Context) (*kvauth.AuthResult, bool) {
	res, ok := ctx.Value(authResultContextKey{}).(*kvauth.AuthResult)
	return res, ok
}

// Guard rejects requests without a valid session token. The validated
// identity is placed in the request context.
func Guard(engine *kvauth.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, ok := authenticate(engine, w, r)
			if !ok {
				return
			}

			ctx := context.WithValue(r.Context(), authResultContextKey{}, res)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminGuard rejects requests whose session is missing, expired, or bound to
// a non-admin role. Invalid sessions get 401; valid non-admin sessions get
// 403, so the two refusal reasons stay distinguishable to the client.
func AdminGuard(engine *kvauth.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, ok := authenticate(engine, w, r)
			if !ok {
				return
			}

			if res.Role != kvauth.RoleAdmin {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), authResultContextKey{}, res)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func authenticate(engine *kvauth.Engine, w http.ResponseWriter, r *http.Request) (*kvauth.AuthResult, bool) {
	if engine == nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return nil, false
	}

	token, ok := bearerToken(r.Header.Get("Authorization"))
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return nil, false
	}

	res, err := engine.ValidateSession(r.Context(), token)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return nil, false
	}

	return res, true
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	token := value[len(bearer):]
	if token == "" {
		return "", false
	}

	return token, true
}
