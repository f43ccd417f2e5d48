package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/linkbay/authcore"
	"github.com/linkbay/authcore/token"
)

type claimsContextKey struct{}

// ClaimsFromContext returns the claims a [Guard] stored on the request
// context, if any.
func ClaimsFromContext(ctx context.Context) (*token.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey{}).(*token.Claims)
	return claims, ok
}

// Guard returns middleware that rejects requests lacking a valid access
// token. Claims for accepted requests are available via [ClaimsFromContext].
func Guard(engine *authcore.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			tokenStr, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := engine.VerifyAccessToken(r.Context(), tokenStr)
			if err != nil {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), claimsContextKey{}, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(value string) (string, bool) {
	const bearer = "Bearer "
	if !strings.HasPrefix(value, bearer) {
		return "", false
	}

	tokenStr := value[len(bearer):]
	if tokenStr == "" {
		return "", false
	}

	return tokenStr, true
}
