package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
)

// TokenVerifier validates a bearer token and returns the DID it names.
type TokenVerifier interface {
	Verify(tokenString string) (string, error)
}

type callerDIDKey struct{}
type userAgentKey struct{}

// GetCallerDID retrieves the authenticated caller DID from the context.
// Empty when the request carried no token; handlers fall back to the
// configured demo identity for their role.
func GetCallerDID(ctx context.Context) string {
	if did, ok := ctx.Value(callerDIDKey{}).(string); ok {
		return did
	}
	return ""
}

// GetUserAgent retrieves the raw User-Agent header captured for auditing.
func GetUserAgent(ctx context.Context) string {
	if ua, ok := ctx.Value(userAgentKey{}).(string); ok {
		return ua
	}
	return ""
}

// Identity resolves the caller identity from an optional bearer token and
// records the User-Agent for audit trails. A request without a token passes
// through anonymously; a request with an invalid token is rejected.
func Identity(verifier TokenVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), userAgentKey{}, r.UserAgent())

			authHeader := r.Header.Get("Authorization")
			if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
				did, err := verifier.Verify(token)
				if err != nil {
					logger.WarnContext(ctx, "rejected bearer token",
						"error", err,
						"request_id", GetRequestID(ctx),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusUnauthorized)
					_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"Invalid or expired token"}`))
					return
				}
				ctx = context.WithValue(ctx, callerDIDKey{}, did)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
