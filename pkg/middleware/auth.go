package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"stayhub/pkg/client"
	"stayhub/pkg/logger"
	"stayhub/pkg/model"
)

const PrincipalKey contextKey = "principal"

// TokenVerifier resolves a bearer token to a principal. Implemented by
// client.IdentityClient; mocked in tests.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*model.Principal, error)
}

// Authentication resolves the request's principal through the identity
// provider and stores it in the request context. Routes registered behind it
// never run without one.
func Authentication(verifier TokenVerifier, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractBearerToken(r)
			if token == "" {
				writeUnauthorized(w, "Missing bearer token")
				return
			}

			principal, err := verifier.Verify(r.Context(), token)
			if err != nil {
				if errors.Is(err, client.ErrTokenInvalid) {
					writeUnauthorized(w, "Invalid or expired token")
					return
				}

				log.Error("Identity provider verification failed",
					"request_id", RequestID(r.Context()),
					"error", err,
				)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				_, _ = w.Write([]byte(`{"success":false,"message":"Authentication service unavailable"}`))
				return
			}

			ctx := context.WithValue(r.Context(), PrincipalKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AuthenticateRoute is the per-route form of Authentication for routers that
// mix public and protected endpoints.
func AuthenticateRoute(verifier TokenVerifier, log *logger.Logger) func(httprouter.Handle) httprouter.Handle {
	authenticate := Authentication(verifier, log)
	return func(next httprouter.Handle) httprouter.Handle {
		return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
			authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next(w, r, ps)
			})).ServeHTTP(w, r)
		}
	}
}

// PrincipalFrom returns the authenticated principal, or nil when the route
// did not pass through Authentication.
func PrincipalFrom(ctx context.Context) *model.Principal {
	if p, ok := ctx.Value(PrincipalKey).(*model.Principal); ok {
		return p
	}
	return nil
}

func extractBearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"success":false,"message":"` + message + `"}`))
}
