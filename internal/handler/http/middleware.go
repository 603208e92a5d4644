package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/karan123216/Restaurant-Management-System/internal/identity"
)

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (identity.User, error)
}

// Identify resolves an optional bearer token into the caller. Requests without a
// token continue as identity.Anonymous; the services decide whether that is enough.
func Identify(authn Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				respondWithJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "malformed authorization header", Redirect: loginPath})
				return
			}

			user, err := authn.Authenticate(r.Context(), strings.TrimSpace(token))
			if err != nil && mapErrorToStatusCode(err) == http.StatusInternalServerError {
				log.Error().Err(err).Str("path", r.URL.Path).Msg("Failed to authenticate request")
				respondWithError(w, http.StatusInternalServerError, "Failed to authenticate request")
				return
			}
			if err != nil {
				log.Warn().Err(err).Str("path", r.URL.Path).Msg("Rejected bearer token")
				respondWithJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "invalid or expired token", Redirect: loginPath})
				return
			}

			next.ServeHTTP(w, r.WithContext(identity.WithUser(r.Context(), user)))
		})
	}
}
