package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"woopm.dev/internal/auth"
	"woopm.dev/internal/backend"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "
)

// withAuth requires a valid bearer token that names an existing user.
func (a *API) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := extractBearerToken(r.Header.Get(authHeader))
		if err != nil {
			unauthorized(w, r, err.Error())
			return
		}

		claims, err := auth.ParseAndValidate(token)
		switch {
		case errors.Is(err, auth.ErrTokenExpired):
			unauthorized(w, r, "Token expired")
			return
		case errors.Is(err, auth.ErrInvalidToken):
			unauthorized(w, r, "Invalid token")
			return
		case err != nil:
			writeError(w, r, http.StatusInternalServerError, "authentication error")
			return
		}
		userID, err := claims.UserID()
		if err != nil {
			unauthorized(w, r, "Invalid token")
			return
		}
		if _, err := a.backend.User(r.Context(), userID); err != nil {
			if errors.Is(err, backend.ErrNotFound) {
				writeError(w, r, http.StatusNotFound, "User not found")
				return
			}
			handleBackendError(w, r, err)
			return
		}

		ctx := auth.ContextWithUser(r.Context(), userID)
		ctx = auth.ContextWithToken(ctx, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func unauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="wpm"`)
	writeError(w, r, http.StatusUnauthorized, msg)
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearer)) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearer):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}
