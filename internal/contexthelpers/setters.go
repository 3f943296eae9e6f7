package contexthelpers

import (
	"context"
	"net/http"

	"github.com/myrjola/homegym/internal/i18n"
)

// WithUserID binds userID to ctx. Services read it back with AuthenticatedUserID.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, AuthenticatedUserIDContextKey, userID)
}

func AuthenticateContext(r *http.Request, userID int) *http.Request {
	return r.WithContext(WithUserID(r.Context(), userID))
}

func SetCurrentPath(r *http.Request, currentPath string) *http.Request {
	ctx := context.WithValue(r.Context(), CurrentPathContextKey, currentPath)
	return r.WithContext(ctx)
}

func SetCSPNonce(r *http.Request, cspNonce string) *http.Request {
	ctx := context.WithValue(r.Context(), CspNonceContextKey, cspNonce)
	return r.WithContext(ctx)
}

func SetLanguage(r *http.Request, language i18n.Language) *http.Request {
	ctx := context.WithValue(r.Context(), LanguageContextKey, language)
	return r.WithContext(ctx)
}
