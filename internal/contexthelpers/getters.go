package contexthelpers

import (
	"context"

	"github.com/myrjola/homegym/internal/i18n"
)

// IsAuthenticated reports whether the request has been bound to a user.
func IsAuthenticated(ctx context.Context) bool {
	return AuthenticatedUserID(ctx) != 0
}

// AuthenticatedUserID returns the user ID bound to ctx or 0 if there is none.
func AuthenticatedUserID(ctx context.Context) int {
	userID, ok := ctx.Value(AuthenticatedUserIDContextKey).(int)
	if !ok {
		return 0
	}
	return userID
}

func CurrentPath(ctx context.Context) string {
	currentPath, ok := ctx.Value(CurrentPathContextKey).(string)
	if !ok {
		return ""
	}
	return currentPath
}

func CSPNonce(ctx context.Context) string {
	cspNonce, ok := ctx.Value(CspNonceContextKey).(string)
	if !ok {
		return ""
	}
	return cspNonce
}

// Language returns the UI language of the request, falling back to [i18n.DefaultLanguage].
func Language(ctx context.Context) i18n.Language {
	language, ok := ctx.Value(LanguageContextKey).(i18n.Language)
	if !ok {
		return i18n.DefaultLanguage
	}
	return language
}
