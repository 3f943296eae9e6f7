package contexthelpers

type contextKey string

const (
	AuthenticatedUserIDContextKey = contextKey("authenticatedUserID")
	CurrentPathContextKey         = contextKey("currentPath")
	CspNonceContextKey            = contextKey("cspNonce")
	LanguageContextKey            = contextKey("language")
)
