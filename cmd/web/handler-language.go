package main

import (
	"net/http"
	"strings"
	"time"

	"github.com/myrjola/homegym/internal/i18n"
)

const languageCookieMaxAge = 365 * 24 * time.Hour

// isRelativePath checks if a path is a relative path without scheme or host and doesn't allow ambiguous slashes.
func isRelativePath(path string) bool {
	// Reject paths that contain a scheme (e.g., http://, https://, //).
	if strings.Contains(path, "://") || strings.HasPrefix(path, "//") {
		return false
	}
	// Accept paths that start with /, but not if the second character is / or \.
	if strings.HasPrefix(path, "/") {
		if len(path) == 1 || (path[1] != '/' && path[1] != '\\') {
			return true
		}
	}
	return false
}

// setLanguagePOST stores the chosen UI language in a cookie and returns to the page in the return_to field.
func (app *application) setLanguagePOST(w http.ResponseWriter, r *http.Request) {
	lang := i18n.Language(r.PostFormValue("language"))
	if !i18n.IsSupported(lang) {
		http.Error(w, "Invalid language", http.StatusBadRequest)
		return
	}

	http.SetCookie(w, &http.Cookie{ //nolint:exhaustruct // defaults.
		Name:     languageCookieName,
		Value:    string(lang),
		Path:     "/",
		MaxAge:   int(languageCookieMaxAge.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	// Only allow relative paths to prevent open redirects.
	returnTo := r.PostFormValue("return_to")
	if !isRelativePath(returnTo) {
		returnTo = "/"
	}
	http.Redirect(w, r, returnTo, http.StatusSeeOther)
}
