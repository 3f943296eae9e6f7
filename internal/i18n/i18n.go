// Package i18n holds the UI translations and picks a language for a request.
package i18n

import (
	"golang.org/x/text/language"
)

// Language represents a supported language.
type Language string

const (
	// English is the English language.
	English Language = "en"
	// TraditionalChinese is Chinese written with traditional characters as used in Taiwan.
	TraditionalChinese Language = "zh-TW"
)

// DefaultLanguage is the fallback language.
const DefaultLanguage = English

// SupportedLanguages returns a list of all supported languages.
func SupportedLanguages() []Language {
	return []Language{English, TraditionalChinese}
}

// IsSupported checks if a language is supported.
func IsSupported(lang Language) bool {
	_, ok := translations[lang]
	return ok
}

// PromptName is the English name of the language used when asking a generative service to answer in it.
func (l Language) PromptName() string {
	switch l {
	case TraditionalChinese:
		return "Traditional Chinese"
	case English:
		return "English"
	}
	return "English"
}

// matcher prefers the first supported tag on ties, so it has to list the default language first.
var matcher = language.NewMatcher([]language.Tag{ //nolint:gochecknoglobals // immutable after init.
	language.English,
	language.MustParse("zh-TW"),
})

// Negotiate picks the supported language closest to an Accept-Language header value.
func Negotiate(acceptLanguage string) Language {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return DefaultLanguage
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultLanguage
	}
	return SupportedLanguages()[index]
}

// Translate returns the translation for the given key in the specified language.
// If the key is not found, it falls back to the default language.
// If still not found, it returns the key itself.
func Translate(lang Language, key string) string {
	// Try the requested language.
	if langTranslations, ok := translations[lang]; ok {
		if translation, ok := langTranslations[key]; ok {
			return translation
		}
	}

	// Fallback to default language.
	if lang != DefaultLanguage {
		if translation, ok := translations[DefaultLanguage][key]; ok {
			return translation
		}
	}

	// Return the key itself if no translation found.
	return key
}
