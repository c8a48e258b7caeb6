// Package i18n provides internationalization support for user-facing messages
package i18n

import (
	"fmt"
)

const (
	// LanguageChinese is the language of the song catalog's home audience
	LanguageChinese = "zh"
	// LanguageEnglish is the secondary message catalog
	LanguageEnglish = "en"
	// DefaultLanguage is the fallback language when no translation is available
	DefaultLanguage = LanguageChinese
)

// Localizer provides translation functionality
type Localizer struct {
	language string
	messages map[string]string
}

// NewLocalizer creates a new localizer for the specified language
func NewLocalizer(language string) *Localizer {
	return &Localizer{
		language: language,
		messages: getMessages(language),
	}
}

// T translates a message key, with optional parameters for formatting
func (l *Localizer) T(key string, args ...interface{}) string {
	if message, exists := l.messages[key]; exists {
		if len(args) > 0 {
			return fmt.Sprintf(message, args...)
		}
		return message
	}

	// Fallback to the default language if key not found in current language
	if l.language != DefaultLanguage {
		if fallbackMessage, exists := getMessages(DefaultLanguage)[key]; exists {
			if len(args) > 0 {
				return fmt.Sprintf(fallbackMessage, args...)
			}
			return fallbackMessage
		}
	}

	// Ultimate fallback: return the key itself
	return key
}

// GetSupportedLanguages returns list of supported language codes
func GetSupportedLanguages() []string {
	return []string{LanguageChinese, LanguageEnglish}
}

// getMessages returns the message map for a given language
func getMessages(language string) map[string]string {
	switch language {
	case LanguageChinese:
		return chineseMessages
	case LanguageEnglish:
		return englishMessages
	default:
		return chineseMessages
	}
}
