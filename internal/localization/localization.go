// Package localization loads the API response messages from JSON files and
// picks the right language per request. The platform serves an Arabic-first
// audience, so Arabic is the fallback language.
package localization

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const fallbackLang = "ar"

// Localizer holds the message catalogs, one per language code.
type Localizer struct {
	translations map[string]map[string]string
	mu           sync.RWMutex
}

// NewLocalizer loads every <lang>.json catalog from the given directory.
func NewLocalizer(path string) (*Localizer, error) {
	l := &Localizer{
		translations: make(map[string]map[string]string),
	}

	files, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read locales directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".json") {
			continue
		}

		lang := strings.TrimSuffix(file.Name(), ".json")

		data, err := os.ReadFile(filepath.Join(path, file.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read locale file %s: %w", file.Name(), err)
		}

		var messages map[string]string
		if err := json.Unmarshal(data, &messages); err != nil {
			return nil, fmt.Errorf("failed to parse locale file %s: %w", file.Name(), err)
		}

		l.translations[lang] = messages
	}

	if _, ok := l.translations[fallbackLang]; !ok {
		return nil, fmt.Errorf("fallback locale %q is missing from %s", fallbackLang, path)
	}
	return l, nil
}

// Message returns the message for a key in the requested language, falling
// back to Arabic and finally to the key itself.
func (l *Localizer) Message(lang, key string) string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if messages, ok := l.translations[lang]; ok {
		if value, ok := messages[key]; ok {
			return value
		}
	}
	if value, ok := l.translations[fallbackLang][key]; ok {
		return value
	}
	return key
}

// PickLanguage extracts the preferred language code from an Accept-Language
// header value ("en-US,en;q=0.9" -> "en").
func PickLanguage(header string) string {
	if header == "" {
		return fallbackLang
	}
	first := strings.SplitN(header, ",", 2)[0]
	first = strings.SplitN(first, ";", 2)[0]
	lang := strings.ToLower(strings.SplitN(strings.TrimSpace(first), "-", 2)[0])
	if lang == "" {
		return fallbackLang
	}
	return lang
}
