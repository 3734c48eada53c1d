// Package i18n renders user-facing text from embedded message catalogs.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"sync"

	"image-splitter/internal/app"
	"image-splitter/internal/logging"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// DefaultLanguage is used for missing translations and unknown codes.
const DefaultLanguage = "en"

// Language is a selectable UI language.
type Language struct {
	Code string
	Name string
}

var languages = []Language{
	{Code: "en", Name: "English"},
	{Code: "zh", Name: "简体中文"},
}

// Languages lists the available languages in menu order.
func Languages() []Language {
	out := make([]Language, len(languages))
	copy(out, languages)
	return out
}

// IsSupported reports whether code names an available language.
func IsSupported(code string) bool {
	for _, l := range languages {
		if l.Code == code {
			return true
		}
	}
	return false
}

// Translator looks up messages in the current language, falling back to
// English and then to the key itself.
type Translator struct {
	mu         sync.RWMutex
	bundle     *goi18n.Bundle
	localizers map[string]*goi18n.Localizer
	lang       string
	listeners  []func(code string)
}

// New creates a translator set to code, or English when code is unknown.
func New(code string) (*Translator, error) {
	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	t := &Translator{
		bundle:     bundle,
		localizers: make(map[string]*goi18n.Localizer),
		lang:       DefaultLanguage,
	}
	for _, l := range languages {
		if _, err := bundle.LoadMessageFileFS(localeFS, "locales/"+l.Code+".json"); err != nil {
			return nil, fmt.Errorf("i18n: load %s catalog: %w", l.Code, err)
		}
		t.localizers[l.Code] = goi18n.NewLocalizer(bundle, l.Code, DefaultLanguage)
	}
	if IsSupported(code) {
		t.lang = code
	}
	return t, nil
}

// Language returns the current language code.
func (t *Translator) Language() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lang
}

// SetLanguage switches the current language. Unknown codes and no-op
// changes are ignored; otherwise OnChange listeners are notified.
func (t *Translator) SetLanguage(code string) {
	t.mu.Lock()
	if !IsSupported(code) || code == t.lang {
		t.mu.Unlock()
		return
	}
	t.lang = code
	listeners := t.listeners
	t.mu.Unlock()

	for _, fn := range listeners {
		fn(code)
	}
}

// OnChange registers a listener called after the language changes.
func (t *Translator) OnChange(fn func(code string)) {
	t.mu.Lock()
	t.listeners = append(t.listeners, fn)
	t.mu.Unlock()
}

// Tr renders key with params in the current language.
func (t *Translator) Tr(key string, params map[string]any) string {
	t.mu.RLock()
	loc := t.localizers[t.lang]
	t.mu.RUnlock()

	msg, err := loc.Localize(&goi18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: params,
	})
	if err != nil || msg == "" {
		logging.Logger().Debug("Missing translation", "key", key, "lang", t.Language(), "error", err)
		return key
	}
	return msg
}

// T renders key without parameters.
func (t *Translator) T(key string) string {
	return t.Tr(key, nil)
}

// Status renders a controller status message. The snap mode parameter is
// translated before substitution.
func (t *Translator) Status(s app.Status) string {
	params := s.Params
	if s.Key == app.StatusSnapMode {
		if mode, ok := s.Params["Mode"].(string); ok {
			params = map[string]any{"Mode": t.T("snap." + mode)}
		}
	}
	return t.Tr(s.Key, params)
}
