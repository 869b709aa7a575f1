// Package locale resolves the localized text shown by navguard prompts.
//
// Messages are go-i18n message files in TOML. The English, Spanish, French and German
// files are embedded; applications can add or override translations with LoadFile.
package locale

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sync"

	"github.com/BrandonKowalski/navguard/pkg/navguard/constants"
	"github.com/BurntSushi/toml"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.toml
var embedded embed.FS

// ExitConfirmMessage is the default confirmation message.
var ExitConfirmMessage = &i18n.Message{
	ID:          constants.ExitConfirmMessageID,
	Description: "Asked before leaving a game or quiz that is still in progress",
	Other:       constants.DefaultExitConfirmText,
}

// Catalog holds the loaded translations.
type Catalog struct {
	mu      sync.RWMutex
	bundle  *i18n.Bundle
	matcher language.Matcher
}

// New creates a catalog with the embedded translations.
func New() (*Catalog, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	entries, err := fs.ReadDir(embedded, "locales")
	if err != nil {
		return nil, fmt.Errorf("locale: read embedded messages: %w", err)
	}
	for _, e := range entries {
		if _, err := bundle.LoadMessageFileFS(embedded, path.Join("locales", e.Name())); err != nil {
			return nil, fmt.Errorf("locale: load %s: %w", e.Name(), err)
		}
	}

	return &Catalog{
		bundle:  bundle,
		matcher: language.NewMatcher(bundle.LanguageTags()),
	}, nil
}

// MustNew is like New but panics if the embedded files are broken.
func MustNew() *Catalog {
	c, err := New()
	if err != nil {
		panic(err)
	}
	return c
}

// LoadFile adds a message file from disk. The language is taken from the file name,
// e.g. "active.pt-BR.toml".
func (c *Catalog) LoadFile(filename string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.bundle.LoadMessageFile(filename); err != nil {
		return fmt.Errorf("locale: load %s: %w", filename, err)
	}
	c.matcher = language.NewMatcher(c.bundle.LanguageTags())
	return nil
}

// Languages returns the languages with at least one message file.
func (c *Catalog) Languages() []language.Tag {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.bundle.LanguageTags()
}

// Match returns the best supported language for the given locale preferences.
// Unparseable entries are skipped; English is returned when nothing matches.
func (c *Catalog) Match(locales ...string) language.Tag {
	var prefs []language.Tag
	for _, l := range locales {
		if t, err := language.Parse(l); err == nil {
			prefs = append(prefs, t)
		}
	}
	if len(prefs) == 0 {
		return language.English
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	_, idx, conf := c.matcher.Match(prefs...)
	if conf == language.No {
		return language.English
	}
	return c.bundle.LanguageTags()[idx]
}

// Message localizes a message, falling back to its default text.
func (c *Catalog) Message(msg *i18n.Message, locales ...string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	localizer := i18n.NewLocalizer(c.bundle, locales...)
	text, err := localizer.Localize(&i18n.LocalizeConfig{DefaultMessage: msg})
	if err != nil && text == "" {
		return msg.Other
	}
	return text
}

// ExitConfirm returns the exit confirmation text for the given locale preferences.
func (c *Catalog) ExitConfirm(locales ...string) string {
	return c.Message(ExitConfirmMessage, locales...)
}
