package progress

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const (
	keyStarted       = "Loading..."
	keyLoading       = "Loading %d/%d media..."
	keyFinalizing    = "Preparing..."
	keyNotification  = "Could not load the recap. Please try again."
	keyWrongPassword = "Incorrect password. Try again."
	keyPrompt        = "Enter the password"
	keyUnlock        = "Unlock"
	keyScrollHint    = "Scroll"
	keyBrokenMedia   = "Media unavailable"
)

var translations = map[language.Tag]map[string]string{
	language.English: {
		keyStarted:       keyStarted,
		keyLoading:       keyLoading,
		keyFinalizing:    keyFinalizing,
		keyNotification:  keyNotification,
		keyWrongPassword: keyWrongPassword,
		keyPrompt:        keyPrompt,
		keyUnlock:        keyUnlock,
		keyScrollHint:    keyScrollHint,
		keyBrokenMedia:   keyBrokenMedia,
	},
	language.French: {
		keyStarted:       "Chargement...",
		keyLoading:       "Chargement %d/%d médias...",
		keyFinalizing:    "Préparation...",
		keyNotification:  "Erreur lors du chargement du récap. Veuillez réessayer.",
		keyWrongPassword: "Mot de passe incorrect. Réessayez.",
		keyPrompt:        "Entrez le mot de passe",
		keyUnlock:        "Déverrouiller",
		keyScrollHint:    "Faites défiler",
		keyBrokenMedia:   "Média indisponible",
	},
}

// Catalog renders visitor-facing strings in one language.
type Catalog struct {
	tag     language.Tag
	builder *catalog.Builder
}

// NewCatalog builds a catalog for lang ("en", "fr", or any BCP 47 tag).
// Unsupported languages fall back to English.
func NewCatalog(lang string) *Catalog {
	builder := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, entries := range translations {
		for key, msg := range entries {
			// SetString only fails for malformed messages; the table is static.
			_ = builder.SetString(tag, key, msg)
		}
	}

	tag := language.English
	if parsed, err := language.Parse(strings.TrimSpace(lang)); err == nil {
		matcher := language.NewMatcher([]language.Tag{language.English, language.French})
		_, idx, conf := matcher.Match(parsed)
		if conf != language.No && idx == 1 {
			tag = language.French
		}
	}
	return &Catalog{tag: tag, builder: builder}
}

// Language returns the BCP 47 tag the catalog renders.
func (c *Catalog) Language() string {
	return c.tag.String()
}

func (c *Catalog) printer() *message.Printer {
	return message.NewPrinter(c.tag, message.Catalog(c.builder))
}

// Message returns the loading message for the counts.
func (c *Catalog) Message(loaded, total int) string {
	p := c.printer()
	switch PhaseOf(loaded, total) {
	case PhaseStarted:
		return p.Sprintf(keyStarted)
	case PhaseLoading:
		return p.Sprintf(keyLoading, loaded, total)
	default:
		return p.Sprintf(keyFinalizing)
	}
}

// Snapshot converts counts into the percentage and message shown to visitors.
// It keeps no state; every update is recomputed from the counts alone.
func (c *Catalog) Snapshot(s State) Snapshot {
	snap := Compute(s.Loaded, s.Total)
	snap.Message = c.Message(s.Loaded, s.Total)
	return snap
}

// Notification is the single message shown when the story cannot load.
func (c *Catalog) Notification() string { return c.printer().Sprintf(keyNotification) }

// WrongPassword is shown when the gate rejects a password.
func (c *Catalog) WrongPassword() string { return c.printer().Sprintf(keyWrongPassword) }

// Prompt labels the password field.
func (c *Catalog) Prompt() string { return c.printer().Sprintf(keyPrompt) }

// Unlock labels the gate button.
func (c *Catalog) Unlock() string { return c.printer().Sprintf(keyUnlock) }

// ScrollHint is the one-time navigation hint.
func (c *Catalog) ScrollHint() string { return c.printer().Sprintf(keyScrollHint) }

// BrokenMedia captions a slide whose media failed to preload.
func (c *Catalog) BrokenMedia() string { return c.printer().Sprintf(keyBrokenMedia) }
