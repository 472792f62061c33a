package intensity

import (
	"github.com/rotisserie/eris"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

var supportedLanguages = []language.Tag{language.English, language.Spanish}

var (
	labels  = catalog.NewBuilder(catalog.Fallback(language.English))
	matcher = language.NewMatcher(supportedLanguages)
)

func init() {
	for key, es := range map[string]string{
		"Low":       "Baja",
		"Medium":    "Media",
		"High":      "Alta",
		"Very High": "Muy alta",
		"Unknown":   "Desconocida",
	} {
		if err := labels.SetString(language.English, key, key); err != nil {
			panic(eris.Wrapf(err, "intensity: register label %q", key))
		}
		if err := labels.SetString(language.Spanish, key, es); err != nil {
			panic(eris.Wrapf(err, "intensity: register label %q", key))
		}
	}
}

// MatchLanguage resolves language preferences (tags or Accept-Language
// values) to a supported language. Unrecognized input resolves to English.
func MatchLanguage(prefs ...string) language.Tag {
	_, idx := language.MatchStrings(matcher, prefs...)
	if idx < 0 || idx >= len(supportedLanguages) {
		return language.English
	}
	return supportedLanguages[idx]
}

// Printer returns a message printer for the given language preferences.
func Printer(prefs ...string) *message.Printer {
	return message.NewPrinter(MatchLanguage(prefs...), message.Catalog(labels))
}

// Label returns the localized display name of the tier.
func (t Tier) Label(p *message.Printer) string {
	if p == nil {
		return t.String()
	}
	return p.Sprintf(t.String())
}
