package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"maps"
	"strings"

	"github.com/siherrmann/combiner/helper"
	"golang.org/x/text/language"
)

// CanonicalLocale is the locale every label is authored in
const CanonicalLocale = "en"

// Translations maps a locale (BCP 47 base, e.g. "es") to a display label.
type Translations map[string]string

// IdentityTranslations maps every locale to the canonical label itself
func IdentityTranslations(label string, locales []string) Translations {
	t := make(Translations, len(locales)+1)
	t[CanonicalLocale] = label
	for _, locale := range locales {
		t[NormalizeLocale(locale)] = label
	}
	return t
}

// NormalizeLocale reduces a locale like "pt-BR" or "ES" to its base language "pt", "es".
// Unparseable input is lower-cased and returned as is.
func NormalizeLocale(locale string) string {
	tag, err := language.Parse(strings.TrimSpace(locale))
	if err != nil {
		return strings.ToLower(strings.TrimSpace(locale))
	}
	base, _ := tag.Base()
	return base.String()
}

// Label returns the label for locale, falling back to the canonical label
func (t Translations) Label(locale string) string {
	if v, ok := t[NormalizeLocale(locale)]; ok && v != "" {
		return v
	}
	return t[CanonicalLocale]
}

// Clone returns an independent copy
func (t Translations) Clone() Translations {
	if t == nil {
		return nil
	}
	return maps.Clone(t)
}

// Value implements the driver.Valuer interface for database storage
func (t Translations) Value() (driver.Value, error) {
	if t == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(t)
}

// Scan implements the sql.Scanner interface for database retrieval
func (t *Translations) Scan(value interface{}) error {
	if value == nil {
		*t = Translations{}
		return nil
	}

	b, ok := jsonBytes(value)
	if !ok {
		return helper.NewError("byte assertion", errors.New("type assertion to []byte failed"))
	}

	return json.Unmarshal(b, t)
}
