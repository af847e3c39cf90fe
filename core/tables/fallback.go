package tables

import "github.com/siherrmann/combiner/model"

// PlaceholderGlyph is used whenever no better icon can be found
const PlaceholderGlyph = "✨"

// SimpleWord is a generic combination word with its glyph
type SimpleWord struct {
	Word string
	Icon string
}

var simplePool = []SimpleWord{
	{"Fusion", "⚗️"},
	{"Essence", "💫"},
	{"Hybrid", "🔀"},
	{"Compound", "🧪"},
	{"Mixture", "🌀"},
	{"Blend", "🎨"},
	{"Catalyst", "🔮"},
	{"Spark", "✨"},
}

// SimplePool returns a copy of the generic combination words
func SimplePool() []SimpleWord {
	return append([]SimpleWord(nil), simplePool...)
}

// AbsoluteFallback is the result returned when every other step failed.
// It performs no I/O and cannot fail.
func AbsoluteFallback() *model.Result {
	return &model.Result{
		Word:         "Mystery",
		Icon:         "❓",
		Translations: tr("Mystery", "Misterio", "Mystère", "Geheimnis", "Mistério", "謎"),
		Rarity:       model.RarityCommon,
		Domain:       model.DomainUnknown,
		Source:       model.SourceAbsolute,
	}
}
