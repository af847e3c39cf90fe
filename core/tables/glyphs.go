package tables

import "strings"

var wordGlyphs = map[string]string{
	"water":    "💧",
	"fire":     "🔥",
	"earth":    "🌍",
	"air":      "💨",
	"steam":    "♨️",
	"mud":      "💧",
	"lava":     "🌋",
	"dust":     "🌫️",
	"energy":   "⚡",
	"rain":     "🌧️",
	"cloud":    "☁️",
	"storm":    "⛈️",
	"plant":    "🌱",
	"tree":     "🌳",
	"forest":   "🌲",
	"flower":   "🌸",
	"stone":    "🪨",
	"metal":    "⚙️",
	"robot":    "🤖",
	"dragon":   "🐉",
	"phoenix":  "🐦‍🔥",
	"magic":    "🪄",
	"atom":     "⚛️",
	"crystal":  "💎",
	"music":    "🎵",
	"book":     "📖",
	"city":     "🏙️",
	"house":    "🏠",
	"ice":      "🧊",
	"ocean":    "🌊",
	"mountain": "⛰️",
	"volcano":  "🌋",
	"sun":      "☀️",
	"moon":     "🌙",
	"star":     "⭐",
	"life":     "🧬",
	"time":     "⏳",
}

// LookupGlyph returns the static glyph for word, ignoring case
func LookupGlyph(word string) (string, bool) {
	glyph, ok := wordGlyphs[strings.ToLower(strings.TrimSpace(word))]
	return glyph, ok
}
