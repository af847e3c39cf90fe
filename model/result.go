package model

// Source names the resolution step that produced a result
type Source string

const (
	SourceInstant    Source = "instant"
	SourceGenerative Source = "generative"
	SourceThematic   Source = "thematic"
	SourceSimple     Source = "simple"
	SourceAbsolute   Source = "absolute"
)

// Result is the outcome of resolving two labels
type Result struct {
	Word         string       `json:"word"`
	Icon         string       `json:"icon"`
	Translations Translations `json:"translations"`
	Rarity       Rarity       `json:"rarity"`
	Domain       Domain       `json:"domain"`
	Source       Source       `json:"source"`
}

// Valid reports whether the result can be turned into an entity
func (r *Result) Valid() bool {
	return r != nil && r.Word != "" && r.Icon != "" && r.Rarity.Valid() && r.Domain != ""
}
