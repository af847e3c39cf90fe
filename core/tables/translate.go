package tables

import "github.com/siherrmann/combiner/model"

// tr builds translations in the order en, es, fr, de, pt, ja
func tr(en, es, fr, de, pt, ja string) model.Translations {
	return model.Translations{
		"en": en,
		"es": es,
		"fr": fr,
		"de": de,
		"pt": pt,
		"ja": ja,
	}
}
