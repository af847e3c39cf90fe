package classify

import (
	"github.com/siherrmann/combiner/core/tables"
	"github.com/siherrmann/combiner/model"
)

// Domain classifies a label with the static table
func Domain(label string) model.Domain {
	return tables.ClassifyStatic(label)
}

// Rarity derives the tier from the domains of two inputs. The checks are a
// priority list and the first match wins, so a MYTHOLOGY+MYTHOLOGY pair is
// Common, not Rare.
func Rarity(a model.Domain, b model.Domain) model.Rarity {
	switch {
	case a == b:
		return model.RarityCommon
	case (a == model.DomainTech && b == model.DomainNature) || (a == model.DomainNature && b == model.DomainTech):
		return model.RarityUncommon
	case a == model.DomainMythology || b == model.DomainMythology:
		return model.RarityRare
	default:
		return model.RarityLegendary
	}
}

// LabelRarity classifies both labels statically and returns their tier
func LabelRarity(a string, b string) model.Rarity {
	return Rarity(Domain(a), Domain(b))
}

// ResultDomain picks the domain tag carried by a result: the first input's
// domain if known, else the second's, else DomainUnknown.
func ResultDomain(a model.Domain, b model.Domain) model.Domain {
	if a.Known() {
		return a
	}
	if b.Known() {
		return b
	}
	return model.DomainUnknown
}
