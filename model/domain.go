package model

// Domain is a coarse thematic category of a label. It only steers fallback
// word selection, glyph choice and rarity; it is never authoritative.
type Domain string

const (
	DomainNature    Domain = "NATURE"
	DomainTech      Domain = "TECH"
	DomainMythology Domain = "MYTHOLOGY"
	DomainScience   Domain = "SCIENCE"
	DomainElemental Domain = "ELEMENTAL"
	DomainCulture   Domain = "CULTURE"
	DomainUnknown   Domain = "UNKNOWN"
)

// Domains lists every known domain except DomainUnknown
func Domains() []Domain {
	return []Domain{
		DomainNature,
		DomainTech,
		DomainMythology,
		DomainScience,
		DomainElemental,
		DomainCulture,
	}
}

// Known reports whether d is one of the classified domains
func (d Domain) Known() bool {
	for _, known := range Domains() {
		if d == known {
			return true
		}
	}
	return false
}
