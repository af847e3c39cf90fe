package tables

import "github.com/siherrmann/combiner/model"

type domainPair struct {
	a model.Domain
	b model.Domain
}

var thematic = map[domainPair][]string{
	{model.DomainNature, model.DomainNature}:       {"Meadow", "Grove", "Thicket", "Bloom", "Orchard"},
	{model.DomainNature, model.DomainTech}:         {"Biotech", "Cyborg", "Greenhouse", "Drone", "Solarleaf"},
	{model.DomainNature, model.DomainMythology}:    {"Dryad", "Treant", "Faun", "Sprite", "Elderwood"},
	{model.DomainNature, model.DomainScience}:      {"Genome", "Fossil", "Spore", "Enzyme", "Pollen"},
	{model.DomainNature, model.DomainElemental}:    {"Swamp", "Oasis", "Glacier", "Canyon", "Marsh"},
	{model.DomainNature, model.DomainCulture}:      {"Garden", "Farm", "Park", "Vineyard", "Picnic"},
	{model.DomainTech, model.DomainTech}:           {"Circuit", "Gadget", "Network", "Factory", "Server"},
	{model.DomainTech, model.DomainMythology}:      {"Automaton", "Golem", "Runeforge", "Oracle", "Mecha"},
	{model.DomainTech, model.DomainScience}:        {"Reactor", "Laser", "Satellite", "Microchip", "Rocket"},
	{model.DomainTech, model.DomainElemental}:      {"Turbine", "Furnace", "Battery", "Dynamo", "Boiler"},
	{model.DomainTech, model.DomainCulture}:        {"Radio", "Camera", "Cinema", "Printer", "Arcade"},
	{model.DomainMythology, model.DomainMythology}: {"Pantheon", "Legend", "Prophecy", "Olympus", "Valhalla"},
	{model.DomainMythology, model.DomainScience}:   {"Alchemy", "Elixir", "Chimera", "Astrology", "Philtre"},
	{model.DomainMythology, model.DomainElemental}: {"Phoenix", "Kraken", "Djinn", "Salamander", "Thunderbird"},
	{model.DomainMythology, model.DomainCulture}:   {"Epic", "Saga", "Temple", "Ritual", "Fable"},
	{model.DomainScience, model.DomainScience}:     {"Theory", "Formula", "Isotope", "Quantum", "Particle"},
	{model.DomainScience, model.DomainElemental}:   {"Crystal", "Magnet", "Vapor", "Ozone", "Mineral"},
	{model.DomainScience, model.DomainCulture}:     {"School", "Museum", "Library", "Calendar", "Medicine"},
	{model.DomainElemental, model.DomainElemental}: {"Tempest", "Magma", "Blizzard", "Whirlpool", "Sandstorm"},
	{model.DomainElemental, model.DomainCulture}:   {"Pottery", "Forge", "Lantern", "Fountain", "Windmill"},
	{model.DomainCulture, model.DomainCulture}:     {"Festival", "Village", "Theater", "Market", "Poem"},
}

// LookupThematic returns the candidate words for a pair of domains,
// trying (a, b) first and (b, a) second.
func LookupThematic(a model.Domain, b model.Domain) ([]string, bool) {
	if words, ok := thematic[domainPair{a, b}]; ok {
		return append([]string(nil), words...), true
	}
	if words, ok := thematic[domainPair{b, a}]; ok {
		return append([]string(nil), words...), true
	}
	return nil, false
}

var domainGlyphs = map[model.Domain]string{
	model.DomainNature:    "🌿",
	model.DomainTech:      "⚙️",
	model.DomainMythology: "🐉",
	model.DomainScience:   "🔬",
	model.DomainElemental: "🌀",
	model.DomainCulture:   "🎭",
	model.DomainUnknown:   "✨",
}

// DomainGlyph returns the glyph representing a domain
func DomainGlyph(d model.Domain) string {
	if glyph, ok := domainGlyphs[d]; ok {
		return glyph
	}
	return PlaceholderGlyph
}
