package tables

import (
	"strings"

	"github.com/siherrmann/combiner/model"
)

var domainOf = map[string]model.Domain{
	// Elemental
	"water":     model.DomainElemental,
	"fire":      model.DomainElemental,
	"earth":     model.DomainElemental,
	"air":       model.DomainElemental,
	"steam":     model.DomainElemental,
	"lava":      model.DomainElemental,
	"mud":       model.DomainElemental,
	"dust":      model.DomainElemental,
	"energy":    model.DomainElemental,
	"wind":      model.DomainElemental,
	"inferno":   model.DomainElemental,
	"storm":     model.DomainElemental,
	"lightning": model.DomainElemental,
	"ice":       model.DomainElemental,
	// Nature
	"plant":    model.DomainNature,
	"tree":     model.DomainNature,
	"forest":   model.DomainNature,
	"flower":   model.DomainNature,
	"algae":    model.DomainNature,
	"animal":   model.DomainNature,
	"life":     model.DomainNature,
	"rain":     model.DomainNature,
	"cloud":    model.DomainNature,
	"lake":     model.DomainNature,
	"mountain": model.DomainNature,
	"ocean":    model.DomainNature,
	"seed":     model.DomainNature,
	"ash":      model.DomainNature,
	// Tech
	"metal":       model.DomainTech,
	"robot":       model.DomainTech,
	"computer":    model.DomainTech,
	"machine":     model.DomainTech,
	"engine":      model.DomainTech,
	"electricity": model.DomainTech,
	"wire":        model.DomainTech,
	"internet":    model.DomainTech,
	"brick":       model.DomainTech,
	"wall":        model.DomainTech,
	"tool":        model.DomainTech,
	// Mythology
	"dragon":  model.DomainMythology,
	"phoenix": model.DomainMythology,
	"unicorn": model.DomainMythology,
	"god":     model.DomainMythology,
	"spirit":  model.DomainMythology,
	"magic":   model.DomainMythology,
	"golem":   model.DomainMythology,
	"titan":   model.DomainMythology,
	// Science
	"atom":       model.DomainScience,
	"molecule":   model.DomainScience,
	"gravity":    model.DomainScience,
	"plasma":     model.DomainScience,
	"laboratory": model.DomainScience,
	"acid":       model.DomainScience,
	"stone":      model.DomainScience,
	"obsidian":   model.DomainScience,
	"geyser":     model.DomainScience,
	// Culture
	"music":    model.DomainCulture,
	"art":      model.DomainCulture,
	"book":     model.DomainCulture,
	"city":     model.DomainCulture,
	"house":    model.DomainCulture,
	"human":    model.DomainCulture,
	"language": model.DomainCulture,
	"rainbow":  model.DomainCulture,
}

// ClassifyStatic returns the domain of label from the static table,
// DomainUnknown if the label is not listed. Matching ignores case and
// surrounding whitespace.
func ClassifyStatic(label string) model.Domain {
	if d, ok := domainOf[strings.ToLower(strings.TrimSpace(label))]; ok {
		return d
	}
	return model.DomainUnknown
}

// domainPrototypes are short phrases describing each domain. They seed the
// semantic classifier when one is configured.
var domainPrototypes = map[model.Domain][]string{
	model.DomainNature:    {"plants, animals and landscapes", "forest river flower"},
	model.DomainTech:      {"machines, computers and tools", "robot engine circuit"},
	model.DomainMythology: {"myths, gods and legendary creatures", "dragon phoenix magic"},
	model.DomainScience:   {"physics, chemistry and laboratories", "atom molecule gravity"},
	model.DomainElemental: {"the classical elements", "water fire earth air"},
	model.DomainCulture:   {"art, music, cities and people", "book song painting"},
}

// DomainPrototypes returns a copy of the prototype phrases per domain
func DomainPrototypes() map[model.Domain][]string {
	out := make(map[model.Domain][]string, len(domainPrototypes))
	for d, phrases := range domainPrototypes {
		out[d] = append([]string(nil), phrases...)
	}
	return out
}
