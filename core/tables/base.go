package tables

import "github.com/siherrmann/combiner/model"

// BaseEntities returns freshly created base entities every session starts with
func BaseEntities() []*model.Entity {
	return []*model.Entity{
		model.NewBaseEntity("Water", "💧", tr("Water", "Agua", "Eau", "Wasser", "Água", "水")),
		model.NewBaseEntity("Fire", "🔥", tr("Fire", "Fuego", "Feu", "Feuer", "Fogo", "火")),
		model.NewBaseEntity("Earth", "🌍", tr("Earth", "Tierra", "Terre", "Erde", "Terra", "土")),
		model.NewBaseEntity("Air", "💨", tr("Air", "Aire", "Air", "Luft", "Ar", "空気")),
	}
}
