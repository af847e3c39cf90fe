package tables

import "github.com/siherrmann/combiner/model"

// Combo is a precomputed combination result
type Combo struct {
	Word         string
	Icon         string
	Translations model.Translations
}

var instant = map[string]map[string]Combo{
	"Water": {
		"Fire":  {"Steam", "♨️", tr("Steam", "Vapor", "Vapeur", "Dampf", "Vapor", "蒸気")},
		"Earth": {"Mud", "💧", tr("Mud", "Barro", "Boue", "Schlamm", "Lama", "泥")},
		"Air":   {"Rain", "🌧️", tr("Rain", "Lluvia", "Pluie", "Regen", "Chuva", "雨")},
		"Water": {"Lake", "🏞️", tr("Lake", "Lago", "Lac", "See", "Lago", "湖")},
	},
	"Fire": {
		"Earth": {"Lava", "🌋", tr("Lava", "Lava", "Lave", "Lava", "Lava", "溶岩")},
		"Air":   {"Energy", "⚡", tr("Energy", "Energía", "Énergie", "Energie", "Energia", "エネルギー")},
		"Fire":  {"Inferno", "🔥", tr("Inferno", "Infierno", "Brasier", "Inferno", "Inferno", "業火")},
	},
	"Earth": {
		"Air":   {"Dust", "🌫️", tr("Dust", "Polvo", "Poussière", "Staub", "Poeira", "塵")},
		"Earth": {"Mountain", "⛰️", tr("Mountain", "Montaña", "Montagne", "Berg", "Montanha", "山")},
	},
	"Air": {
		"Air": {"Wind", "🌬️", tr("Wind", "Viento", "Vent", "Wind", "Vento", "風")},
	},
	"Steam": {
		"Earth": {"Geyser", "⛲", tr("Geyser", "Géiser", "Geyser", "Geysir", "Gêiser", "間欠泉")},
		"Air":   {"Cloud", "☁️", tr("Cloud", "Nube", "Nuage", "Wolke", "Nuvem", "雲")},
	},
	"Lava": {
		"Water": {"Stone", "🪨", tr("Stone", "Piedra", "Pierre", "Stein", "Pedra", "石")},
		"Air":   {"Obsidian", "🖤", tr("Obsidian", "Obsidiana", "Obsidienne", "Obsidian", "Obsidiana", "黒曜石")},
	},
	"Mud": {
		"Fire": {"Brick", "🧱", tr("Brick", "Ladrillo", "Brique", "Ziegel", "Tijolo", "レンガ")},
	},
	"Rain": {
		"Earth": {"Plant", "🌱", tr("Plant", "Planta", "Plante", "Pflanze", "Planta", "植物")},
		"Fire":  {"Rainbow", "🌈", tr("Rainbow", "Arcoíris", "Arc-en-ciel", "Regenbogen", "Arco-íris", "虹")},
	},
	"Energy": {
		"Stone": {"Metal", "⚙️", tr("Metal", "Metal", "Métal", "Metall", "Metal", "金属")},
		"Cloud": {"Storm", "⛈️", tr("Storm", "Tormenta", "Tempête", "Sturm", "Tempestade", "嵐")},
	},
	"Plant": {
		"Earth": {"Tree", "🌳", tr("Tree", "Árbol", "Arbre", "Baum", "Árvore", "木")},
		"Water": {"Algae", "🪸", tr("Algae", "Alga", "Algue", "Alge", "Alga", "藻")},
	},
	"Stone": {
		"Fire":  {"Metal", "⚙️", tr("Metal", "Metal", "Métal", "Metall", "Metal", "金属")},
		"Stone": {"Wall", "🧱", tr("Wall", "Muro", "Mur", "Mauer", "Muro", "壁")},
	},
	"Metal": {
		"Energy": {"Robot", "🤖", tr("Robot", "Robot", "Robot", "Roboter", "Robô", "ロボット")},
	},
	"Tree": {
		"Fire": {"Ash", "🪵", tr("Ash", "Ceniza", "Cendre", "Asche", "Cinza", "灰")},
	},
}

// LookupInstant checks the instant table in both orders (a, b) and (b, a)
func LookupInstant(a string, b string) (Combo, bool) {
	if combo, ok := instant[a][b]; ok {
		return combo.clone(), true
	}
	if combo, ok := instant[b][a]; ok {
		return combo.clone(), true
	}
	return Combo{}, false
}

func (c Combo) clone() Combo {
	c.Translations = c.Translations.Clone()
	return c
}
