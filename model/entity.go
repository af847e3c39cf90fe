package model

import (
	"time"

	"github.com/google/uuid"
)

// Entity is a combinable item. Base entities are seeded and never carry
// ancestry; derived entities are created once per successful combination.
// Only LastCombinedAt changes after creation.
type Entity struct {
	ID             uuid.UUID    `json:"id"`
	Label          string       `json:"label"`
	Translations   Translations `json:"translations,omitempty"`
	Icon           string       `json:"icon"`
	IsBase         bool         `json:"is_base"`
	Ancestors      []string     `json:"ancestors,omitempty"`
	Rarity         Rarity       `json:"rarity"`
	Domain         Domain       `json:"domain"`
	LastCombinedAt *time.Time   `json:"last_combined_at,omitempty"`
}

// NewBaseEntity creates a foundational entity
func NewBaseEntity(label string, icon string, translations Translations) *Entity {
	return &Entity{
		ID:           uuid.New(),
		Label:        label,
		Translations: translations.Clone(),
		Icon:         icon,
		IsBase:       true,
		Rarity:       RarityCommon,
		Domain:       DomainElemental,
	}
}

// NewDerivedEntity creates the entity produced by combining the ancestors into result
func NewDerivedEntity(result *Result, ancestors ...string) *Entity {
	return &Entity{
		ID:           uuid.New(),
		Label:        result.Word,
		Translations: result.Translations.Clone(),
		Icon:         result.Icon,
		Ancestors:    append([]string(nil), ancestors...),
		Rarity:       result.Rarity,
		Domain:       result.Domain,
	}
}

// DisplayLabel returns the label in locale, falling back to Label
func (e *Entity) DisplayLabel(locale string) string {
	if label := e.Translations.Label(locale); label != "" {
		return label
	}
	return e.Label
}
