package model

import (
	"fmt"
	"strings"
)

// Rarity is the ordered tier assigned to a combination result.
type Rarity int

const (
	RarityCommon Rarity = iota
	RarityUncommon
	RarityRare
	RarityLegendary
)

var rarityNames = [...]string{"Common", "Uncommon", "Rare", "Legendary"}

// String returns the display name of the tier
func (r Rarity) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Rarity(%d)", int(r))
	}
	return rarityNames[r]
}

// Valid reports whether r is inside the enumeration
func (r Rarity) Valid() bool {
	return r >= RarityCommon && r <= RarityLegendary
}

// ParseRarity parses a tier name case-insensitively
func ParseRarity(s string) (Rarity, error) {
	for i, name := range rarityNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return Rarity(i), nil
		}
	}
	return RarityCommon, fmt.Errorf("unknown rarity %q", s)
}

// MarshalText encodes the tier by name
func (r Rarity) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid rarity %d", int(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText decodes a tier name
func (r *Rarity) UnmarshalText(text []byte) error {
	parsed, err := ParseRarity(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
