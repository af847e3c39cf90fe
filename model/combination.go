package model

import (
	"time"

	"github.com/google/uuid"
)

// CombinationRecord counts how often a label was produced across all users.
// Count never decreases and is at least 1 once the record exists.
type CombinationRecord struct {
	ID        int64     `json:"id"`
	RID       uuid.UUID `json:"rid"`
	Label     string    `json:"label"`
	Count     int64     `json:"count"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Glyph is a cached icon for a word, optionally with the word's embedding
type Glyph struct {
	ID         int64     `json:"id"`
	Word       string    `json:"word"`
	Glyph      string    `json:"glyph"`
	Embedding  []float32 `json:"embedding,omitempty"`
	Similarity *float64  `json:"similarity,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
