package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func indexDefinition(t *testing.T, h *GlyphsDBHandler) string {
	t.Helper()
	var definition string
	err := h.db.Instance.QueryRow(`SELECT indexdef FROM pg_indexes WHERE indexname = 'idx_glyphs_embedding';`).Scan(&definition)
	require.NoError(t, err)
	return definition
}

func TestGlyphsChangeIndexType(t *testing.T) {
	database := initDB(t)
	ctx := context.Background()

	glyphsDbHandler, err := NewGlyphsDBHandler(database, testDimension, true)
	require.NoError(t, err)

	t.Run("Default index is hnsw", func(t *testing.T) {
		assert.Contains(t, indexDefinition(t, glyphsDbHandler), "hnsw")
	})

	t.Run("Change to ivfflat", func(t *testing.T) {
		err := glyphsDbHandler.ChangeIndexType(ctx, "ivfflat", map[string]interface{}{"lists": 10})
		require.NoError(t, err)
		assert.Contains(t, indexDefinition(t, glyphsDbHandler), "ivfflat")
	})

	t.Run("Change back to hnsw with params", func(t *testing.T) {
		err := glyphsDbHandler.ChangeIndexType(ctx, "hnsw", map[string]interface{}{"m": 8, "ef_construction": 32})
		require.NoError(t, err)
		definition := indexDefinition(t, glyphsDbHandler)
		assert.Contains(t, definition, "hnsw")
		assert.Contains(t, definition, "m='8'")
	})

	t.Run("Unsupported index type", func(t *testing.T) {
		err := glyphsDbHandler.ChangeIndexType(ctx, "btree", nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported index type")
		assert.Contains(t, indexDefinition(t, glyphsDbHandler), "hnsw", "Expected the previous index to remain")
	})
}
