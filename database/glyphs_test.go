package database

import (
	"context"
	"testing"

	"github.com/siherrmann/combiner/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDimension = 3

func TestGlyphsNewGlyphsDBHandler(t *testing.T) {
	database := initDB(t)

	t.Run("Valid call NewGlyphsDBHandler", func(t *testing.T) {
		glyphsDbHandler, err := NewGlyphsDBHandler(database, testDimension, true)
		assert.NoError(t, err, "Expected NewGlyphsDBHandler to not return an error")
		require.NotNil(t, glyphsDbHandler, "Expected NewGlyphsDBHandler to return a non-nil instance")
	})

	t.Run("Invalid call NewGlyphsDBHandler with nil database", func(t *testing.T) {
		_, err := NewGlyphsDBHandler(nil, testDimension, false)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "database connection is nil")
	})

	t.Run("Invalid call NewGlyphsDBHandler with zero dimension", func(t *testing.T) {
		_, err := NewGlyphsDBHandler(database, 0, false)
		assert.Error(t, err)
	})
}

func TestGlyphsInsertAndSelect(t *testing.T) {
	database := initDB(t)
	ctx := context.Background()

	glyphsDbHandler, err := NewGlyphsDBHandler(database, testDimension, true)
	require.NoError(t, err)

	t.Run("Insert glyph with embedding", func(t *testing.T) {
		word := uniqueLabel("fairy")
		glyph, err := glyphsDbHandler.InsertGlyph(ctx, &model.Glyph{Word: word, Glyph: "🧚", Embedding: []float32{1, 0, 0}})
		require.NoError(t, err)
		assert.NotZero(t, glyph.ID)
		assert.Equal(t, "🧚", glyph.Glyph)
		assert.Equal(t, []float32{1, 0, 0}, glyph.Embedding)

		selected, err := glyphsDbHandler.SelectGlyphByWord(ctx, word)
		require.NoError(t, err)
		require.NotNil(t, selected)
		assert.Equal(t, glyph.ID, selected.ID)
		assert.Equal(t, "🧚", selected.Glyph)

		require.NoError(t, glyphsDbHandler.DeleteGlyph(ctx, word))
	})

	t.Run("Insert glyph without embedding", func(t *testing.T) {
		word := uniqueLabel("cyborg")
		glyph, err := glyphsDbHandler.InsertGlyph(ctx, &model.Glyph{Word: word, Glyph: "🦾"})
		require.NoError(t, err)
		assert.Nil(t, glyph.Embedding)

		require.NoError(t, glyphsDbHandler.DeleteGlyph(ctx, word))
	})

	t.Run("Insert existing word replaces the glyph and keeps the embedding", func(t *testing.T) {
		word := uniqueLabel("robot")
		_, err := glyphsDbHandler.InsertGlyph(ctx, &model.Glyph{Word: word, Glyph: "🤖", Embedding: []float32{0, 1, 0}})
		require.NoError(t, err)

		replaced, err := glyphsDbHandler.InsertGlyph(ctx, &model.Glyph{Word: word, Glyph: "🦿"})
		require.NoError(t, err)
		assert.Equal(t, "🦿", replaced.Glyph)
		assert.Equal(t, []float32{0, 1, 0}, replaced.Embedding)

		require.NoError(t, glyphsDbHandler.DeleteGlyph(ctx, word))
	})

	t.Run("Wrong embedding dimension is rejected", func(t *testing.T) {
		_, err := glyphsDbHandler.InsertGlyph(ctx, &model.Glyph{Word: uniqueLabel("x"), Glyph: "❌", Embedding: []float32{1, 0}})
		assert.Error(t, err)
	})

	t.Run("Select missing word returns nil", func(t *testing.T) {
		glyph, err := glyphsDbHandler.SelectGlyphByWord(ctx, uniqueLabel("missing"))
		assert.NoError(t, err)
		assert.Nil(t, glyph)
	})
}

func TestGlyphsSimilarity(t *testing.T) {
	database := initDB(t)
	ctx := context.Background()

	glyphsDbHandler, err := NewGlyphsDBHandler(database, testDimension, true)
	require.NoError(t, err)

	word := uniqueLabel("dragon")
	_, err = glyphsDbHandler.InsertGlyph(ctx, &model.Glyph{Word: word, Glyph: "🐉", Embedding: []float32{0, 0, 1}})
	require.NoError(t, err)
	defer glyphsDbHandler.DeleteGlyph(ctx, word)

	t.Run("Similar embedding finds the glyph", func(t *testing.T) {
		glyph, err := glyphsDbHandler.SelectSimilarGlyph(ctx, []float32{0, 0.1, 1}, 0.85)
		require.NoError(t, err)
		require.NotNil(t, glyph)
		assert.Equal(t, "🐉", glyph.Glyph)
		require.NotNil(t, glyph.Similarity)
		assert.Greater(t, *glyph.Similarity, 0.85)
	})

	t.Run("Dissimilar embedding finds nothing", func(t *testing.T) {
		glyph, err := glyphsDbHandler.SelectSimilarGlyph(ctx, []float32{-1, 0, 0}, 0.85)
		assert.NoError(t, err)
		assert.Nil(t, glyph)
	})

	t.Run("Wrong dimension is rejected", func(t *testing.T) {
		_, err := glyphsDbHandler.SelectSimilarGlyph(ctx, []float32{1}, 0.85)
		assert.Error(t, err)
	})
}
