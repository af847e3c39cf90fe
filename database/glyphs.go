package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/pgvector/pgvector-go"
	"github.com/siherrmann/combiner/core/pipeline"
	"github.com/siherrmann/combiner/helper"
	"github.com/siherrmann/combiner/model"
	loadSql "github.com/siherrmann/combiner/sql"
)

// GlyphsDBHandler is the persistent glyph cache with embedding similarity search
type GlyphsDBHandler struct {
	db        *helper.Database
	dimension int
}

var _ pipeline.GlyphStore = (*GlyphsDBHandler)(nil)

// NewGlyphsDBHandler creates a new glyphs database handler.
// dimension is the length of the stored word embeddings.
// If force is true, it will reload the SQL functions even if they already exist.
func NewGlyphsDBHandler(db *helper.Database, dimension int, force bool) (*GlyphsDBHandler, error) {
	if db == nil {
		return nil, helper.NewError("database connection validation", fmt.Errorf("database connection is nil"))
	}
	if dimension <= 0 {
		return nil, helper.NewError("dimension validation", fmt.Errorf("embedding dimension must be positive, got %d", dimension))
	}

	glyphsDbHandler := &GlyphsDBHandler{
		db:        db,
		dimension: dimension,
	}

	err := loadSql.LoadGlyphsSql(glyphsDbHandler.db.Instance, force)
	if err != nil {
		return nil, helper.NewError("load glyphs sql", err)
	}

	err = glyphsDbHandler.CreateTable()
	if err != nil {
		return nil, helper.NewError("create table", err)
	}

	db.Logger.Info("Initialized GlyphsDBHandler")

	return glyphsDbHandler, nil
}

// CreateTable creates the 'glyphs' table and its vector index.
// If the table already exists, it does not create it again.
func (h *GlyphsDBHandler) CreateTable() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := h.db.Instance.ExecContext(ctx, `SELECT init_glyphs($1);`, h.dimension)
	if err != nil {
		log.Panicf("error initializing glyphs table: %#v", err)
	}

	h.db.Logger.Info("Checked/created table glyphs")

	return nil
}

// InsertGlyph stores the glyph of a word, replacing an existing one
func (h *GlyphsDBHandler) InsertGlyph(ctx context.Context, glyph *model.Glyph) (*model.Glyph, error) {
	if glyph.Embedding != nil && len(glyph.Embedding) != h.dimension {
		return nil, helper.NewError("embedding validation", fmt.Errorf("embedding has %d dimensions, want %d", len(glyph.Embedding), h.dimension))
	}

	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM insert_glyph($1, $2, $3)`,
		glyph.Word,
		glyph.Glyph,
		toVector(glyph.Embedding),
	)

	inserted, err := scanGlyph(row, false)
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return inserted, nil
}

// SelectGlyphByWord returns the cached glyph of word, nil if there is none
func (h *GlyphsDBHandler) SelectGlyphByWord(ctx context.Context, word string) (*model.Glyph, error) {
	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM select_glyph_by_word($1)`,
		word,
	)

	glyph, err := scanGlyph(row, false)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return glyph, nil
}

// SelectSimilarGlyph returns the glyph of the nearest word by cosine
// similarity if it reaches threshold, nil otherwise.
func (h *GlyphsDBHandler) SelectSimilarGlyph(ctx context.Context, embedding []float32, threshold float64) (*model.Glyph, error) {
	if len(embedding) != h.dimension {
		return nil, helper.NewError("embedding validation", fmt.Errorf("embedding has %d dimensions, want %d", len(embedding), h.dimension))
	}

	row := h.db.Instance.QueryRowContext(
		ctx,
		`SELECT * FROM select_glyph_by_similarity($1, $2)`,
		pgvector.NewVector(embedding),
		threshold,
	)

	glyph, err := scanGlyph(row, true)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, helper.NewError("scan", err)
	}

	return glyph, nil
}

// DeleteGlyph removes the cached glyph of word
func (h *GlyphsDBHandler) DeleteGlyph(ctx context.Context, word string) error {
	_, err := h.db.Instance.ExecContext(
		ctx,
		`SELECT delete_glyph($1)`,
		word,
	)
	if err != nil {
		return helper.NewError("exec", err)
	}
	return nil
}

func toVector(embedding []float32) *pgvector.Vector {
	if embedding == nil {
		return nil
	}
	vector := pgvector.NewVector(embedding)
	return &vector
}

func scanGlyph(row scanner, withSimilarity bool) (*model.Glyph, error) {
	glyph := &model.Glyph{}
	var embedding *pgvector.Vector
	dest := []any{
		&glyph.ID,
		&glyph.Word,
		&glyph.Glyph,
		&embedding,
		&glyph.CreatedAt,
	}
	if withSimilarity {
		dest = append(dest, &glyph.Similarity)
	}

	err := row.Scan(dest...)
	if err != nil {
		return nil, err
	}

	if embedding != nil {
		glyph.Embedding = embedding.Slice()
	}
	return glyph, nil
}
