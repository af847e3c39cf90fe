// Package tables holds the immutable lookup tables of the combination engine:
// the instant combination table, the domain classification table, thematic
// and simple fallback pools, glyph tables and the base entity seed.
//
// All tables are package-level values that are never written after init.
// Accessors return copies so callers cannot mutate them.
package tables
