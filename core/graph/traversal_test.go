package graph

import (
	"strings"
	"testing"

	"github.com/siherrmann/combiner/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockGraph is an in-memory EntityGraph for testing
type mockGraph struct {
	entities map[string]*model.Entity
}

func newMockGraph(entities ...*model.Entity) *mockGraph {
	g := &mockGraph{entities: make(map[string]*model.Entity)}
	for _, entity := range entities {
		g.entities[strings.ToLower(entity.Label)] = entity
	}
	return g
}

func (g *mockGraph) Entity(label string) *model.Entity {
	return g.entities[strings.ToLower(label)]
}

func entity(label string, ancestors ...string) *model.Entity {
	return &model.Entity{Label: label, Ancestors: ancestors, IsBase: len(ancestors) == 0}
}

// Water + Fire -> Steam, Steam + Air -> Cloud, Cloud + Water -> Rain
func testGraph() *mockGraph {
	return newMockGraph(
		entity("Water"),
		entity("Fire"),
		entity("Air"),
		entity("Steam", "Water", "Fire"),
		entity("Cloud", "Steam", "Air"),
		entity("Rain", "Cloud", "Water"),
		entity("Lake", "Water", "Water"),
	)
}

func labels(results []*TraversalResult) []string {
	out := make([]string, 0, len(results))
	for _, result := range results {
		out = append(out, result.Entity.Label)
	}
	return out
}

func TestBFS(t *testing.T) {
	g := testGraph()

	t.Run("Traverses ancestors level by level", func(t *testing.T) {
		results := BFS(g, "Rain", 10)
		assert.Equal(t, []string{"Rain", "Cloud", "Water", "Steam", "Air", "Fire"}, labels(results))

		assert.Equal(t, 0, results[0].Distance)
		assert.Equal(t, 1, results[1].Distance)
		assert.Equal(t, 2, results[3].Distance)
		assert.Equal(t, []string{"Rain", "Cloud", "Steam", "Fire"}, results[5].Path)
	})

	t.Run("Respects max hops", func(t *testing.T) {
		results := BFS(g, "Rain", 1)
		assert.Equal(t, []string{"Rain", "Cloud", "Water"}, labels(results))

		results = BFS(g, "Rain", 0)
		assert.Equal(t, []string{"Rain"}, labels(results))
	})

	t.Run("Visits repeated ancestors once", func(t *testing.T) {
		results := BFS(g, "Lake", 10)
		assert.Equal(t, []string{"Lake", "Water"}, labels(results))
	})

	t.Run("Label lookup ignores case", func(t *testing.T) {
		results := BFS(g, "steam", 10)
		require.NotEmpty(t, results)
		assert.Equal(t, "Steam", results[0].Entity.Label)
	})

	t.Run("Unknown source", func(t *testing.T) {
		assert.Nil(t, BFS(g, "Nothing", 10))
	})

	t.Run("Missing ancestors are skipped", func(t *testing.T) {
		g := newMockGraph(entity("Golem", "Clay", "Life"), entity("Life"))
		assert.Equal(t, []string{"Golem", "Life"}, labels(BFS(g, "Golem", 10)))
	})
}

func TestDFS(t *testing.T) {
	g := testGraph()

	t.Run("Traverses first ancestor first", func(t *testing.T) {
		results := DFS(g, "Rain", 10)
		assert.Equal(t, []string{"Rain", "Cloud", "Steam", "Water", "Fire", "Air"}, labels(results))
		assert.Equal(t, 3, results[3].Distance)
		assert.Equal(t, []string{"Rain", "Cloud", "Steam", "Water"}, results[3].Path)
	})

	t.Run("Respects max hops", func(t *testing.T) {
		results := DFS(g, "Rain", 1)
		assert.Equal(t, []string{"Rain", "Cloud", "Water"}, labels(results))
	})

	t.Run("Unknown source", func(t *testing.T) {
		assert.Nil(t, DFS(g, "Nothing", 10))
	})
}

func TestParents(t *testing.T) {
	g := testGraph()

	t.Run("Direct ancestors", func(t *testing.T) {
		parents := Parents(g, "Cloud")
		require.Len(t, parents, 2)
		assert.Equal(t, "Steam", parents[0].Label)
		assert.Equal(t, "Air", parents[1].Label)
	})

	t.Run("Base entity has no parents", func(t *testing.T) {
		assert.Empty(t, Parents(g, "Water"))
	})

	t.Run("Unknown entity", func(t *testing.T) {
		assert.Nil(t, Parents(g, "Nothing"))
	})
}

func TestRoots(t *testing.T) {
	g := testGraph()

	t.Run("Base entities in traversal order", func(t *testing.T) {
		roots := Roots(g, "Rain")
		var rootLabels []string
		for _, root := range roots {
			rootLabels = append(rootLabels, root.Label)
		}
		assert.Equal(t, []string{"Water", "Air", "Fire"}, rootLabels)
	})

	t.Run("Base entity is its own root", func(t *testing.T) {
		roots := Roots(g, "Water")
		require.Len(t, roots, 1)
		assert.Equal(t, "Water", roots[0].Label)
	})
}
