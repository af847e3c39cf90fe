package graph

import (
	"math"
	"strings"

	"github.com/siherrmann/combiner/model"
)

// EntityGraph resolves entities by label. Edges run from a derived entity
// to the entities it was combined from.
type EntityGraph interface {
	Entity(label string) *model.Entity
}

// TraversalResult contains an entity and its distance from the source
type TraversalResult struct {
	Entity   *model.Entity
	Distance int
	Path     []string // Labels from source to this entity
}

// BFS walks the ancestry of label breadth-first.
// A missing source returns no results; missing ancestors are skipped.
func BFS(g EntityGraph, label string, maxHops int) []*TraversalResult {
	source := g.Entity(label)
	if source == nil {
		return nil
	}

	visited := map[string]bool{key(source.Label): true}
	queue := []TraversalResult{{
		Entity:   source,
		Distance: 0,
		Path:     []string{source.Label},
	}}

	var results []*TraversalResult
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		results = append(results, &current)

		// Stop if we've reached max hops
		if current.Distance >= maxHops {
			continue
		}

		for _, ancestorLabel := range current.Entity.Ancestors {
			if visited[key(ancestorLabel)] {
				continue
			}

			ancestor := g.Entity(ancestorLabel)
			if ancestor == nil {
				continue
			}
			visited[key(ancestorLabel)] = true

			newPath := make([]string, len(current.Path), len(current.Path)+1)
			copy(newPath, current.Path)
			newPath = append(newPath, ancestor.Label)

			queue = append(queue, TraversalResult{
				Entity:   ancestor,
				Distance: current.Distance + 1,
				Path:     newPath,
			})
		}
	}

	return results
}

// DFS walks the ancestry of label depth-first, first ancestor first
func DFS(g EntityGraph, label string, maxHops int) []*TraversalResult {
	source := g.Entity(label)
	if source == nil {
		return nil
	}

	var results []*TraversalResult
	visited := make(map[string]bool)
	dfsRecursive(g, source, 0, maxHops, []string{source.Label}, visited, &results)

	return results
}

func dfsRecursive(
	g EntityGraph,
	current *model.Entity,
	distance int,
	maxHops int,
	path []string,
	visited map[string]bool,
	results *[]*TraversalResult,
) {
	visited[key(current.Label)] = true

	pathCopy := make([]string, len(path))
	copy(pathCopy, path)
	*results = append(*results, &TraversalResult{
		Entity:   current,
		Distance: distance,
		Path:     pathCopy,
	})

	if distance >= maxHops {
		return
	}

	for _, ancestorLabel := range current.Ancestors {
		if visited[key(ancestorLabel)] {
			continue
		}

		ancestor := g.Entity(ancestorLabel)
		if ancestor == nil {
			continue
		}

		newPath := make([]string, len(path), len(path)+1)
		copy(newPath, path)
		newPath = append(newPath, ancestor.Label)

		dfsRecursive(g, ancestor, distance+1, maxHops, newPath, visited, results)
	}
}

// Parents returns the entities label was directly combined from
func Parents(g EntityGraph, label string) []*model.Entity {
	results := BFS(g, label, 1)
	if len(results) == 0 {
		return nil
	}

	// Skip the source entity itself (first result)
	parents := make([]*model.Entity, 0, len(results)-1)
	for i := 1; i < len(results); i++ {
		parents = append(parents, results[i].Entity)
	}

	return parents
}

// Roots returns the entities without ancestors that label descends from,
// in traversal order
func Roots(g EntityGraph, label string) []*model.Entity {
	var roots []*model.Entity
	for _, result := range BFS(g, label, math.MaxInt) {
		if len(result.Entity.Ancestors) == 0 {
			roots = append(roots, result.Entity)
		}
	}
	return roots
}

func key(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}
