// Package cluster partitions files into groups connected by similarity edges.
//
// Similarity is not transitive, but grouping is: if A~B and B~C then A, B and
// C share a cluster even when A and C were never compared. Components are
// found with an iterative disjoint-set forest so arbitrarily large clusters
// never grow the call stack.
package cluster

import (
	"sort"

	"github.com/himanishpuri/DupeDNA/pkg/models"
)

// Build groups the endpoints of edges into connected components.
//
// Only paths that appear in a non-self edge become vertices, so every
// returned cluster has at least two members. Duplicate edges are harmless.
// Clusters are ordered by the first edge that touched them and members are
// sorted by path.
func Build(edges []models.SimilarityEdge) []models.Cluster {
	if len(edges) == 0 {
		return nil
	}

	vertices := newVertexTable(edges)
	if vertices.len() == 0 {
		return nil
	}

	forest := newDisjointSet(vertices.len())
	for _, e := range edges {
		if e.A.Path == e.B.Path {
			continue
		}
		forest.union(vertices.index[e.A.Path], vertices.index[e.B.Path])
	}

	// Group by root. Roots are visited in first-seen vertex order, which
	// follows edge order.
	groupOf := make(map[int]int, vertices.len())
	var clusters []models.Cluster
	for v, path := range vertices.paths {
		root := forest.find(v)
		g, ok := groupOf[root]
		if !ok {
			g = len(clusters)
			groupOf[root] = g
			clusters = append(clusters, models.Cluster{})
		}
		clusters[g].Members = append(clusters[g].Members, path)
	}

	for _, e := range edges {
		if e.A.Path == e.B.Path {
			continue
		}
		g := groupOf[forest.find(vertices.index[e.A.Path])]
		if e.Similarity > clusters[g].MaxSimilarity {
			clusters[g].MaxSimilarity = e.Similarity
		}
	}

	for i := range clusters {
		sort.Strings(clusters[i].Members)
	}
	return clusters
}

// CollectMetadata indexes every edge endpoint by path. When a path is seen
// more than once, absent fields are filled from later sightings and the first
// present value wins.
func CollectMetadata(edges []models.SimilarityEdge) map[string]models.FileRecord {
	out := make(map[string]models.FileRecord, len(edges)*2)
	for _, e := range edges {
		for _, rec := range [2]models.FileRecord{e.A, e.B} {
			existing, ok := out[rec.Path]
			if !ok {
				out[rec.Path] = rec
				continue
			}
			out[rec.Path] = mergeRecord(existing, rec)
		}
	}
	return out
}

func mergeRecord(dst, src models.FileRecord) models.FileRecord {
	if !dst.CreationDate.Valid && src.CreationDate.Valid {
		dst.CreationDate = src.CreationDate
	}
	if !dst.ModificationDate.Valid && src.ModificationDate.Valid {
		dst.ModificationDate = src.ModificationDate
	}
	if !dst.FileSize.Valid && src.FileSize.Valid {
		dst.FileSize = src.FileSize
	}
	return dst
}

// vertexTable assigns dense indices to paths in first-seen order.
type vertexTable struct {
	index map[string]int
	paths []string
}

func newVertexTable(edges []models.SimilarityEdge) *vertexTable {
	t := &vertexTable{
		index: make(map[string]int, len(edges)),
		paths: make([]string, 0, len(edges)),
	}
	for _, e := range edges {
		if e.A.Path == e.B.Path {
			continue
		}
		t.add(e.A.Path)
		t.add(e.B.Path)
	}
	return t
}

func (t *vertexTable) add(path string) {
	if _, ok := t.index[path]; ok {
		return
	}
	t.index[path] = len(t.paths)
	t.paths = append(t.paths, path)
}

func (t *vertexTable) len() int {
	return len(t.paths)
}
