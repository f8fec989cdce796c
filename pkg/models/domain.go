package models

import "database/sql"

// FileRecord is a catalog file identified by its album-relative path.
// Timestamps are kept as the catalog's text form so they compare lexicographically.
type FileRecord struct {
	Path             string         // Album-relative directory + file name
	CreationDate     sql.NullString // Creation timestamp (may be absent)
	ModificationDate sql.NullString // Modification timestamp (may be absent)
	FileSize         sql.NullInt64  // Size in bytes (may be absent)
}

// SimilarityEdge is an unordered pair of files reported as similar.
// Similarity uses the catalog's [0,1] scale and only orders the input.
type SimilarityEdge struct {
	A          FileRecord
	B          FileRecord
	Similarity float64
}

// Cluster is a set of paths connected through one or more similarity edges.
// Members are sorted and free of duplicates.
type Cluster struct {
	Members       []string
	MaxSimilarity float64 // Highest score among the cluster's edges
}

// Size returns the number of members in the cluster.
func (c Cluster) Size() int {
	return len(c.Members)
}

// MoveEntry relocates one non-canonical file.
type MoveEntry struct {
	Source      string
	Destination string
}

// Decision records the outcome of canonical selection for one cluster.
type Decision struct {
	Keep FileRecord
	Move []FileRecord
}
