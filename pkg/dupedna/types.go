package dupedna

import (
	"time"

	"github.com/himanishpuri/DupeDNA/pkg/models"
)

// FindOptions narrows which similarity pairs are considered.
type FindOptions struct {
	ThresholdPercent int // Minimum similarity, 0-100
	Top              int // Keep only the N most similar pairs; 0 means all
}

// Report is the outcome of one duplicate search.
type Report struct {
	RunID            string
	GeneratedAt      time.Time
	ThresholdPercent int
	Strategy         string
	Destination      string
	Edges            []models.SimilarityEdge
	Clusters         []models.Cluster
	Decisions        []models.Decision
	Plan             []models.MoveEntry
	ReclaimableBytes int64 // Sum of known sizes of files the plan moves
}
