package main

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/himanishpuri/DupeDNA/pkg/dupedna"
	"github.com/himanishpuri/DupeDNA/pkg/dupedna/report"
)

// MaxTop caps how many pairs a single preview request may pull.
const MaxTop = 100000

// FindQuery holds the query parameters of /api/clusters and /api/plan.
type FindQuery struct {
	Threshold int
	Top       int
	Format    string
}

// parseFindQuery reads threshold, top and format, falling back to defaults.
func parseFindQuery(q url.Values, defaults dupedna.FindOptions) (FindQuery, error) {
	fq := FindQuery{Threshold: defaults.ThresholdPercent, Top: defaults.Top, Format: "json"}

	if v := strings.TrimSpace(q.Get("threshold")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fq, fmt.Errorf("threshold must be an integer percent")
		}
		fq.Threshold = n
	}
	if fq.Threshold < 0 || fq.Threshold > 100 {
		return fq, fmt.Errorf("threshold must be between 0 and 100")
	}

	if v := strings.TrimSpace(q.Get("top")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fq, fmt.Errorf("top must be a non-negative integer")
		}
		fq.Top = n
	}
	if fq.Top > MaxTop {
		return fq, fmt.Errorf("top too large: %d (maximum: %d)", fq.Top, MaxTop)
	}

	if v := strings.ToLower(strings.TrimSpace(q.Get("format"))); v != "" {
		fq.Format = v
	}
	return fq, nil
}

func (q FindQuery) options() dupedna.FindOptions {
	return dupedna.FindOptions{ThresholdPercent: q.Threshold, Top: q.Top}
}

// ClustersResponse is the body of GET /api/clusters.
type ClustersResponse struct {
	report.Document
	ReclaimableHuman string `json:"reclaimable_human"`
}

// PlanResponse is the body of GET /api/plan.
type PlanResponse struct {
	RunID       string           `json:"run_id"`
	Destination string           `json:"destination"`
	Moves       []report.MoveDoc `json:"moves"`
	Count       int              `json:"count"`
}

// StatsResponse is the body of GET /api/stats.
type StatsResponse struct {
	Images           int64  `json:"images"`
	Albums           int64  `json:"albums"`
	SimilarityPairs  int64  `json:"similarity_pairs"`
	CatalogPath      string `json:"catalog_path"`
	SimilarityDBPath string `json:"similarity_db_path"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}
