package selector

import (
	"errors"
	"fmt"
	"strings"

	"github.com/himanishpuri/DupeDNA/pkg/models"
)

// ErrUnknownStrategy is returned by StrategyByName for unrecognized names.
var ErrUnknownStrategy = errors.New("unknown keep strategy")

// Strategy decides which member of a cluster is retained.
// Implementations must be deterministic and independent of member order.
type Strategy interface {
	Name() string
	Canonical(members []models.FileRecord) models.FileRecord
}

// lessFunc reports whether a should be kept in preference to b.
type lessFunc func(a, b models.FileRecord) bool

type orderedStrategy struct {
	name string
	less lessFunc
}

func (s orderedStrategy) Name() string { return s.name }

func (s orderedStrategy) Canonical(members []models.FileRecord) models.FileRecord {
	best := members[0]
	for _, m := range members[1:] {
		if s.less(m, best) {
			best = m
		}
	}
	return best
}

// EarliestCreation keeps the file with the smallest creation timestamp.
// Files without a timestamp are only kept when no member has one. Ties go to
// the smallest path.
func EarliestCreation() Strategy {
	return orderedStrategy{name: "earliest-creation", less: func(a, b models.FileRecord) bool {
		if c := compareNullableAsc(a.CreationDate.Valid, b.CreationDate.Valid, strings.Compare(a.CreationDate.String, b.CreationDate.String)); c != 0 {
			return c < 0
		}
		return a.Path < b.Path
	}}
}

// LargestFile keeps the biggest file; unknown sizes lose to known ones.
func LargestFile() Strategy {
	return orderedStrategy{name: "largest-file", less: func(a, b models.FileRecord) bool {
		if c := compareNullableAsc(a.FileSize.Valid, b.FileSize.Valid, -cmpInt64(a.FileSize.Int64, b.FileSize.Int64)); c != 0 {
			return c < 0
		}
		return a.Path < b.Path
	}}
}

// LatestModification keeps the most recently modified file.
func LatestModification() Strategy {
	return orderedStrategy{name: "latest-modification", less: func(a, b models.FileRecord) bool {
		if c := compareNullableAsc(a.ModificationDate.Valid, b.ModificationDate.Valid, -strings.Compare(a.ModificationDate.String, b.ModificationDate.String)); c != 0 {
			return c < 0
		}
		return a.Path < b.Path
	}}
}

// Strategies lists the built-in strategies in display order.
func Strategies() []Strategy {
	return []Strategy{EarliestCreation(), LargestFile(), LatestModification()}
}

// StrategyByName resolves a built-in strategy. An empty name selects EarliestCreation.
func StrategyByName(name string) (Strategy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return EarliestCreation(), nil
	}
	for _, s := range Strategies() {
		if s.Name() == name {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// compareNullableAsc orders present values before absent ones; when both are
// present it returns cmp.
func compareNullableAsc(aValid, bValid bool, cmp int) int {
	switch {
	case aValid && !bValid:
		return -1
	case !aValid && bValid:
		return 1
	case !aValid && !bValid:
		return 0
	default:
		return cmp
	}
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
