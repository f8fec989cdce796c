// Package selector chooses the file to keep in each duplicate cluster and
// plans the relocation of the others.
package selector

import (
	"errors"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/himanishpuri/DupeDNA/pkg/models"
)

// ErrUndersizedCluster means a cluster with fewer than two distinct members reached
// the selector. Clustering never produces one, so this is an internal bug.
var ErrUndersizedCluster = errors.New("cluster has fewer than two members")

// Logger receives per-cluster decisions at debug level.
type Logger interface {
	Debugf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}

// Selector turns clusters into a move plan.
type Selector struct {
	destination string
	strategy    Strategy
	workers     int
	log         Logger
}

// Option configures a Selector.
type Option func(*Selector)

// WithStrategy replaces the default EarliestCreation rule.
func WithStrategy(s Strategy) Option {
	return func(sel *Selector) {
		if s != nil {
			sel.strategy = s
		}
	}
}

// WithWorkers decides clusters on up to n goroutines. n <= 1 runs inline.
func WithWorkers(n int) Option {
	return func(sel *Selector) {
		sel.workers = n
	}
}

// WithLogger sets the logger for decision traces.
func WithLogger(log Logger) Option {
	return func(sel *Selector) {
		if log != nil {
			sel.log = log
		}
	}
}

// New returns a selector that moves non-canonical files to destination.
func New(destination string, opts ...Option) *Selector {
	sel := &Selector{
		destination: destination,
		strategy:    EarliestCreation(),
		workers:     1,
		log:         nopLogger{},
	}
	for _, opt := range opts {
		opt(sel)
	}
	return sel
}

// Strategy returns the rule in use.
func (s *Selector) Strategy() Strategy {
	return s.strategy
}

// Decide picks the canonical member of every cluster. metadata is only read;
// a member missing from it has no timestamps or size.
// Decisions are returned in cluster order, moved files sorted by path.
func (s *Selector) Decide(clusters []models.Cluster, metadata map[string]models.FileRecord) ([]models.Decision, error) {
	for i, c := range clusters {
		if distinctMembers(c) < 2 {
			return nil, fmt.Errorf("cluster %d (%v): %w", i, c.Members, ErrUndersizedCluster)
		}
	}

	decisions := make([]models.Decision, len(clusters))
	if s.workers <= 1 || len(clusters) < 2 {
		for i, c := range clusters {
			decisions[i] = s.decide(c, metadata)
		}
		return decisions, nil
	}

	var g errgroup.Group
	g.SetLimit(s.workers)
	for i, c := range clusters {
		g.Go(func() error {
			decisions[i] = s.decide(c, metadata)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return decisions, nil
}

// SelectMoves returns one entry per non-canonical file.
func (s *Selector) SelectMoves(clusters []models.Cluster, metadata map[string]models.FileRecord) ([]models.MoveEntry, error) {
	decisions, err := s.Decide(clusters, metadata)
	if err != nil {
		return nil, err
	}
	return s.Plan(decisions), nil
}

// Plan flattens decisions into move entries.
func (s *Selector) Plan(decisions []models.Decision) []models.MoveEntry {
	total := 0
	for _, d := range decisions {
		total += len(d.Move)
	}
	plan := make([]models.MoveEntry, 0, total)
	for _, d := range decisions {
		for _, m := range d.Move {
			plan = append(plan, models.MoveEntry{Source: m.Path, Destination: s.destination})
		}
	}
	return plan
}

func distinctMembers(c models.Cluster) int {
	seen := make(map[string]struct{}, len(c.Members))
	for _, m := range c.Members {
		seen[m] = struct{}{}
	}
	return len(seen)
}

func (s *Selector) decide(c models.Cluster, metadata map[string]models.FileRecord) models.Decision {
	members := make([]models.FileRecord, 0, len(c.Members))
	seen := make(map[string]struct{}, len(c.Members))
	for _, path := range c.Members {
		if _, dup := seen[path]; dup {
			continue
		}
		seen[path] = struct{}{}
		rec := metadata[path]
		rec.Path = path
		members = append(members, rec)
	}

	keep := s.strategy.Canonical(members)
	move := make([]models.FileRecord, 0, len(members)-1)
	for _, m := range members {
		if m.Path != keep.Path {
			move = append(move, m)
		}
	}
	sort.Slice(move, func(i, j int) bool { return move[i].Path < move[j].Path })

	s.log.Debugf("keep %s (%s), move %d", keep.Path, s.strategy.Name(), len(move))
	return models.Decision{Keep: keep, Move: move}
}
