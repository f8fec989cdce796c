package dupedna

import (
	"context"
	"fmt"
	"time"

	"github.com/himanishpuri/DupeDNA/pkg/dupedna/cluster"
	"github.com/himanishpuri/DupeDNA/pkg/dupedna/script"
	"github.com/himanishpuri/DupeDNA/pkg/dupedna/selector"
	"github.com/himanishpuri/DupeDNA/pkg/logger"
	"github.com/himanishpuri/DupeDNA/pkg/models"
	"github.com/himanishpuri/DupeDNA/pkg/utils"
)

// dedupeService is the default implementation of the Service interface.
type dedupeService struct {
	storage  Storage
	emitter  Emitter
	selector *selector.Selector
	log      Logger
	config   *Config
}

func NewService(opts ...Option) (Service, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.Logger == nil {
		cfg.Logger = logger.GetLogger()
	}

	strategy, err := selector.StrategyByName(cfg.Strategy)
	if err != nil {
		return nil, err
	}

	emitter := cfg.Emitter
	if emitter == nil {
		emitter = script.NewWriter(script.WithSourceRoot(cfg.SourceRoot))
	}

	// Open storage last so a bad option does not leave a connection behind.
	stor := cfg.Storage
	if stor == nil {
		stor, err = NewSQLiteStorage(cfg.DBFolder, cfg.CatalogFile, cfg.SimilarityFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open catalog: %w", err)
		}
	}

	sel := selector.New(cfg.Destination,
		selector.WithStrategy(strategy),
		selector.WithWorkers(cfg.Workers),
		selector.WithLogger(cfg.Logger),
	)

	return &dedupeService{
		storage:  stor,
		emitter:  emitter,
		selector: sel,
		log:      cfg.Logger,
		config:   cfg,
	}, nil
}

// FindDuplicates fetches pairs at or above the threshold, groups them into
// clusters and decides which file of each cluster stays.
func (s *dedupeService) FindDuplicates(ctx context.Context, opts FindOptions) (*Report, error) {
	if opts.ThresholdPercent < 0 || opts.ThresholdPercent > 100 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidThreshold, opts.ThresholdPercent)
	}
	top := opts.Top
	if top < 0 {
		top = 0
	}

	// The catalog stores similarity on a [0,1] scale.
	threshold := float64(opts.ThresholdPercent) / 100

	edges, err := s.storage.FetchEdges(ctx, threshold, top)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch similar pairs: %w", err)
	}
	s.log.Infof("Fetched %d similar pairs at %d%% threshold", len(edges), opts.ThresholdPercent)
	for _, e := range edges {
		s.log.Debugf("pair %s <-> %s similarity=%.4f", e.A.Path, e.B.Path, e.Similarity)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	clusters := cluster.Build(edges)
	metadata := cluster.CollectMetadata(edges)
	s.log.Infof("Grouped %d files into %d clusters", len(metadata), len(clusters))

	decisions, err := s.selector.Decide(clusters, metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to select canonical files: %w", err)
	}
	plan := s.selector.Plan(decisions)

	report := &Report{
		RunID:            utils.GenerateUUID(),
		GeneratedAt:      time.Now(),
		ThresholdPercent: opts.ThresholdPercent,
		Strategy:         s.selector.Strategy().Name(),
		Destination:      s.config.Destination,
		Edges:            edges,
		Clusters:         clusters,
		Decisions:        decisions,
		Plan:             plan,
		ReclaimableBytes: reclaimableBytes(decisions),
	}
	s.log.Infof("Run %s: %d files to move", utils.ShortID(report.RunID), len(plan))
	return report, nil
}

// WritePlan renders plan to outputPath through the configured emitter.
func (s *dedupeService) WritePlan(plan []models.MoveEntry, outputPath string) error {
	if err := s.emitter.Write(plan, outputPath); err != nil {
		return err
	}
	s.log.Debugf("Wrote %d moves to %s", len(plan), outputPath)
	return nil
}

// Run finds duplicates and writes the move script in one step.
func (s *dedupeService) Run(ctx context.Context, opts FindOptions, outputPath string) (*Report, error) {
	report, err := s.FindDuplicates(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := s.WritePlan(report.Plan, outputPath); err != nil {
		return report, err
	}
	return report, nil
}

func (s *dedupeService) CatalogStats(ctx context.Context) (*models.CatalogStats, error) {
	return s.storage.Stats(ctx)
}

func (s *dedupeService) Close() error {
	return s.storage.Close()
}

func reclaimableBytes(decisions []models.Decision) int64 {
	var total int64
	for _, d := range decisions {
		for _, m := range d.Move {
			if m.FileSize.Valid {
				total += m.FileSize.Int64
			}
		}
	}
	return total
}
