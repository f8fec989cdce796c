package dupedna

import (
	"context"

	"github.com/himanishpuri/DupeDNA/pkg/models"
)

type Service interface {
	FindDuplicates(ctx context.Context, opts FindOptions) (*Report, error)
	WritePlan(plan []models.MoveEntry, outputPath string) error
	Run(ctx context.Context, opts FindOptions, outputPath string) (*Report, error)
	CatalogStats(ctx context.Context) (*models.CatalogStats, error)
	Close() error
}

// Storage yields similarity edges; the digiKam reader is the default.
type Storage interface {
	FetchEdges(ctx context.Context, threshold float64, limit int) ([]models.SimilarityEdge, error)
	Stats(ctx context.Context) (*models.CatalogStats, error)
	Close() error
}

// Emitter persists a move plan.
type Emitter interface {
	Write(plan []models.MoveEntry, outputPath string) error
}

type Logger interface {
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
	Debugf(format string, args ...any)
}
