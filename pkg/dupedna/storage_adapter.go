package dupedna

import (
	"context"

	"github.com/himanishpuri/DupeDNA/pkg/dupedna/storage"
	"github.com/himanishpuri/DupeDNA/pkg/models"
)

// storageAdapter adapts the storage.DBClient to implement the Storage interface.
type storageAdapter struct {
	db *storage.DBClient
}

// NewSQLiteStorage opens the digiKam catalog in folder. Empty file names
// fall back to digikam4.db and similarity.db.
func NewSQLiteStorage(folder, catalogFile, similarityFile string) (Storage, error) {
	db, err := storage.Open(folder, storage.Options{
		CatalogFile:    catalogFile,
		SimilarityFile: similarityFile,
	})
	if err != nil {
		return nil, err
	}
	return &storageAdapter{db: db}, nil
}

func (s *storageAdapter) FetchEdges(ctx context.Context, threshold float64, limit int) ([]models.SimilarityEdge, error) {
	return s.db.FetchEdges(ctx, threshold, limit)
}

func (s *storageAdapter) Stats(ctx context.Context) (*models.CatalogStats, error) {
	return s.db.Stats(ctx)
}

func (s *storageAdapter) Close() error {
	return s.db.Close()
}
