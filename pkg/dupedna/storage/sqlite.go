package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/himanishpuri/DupeDNA/pkg/models"
	"github.com/himanishpuri/DupeDNA/pkg/utils"
)

const (
	DefaultCatalogFile    = "digikam4.db"
	DefaultSimilarityFile = "similarity.db"
	SimilaritySchema      = "similarity_db"
	errDBClientNil        = "db client is nil"
)

var (
	// ErrSourceUnavailable wraps every failure to open or query the catalog.
	ErrSourceUnavailable = errors.New("source unavailable")
	// ErrCatalogNotFound means one of the catalog files does not exist.
	ErrCatalogNotFound = errors.New("catalog database not found")
)

type DBClient struct {
	DB             *gorm.DB
	db             *sql.DB
	catalogPath    string
	similarityPath string
}

type Options struct {
	CatalogFile    string
	SimilarityFile string
}

// Open connects to <folder>/digikam4.db and attaches <folder>/similarity.db.
// The catalog schema is owned by digiKam; nothing here migrates or writes it.
func Open(folder string, opts Options) (*DBClient, error) {
	if opts.CatalogFile == "" {
		opts.CatalogFile = DefaultCatalogFile
	}
	if opts.SimilarityFile == "" {
		opts.SimilarityFile = DefaultSimilarityFile
	}
	catalogPath := filepath.Join(folder, opts.CatalogFile)
	similarityPath := filepath.Join(folder, opts.SimilarityFile)

	for _, p := range []string{catalogPath, similarityPath} {
		if !utils.FileExists(p) {
			return nil, fmt.Errorf("%w: %w: %s", ErrSourceUnavailable, ErrCatalogNotFound, p)
		}
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	}

	db, err := gorm.Open(sqlite.Open(catalogPath), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("%w: opening sqlite db: %w", ErrSourceUnavailable, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("%w: getting sql.DB from gorm: %w", ErrSourceUnavailable, err)
	}

	// ATTACH is per connection, so every query must share the one that has it.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := db.Exec("ATTACH DATABASE ? AS "+SimilaritySchema, similarityPath).Error; err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("%w: attaching %s: %w", ErrSourceUnavailable, similarityPath, err)
	}

	return &DBClient{DB: db, db: sqlDB, catalogPath: catalogPath, similarityPath: similarityPath}, nil
}

func (c *DBClient) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// pairRow is one row of the duplicate join.
type pairRow struct {
	File1Album    string         `gorm:"column:file1_album"`
	File1Name     string         `gorm:"column:file1_name"`
	File1Created  sql.NullString `gorm:"column:file1_created"`
	File1Modified sql.NullString `gorm:"column:file1_modified"`
	File1Size     sql.NullInt64  `gorm:"column:file1_size"`
	File2Album    string         `gorm:"column:file2_album"`
	File2Name     string         `gorm:"column:file2_name"`
	File2Created  sql.NullString `gorm:"column:file2_created"`
	File2Modified sql.NullString `gorm:"column:file2_modified"`
	File2Size     sql.NullInt64  `gorm:"column:file2_size"`
	Similarity    float64        `gorm:"column:similarity"`
}

// Timestamps are cast to TEXT so the driver hands back digiKam's stored
// string instead of reparsing DATETIME columns.
const pairQuery = `
SELECT
	albums_a.relativePath AS file1_album,
	a.name AS file1_name,
	CAST(info_a.creationDate AS TEXT) AS file1_created,
	CAST(a.modificationDate AS TEXT) AS file1_modified,
	a.fileSize AS file1_size,
	albums_b.relativePath AS file2_album,
	b.name AS file2_name,
	CAST(info_b.creationDate AS TEXT) AS file2_created,
	CAST(b.modificationDate AS TEXT) AS file2_modified,
	b.fileSize AS file2_size,
	sim.value AS similarity
FROM Images AS a
JOIN Albums AS albums_a ON a.album = albums_a.id
JOIN Images AS b ON a.id < b.id
JOIN Albums AS albums_b ON b.album = albums_b.id
JOIN ` + SimilaritySchema + `.ImageSimilarity AS sim
	ON sim.imageid1 = a.id AND sim.imageid2 = b.id
LEFT JOIN ImageInformation AS info_a ON info_a.imageid = a.id
LEFT JOIN ImageInformation AS info_b ON info_b.imageid = b.id
WHERE sim.value >= ?
ORDER BY sim.value DESC, a.id, b.id`

// FetchEdges returns image pairs whose similarity is at least threshold (on
// the catalog's [0,1] scale), most similar first. limit <= 0 returns all.
func (c *DBClient) FetchEdges(ctx context.Context, threshold float64, limit int) ([]models.SimilarityEdge, error) {
	if c == nil || c.DB == nil {
		return nil, errors.New(errDBClientNil)
	}

	query := pairQuery
	args := []any{threshold}
	if limit > 0 {
		query += "\nLIMIT ?"
		args = append(args, limit)
	}

	var rows []pairRow
	if err := c.DB.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: querying similar pairs: %w", ErrSourceUnavailable, err)
	}

	edges := make([]models.SimilarityEdge, 0, len(rows))
	for _, r := range rows {
		edges = append(edges, models.SimilarityEdge{
			A: models.FileRecord{
				Path:             albumPath(r.File1Album, r.File1Name),
				CreationDate:     r.File1Created,
				ModificationDate: r.File1Modified,
				FileSize:         r.File1Size,
			},
			B: models.FileRecord{
				Path:             albumPath(r.File2Album, r.File2Name),
				CreationDate:     r.File2Created,
				ModificationDate: r.File2Modified,
				FileSize:         r.File2Size,
			},
			Similarity: r.Similarity,
		})
	}
	return edges, nil
}

// Stats counts images, albums and stored similarity pairs.
func (c *DBClient) Stats(ctx context.Context) (*models.CatalogStats, error) {
	if c == nil || c.DB == nil {
		return nil, errors.New(errDBClientNil)
	}

	stats := &models.CatalogStats{CatalogPath: c.catalogPath, SimilarityDBPath: c.similarityPath}
	db := c.DB.WithContext(ctx)
	if err := db.Model(&Image{}).Count(&stats.Images).Error; err != nil {
		return nil, fmt.Errorf("%w: counting images: %w", ErrSourceUnavailable, err)
	}
	if err := db.Model(&Album{}).Count(&stats.Albums).Error; err != nil {
		return nil, fmt.Errorf("%w: counting albums: %w", ErrSourceUnavailable, err)
	}
	if err := db.Model(&ImageSimilarity{}).Count(&stats.SimilarityPairs).Error; err != nil {
		return nil, fmt.Errorf("%w: counting similarity pairs: %w", ErrSourceUnavailable, err)
	}
	return stats, nil
}

// albumPath joins an album's relative path and a file name. The root album
// is stored as "/", so a plain string join would double the slash.
func albumPath(album, name string) string {
	if album == "" {
		album = "/"
	}
	if !strings.HasPrefix(album, "/") {
		album = "/" + album
	}
	return path.Join(album, name)
}
