package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/himanishpuri/DupeDNA/internal/testsupport"
)

var fixtureImages = []testsupport.Image{
	{ID: 1, Album: "/2020/Trip", Name: "IMG_0001.jpg", Created: "2020-06-01T10:00:00", Modified: "2020-06-02T09:00:00", Size: 2048},
	{ID: 2, Album: "/2020/Trip", Name: "IMG_0001 (copy).jpg", Created: "2020-06-01T10:00:00", Size: 2048},
	{ID: 3, Album: "/Backup", Name: "IMG_0001.jpg"},
	{ID: 4, Album: "/", Name: "root.jpg", Created: "2019-01-01T00:00:00", Size: 512},
	{ID: 5, Album: "/2021", Name: "other.jpg", Created: "2021-03-03T03:03:03", Size: 4096},
}

var fixturePairs = []testsupport.Pair{
	{ID1: 1, ID2: 2, Value: 0.99},
	{ID1: 1, ID2: 3, Value: 0.92},
	{ID1: 4, ID2: 5, Value: 0.95},
	{ID1: 2, ID2: 5, Value: 0.40},
}

// setupTestCatalog builds a small digiKam catalog and opens it.
func setupTestCatalog(t *testing.T) *DBClient {
	t.Helper()

	folder := testsupport.NewCatalog(t, fixtureImages, fixturePairs)
	client, err := Open(folder, Options{})
	if err != nil {
		t.Fatalf("Failed to open test catalog: %v", err)
	}
	t.Cleanup(func() {
		client.Close()
	})
	return client
}

func TestOpen(t *testing.T) {
	client := setupTestCatalog(t)

	if client.DB == nil {
		t.Fatal("Expected non-nil GORM DB handle")
	}
	if client.db == nil {
		t.Fatal("Expected non-nil sql.DB handle")
	}
	if filepath.Base(client.catalogPath) != DefaultCatalogFile {
		t.Errorf("Expected catalog %s, got %s", DefaultCatalogFile, client.catalogPath)
	}
}

func TestOpenMissingCatalog(t *testing.T) {
	_, err := Open(t.TempDir(), Options{})
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("Expected ErrSourceUnavailable, got %v", err)
	}
	if !errors.Is(err, ErrCatalogNotFound) {
		t.Errorf("Expected ErrCatalogNotFound, got %v", err)
	}
}

func TestOpenMissingSimilarityDB(t *testing.T) {
	folder := testsupport.NewCatalog(t, fixtureImages, nil)
	if err := os.Remove(filepath.Join(folder, DefaultSimilarityFile)); err != nil {
		t.Fatalf("Failed to remove similarity db: %v", err)
	}

	_, err := Open(folder, Options{})
	if !errors.Is(err, ErrCatalogNotFound) {
		t.Fatalf("Expected ErrCatalogNotFound, got %v", err)
	}
}

func TestOpenDoesNotCreateFiles(t *testing.T) {
	dir := t.TempDir()
	Open(dir, Options{})

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("Open should not create files in a missing catalog folder, found %d", len(entries))
	}
}

func TestOpenCustomFileNames(t *testing.T) {
	folder := testsupport.NewCatalog(t, fixtureImages, fixturePairs)
	for old, renamed := range map[string]string{
		DefaultCatalogFile:    "catalog.db",
		DefaultSimilarityFile: "sim.db",
	} {
		if err := os.Rename(filepath.Join(folder, old), filepath.Join(folder, renamed)); err != nil {
			t.Fatalf("Failed to rename %s: %v", old, err)
		}
	}

	client, err := Open(folder, Options{CatalogFile: "catalog.db", SimilarityFile: "sim.db"})
	if err != nil {
		t.Fatalf("Failed to open renamed catalog: %v", err)
	}
	defer client.Close()

	edges, err := client.FetchEdges(context.Background(), 0.9, 0)
	if err != nil {
		t.Fatalf("FetchEdges failed: %v", err)
	}
	if len(edges) != 3 {
		t.Errorf("Expected 3 edges, got %d", len(edges))
	}
}

func TestFetchEdgesThresholdAndOrder(t *testing.T) {
	client := setupTestCatalog(t)

	edges, err := client.FetchEdges(context.Background(), 0.9, 0)
	if err != nil {
		t.Fatalf("FetchEdges failed: %v", err)
	}

	if len(edges) != 3 {
		t.Fatalf("Expected 3 edges at threshold 0.9, got %d", len(edges))
	}

	want := []float64{0.99, 0.95, 0.92}
	for i, e := range edges {
		if e.Similarity != want[i] {
			t.Errorf("Edge %d: expected similarity %v, got %v", i, want[i], e.Similarity)
		}
		if e.Similarity < 0.9 {
			t.Errorf("Edge %d below threshold: %v", i, e.Similarity)
		}
	}

	if edges[0].A.Path != "/2020/Trip/IMG_0001.jpg" || edges[0].B.Path != "/2020/Trip/IMG_0001 (copy).jpg" {
		t.Errorf("Unexpected first pair: %s <-> %s", edges[0].A.Path, edges[0].B.Path)
	}
}

func TestFetchEdgesThresholdIsInclusive(t *testing.T) {
	client := setupTestCatalog(t)

	edges, err := client.FetchEdges(context.Background(), 0.92, 0)
	if err != nil {
		t.Fatalf("FetchEdges failed: %v", err)
	}
	if len(edges) != 3 {
		t.Errorf("Expected pair at exactly 0.92 to be included, got %d edges", len(edges))
	}
}

func TestFetchEdgesLimit(t *testing.T) {
	client := setupTestCatalog(t)

	edges, err := client.FetchEdges(context.Background(), 0, 2)
	if err != nil {
		t.Fatalf("FetchEdges failed: %v", err)
	}
	if len(edges) != 2 {
		t.Fatalf("Expected 2 edges with limit, got %d", len(edges))
	}
	if edges[0].Similarity != 0.99 || edges[1].Similarity != 0.95 {
		t.Errorf("Limit should keep the most similar pairs, got %v and %v", edges[0].Similarity, edges[1].Similarity)
	}

	all, err := client.FetchEdges(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("FetchEdges failed: %v", err)
	}
	if len(all) != len(fixturePairs) {
		t.Errorf("Expected all %d pairs without limit, got %d", len(fixturePairs), len(all))
	}
}

func TestFetchEdgesMetadata(t *testing.T) {
	client := setupTestCatalog(t)

	edges, err := client.FetchEdges(context.Background(), 0.9, 0)
	if err != nil {
		t.Fatalf("FetchEdges failed: %v", err)
	}

	first := edges[0].A
	if !first.CreationDate.Valid || first.CreationDate.String != "2020-06-01T10:00:00" {
		t.Errorf("Unexpected creation date: %+v", first.CreationDate)
	}
	if !first.ModificationDate.Valid || first.ModificationDate.String != "2020-06-02T09:00:00" {
		t.Errorf("Unexpected modification date: %+v", first.ModificationDate)
	}
	if !first.FileSize.Valid || first.FileSize.Int64 != 2048 {
		t.Errorf("Unexpected file size: %+v", first.FileSize)
	}

	// Image 3 has no ImageInformation row, no modification date and no size.
	backup := edges[2].B
	if backup.Path != "/Backup/IMG_0001.jpg" {
		t.Fatalf("Expected backup image, got %s", backup.Path)
	}
	if backup.CreationDate.Valid || backup.ModificationDate.Valid || backup.FileSize.Valid {
		t.Errorf("Expected all metadata absent, got %+v", backup)
	}
}

func TestFetchEdgesRootAlbum(t *testing.T) {
	client := setupTestCatalog(t)

	edges, err := client.FetchEdges(context.Background(), 0.95, 0)
	if err != nil {
		t.Fatalf("FetchEdges failed: %v", err)
	}
	if len(edges) != 2 {
		t.Fatalf("Expected 2 edges, got %d", len(edges))
	}
	if edges[1].A.Path != "/root.jpg" {
		t.Errorf("Expected /root.jpg for root album, got %s", edges[1].A.Path)
	}
}

func TestFetchEdgesCanceledContext(t *testing.T) {
	client := setupTestCatalog(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.FetchEdges(ctx, 0.9, 0); !errors.Is(err, ErrSourceUnavailable) {
		t.Errorf("Expected ErrSourceUnavailable for canceled context, got %v", err)
	}
}

func TestFetchEdgesNilClient(t *testing.T) {
	var client *DBClient
	if _, err := client.FetchEdges(context.Background(), 0.9, 0); err == nil {
		t.Error("Expected error from nil client")
	}
}

func TestStats(t *testing.T) {
	client := setupTestCatalog(t)

	stats, err := client.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}

	if stats.Images != int64(len(fixtureImages)) {
		t.Errorf("Expected %d images, got %d", len(fixtureImages), stats.Images)
	}
	if stats.Albums != 4 {
		t.Errorf("Expected 4 albums, got %d", stats.Albums)
	}
	if stats.SimilarityPairs != int64(len(fixturePairs)) {
		t.Errorf("Expected %d similarity pairs, got %d", len(fixturePairs), stats.SimilarityPairs)
	}
	if filepath.Base(stats.SimilarityDBPath) != DefaultSimilarityFile {
		t.Errorf("Unexpected similarity path %s", stats.SimilarityDBPath)
	}
}

func TestAlbumPath(t *testing.T) {
	tests := []struct {
		album, name, want string
	}{
		{"/", "a.jpg", "/a.jpg"},
		{"", "a.jpg", "/a.jpg"},
		{"/2020", "a.jpg", "/2020/a.jpg"},
		{"2020/Trip", "b c.jpg", "/2020/Trip/b c.jpg"},
	}
	for _, tt := range tests {
		if got := albumPath(tt.album, tt.name); got != tt.want {
			t.Errorf("albumPath(%q, %q) = %q, want %q", tt.album, tt.name, got, tt.want)
		}
	}
}
