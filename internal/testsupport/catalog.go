// Package testsupport builds throwaway digiKam catalogs for tests.
package testsupport

import (
	"path"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Image is one catalog entry. Empty Created/Modified and Size <= 0 are stored as NULL.
type Image struct {
	ID       int64
	Album    string
	Name     string
	Created  string
	Modified string
	Size     int64
}

// Pair is a similarity row; ID1 must be smaller than ID2 as in digiKam.
type Pair struct {
	ID1   int64
	ID2   int64
	Value float64
}

// Path returns the album-relative path the reader reports for img.
func (img Image) Path() string {
	return path.Join(img.Album, img.Name)
}

var catalogDDL = []string{
	`CREATE TABLE Albums (
		id INTEGER PRIMARY KEY,
		albumRoot INTEGER NOT NULL,
		relativePath TEXT NOT NULL,
		date DATE,
		caption TEXT,
		collection TEXT,
		icon INTEGER,
		UNIQUE(albumRoot, relativePath))`,
	`CREATE TABLE Images (
		id INTEGER PRIMARY KEY,
		album INTEGER,
		name TEXT NOT NULL,
		status INTEGER NOT NULL,
		category INTEGER NOT NULL,
		modificationDate DATETIME,
		fileSize INTEGER,
		uniqueHash TEXT,
		manualOrder INTEGER,
		UNIQUE(album, name))`,
	`CREATE TABLE ImageInformation (
		imageid INTEGER PRIMARY KEY,
		rating INTEGER,
		creationDate DATETIME,
		digitizationDate DATETIME,
		orientation INTEGER,
		width INTEGER,
		height INTEGER,
		format TEXT,
		colorDepth INTEGER,
		colorModel INTEGER)`,
}

var similarityDDL = []string{
	`CREATE TABLE ImageSimilarity (
		imageid1 INTEGER NOT NULL,
		imageid2 INTEGER NOT NULL,
		algorithm INTEGER,
		value DOUBLE,
		UNIQUE(imageid1, imageid2, algorithm))`,
}

// NewCatalog writes digikam4.db and similarity.db into a temp dir and
// returns the folder.
func NewCatalog(t testing.TB, images []Image, pairs []Pair) string {
	t.Helper()

	dir := t.TempDir()

	catalog := openFixtureDB(t, filepath.Join(dir, "digikam4.db"))
	execAll(t, catalog, catalogDDL)

	albumIDs := make(map[string]int64)
	for _, img := range images {
		albumID, ok := albumIDs[img.Album]
		if !ok {
			albumID = int64(len(albumIDs) + 1)
			albumIDs[img.Album] = albumID
			mustExec(t, catalog, "INSERT INTO Albums (id, albumRoot, relativePath) VALUES (?, 1, ?)", albumID, img.Album)
		}
		mustExec(t, catalog,
			"INSERT INTO Images (id, album, name, status, category, modificationDate, fileSize) VALUES (?, ?, ?, 1, 1, ?, ?)",
			img.ID, albumID, img.Name, nullString(img.Modified), nullSize(img.Size))
		if img.Created != "" {
			mustExec(t, catalog, "INSERT INTO ImageInformation (imageid, creationDate) VALUES (?, ?)", img.ID, img.Created)
		}
	}
	closeFixtureDB(t, catalog)

	similarity := openFixtureDB(t, filepath.Join(dir, "similarity.db"))
	execAll(t, similarity, similarityDDL)
	for _, p := range pairs {
		mustExec(t, similarity,
			"INSERT INTO ImageSimilarity (imageid1, imageid2, algorithm, value) VALUES (?, ?, 1, ?)",
			p.ID1, p.ID2, p.Value)
	}
	closeFixtureDB(t, similarity)

	return dir
}

func openFixtureDB(t testing.TB, dbPath string) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("Failed to open fixture db %s: %v", dbPath, err)
	}
	return db
}

func closeFixtureDB(t testing.TB, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	if err := sqlDB.Close(); err != nil {
		t.Fatalf("Failed to close fixture db: %v", err)
	}
}

func execAll(t testing.TB, db *gorm.DB, stmts []string) {
	t.Helper()
	for _, stmt := range stmts {
		mustExec(t, db, stmt)
	}
}

func mustExec(t testing.TB, db *gorm.DB, sql string, args ...any) {
	t.Helper()
	if err := db.Exec(sql, args...).Error; err != nil {
		t.Fatalf("Fixture statement failed: %v\n%s", err, sql)
	}
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullSize(n int64) any {
	if n <= 0 {
		return nil
	}
	return n
}
