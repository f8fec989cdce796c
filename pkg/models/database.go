package models

// CatalogStats summarizes the contents of an opened catalog.
type CatalogStats struct {
	Images           int64
	Albums           int64
	SimilarityPairs  int64
	CatalogPath      string
	SimilarityDBPath string
}
