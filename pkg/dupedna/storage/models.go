package storage

import "database/sql"

// The structs below mirror the subset of digiKam's schema the reader touches.
// They are read-only views; tests use them to build fixture catalogs.

type Album struct {
	ID           int64  `gorm:"column:id;primaryKey"`
	AlbumRoot    int64  `gorm:"column:albumRoot"`
	RelativePath string `gorm:"column:relativePath"`
}

func (Album) TableName() string { return "Albums" }

type Image struct {
	ID               int64          `gorm:"column:id;primaryKey"`
	Album            int64          `gorm:"column:album;index"`
	Name             string         `gorm:"column:name"`
	ModificationDate sql.NullString `gorm:"column:modificationDate;type:DATETIME"`
	FileSize         sql.NullInt64  `gorm:"column:fileSize"`
}

func (Image) TableName() string { return "Images" }

type ImageInformation struct {
	ImageID      int64          `gorm:"column:imageid;primaryKey;autoIncrement:false"`
	CreationDate sql.NullString `gorm:"column:creationDate;type:DATETIME"`
}

func (ImageInformation) TableName() string { return "ImageInformation" }

type ImageSimilarity struct {
	ImageID1  int64   `gorm:"column:imageid1;primaryKey;autoIncrement:false"`
	ImageID2  int64   `gorm:"column:imageid2;primaryKey;autoIncrement:false"`
	Algorithm int     `gorm:"column:algorithm;primaryKey;autoIncrement:false"`
	Value     float64 `gorm:"column:value"`
}

// TableName points at the attached similarity database.
func (ImageSimilarity) TableName() string { return SimilaritySchema + ".ImageSimilarity" }
