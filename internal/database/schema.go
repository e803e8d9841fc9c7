package database

import (
	"fmt"
	"gorm.io/gorm"
	"post-store/internal/models"
)

// PostIndex is a single-column index on the posts table.
type PostIndex struct {
	Name   string
	Column string
	// PostgresMethod is the access method used on PostgreSQL; other dialects use their default
	PostgresMethod string
}

// PostIndexes lists the indexes backing equality lookups on posts.
//
// Content is unbounded, and PostgreSQL rejects btree index rows larger than
// roughly a third of a page, so content gets a hash index there.
var PostIndexes = []PostIndex{
	{Name: "idx_posts_title", Column: "title", PostgresMethod: "btree"},
	{Name: "idx_posts_content", Column: "content", PostgresMethod: "hash"},
}

func (i PostIndex) createStatement(dialect, table string) string {
	if dialect == "postgres" {
		return fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s USING %s (%s)", i.Name, table, i.PostgresMethod, i.Column)
	}
	return fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s)", i.Name, table, i.Column)
}

// MigrateSchema creates or updates the posts table and its indexes. It is idempotent.
func MigrateSchema(db *gorm.DB) error {
	err := db.AutoMigrate(&models.Post{})
	if err != nil {
		return fmt.Errorf("error auto migrating models.Post: %w", err)
	}

	return CreatePostIndexes(db)
}

// CreatePostIndexes creates the missing indexes of PostIndexes with the
// access method of the dialect of db.
func CreatePostIndexes(db *gorm.DB) error {
	table := models.Post{}.TableName()
	for _, idx := range PostIndexes {
		err := db.Exec(idx.createStatement(db.Dialector.Name(), table)).Error
		if err != nil {
			return fmt.Errorf("error creating index %s: %w", idx.Name, err)
		}
	}

	return nil
}

// HasPostIndexes returns an error naming the first index of PostIndexes that does not exist.
func HasPostIndexes(db *gorm.DB) error {
	m := db.Migrator()
	for _, idx := range PostIndexes {
		if !m.HasIndex(&models.Post{}, idx.Name) {
			return fmt.Errorf("missing index %s on posts.%s", idx.Name, idx.Column)
		}
	}

	return nil
}
