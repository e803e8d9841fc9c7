package environment

import (
	"gorm.io/gorm"
	"post-store/internal/database"
	"post-store/internal/logging"
)

// Env bundles the post store and the logger shared by services and commands.
type Env struct {
	database.Repository
	logging.Logger
}

// Environment returns an Env backed by repository and logger.
// A nil argument is replaced by its no-op implementation.
func Environment(repository database.Repository, logger logging.Logger) *Env {
	if repository == nil {
		repository = &database.NullRepository{}
	}

	if logger == nil {
		logger = &logging.NullLogger{}
	}

	return &Env{repository, logger}
}

// FromDatabase returns an Env whose repository is a GormRepository on db.
func FromDatabase(db *gorm.DB, logger logging.Logger) *Env {
	return Environment(&database.GormRepository{DB: db}, logger)
}

// Null returns an Env that stores nothing and logs nothing.
func Null() *Env {
	return Environment(nil, nil)
}
