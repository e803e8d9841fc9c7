package database

import (
	"context"
	"fmt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"net/url"
	"post-store/internal/config"
	"post-store/internal/logging"
)

func InitDatabase(c *config.Configuration, l logging.Logger) (*gorm.DB, error) {
	l.LogInfof(logging.GetLogTypeDatabase(), "Initializing Database (driver: %s)", c.Database.Driver)

	dialector, err := Dialector(c)
	if err != nil {
		l.LogErrorf(logging.GetLogTypeDatabase(), "error selecting database driver: %v", err)
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logging.InitGormLogger(c)})
	if err != nil {
		l.LogErrorf(logging.GetLogTypeDatabase(), "error initializing database: %v", err)
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		l.LogErrorf(logging.GetLogTypeDatabase(), "error setting connection properties on db conn pool")
		return nil, err
	}
	// zero values keep the database/sql defaults
	if c.Database.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(c.Database.MaxIdleConns)
	}
	if c.Database.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(c.Database.MaxOpenConns)
	}
	if c.Database.ConnMaxLifetime != nil {
		sqlDB.SetConnMaxLifetime(c.Database.ConnMaxLifetime.Duration)
	}

	l.LogDebug(logging.GetLogTypeDatabase(), "connected to Database")

	err = MigrateSchema(db)
	if err != nil {
		l.LogErrorf(logging.GetLogTypeDatabase(), "error migrating schema: %v", err)
		return nil, err
	}

	err = HasPostIndexes(db)
	if err != nil {
		l.LogErrorf(logging.GetLogTypeDatabase(), "error verifying schema: %v", err)
		return nil, err
	}

	return db, nil
}

// Dialector selects the gorm dialector for the configured driver.
func Dialector(c *config.Configuration) (gorm.Dialector, error) {
	switch c.Database.Driver {
	case config.DriverPostgres, "":
		return postgres.Open(PostgresDsn(c)), nil
	case config.DriverSqlite:
		return sqlite.Open(c.Database.SqlitePath), nil
	}

	return nil, fmt.Errorf("unsupported database driver %q", c.Database.Driver)
}

// PostgresDsn returns Database.Url if configured, otherwise a URL built from
// the individual connection settings.
func PostgresDsn(c *config.Configuration) string {
	if c.Database.Url != nil && c.Database.Url.URL != nil {
		return c.Database.Url.String()
	}

	dsn := url.URL{
		User:     url.UserPassword(c.Database.Username, c.Database.Password),
		Scheme:   "postgres",
		Host:     fmt.Sprintf("%s:%d", c.Database.Host, c.Database.Port),
		Path:     c.Database.DatabaseName,
		RawQuery: (&url.Values{"sslmode": []string{"disable"}}).Encode(),
	}

	return dsn.String()
}

// Close releases the connection pool behind db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks that the database is reachable and the post indexes exist.
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}

	err = sqlDB.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("database unreachable: %w", err)
	}

	return HasPostIndexes(db.WithContext(ctx))
}
