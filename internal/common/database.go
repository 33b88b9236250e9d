package common

import (
	"context"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// Database is a small wrapper around an SQLite file.
// Components embed it and keep their own schema
type Database struct {
	*sqlx.DB
	Path string
}

func OpenDatabase(path string) (Database, error) {

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Database{}, errors.Wrapf(err, "could not create directory for database %s", path)
		}
	}

	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return Database{}, errors.Wrapf(err, "could not open database %s", path)
	}
	// A single writer, so a single connection avoids locking errors
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return Database{}, errors.Wrapf(err, "could not set journal mode for database %s", path)
	}

	log.Info().Msgf("Opened database %s", path)
	return Database{db, path}, nil
}

// Execute the provided statements in order
func (database *Database) Migrate(ctx context.Context, statements ...string) error {
	for _, statement := range statements {
		if _, err := database.ExecContext(ctx, statement); err != nil {
			return errors.Wrap(err, "could not migrate database")
		}
	}
	return nil
}

func (database *Database) Close() error {
	if database.DB == nil {
		return nil
	}
	return database.DB.Close()
}
