package database

import (
	"context"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/sirupsen/logrus"
)

// MigrationRunner applies the synonym-table schema migrations
// (internal/database/migrations/0001_synonym_tables.*.sql) against a
// Postgres database before the synonym store is opened.
type MigrationRunner struct {
	migrate *migrate.Migrate
	log     *logrus.Logger
}

// NewMigrationRunner opens a migration runner against migrationsPath (a
// directory of golang-migrate SQL files) for the database at databaseURL.
func NewMigrationRunner(databaseURL, migrationsPath string, logger *logrus.Logger) (*MigrationRunner, error) {
	m, err := migrate.New(
		fmt.Sprintf("file://%s", migrationsPath),
		databaseURL,
	)
	if err != nil {
		return nil, fmt.Errorf("creating migration instance: %w", err)
	}

	return &MigrationRunner{
		migrate: m,
		log:     logger,
	}, nil
}

// Up runs every pending synonym-table migration.
func (mr *MigrationRunner) Up(ctx context.Context) error {
	mr.log.WithField("scope", "synonym_tables").Info("running migrations up")

	if err := mr.migrate.Up(); err != nil {
		if err == migrate.ErrNoChange {
			mr.log.WithField("scope", "synonym_tables").Info("no pending migrations")
			return nil
		}
		return fmt.Errorf("running migrations up: %w", err)
	}

	version, dirty, err := mr.migrate.Version()
	if err != nil {
		mr.log.WithError(err).Warn("could not read migration version after up")
	} else {
		mr.log.WithFields(logrus.Fields{
			"scope":   "synonym_tables",
			"version": version,
			"dirty":   dirty,
		}).Info("migrations up complete")
	}

	return nil
}

// Down rolls back the most recently applied synonym-table migration.
func (mr *MigrationRunner) Down(ctx context.Context) error {
	mr.log.WithField("scope", "synonym_tables").Info("rolling back one migration")

	if err := mr.migrate.Steps(-1); err != nil {
		if err == migrate.ErrNoChange {
			mr.log.WithField("scope", "synonym_tables").Info("no migrations to roll back")
			return nil
		}
		return fmt.Errorf("rolling back migration: %w", err)
	}

	version, dirty, err := mr.migrate.Version()
	if err != nil {
		mr.log.WithError(err).Warn("could not read migration version after rollback")
	} else {
		mr.log.WithFields(logrus.Fields{
			"scope":   "synonym_tables",
			"version": version,
			"dirty":   dirty,
		}).Info("rollback complete")
	}

	return nil
}

// Version returns the current migration version.
func (mr *MigrationRunner) Version() (uint, bool, error) {
	return mr.migrate.Version()
}

// Close releases the migration source and database handles.
func (mr *MigrationRunner) Close() error {
	sourceErr, dbErr := mr.migrate.Close()
	if sourceErr != nil {
		return fmt.Errorf("closing migration source: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("closing migration database: %w", dbErr)
	}
	return nil
}
