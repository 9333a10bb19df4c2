package postgres

import (
	"embed"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/turtacn/ClauseMatch/pkg/errors"
)

// The schema ships with the binary so a fresh deployment needs no external
// migration files.
//
//go:embed migrations/*.sql
var migrationFS embed.FS

func newMigrator(dbURL string) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to load embedded migrations")
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dbURL)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to create migrate instance")
	}
	return m, nil
}

// RunMigrations applies all pending migrations.  Called on startup; a
// database that is already current is not an error.
func RunMigrations(dbURL string) error {
	m, err := newMigrator(dbURL)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to run migrations")
	}
	return nil
}

// RollbackMigrations rolls the schema back by the given number of steps.
// Development and test use only.
func RollbackMigrations(dbURL string, steps int) error {
	if steps <= 0 {
		return errors.New(errors.ErrCodeValidation,
			fmt.Sprintf("rollback steps must be > 0, got %d", steps))
	}

	m, err := newMigrator(dbURL)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Steps(-steps); err != nil && err != migrate.ErrNoChange {
		return errors.Wrap(err, errors.ErrCodeDatabaseError,
			fmt.Sprintf("failed to rollback %d step(s)", steps))
	}
	return nil
}

// MigrationStatus reports the applied schema version and whether a failed
// migration left the schema dirty.
func MigrationStatus(dbURL string) (version uint, dirty bool, err error) {
	m, err := newMigrator(dbURL)
	if err != nil {
		return 0, false, err
	}
	defer m.Close()

	version, dirty, err = m.Version()
	if err == migrate.ErrNilVersion {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to get migration version")
	}
	return version, dirty, nil
}

//Personal.AI order the ending
