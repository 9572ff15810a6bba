package db

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"soulboard/db/migrations"
)

// Migrate brings the database at addr up to migrations.Version using the
// embedded SQL files. A dirty schema is reported and left untouched.
func Migrate(addr string, logger *slog.Logger) error {
	driver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return err
	}
	defer driver.Close()

	mg, err := migrate.NewWithSourceInstance("iofs", driver, addr)
	if err != nil {
		return err
	}
	defer mg.Close()

	current, dirty, err := mg.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return err
	}
	if dirty {
		return fmt.Errorf("database is in dirty state at version %d", current)
	}
	if current > migrations.Version {
		return fmt.Errorf("database schema version %d is newer than supported version %d", current, migrations.Version)
	}

	if err = mg.Migrate(migrations.Version); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logger.Debug("schema up to date", slog.Uint64("version", uint64(current)))
			return nil
		}
		return err
	}
	logger.Info("schema migrated",
		slog.Uint64("from", uint64(current)),
		slog.Uint64("to", uint64(migrations.Version)))
	return nil
}
