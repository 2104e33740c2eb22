package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"net/url"
	"stayfinder/config"
	"stayfinder/infras/postgres"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

const (
	migrationSource       = "file://migrations/postgres"
	defaultMigrationTable = "schema_migrations"
)

type action struct {
	run     func(mig *migrate.Migrate) error
	failure string
	success string
}

var actions = map[string]action{
	"up": {
		run:     func(mig *migrate.Migrate) error { return mig.Up() },
		failure: "error running migrations",
		success: "Database migrations completed successfully",
	},
	"step-up": {
		run:     func(mig *migrate.Migrate) error { return mig.Steps(1) },
		failure: "error running migrations",
		success: "Database migration step applied successfully",
	},
	"down": {
		run:     func(mig *migrate.Migrate) error { return mig.Steps(-1) },
		failure: "error rolling back migrations",
		success: "Database migration step rolled back successfully",
	},
	"drop": {
		run:     func(mig *migrate.Migrate) error { return mig.Down() },
		failure: "error rolling back migrations",
		success: "Database migrations rolled back successfully",
	},
}

var errUnknownAction = errors.New("unknown migration action")

// ConnectionString builds the migrate DSN against the write pool.
func ConnectionString(config *config.Config) string {
	table := config.DB.Postgres.MigrationTable
	if table == "" {
		table = defaultMigrationTable
	}

	return postgres.DSN(config.DB.Postgres.Prefix, config.DB.Postgres.Write) + "&x-migrations-table=" + url.QueryEscape(table)
}

func Runner(config *config.Config, name string) error {
	act, ok := actions[name]
	if !ok {
		return fmt.Errorf("%w: %s", errUnknownAction, name)
	}

	mig, err := migrate.New(migrationSource, ConnectionString(config))
	if err != nil {
		return fmt.Errorf("error creating migrate instance: %w", err)
	}

	defer mig.Close()

	if err := act.run(mig); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%s: %w", act.failure, err)
	}

	log.Info().Str("action", name).Msg(act.success)

	return nil
}

func Up(config *config.Config) error {
	return Runner(config, "up")
}

func StepUp(config *config.Config) error {
	return Runner(config, "step-up")
}

func Down(config *config.Config) error {
	return Runner(config, "down")
}

func Drop(config *config.Config) error {
	return Runner(config, "drop")
}
