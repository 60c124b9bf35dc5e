package main

import (
	"embed"
	"errors"
	"flag"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"

	"PlateIntake/pkg/logger"
)

//go:embed migrations/*.sql
var migrations embed.FS

const envDSN = "DATABASE_DSN"

func main() {
	var (
		dsn  = flag.String("dsn", "", "Ledger connection string (defaults to $DATABASE_DSN)")
		down = flag.Bool("down", false, "Roll back all migrations instead of applying them")
	)
	flag.Parse()

	log := logger.New("migrate")

	if *dsn == "" {
		*dsn = os.Getenv(envDSN)
	}
	if *dsn == "" {
		log.Fatal("no DSN provided: set -dsn or DATABASE_DSN")
	}

	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		log.Fatalf("load migrations: %v", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, *dsn)
	if err != nil {
		log.Fatalf("create migrator: %v", err)
	}
	defer m.Close()

	if *down {
		err = m.Down()
	} else {
		err = m.Up()
	}

	if errors.Is(err, migrate.ErrNoChange) {
		log.Println("ledger schema already up to date")
		return
	}
	if err != nil {
		log.Fatalf("migrate: %v", err)
	}

	log.Println("ledger schema migrated")
}
