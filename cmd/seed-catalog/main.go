// Package main applies database migrations and prints the closed
// factor/constraint catalog, mirroring cmd/seed-geodata's
// subcommand-driven operator tool shape.
//
// Usage:
//
//	seed-catalog migrate --source=file://migrations
//	seed-catalog list
package main

import (
	"fmt"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/f4roos41/solarmcda/internal/catalog"
	"github.com/f4roos41/solarmcda/internal/config"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "migrate":
		err = cmdMigrate(os.Args[2:])
	case "list":
		cmdList()
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Catalog and Schema Tool

Commands:
  migrate --source=file://migrations   Apply pending schema migrations
  list                                  Print the closed factor/constraint catalog

Environment:
  DATABASE_URL    PostgreSQL connection string (required for migrate)
`)
}

func cmdMigrate(args []string) error {
	source := "file://migrations"
	for _, a := range args {
		if len(a) > len("--source=") && a[:len("--source=")] == "--source=" {
			source = a[len("--source="):]
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	m, err := migrate.New(source, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("init migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}
	fmt.Println("migrations applied")
	return nil
}

func cmdList() {
	fmt.Println("Factors:")
	for name, spec := range catalog.Factors {
		fmt.Printf("  %-12s layer=%-20s range=[%g,%g] invert=%v resampling=%s derived=%v\n",
			name, spec.Layer, spec.Min, spec.Max, spec.Invert, spec.Resampling, spec.Derived)
	}
	fmt.Println("Constraints:")
	for kind, spec := range catalog.Constraints {
		fmt.Printf("  %-16s layer=%-20s resampling=%s derived=%v\n",
			kind, spec.Layer, spec.Resampling, spec.Derived)
	}
}
