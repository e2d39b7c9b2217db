package db

import (
	"fmt"
	"log"
	"os"
	"strconv"
)

// RunMigrateCommand handles the 'migrate' subcommand dispatching.
func RunMigrateCommand(args []string, dbPath string) {
	if len(args) < 1 {
		PrintMigrateHelp()
		os.Exit(1)
	}

	// Open without running migrations; the subcommand decides what to do.
	database, err := OpenDB(dbPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	switch args[0] {
	case "up":
		if err := database.MigrateUp(); err != nil {
			log.Fatalf("Migration up failed: %v", err)
		}
		fmt.Println("Migrations applied")

	case "down":
		if err := database.MigrateDown(); err != nil {
			log.Fatalf("Migration down failed: %v", err)
		}
		fmt.Println("Rolled back one migration")

	case "status":
		version, dirty, err := database.MigrateVersion()
		if err != nil {
			log.Fatalf("Failed to read migration version: %v", err)
		}
		fmt.Printf("version: %d dirty: %v\n", version, dirty)

	case "force":
		if len(args) < 2 {
			log.Fatal("Usage: pulse migrate force <version_number>")
		}
		version, err := strconv.Atoi(args[1])
		if err != nil {
			log.Fatalf("Invalid version %q: %v", args[1], err)
		}
		if err := database.MigrateForce(version); err != nil {
			log.Fatalf("Force migration failed: %v", err)
		}
		fmt.Printf("Forced migration version to %d\n", version)

	default:
		PrintMigrateHelp()
		os.Exit(1)
	}
}

// PrintMigrateHelp prints usage for the migrate subcommand.
func PrintMigrateHelp() {
	fmt.Println(`Usage: pulse migrate <command>

Commands:
  up       Apply all pending migrations
  down     Roll back the most recent migration
  status   Show current migration version and dirty state
  force    Force the migration version (recovery only)`)
}
