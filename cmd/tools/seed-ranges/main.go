// seed-ranges loads the KPI catalog and inserts the system-default
// reference ranges it defines. Safe to rerun: existing defaults are left
// untouched.
package main

import (
	"flag"
	"fmt"
	"log"

	_ "modernc.org/sqlite"

	"github.com/pulsekpi/pulse/internal/catalog"
	"github.com/pulsekpi/pulse/internal/db"
)

var (
	dbPath      = flag.String("db", "pulse.db", "Path to the SQLite database")
	catalogPath = flag.String("catalog", catalog.DefaultCatalogPath, "Path to the KPI catalog JSON")
)

func main() {
	flag.Parse()

	cat, err := catalog.Load(*catalogPath)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	database, err := db.NewDB(*dbPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	inserted, err := database.SeedDefaultRanges(cat)
	if err != nil {
		log.Fatalf("Failed to seed default ranges: %v", err)
	}
	fmt.Printf("Seeded %d of %d catalog ranges (%d already present)\n",
		inserted, len(cat.KPIs), len(cat.KPIs)-inserted)
}
