package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	"github.com/pulsekpi/pulse/internal/api"
	"github.com/pulsekpi/pulse/internal/catalog"
	"github.com/pulsekpi/pulse/internal/db"
	"github.com/pulsekpi/pulse/internal/timeutil"
	"github.com/pulsekpi/pulse/internal/version"
)

var (
	listen      = flag.String("listen", ":8080", "Listen address")
	dbPath      = flag.String("db", "pulse.db", "Path to the SQLite database")
	catalogPath = flag.String("catalog", catalog.DefaultCatalogPath, "Path to the KPI catalog JSON")
	seed        = flag.Bool("seed", false, "Seed system-default reference ranges from the catalog on startup")
	profile     = flag.String("profile", "saas", "Default weight profile for health computations")
)

func main() {
	// Subcommand dispatch happens before flag parsing so "pulse migrate up"
	// works without the serving flags.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		migrateFlags := flag.NewFlagSet("migrate", flag.ExitOnError)
		migrateDB := migrateFlags.String("db", "pulse.db", "Path to the SQLite database")
		migrateFlags.Parse(os.Args[2:])
		db.RunMigrateCommand(migrateFlags.Args(), *migrateDB)
		return
	}

	flag.Parse()

	if *listen == "" {
		log.Fatal("Listen address is required")
	}

	database, err := db.NewDB(*dbPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	cat, err := catalog.Load(*catalogPath)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}
	if _, ok := cat.Profile(*profile); !ok {
		log.Fatalf("Catalog does not define weight profile %q", *profile)
	}

	if *seed {
		inserted, err := database.SeedDefaultRanges(cat)
		if err != nil {
			log.Fatalf("Failed to seed default ranges: %v", err)
		}
		log.Printf("Seeded %d default reference ranges", inserted)
	}

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	wg.Add(1)
	go func() {
		defer wg.Done()

		mux := http.NewServeMux()

		// admin debugging routes (SQL console, backups)
		database.AttachAdminRoutes(mux)

		apiServer := api.NewServer(database, cat, timeutil.NewRealClock(), *profile)
		mux.Handle("/", apiServer.ServeMux())

		server := &http.Server{
			Addr:    *listen,
			Handler: api.LoggingMiddleware(mux),
		}

		go func() {
			log.Printf("pulse %s listening on %s", version.String(), *listen)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("failed to start server: %v", err)
			}
		}()

		<-ctx.Done()
		log.Println("shutting down HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server shutdown error: %v", err)
		}
		log.Printf("HTTP server routine stopped")
	}()

	wg.Wait()
	log.Printf("Graceful shutdown complete")
}
