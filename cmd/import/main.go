// Command import loads a legacy CSV bookkeeping file into the database.
package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/dmitrijs2005/kaffeekasse/internal/importer"
	"github.com/dmitrijs2005/kaffeekasse/internal/logging"
	"github.com/dmitrijs2005/kaffeekasse/internal/server/repositories/repomanager"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {

	dsn := flag.String("d", "", "database DSN")
	file := flag.String("f", "", "legacy csv file")
	flag.Parse()

	if *dsn == "" || *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	ctx := context.Background()
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer db.Close()

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Fatalf("opening %s: %v", *file, err)
	}
	defer f.Close()

	imported, err := importer.New(db, rm, logger).Run(ctx, f)
	if err != nil {
		log.Fatalf("import failed after %d accounts: %v", imported, err)
	}

	log.Printf("imported %d accounts", imported)
}
