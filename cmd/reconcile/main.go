// Command reconcile runs one remittance advice against the ledger and
// prints the enrichment and verdict.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/oakmere/ledgermatch/internal/config"
	"github.com/oakmere/ledgermatch/internal/database"
	"github.com/oakmere/ledgermatch/internal/ledger"
	"github.com/oakmere/ledgermatch/internal/ledger/cache"
	"github.com/oakmere/ledgermatch/internal/ledger/sqlsource"
	"github.com/oakmere/ledgermatch/internal/remittance"
	"github.com/oakmere/ledgermatch/internal/remittance/aisdoc"
	"github.com/oakmere/ledgermatch/internal/report"
	"github.com/oakmere/ledgermatch/internal/snapshot"
)

func main() {
	_ = godotenv.Load()

	path := flag.String("file", "", "remittance advice CSV to reconcile")
	flag.Parse()

	if *path == "" {
		fmt.Fprintln(os.Stderr, "usage: reconcile -file <remittance.csv>")
		os.Exit(2)
	}

	if err := run(context.Background(), *path); err != nil {
		slog.Error("reconciliation failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, path string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := database.New(ctx, cfg.ConnectionString())
	if err != nil {
		return err
	}
	defer db.Close()

	store, err := snapshot.NewFileStore(cfg.Cache.Dir)
	if err != nil {
		return err
	}

	repo := ledger.NewRepository()
	if err := repo.Refresh(ctx, cache.New(store, sqlsource.New(db))); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening remittance file: %w", err)
	}
	defer f.Close()

	rows, err := aisdoc.New().Parse(f)
	if err != nil {
		return fmt.Errorf("parsing remittance file: %w", err)
	}

	doc := remittance.NewDocument(rows)
	reconcileErr := remittance.NewService(repo).Reconcile(doc)

	// Print whatever was enriched even when the document fails its
	// checks; the summary is the diagnostic.
	fmt.Print(report.Summary(doc))

	var recErr *remittance.ReconciliationError
	if errors.As(reconcileErr, &recErr) {
		fmt.Println(recErr.Error())
	}

	return reconcileErr
}
