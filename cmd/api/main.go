package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/oakmere/ledgermatch/internal/config"
	"github.com/oakmere/ledgermatch/internal/database"
	ledgermatchHttp "github.com/oakmere/ledgermatch/internal/http"
	"github.com/oakmere/ledgermatch/internal/http/ledgerapi"
	"github.com/oakmere/ledgermatch/internal/http/remittanceapi"
	"github.com/oakmere/ledgermatch/internal/ledger"
	"github.com/oakmere/ledgermatch/internal/ledger/cache"
	"github.com/oakmere/ledgermatch/internal/ledger/sqlsource"
	"github.com/oakmere/ledgermatch/internal/remittance"
	"github.com/oakmere/ledgermatch/internal/remittance/aisdoc"
	"github.com/oakmere/ledgermatch/internal/snapshot"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := database.New(ctx, cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	store, err := snapshot.NewFileStore(cfg.Cache.Dir)
	if err != nil {
		slog.Error("failed to open snapshot store", "error", err)
		os.Exit(1)
	}

	var (
		ledgerCache = cache.New(store, sqlsource.New(db))
		repo        = ledger.NewRepository()
	)

	if err := repo.Refresh(ctx, ledgerCache); err != nil {
		slog.Error("failed to load ledger", "error", err)
		os.Exit(1)
	}

	var (
		reconciler = remittance.NewService(repo)

		ledgerH     = ledgerapi.NewHandler(repo, ledgerCache)
		remittanceH = remittanceapi.NewHandler(reconciler, aisdoc.New())
	)

	router := ledgermatchHttp.New(ledgerH, remittanceH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
