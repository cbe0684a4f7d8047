package main

import (
	"flag"
	"os"

	"github.com/mspro/rentalbooks/backend/internal/config"
	"github.com/mspro/rentalbooks/backend/internal/db"
	"github.com/mspro/rentalbooks/backend/internal/importer"
	"github.com/mspro/rentalbooks/backend/internal/logutil"
)

// One-shot batch job: reads the spreadsheet folder and replaces the
// persisted booking/expense dataset. Not meant to run concurrently with
// itself; the replace transaction serializes accidental overlap.
func main() {
	cfg := config.Load()
	logger := logutil.NewLogger()

	dataDir := flag.String("data", cfg.DataDir, "folder containing the booking/expense spreadsheets")
	flag.Parse()

	store, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database: %v", err)
		os.Exit(1)
	}
	defer store.Close()

	logger.Info("Starting data import from %s", *dataDir)
	if err := importer.NewLoader(store, logger, *dataDir).Run(); err != nil {
		logger.Error("Import failed: %v", err)
		os.Exit(1)
	}
	logger.Info("Import finished")
}
