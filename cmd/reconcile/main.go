package main

import (
	"log/slog"
	"os"

	"github.com/eshaffer321/bankrecon/internal/application/recon"
	"github.com/eshaffer321/bankrecon/internal/cli"
	"github.com/eshaffer321/bankrecon/internal/domain/learning"
	"github.com/eshaffer321/bankrecon/internal/domain/records"
	"github.com/eshaffer321/bankrecon/internal/domain/schema"
	"github.com/eshaffer321/bankrecon/internal/infrastructure/config"
	"github.com/eshaffer321/bankrecon/internal/infrastructure/logging"
	"github.com/eshaffer321/bankrecon/internal/infrastructure/storage"
	"github.com/eshaffer321/bankrecon/internal/ingest"
)

func main() {
	flags := cli.ParseReconFlags()
	if flags.BankFile == "" || flags.GLFile == "" {
		slog.Error("both -bank and -gl files are required")
		os.Exit(1)
	}

	// Load configuration
	cfg := config.LoadOrEnvWithPath(flags.ConfigPath)
	if flags.Verbose {
		cfg.Observability.Logging.Level = "debug"
	}
	logger := logging.NewLogger(cfg.Observability.Logging)

	// Initialize storage
	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	runID, err := store.StartRun(flags.BankFile, flags.GLFile)
	if err != nil {
		logger.Error("Failed to record run", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Ingest both sides
	bank := loadBank(flags.BankFile, logger)
	gl := loadGL(flags.GLFile, logger)

	logger.Info("Files loaded",
		slog.Int("bank_transactions", len(bank)),
		slog.Int("gl_entries", len(gl)),
	)

	// Build the session and run the automatic pass
	tracker := learning.NewTracker(store, flags.Identity)
	session := recon.NewSession(bank, gl, recon.Config{
		AmountTolerance: cfg.Matching.Tolerance(),
		DateRangeDays:   cfg.Matching.DateRangeDays,
		EnableTriples:   cfg.Matching.EnableTripleSplit,
	}, tracker, logger.With("system", "session"))

	session.AutoMatch()

	cli.PrintHeader(flags.BankFile, flags.GLFile)
	cli.PrintSummary(session, len(bank), len(gl))
	if flags.Suggest {
		cli.PrintSuggestions(session)
	}

	if flags.OutputPath != "" {
		if err := cli.WriteResults(flags.OutputPath, session); err != nil {
			logger.Error("Failed to write results", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("Results written", slog.String("path", flags.OutputPath))
	}

	err = store.CompleteRun(runID,
		len(bank), len(gl),
		len(session.Matched()),
		len(session.UnmatchedBank()),
		len(session.UnmatchedGL()),
	)
	if err != nil {
		logger.Warn("Failed to finalize run record", slog.String("error", err.Error()))
	}
}

func loadBank(path string, logger *slog.Logger) []records.BankTransaction {
	rows := mustReadFile(path, logger)
	layout := schema.Detect(rows)
	logger.Debug("Bank layout detected",
		slog.String("kind", string(layout.Kind)),
		slog.Int("header_row", layout.HeaderRow),
	)
	return records.BuildBankTransactions(rows, layout, logger.With("system", "ingest"))
}

func loadGL(path string, logger *slog.Logger) []records.GLEntry {
	rows := mustReadFile(path, logger)
	layout := schema.Detect(rows)
	logger.Debug("GL layout detected",
		slog.String("kind", string(layout.Kind)),
		slog.Int("header_row", layout.HeaderRow),
	)
	return records.BuildGLEntries(rows, layout, logger.With("system", "ingest"))
}

func mustReadFile(path string, logger *slog.Logger) [][]string {
	rows, err := ingest.ReadFile(path)
	if err != nil {
		logger.Error("Failed to read file",
			slog.String("file", path),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}
	return rows
}
