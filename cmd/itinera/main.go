package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/itinera/internal/cli"
	"github.com/alexanderramin/itinera/internal/cli/formatter"
	"github.com/alexanderramin/itinera/internal/db"
	"github.com/alexanderramin/itinera/internal/geo"
	"github.com/alexanderramin/itinera/internal/intelligence"
	"github.com/alexanderramin/itinera/internal/llm"
	"github.com/alexanderramin/itinera/internal/repository"
	"github.com/alexanderramin/itinera/internal/service"
)

const (
	defaultServeAddr = ":8080"
	defaultAPIRate   = 60
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is normal outside development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}

	logger := newLogger(os.Stderr, os.Getenv("ITINERA_LOG_LEVEL"))

	dbPath, err := db.DefaultPath()
	if err != nil {
		return err
	}
	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	app := &cli.App{
		Geocoder:          geo.NewClient(geo.LoadConfig()),
		ShareBaseURL:      os.Getenv("ITINERA_SHARE_BASE_URL"),
		Logger:            logger,
		ServeAddr:         envOr("ITINERA_SERVE_ADDR", defaultServeAddr),
		AllowedOrigins:    splitList(os.Getenv("ITINERA_CORS_ORIGINS")),
		RequestsPerMinute: envInt("ITINERA_API_RATE", defaultAPIRate),
	}

	// Detect interactive terminal for forms, spinners and the editor.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}
	formatter.ApplyColorProfile()

	// Model-backed services stay nil when no LLM is configured.
	// Alternatives fall back to built-in suggestions.
	llmCfg := llm.LoadConfig()
	var observer llm.Observer = llm.NoopObserver{}
	if llmCfg.LogCalls {
		observer = llm.NewLogObserver(logger)
	}
	client, err := llm.New(llmCfg, observer)
	switch {
	case err == nil:
		app.Generator = intelligence.NewGenerateService(client)
		app.Refiner = intelligence.NewRefineService(client)
		app.Events = intelligence.NewEventService(client)
	case errors.Is(err, llm.ErrNotConfigured):
		if llmCfg.Enabled {
			logger.Warn("llm disabled", "error", err)
		}
	default:
		return fmt.Errorf("configuring llm: %w", err)
	}
	app.Alternatives = intelligence.NewAlternativesService(client)

	app.Trips = service.NewTripService(
		repository.NewSQLiteTripRepo(database),
		db.NewSQLiteUnitOfWork(database),
		app.Generator,
		app.Refiner,
		service.NewSlogUseCaseObserver(logger),
	)

	return cli.NewRootCmd(app).ExecuteContext(context.Background())
}

// newLogger builds the stderr text logger. CLI output stays clean unless
// ITINERA_LOG_LEVEL asks for more than warnings.
func newLogger(w io.Writer, level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil || level == "" {
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
