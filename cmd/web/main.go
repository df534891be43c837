package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/joho/godotenv"
	"github.com/myrjola/gumshoe/internal/ai"
	"github.com/myrjola/gumshoe/internal/broker"
	"github.com/myrjola/gumshoe/internal/cases"
	"github.com/myrjola/gumshoe/internal/db"
	"github.com/myrjola/gumshoe/internal/engine"
	"github.com/myrjola/gumshoe/internal/envstruct"
	"github.com/myrjola/gumshoe/internal/errors"
	"github.com/myrjola/gumshoe/internal/logging"
	"github.com/myrjola/gumshoe/internal/models"
	"github.com/myrjola/gumshoe/internal/pprofserver"
	"github.com/myrjola/gumshoe/internal/repositories"
	"github.com/myrjola/gumshoe/internal/session"
)

type application struct {
	logger           *slog.Logger
	cases            map[string]*models.CaseDefinition
	engine           *engine.Engine
	narrator         narrator
	narrations       *broker.ChannelBroker[string, string]
	sessionManager   *scs.SessionManager
	playerStates     *repositories.PlayerStateRepository
	gate             *session.Gate
	narrationTimeout time.Duration
}

// narrator generates prose for a match result. The concrete implementation
// calls a chat completion model; failures fall back to deterministic text.
type narrator interface {
	Narrate(
		ctx context.Context,
		def *models.CaseDefinition,
		result models.MatchResult,
		action string,
	) (string, error)
}

type config struct {
	Addr             string `env:"GUMSHOE_ADDR" envDefault:"localhost:4000"`
	PprofPort        string `env:"GUMSHOE_PPROF_PORT" envDefault:""`
	SqliteURL        string `env:"GUMSHOE_SQLITE_URL" envDefault:"./gumshoe.sqlite"`
	CaseDir          string `env:"GUMSHOE_CASE_DIR" envDefault:"./cases"`
	NarrationTimeout string `env:"GUMSHOE_NARRATION_TIMEOUT" envDefault:"10s"`
}

func run(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error {
	var cfg config
	if err := envstruct.Populate(&cfg, lookupEnv); err != nil {
		return errors.Wrap(err, "parse environment")
	}

	narrationTimeout, err := time.ParseDuration(cfg.NarrationTimeout)
	if err != nil {
		return errors.Wrap(err, "parse narration timeout", slog.String("value", cfg.NarrationTimeout))
	}

	if cfg.PprofPort != "" {
		// pprof listens on localhost only so it is not open to the world.
		pprofserver.Launch(cfg.PprofPort, logger)
	}

	caseDefs, err := cases.LoadDir(cfg.CaseDir)
	if err != nil {
		return errors.Wrap(err, "load cases", slog.String("case_dir", cfg.CaseDir))
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "loaded cases", slog.Int("count", len(caseDefs)))

	dbs, err := db.NewDB(cfg.SqliteURL)
	if err != nil {
		return errors.Wrap(err, "open database", slog.String("sqlite_url", cfg.SqliteURL))
	}
	logger.LogAttrs(ctx, slog.LevelInfo, "connected to db")

	sessionManager := scs.New()
	sessionManager.Store = sqlite3store.NewWithCleanupInterval(dbs.ReadWrite.DB, 24*time.Hour)
	sessionManager.Lifetime = 12 * time.Hour

	aiNarrator := ai.NewNarrator()
	narrations := broker.NewChannelBroker[string, string]()
	go narrations.Start()
	defer narrations.Stop()

	app := application{
		logger:           logger,
		cases:            caseDefs,
		engine:           engine.New(logger),
		narrator:         &aiNarrator,
		narrations:       narrations,
		sessionManager:   sessionManager,
		playerStates:     repositories.NewPlayerStateRepository(dbs, logger),
		gate:             session.NewGate(),
		narrationTimeout: narrationTimeout,
	}

	return app.configureAndStartServer(ctx, cfg.Addr)
}

func main() {
	loggerHandler := logging.NewContextHandler(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level:     slog.LevelDebug,
		AddSource: true,
	}))
	logger := slog.New(loggerHandler)

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Error("load .env", errors.SlogError(err))
		os.Exit(1)
	}

	if err := run(context.Background(), logger, os.LookupEnv); err != nil {
		logger.Error("server exited", errors.SlogError(err))
		os.Exit(1)
	}
}
