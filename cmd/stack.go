package cmd

import (
	"fmt"
	"regexp"

	"github.com/example/pucsync/internal/backend"
	"github.com/example/pucsync/internal/config"
	"github.com/example/pucsync/internal/db"
	"github.com/example/pucsync/internal/ingest"
	"github.com/example/pucsync/internal/notify"
	syncengine "github.com/example/pucsync/internal/sync"
)

var mobilePattern = regexp.MustCompile(`^\d{10}$`)

// stack bundles the wired capture pipeline for a command invocation.
type stack struct {
	cfg         *config.Config
	db          *db.DB
	engine      *syncengine.Engine
	coordinator *ingest.Coordinator
}

// openStack wires config, database, backend client, notifier, engine, and
// coordinator. The caller must Close it.
func openStack() (*stack, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	dataDir, err := cfg.DataDirectory()
	if err != nil {
		return nil, err
	}
	database, err := db.Open(dataDir)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	var notifier notify.Notifier
	if url := cfg.WebhookURL(); url != "" {
		notifier = notify.NewWebhook(url, cfg.WebhookSecret())
	}

	engine, err := syncengine.NewEngine(database, backend.New(cfg.BackendURL()), notifier)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("init sync engine: %w", err)
	}
	engine.SetIntervals(cfg.IdleInterval(), cfg.RetryInterval())

	return &stack{
		cfg:         cfg,
		db:          database,
		engine:      engine,
		coordinator: ingest.NewCoordinator(database, engine),
	}, nil
}

func (s *stack) Close() {
	s.db.Close()
}
