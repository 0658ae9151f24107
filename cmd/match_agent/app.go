package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/furkankose17/cv-sorting-project-sub001/internal/config"
	"github.com/furkankose17/cv-sorting-project-sub001/internal/dataset"
	"github.com/furkankose17/cv-sorting-project-sub001/internal/db"
	"github.com/furkankose17/cv-sorting-project-sub001/internal/events"
	"github.com/furkankose17/cv-sorting-project-sub001/internal/filtering"
	"github.com/furkankose17/cv-sorting-project-sub001/internal/logging"
	"github.com/furkankose17/cv-sorting-project-sub001/internal/matching"
	"github.com/furkankose17/cv-sorting-project-sub001/internal/observability"
	"github.com/furkankose17/cv-sorting-project-sub001/internal/ranking"
)

// app holds the wired components shared by every command
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	svc     *matching.Service
	data    *dataset.Dataset // set when running from a dataset file
	db      *db.DB           // set when running against PostgreSQL
	closers []func()
}

// loadConfig reads the config file and environment and applies the global flags
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	merged := cfg.MergeWithDefaults(config.Defaults())
	cfg = &merged
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newApp wires configuration, logging, storage and event publishing.
// A dataset file takes precedence over database_url.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogJSON)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	a := &app{cfg: cfg, logger: logger}
	a.closers = append(a.closers, func() { _ = logger.Sync() })

	var repo matching.Repository
	switch {
	case dataPath != "":
		a.data, err = dataset.Load(dataPath)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to load dataset: %w", err)
		}
		repo = a.data.Memory()
		logger.Debug("loaded dataset",
			zap.String("path", dataPath),
			zap.Int("jobs", len(a.data.Jobs)),
			zap.Int("candidates", len(a.data.Candidates)),
		)
	case cfg.DatabaseURL != "":
		if err := a.connectDB(ctx); err != nil {
			a.Close()
			return nil, err
		}
		repo = a.db
	default:
		a.Close()
		return nil, errors.New("either --data or database_url (DATABASE_URL) must be provided")
	}

	publisher, err := a.publisher()
	if err != nil {
		a.Close()
		return nil, err
	}

	combiner := cfg.Combiner()
	a.svc = matching.NewService(matching.Deps{
		Repo:             repo,
		Ranker:           ranking.NewRanker(combiner, cfg.Concurrency, logger),
		Filter:           filtering.New(logger),
		Publisher:        publisher,
		Logger:           logger,
		ExcludedStatuses: cfg.Excluded(),
		MinScore:         cfg.MinScore,
	})
	return a, nil
}

func (a *app) connectDB(ctx context.Context) error {
	database, err := db.Connect(ctx, a.cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if err := database.EnsureSchema(ctx); err != nil {
		database.Close()
		return err
	}
	a.db = database
	a.closers = append(a.closers, database.Close)
	return nil
}

// publisher builds the event fan-out from configuration. Events are always logged.
func (a *app) publisher() (events.Publisher, error) {
	multi := events.Multi{events.NewLogPublisher(a.logger)}

	if a.cfg.AMQPURL != "" {
		p, err := events.DialAMQP(a.cfg.AMQPURL, a.cfg.AMQPExchange)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to message broker: %w", err)
		}
		a.closers = append(a.closers, func() { _ = p.Close() })
		multi = append(multi, p)
	}
	if a.cfg.WebhookURL != "" {
		multi = append(multi, events.NewWebhookPublisher(a.cfg.WebhookURL, 10*time.Second))
	}
	return multi, nil
}

// Close releases connections in reverse order of creation
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// ephemeral reports whether matches live only for this process
func (a *app) ephemeral() bool {
	return a.data != nil
}

// ensureMatches computes a job's matches when they cannot have been stored by an earlier run
func (a *app) ensureMatches(ctx context.Context, jobID uuid.UUID) error {
	if !a.ephemeral() {
		return nil
	}
	_, err := a.svc.CalculateMatches(ctx, jobID, matching.RunOptions{})
	return err
}

// printer returns a verbose-mode printer that resolves candidate names from the dataset
func (a *app) printer(out io.Writer) *observability.Printer {
	p := observability.NewPrinter(out)
	if a.data == nil {
		return p
	}
	names := make(map[uuid.UUID]string, len(a.data.Candidates))
	for _, c := range a.data.Candidates {
		names[c.ID] = c.Name
	}
	return p.WithNames(func(id uuid.UUID) string { return names[id] })
}

// parseID parses a UUID flag value
func parseID(flag, value string) (uuid.UUID, error) {
	if value == "" {
		return uuid.Nil, fmt.Errorf("--%s is required", flag)
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid --%s %q: %w", flag, value, err)
	}
	return id, nil
}

// writeJSON writes v as indented JSON to path, or to out when path is empty
func writeJSON(out io.Writer, path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	if path == "" {
		_, err = fmt.Fprintln(out, string(data))
		return err
	}

	// Ensure output directory exists
	outputDir := filepath.Dir(path)
	if outputDir != "" && outputDir != "." {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", path, err)
	}
	return nil
}
