package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/PabloGalante/farum-progress/internal/adapters/llm"
	firestorestore "github.com/PabloGalante/farum-progress/internal/adapters/storage/firestore"
	memstore "github.com/PabloGalante/farum-progress/internal/adapters/storage/memory"
	sqlitestore "github.com/PabloGalante/farum-progress/internal/adapters/storage/sqlite"
	"github.com/PabloGalante/farum-progress/internal/app/history"
	"github.com/PabloGalante/farum-progress/internal/app/progress"
	"github.com/PabloGalante/farum-progress/internal/config"
	"github.com/PabloGalante/farum-progress/internal/domain"
	"github.com/PabloGalante/farum-progress/internal/observability"
	"github.com/PabloGalante/farum-progress/internal/retry"
)

// app holds the wired dependencies shared by every subcommand.
type app struct {
	cfg     *config.Config
	tracker *progress.Tracker
	closers []io.Closer
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	observability.Configure(os.Stderr, cfg.LogFormat, cfg.LogLevel)
	log := observability.Logger()

	a := &app{cfg: cfg}

	llmClient, err := newLLMClient(ctx, cfg)
	if err != nil {
		return nil, err
	}

	kv, err := a.newKVStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	store := history.NewStore(kv,
		history.WithKey(cfg.HistoryKey),
		history.WithCapacity(cfg.HistoryCapacity),
		history.WithRetryPolicy(retry.Policy{Retries: cfg.RetryCount, Delay: cfg.RetryDelay}),
	)
	a.tracker = progress.NewTracker(llmClient, store)

	log.Info("farum wired",
		"mode", cfg.Mode,
		"storage", cfg.StorageBackend,
		"mock_llm", cfg.UseMockLLM,
		"history_capacity", cfg.HistoryCapacity,
	)
	return a, nil
}

func newLLMClient(ctx context.Context, cfg *config.Config) (domain.LLMClient, error) {
	log := observability.Logger()

	if cfg.UseMockLLM {
		log.Info("using mock LLM client")
		return llm.NewMockLLM(), nil
	}

	client, err := llm.NewGenAIClient(ctx, llm.Options{
		Backend:  llm.Backend(cfg.LLMBackend),
		APIKey:   cfg.APIKey,
		Project:  cfg.GCPProjectID,
		Location: cfg.GCPLocation,
		Model:    cfg.ModelName,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing LLM client: %w", err)
	}
	log.Info("using genai LLM client", "backend", cfg.LLMBackend, "model", client.Model())
	return client, nil
}

func (a *app) newKVStore(ctx context.Context) (domain.KVStore, error) {
	log := observability.Logger()

	switch a.cfg.StorageBackend {
	case "firestore":
		log.Info("using Firestore storage", "project", a.cfg.GCPProjectID, "collection", a.cfg.FirestoreCollection)
		fs, err := firestorestore.NewStore(ctx, a.cfg.GCPProjectID, a.cfg.FirestoreCollection)
		if err != nil {
			return nil, fmt.Errorf("initializing Firestore store: %w", err)
		}
		a.closers = append(a.closers, fs)
		return fs, nil

	case "sqlite":
		log.Info("using SQLite storage", "path", a.cfg.SQLitePath)
		db, err := sqlitestore.NewStore(a.cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("initializing SQLite store: %w", err)
		}
		a.closers = append(a.closers, db)
		return db, nil

	default:
		log.Info("using in-memory storage")
		return memstore.NewKVStore(), nil
	}
}

// Close releases storage handles.
func (a *app) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// readTranscript reads messages from path, or stdin when path is "-".
// It accepts either {"messages": [...]} or a bare JSON array.
func readTranscript(path string) ([]domain.Message, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}

	var wrapped struct {
		Messages []domain.Message `json:"messages"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil {
		return wrapped.Messages, nil
	}

	var msgs []domain.Message
	if err := json.Unmarshal(data, &msgs); err != nil {
		return nil, fmt.Errorf("parse transcript: %w", err)
	}
	return msgs, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
