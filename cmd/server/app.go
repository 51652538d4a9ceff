package main

import (
	"context"
	"fmt"
	"log/slog"

	rpgevents "github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/alicebob/miniredis/v2"

	"github.com/KirkDiggler/rpg-narrative/internal/config"
	"github.com/KirkDiggler/rpg-narrative/internal/engine"
	"github.com/KirkDiggler/rpg-narrative/internal/entities"
	"github.com/KirkDiggler/rpg-narrative/internal/events"
	"github.com/KirkDiggler/rpg-narrative/internal/orchestrators/party"
	"github.com/KirkDiggler/rpg-narrative/internal/orchestrators/traversal"
	"github.com/KirkDiggler/rpg-narrative/internal/pkg/clock"
	"github.com/KirkDiggler/rpg-narrative/internal/pkg/idgen"
	"github.com/KirkDiggler/rpg-narrative/internal/pkg/keylock"
	"github.com/KirkDiggler/rpg-narrative/internal/redis"
	characterrepo "github.com/KirkDiggler/rpg-narrative/internal/repositories/character"
	"github.com/KirkDiggler/rpg-narrative/internal/repositories/content"
	partyrepo "github.com/KirkDiggler/rpg-narrative/internal/repositories/party"
)

// app is the wired narrative engine shared by the server and the console
type app struct {
	Traversal  traversal.Service
	Party      party.Service
	Characters characterrepo.Repository
	Catalog    *entities.Catalog

	closers []func() error
}

// Close releases everything opened by newApp, last opened first
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			slog.Warn("Failed to close resource", "error", err)
		}
	}
}

// newApp wires stores, content and orchestrators from cfg. With inMemory set
// the stores run on an embedded miniredis instead of cfg.RedisEndpoints.
func newApp(ctx context.Context, cfg *config.Config, inMemory bool) (*app, error) {
	a := &app{Catalog: entities.DefaultCatalog()}

	endpoints := cfg.RedisEndpoints
	if inMemory {
		mr, err := miniredis.Run()
		if err != nil {
			return nil, fmt.Errorf("failed to start in-memory redis: %w", err)
		}
		a.closers = append(a.closers, func() error {
			mr.Close()
			return nil
		})
		endpoints = []string{mr.Addr()}
	}

	client, err := redis.Connect(ctx, endpoints, &redis.Options{
		PoolSize: cfg.RedisPoolSize,
		UseTLS:   cfg.RedisUseTLS && !inMemory,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	a.closers = append(a.closers, client.Close)

	clk := clock.New()
	characters, err := characterrepo.NewRedis(&characterrepo.RedisConfig{Client: client, Clock: clk})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create character repository: %w", err)
	}
	parties, err := partyrepo.NewRedis(&partyrepo.RedisConfig{Client: client, Clock: clk})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create party repository: %w", err)
	}
	a.Characters = characters

	contentRepo, startScenarioID, err := a.openContent(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}

	diag, err := contentRepo.Diagnostics(ctx, content.DiagnosticsInput{})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to read content diagnostics: %w", err)
	}
	for _, d := range diag.Diagnostics {
		slog.WarnContext(ctx, "Unparsable effect in content",
			"scenario_id", d.ScenarioID,
			"choice_index", d.ChoiceIndex,
			"raw_effect", d.RawEffect,
			"reason", d.Reason)
	}

	bus := rpgevents.NewBus()
	events.LogSubscriber(bus, slog.Default())
	publisher := events.NewPublisher(bus)

	locker := keylock.New()
	resolver := engine.NewDefault()

	a.Traversal, err = traversal.NewOrchestrator(&traversal.Config{
		CharacterRepo:   characters,
		PartyRepo:       parties,
		ContentRepo:     contentRepo,
		Resolver:        resolver,
		Catalog:         a.Catalog,
		Locker:          locker,
		Events:          publisher,
		StartScenarioID: startScenarioID,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create traversal orchestrator: %w", err)
	}

	a.Party, err = party.NewOrchestrator(&party.Config{
		PartyRepo:     parties,
		CharacterRepo: characters,
		ContentRepo:   contentRepo,
		Resolver:      resolver,
		Catalog:       a.Catalog,
		Locker:        locker,
		IDGenerator:   idgen.NewUUID(cfg.PartyIDPrefix),
		Events:        publisher,
	})
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create party orchestrator: %w", err)
	}

	return a, nil
}

// openContent picks the SQLite store, a YAML directory or the embedded
// campaigns, in that order
func (a *app) openContent(ctx context.Context, cfg *config.Config) (content.Repository, string, error) {
	if cfg.ContentDB != "" {
		store, err := content.OpenSQLite(ctx, cfg.ContentDB)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open content database: %w", err)
		}
		a.closers = append(a.closers, store.Close)

		start, err := store.StartScenarioID(ctx)
		if err != nil {
			return nil, "", fmt.Errorf("failed to read start scenario: %w", err)
		}
		slog.InfoContext(ctx, "Using SQLite content", "path", cfg.ContentDB)
		return store, start, nil
	}

	var (
		bundle *content.Bundle
		err    error
	)
	if cfg.ContentDir != "" {
		bundle, err = content.LoadDir(cfg.ContentDir)
	} else {
		bundle, err = content.LoadDefault()
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to load content: %w", err)
	}

	mem, err := content.NewMemory(ctx, bundle)
	if err != nil {
		return nil, "", fmt.Errorf("failed to compile content: %w", err)
	}
	slog.InfoContext(ctx, "Using YAML content",
		"dir", cfg.ContentDir,
		"scenarios", len(bundle.Scenarios),
		"campaigns", len(bundle.Campaigns))
	return mem, mem.StartScenarioID(), nil
}
