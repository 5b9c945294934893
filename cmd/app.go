package cmd

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/Tiliavir/focus-streak-tracker/internal/cache"
	"github.com/Tiliavir/focus-streak-tracker/internal/config"
	"github.com/Tiliavir/focus-streak-tracker/internal/logging"
	"github.com/Tiliavir/focus-streak-tracker/internal/notify"
	"github.com/Tiliavir/focus-streak-tracker/internal/storage"
	"github.com/Tiliavir/focus-streak-tracker/internal/tracker"
)

// app bundles everything a command needs.
type app struct {
	cfg     config.Config
	log     *zap.SugaredLogger
	store   storage.Store
	state   *cache.StateCache
	tracker *tracker.Tracker
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	level := cfg.Log.Level
	if debug {
		level = "debug"
	}
	log, err := logging.New(level, cfg.Log.Development || debug)
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(cfg.Storage.Backend, cfg.DataDir)
	if err != nil {
		return nil, err
	}
	state := cache.New(store, cfg.Server.CacheTTL())
	dispatcher := notify.NewDispatcher(newSink(ctx, cfg, log), notify.NewSoundResolver(cfg.Sounds), log)

	return &app{
		cfg:     cfg,
		log:     log,
		store:   store,
		state:   state,
		tracker: tracker.New(state, dispatcher, log),
	}, nil
}

func newSink(ctx context.Context, cfg config.Config, log *zap.SugaredLogger) notify.Sink {
	if cfg.Notify.WebhookURL == "" {
		return notify.NewConsoleSink(os.Stdout)
	}
	return notify.NewWebhookSink(ctx, notify.WebhookConfig{
		URL:          cfg.Notify.WebhookURL,
		TokenURL:     cfg.Notify.TokenURL,
		ClientID:     cfg.Notify.ClientID,
		ClientSecret: cfg.Notify.ClientSecret,
		Scopes:       cfg.Notify.Scopes,
		Attempts:     cfg.Notify.Attempts,
	}, log)
}

func (a *app) Close() {
	_ = a.log.Sync()
	if err := a.store.Close(); err != nil {
		a.log.Warnw("closing store", "error", err)
	}
}
