package main

import (
	"context"
	"flag"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/docqa-engine/backend/internal/api"
	"github.com/docqa-engine/backend/internal/config"
	"github.com/docqa-engine/backend/internal/engine"
	"github.com/docqa-engine/backend/internal/loader"
	"github.com/docqa-engine/backend/internal/storage"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "Path to config YAML")
	flag.Parse()

	// Setup Logging
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	entry := logger.WithField("service", "docqa-api")

	entry.Info("Starting Document QA API Service")

	// 1. Config (.env, then YAML + env overrides)
	_ = godotenv.Load()
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		entry.Fatalf("Failed to load config: %v", err)
	}

	// 2. Extraction cache (optional)
	var cache storage.ExtractCache
	if cfg.Corpus.CacheDir != "" {
		fileCache, err := storage.NewFileCache(cfg.Corpus.CacheDir)
		if err != nil {
			entry.Fatalf("Failed to initialize extraction cache: %v", err)
		}
		cache = fileCache
	}

	// 3. Loader
	ld := loader.NewLoader(cfg.Corpus.Dir, cache, entry)

	// 4. Engine
	eng, err := engine.NewEngine(cfg, entry, ld)
	if err != nil {
		entry.Fatalf("Failed to initialize engine: %v", err)
	}
	if err := eng.Reload(context.Background()); err != nil {
		entry.Fatalf("Failed to build initial index: %v", err)
	}

	// 5. API Server
	server := api.NewServer(eng, entry)

	entry.Infof("Document QA API ready on %s", cfg.Server.Addr)
	if err := server.Start(cfg.Server.Addr); err != nil {
		entry.Fatal(err)
	}
}
