package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/docqa-engine/backend/internal/config"
	"github.com/docqa-engine/backend/internal/engine"
	"github.com/docqa-engine/backend/internal/loader"
	"github.com/docqa-engine/backend/internal/storage"
)

var (
	cfgPath   string
	corpusDir string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "docqa",
	Short: "Ask questions about a folder of documents",
	Long: `docqa builds a TF-IDF retrieval index over a folder of documents
(txt, md, html, pdf) and answers natural-language questions about them
using the configured LLM provider.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "path to config YAML")
	rootCmd.PersistentFlags().StringVar(&corpusDir, "corpus", "", "corpus directory (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// newLogger builds the CLI logger; command output goes to stdout, logs to stderr.
func newLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else {
		logger.SetLevel(logrus.WarnLevel)
	}
	return logger.WithField("service", "docqa-cli")
}

// buildEngine assembles a ready-to-query engine from the CLI flags.
func buildEngine(ctx context.Context, entry *logrus.Entry) (*engine.Engine, error) {
	_ = godotenv.Load()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if corpusDir != "" {
		cfg.Corpus.Dir = corpusDir
	}

	var cache storage.ExtractCache
	if cfg.Corpus.CacheDir != "" {
		fileCache, err := storage.NewFileCache(cfg.Corpus.CacheDir)
		if err != nil {
			return nil, err
		}
		cache = fileCache
	}

	ld := loader.NewLoader(cfg.Corpus.Dir, cache, entry)
	eng, err := engine.NewEngine(cfg, entry, ld)
	if err != nil {
		return nil, err
	}
	if err := eng.Reload(ctx); err != nil {
		return nil, err
	}
	return eng, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
