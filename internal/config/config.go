package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds the configuration for the document QA service
type Config struct {
	Corpus     CorpusConfig     `yaml:"corpus"`
	Chunking   ChunkingConfig   `yaml:"chunking"`
	Vocabulary VocabularyConfig `yaml:"vocabulary"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	LLM        LLMConfig        `yaml:"llm"`
	Server     ServerConfig     `yaml:"server"`
}

// CorpusConfig locates the documents and the extraction cache
type CorpusConfig struct {
	Dir      string `yaml:"dir"`
	CacheDir string `yaml:"cache_dir"` // empty disables extraction caching
}

// ChunkingConfig controls how documents are split into windows
type ChunkingConfig struct {
	Size    int `yaml:"size"`    // characters per chunk
	Overlap int `yaml:"overlap"` // overlapping characters between chunks
}

// VocabularyConfig controls term indexing and feature selection
type VocabularyConfig struct {
	MaxFeatures   int    `yaml:"max_features"`
	NgramMin      int    `yaml:"ngram_min"`
	NgramMax      int    `yaml:"ngram_max"`
	SublinearTF   bool   `yaml:"sublinear_tf"`
	StopwordsFile string `yaml:"stopwords_file"` // empty uses the built-in English set
}

// RetrievalConfig controls query-time ranking
type RetrievalConfig struct {
	TopK          int     `yaml:"top_k"`
	MinSimilarity float64 `yaml:"min_similarity"`
	Workers       int     `yaml:"workers"` // parallel vectorization workers at build time
}

type LLMConfig struct {
	Provider string `yaml:"provider"`
	BaseURL  string `yaml:"base_url"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"api_key"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Load builds the configuration in three layers: defaults, then the YAML
// file at path (missing file is fine), then environment variable overrides.
// The result is validated before it is returned.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Corpus: CorpusConfig{
			Dir:      "./documents",
			CacheDir: "",
		},
		Chunking: ChunkingConfig{
			Size:    500,
			Overlap: 50,
		},
		Vocabulary: VocabularyConfig{
			MaxFeatures: 500,
			NgramMin:    1,
			NgramMax:    1,
			SublinearTF: false,
		},
		Retrieval: RetrievalConfig{
			TopK:          5,
			MinSimilarity: 0.0,
			Workers:       1,
		},
		LLM: LLMConfig{
			Provider: "anthropic",
			Model:    "claude-3-5-haiku-20241022",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

func applyEnv(cfg *Config) {
	cfg.Corpus.Dir = GetStringEnv("CORPUS_DIR", cfg.Corpus.Dir)
	cfg.Corpus.CacheDir = GetStringEnv("CORPUS_CACHE_DIR", cfg.Corpus.CacheDir)

	cfg.Chunking.Size = GetIntEnv("CHUNK_SIZE", cfg.Chunking.Size)
	cfg.Chunking.Overlap = GetIntEnv("CHUNK_OVERLAP", cfg.Chunking.Overlap)

	cfg.Vocabulary.MaxFeatures = GetIntEnv("VOCAB_MAX_FEATURES", cfg.Vocabulary.MaxFeatures)
	cfg.Vocabulary.NgramMin = GetIntEnv("VOCAB_NGRAM_MIN", cfg.Vocabulary.NgramMin)
	cfg.Vocabulary.NgramMax = GetIntEnv("VOCAB_NGRAM_MAX", cfg.Vocabulary.NgramMax)
	cfg.Vocabulary.SublinearTF = GetBoolEnv("VOCAB_SUBLINEAR_TF", cfg.Vocabulary.SublinearTF)
	cfg.Vocabulary.StopwordsFile = GetStringEnv("VOCAB_STOPWORDS_FILE", cfg.Vocabulary.StopwordsFile)

	cfg.Retrieval.TopK = GetIntEnv("RETRIEVAL_TOP_K", cfg.Retrieval.TopK)
	cfg.Retrieval.MinSimilarity = GetFloatEnv("RETRIEVAL_MIN_SIMILARITY", cfg.Retrieval.MinSimilarity)
	cfg.Retrieval.Workers = GetIntEnv("RETRIEVAL_WORKERS", cfg.Retrieval.Workers)

	cfg.LLM.Provider = GetStringEnv("LLM_PROVIDER", cfg.LLM.Provider)
	cfg.LLM.BaseURL = GetStringEnv("LLM_BASE_URL", cfg.LLM.BaseURL)
	cfg.LLM.Model = GetStringEnv("LLM_MODEL", cfg.LLM.Model)
	cfg.LLM.APIKey = GetStringEnv("LLM_API_KEY", cfg.LLM.APIKey)

	cfg.Server.Addr = GetStringEnv("SERVER_ADDR", cfg.Server.Addr)
}

// Validate rejects malformed configuration before any index build starts.
func (c *Config) Validate() error {
	if c.Chunking.Size <= 0 {
		return fmt.Errorf("chunking.size must be positive, got %d", c.Chunking.Size)
	}
	if c.Chunking.Overlap < 0 || c.Chunking.Overlap >= c.Chunking.Size {
		return fmt.Errorf("chunking.overlap must satisfy 0 <= overlap < size, got %d", c.Chunking.Overlap)
	}
	if c.Vocabulary.NgramMin < 1 || c.Vocabulary.NgramMax < c.Vocabulary.NgramMin {
		return fmt.Errorf("vocabulary n-gram range (%d,%d) is not ascending from 1",
			c.Vocabulary.NgramMin, c.Vocabulary.NgramMax)
	}
	if c.Retrieval.TopK < 0 {
		return fmt.Errorf("retrieval.top_k must not be negative, got %d", c.Retrieval.TopK)
	}
	return nil
}

func GetStringEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func GetIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func GetBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func GetFloatEnv(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
