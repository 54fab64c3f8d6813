package engine

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/docqa-engine/backend/internal/config"
	"github.com/docqa-engine/backend/internal/loader"
	"github.com/docqa-engine/backend/internal/provider"
	"github.com/docqa-engine/backend/internal/search"
)

// Engine wires the document loader, the retrieval index, and the LLM
// provider together. The index is single-writer / many-reader: Reload
// builds a fresh index and swaps it in atomically while queries hold the
// read lock.
type Engine struct {
	Config *config.Config
	Logger *logrus.Entry
	Loader *loader.Loader
	LLM    provider.LLMProvider

	mu    sync.RWMutex
	index *search.Index
	stats Stats
}

// Stats describes the currently loaded index.
type Stats struct {
	Documents      int       `json:"documents"`
	Chunks         int       `json:"chunks"`
	VocabularySize int       `json:"vocabulary_size"`
	LastBuild      time.Time `json:"last_build"`
}

func NewEngine(cfg *config.Config, logger *logrus.Entry, ld *loader.Loader) (*Engine, error) {
	var llm provider.LLMProvider
	switch cfg.LLM.Provider {
	case "openai":
		llm = provider.NewOpenAIProvider(cfg.LLM.BaseURL, cfg.LLM.Model, cfg.LLM.APIKey)
	case "ollama":
		llm = provider.NewOllamaProvider(cfg.LLM.BaseURL, cfg.LLM.Model)
	case "anthropic", "":
		llm = provider.NewAnthropicProvider(cfg.LLM.BaseURL, cfg.LLM.Model, cfg.LLM.APIKey)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.LLM.Provider)
	}

	return &Engine{
		Config: cfg,
		Logger: logger,
		Loader: ld,
		LLM:    llm,
	}, nil
}

// Reload loads the corpus and rebuilds the index from scratch, replacing
// any previous state wholesale.
func (e *Engine) Reload(ctx context.Context) error {
	docs, err := e.Loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load corpus: %w", err)
	}

	stopwords, err := e.stopwords()
	if err != nil {
		return err
	}

	idx, err := search.BuildIndex(docs, search.IndexOptions{
		ChunkSize:    e.Config.Chunking.Size,
		ChunkOverlap: e.Config.Chunking.Overlap,
		MaxFeatures:  e.Config.Vocabulary.MaxFeatures,
		Stopwords:    stopwords,
		NgramMin:     e.Config.Vocabulary.NgramMin,
		NgramMax:     e.Config.Vocabulary.NgramMax,
		SublinearTF:  e.Config.Vocabulary.SublinearTF,
		Workers:      e.Config.Retrieval.Workers,
	}, e.Logger)
	if err != nil {
		return fmt.Errorf("failed to build index: %w", err)
	}

	e.mu.Lock()
	e.index = idx
	e.stats = Stats{
		Documents:      len(docs),
		Chunks:         idx.Len(),
		VocabularySize: idx.Vocab.Size(),
		LastBuild:      time.Now(),
	}
	e.mu.Unlock()

	if idx.Empty() {
		e.Logger.Warn("Index is empty: queries will return no results")
	}
	return nil
}

// Retrieve runs a retrieval-only query against the current index.
func (e *Engine) Retrieve(query string) ([]search.Result, error) {
	e.mu.RLock()
	idx := e.index
	e.mu.RUnlock()

	if idx == nil {
		return nil, search.ErrNoIndex
	}
	return idx.Query(query, e.Config.Retrieval.TopK, e.Config.Retrieval.MinSimilarity)
}

// NoAnswerText is returned when retrieval finds nothing relevant; no LLM
// call is made in that case.
const NoAnswerText = "No relevant information found in the loaded documents."

// Answer performs the full QA flow: retrieve context, build the prompt,
// and generate an answer. It returns the answer together with the chunks
// it was grounded on.
func (e *Engine) Answer(ctx context.Context, question string) (string, []search.Result, error) {
	results, err := e.Retrieve(question)
	if err != nil {
		if errors.Is(err, search.ErrNoIndex) {
			return NoAnswerText, nil, nil
		}
		return "", nil, err
	}
	if len(results) == 0 {
		return NoAnswerText, nil, nil
	}

	prompt := provider.BuildPrompt(question, FormatContext(results))
	answer, err := e.LLM.Generate(ctx, prompt)
	if err != nil {
		return "", nil, fmt.Errorf("llm generation failed: %w", err)
	}
	return answer, results, nil
}

// Status returns the stats of the current index.
func (e *Engine) Status() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stats
}

// FormatContext renders ranked chunks as the excerpt block handed to the
// prompt builder.
func FormatContext(results []search.Result) string {
	sections := make([]string, len(results))
	for i, r := range results {
		sections[i] = fmt.Sprintf("[From: %s]\n%s", r.Document, r.ChunkText)
	}
	return strings.Join(sections, "\n\n---\n\n")
}

// stopwords resolves the stopword set: the built-in English list, or the
// contents of the configured file (one word per line).
func (e *Engine) stopwords() (map[string]struct{}, error) {
	path := e.Config.Vocabulary.StopwordsFile
	if path == "" {
		return search.DefaultStopwords(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open stopwords file: %w", err)
	}
	defer f.Close()

	words := make(map[string]struct{})
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		word := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if word != "" {
			words[word] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stopwords file: %w", err)
	}
	return words, nil
}
