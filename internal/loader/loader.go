package loader

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/docqa-engine/backend/internal/search"
	"github.com/docqa-engine/backend/internal/storage"
)

// Supported document extensions and their extraction strategy.
var supportedExtensions = map[string]bool{
	".txt":  true,
	".md":   true,
	".html": true,
	".htm":  true,
	".pdf":  true,
	".docx": true,
}

// Loader scans a corpus directory and extracts plain text from the
// documents it finds. It is the upstream collaborator of the search index:
// the index only ever sees (identifier, text) pairs.
type Loader struct {
	dir    string
	cache  storage.ExtractCache
	logger *logrus.Entry
}

// NewLoader creates a loader rooted at dir. cache may be nil to disable
// extraction caching.
func NewLoader(dir string, cache storage.ExtractCache, logger *logrus.Entry) *Loader {
	return &Loader{dir: dir, cache: cache, logger: logger}
}

// Load walks the corpus directory in lexical order and returns one Document
// per supported file that yields non-empty text. Files that fail to extract
// are skipped with a log notice rather than aborting the whole load.
func (l *Loader) Load() ([]search.Document, error) {
	info, err := os.Stat(l.dir)
	if err != nil {
		return nil, fmt.Errorf("corpus directory %s: %w", l.dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("corpus path %s is not a directory", l.dir)
	}

	var docs []search.Document
	err = filepath.WalkDir(l.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !supportedExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		text, err := l.extract(path)
		if err != nil {
			l.logger.WithError(err).Warnf("Skipping %s", path)
			return nil
		}
		if strings.TrimSpace(text) == "" {
			l.logger.Warnf("Skipping %s: no text extracted", path)
			return nil
		}

		id := path
		if rel, relErr := filepath.Rel(l.dir, path); relErr == nil {
			id = rel
		}
		docs = append(docs, search.Document{ID: id, Text: text})
		l.logger.Debugf("Loaded %s (%d chars)", id, len(text))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan corpus: %w", err)
	}

	l.logger.Infof("Loaded %d document(s) from %s", len(docs), l.dir)
	return docs, nil
}

// extract dispatches on the file extension, consulting the cache first.
func (l *Loader) extract(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}

	if l.cache != nil {
		if entry, ok := l.cache.Get(path, info.ModTime()); ok {
			return entry.Text, nil
		}
	}

	var text string
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		text = string(data)
	case ".html", ".htm":
		f, err := os.Open(path)
		if err != nil {
			return "", err
		}
		text, err = extractHTML(f)
		f.Close()
		if err != nil {
			return "", err
		}
	case ".pdf":
		text, err = extractPDF(path)
		if err != nil {
			return "", err
		}
	case ".docx":
		text, err = extractDOCX(path)
		if err != nil {
			return "", err
		}
	default:
		return "", fmt.Errorf("unsupported extension: %s", path)
	}

	if l.cache != nil {
		entry := &storage.ExtractedText{Path: path, ModTime: info.ModTime(), Text: text}
		if err := l.cache.Put(entry); err != nil {
			l.logger.WithError(err).Warnf("Failed to cache extraction for %s", path)
		}
	}
	return text, nil
}

// cleanText removes excessive whitespace
func cleanText(input string) string {
	return strings.Join(strings.Fields(input), " ")
}
