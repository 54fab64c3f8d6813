package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// ExtractedText is the cached extraction result for one source file.
type ExtractedText struct {
	Path    string    `json:"path"`
	ModTime time.Time `json:"mod_time"`
	Text    string    `json:"text"`
}

// ExtractCache stores extracted document text between runs so expensive
// formats (PDF in particular) are not re-parsed on every reload. The
// retrieval index itself is never persisted.
type ExtractCache interface {
	Get(path string, modTime time.Time) (*ExtractedText, bool)
	Put(entry *ExtractedText) error
	Close() error
}

// FileCache implements ExtractCache using JSON files on the local file system.
type FileCache struct {
	baseDir string
	mu      sync.RWMutex
}

// NewFileCache creates a file-based extraction cache rooted at baseDir.
func NewFileCache(baseDir string) (*FileCache, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &FileCache{baseDir: baseDir}, nil
}

// Get returns the cached text for path if it exists and the source file has
// not been modified since the entry was written.
func (fc *FileCache) Get(path string, modTime time.Time) (*ExtractedText, bool) {
	fc.mu.RLock()
	defer fc.mu.RUnlock()

	data, err := os.ReadFile(filepath.Join(fc.baseDir, safeFilename(path)))
	if err != nil {
		return nil, false
	}

	var entry ExtractedText
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, false
	}
	if !entry.ModTime.Equal(modTime) {
		return nil, false
	}
	return &entry, true
}

// Put writes the extraction result to a JSON file.
func (fc *FileCache) Put(entry *ExtractedText) error {
	fc.mu.Lock()
	defer fc.mu.Unlock()

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	path := filepath.Join(fc.baseDir, safeFilename(entry.Path))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	return nil
}

// Close is a no-op for file caches.
func (fc *FileCache) Close() error {
	return nil
}

// safeFilename converts a source path to a safe cache filename
func safeFilename(path string) string {
	safe := ""
	for _, r := range path {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			safe += string(r)
		} else {
			safe += "_"
		}
	}
	if len(safe) > 100 {
		safe = safe[:100]
	}
	return safe + ".json"
}
