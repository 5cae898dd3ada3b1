package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/loxno92/schoolbot/logger"
	"log/slog"
)

// ErrNoChange lets an Update callback abandon the write when it finds nothing
// to mutate. Update passes it through to the caller.
var ErrNoChange = errors.New("storage: no change")

// Store owns the persisted document. All access goes through a single mutex so
// concurrent handlers cannot interleave load/save cycles and lose updates.
type Store struct {
	mu   sync.Mutex
	path string
}

// Open prepares a store over the given file path. The file does not have to
// exist yet; the first save creates it.
func Open(path string) *Store {
	return &Store{path: path}
}

// Load returns a snapshot of the current document. A missing or unparsable
// file yields the empty document, never an error.
func (s *Store) Load() *Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// View runs fn against a snapshot of the document under the store lock.
func (s *Store) View(fn func(*Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.read())
}

// Update runs fn against the current document and persists the result. The
// whole load-mutate-save cycle happens under the store lock; fn returning an
// error abandons the mutation without writing.
func (s *Store) Update(fn func(*Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.read()
	if err := fn(doc); err != nil {
		return err
	}
	return s.write(doc)
}

func (s *Store) read() *Document {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn(logger.Background(), "store", "store.load",
				slog.String("file", s.path),
				slog.String("err", err.Error()),
			)
		}
		return NewDocument()
	}

	doc := NewDocument()
	if err := json.Unmarshal(data, doc); err != nil {
		logger.Warn(logger.Background(), "store", "store.load",
			slog.String("file", s.path),
			slog.String("err", err.Error()),
			slog.String("cause", "unparsable"),
		)
		return NewDocument()
	}
	return doc
}

// write replaces the whole file. The document is marshalled first and moved
// into place via rename so readers never observe a torn write.
func (s *Store) write(doc *Document) error {
	start := time.Now()
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("store: encode document: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp*")
	if err != nil {
		return fmt.Errorf("store: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("store: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("store: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("store: replace data file: %w", err)
	}

	logger.Debug(logger.Background(), "store", "store.save",
		slog.String("file", s.path),
		slog.Int("bytes", len(data)),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
	return nil
}
