package locallist

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const listSchema = `{
  "type": "array",
  "items": {
    "type": "object",
    "required": ["text", "completed"],
    "properties": {
      "text": {"type": "string"},
      "completed": {"type": "boolean"}
    }
  }
}`

var compiledListSchema = jsonschema.MustCompileString("list.schema.json", listSchema)

var ErrInvalidListFile = errors.New("invalid list file")

// JSONFileStorage keeps the list as an indented JSON array in one file.
type JSONFileStorage struct {
	logger zerolog.Logger
	path   string
}

func NewJSONFileStorage(logger zerolog.Logger, path string) *JSONFileStorage {
	return &JSONFileStorage{
		logger: logger,
		path:   path,
	}
}

func (s *JSONFileStorage) Load() ([]Item, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Item{}, nil
		}
		return nil, fmt.Errorf("failed to read list file: %w", err)
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []Item{}, nil
	}

	var doc any
	err = json.Unmarshal(raw, &doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidListFile, err)
	}
	err = compiledListSchema.Validate(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidListFile, err)
	}

	items := make([]Item, 0)
	err = json.Unmarshal(raw, &items)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidListFile, err)
	}
	return items, nil
}

// Save replaces the file atomically so a concurrent reader never sees
// a half-written list.
func (s *JSONFileStorage) Save(items []Item) error {
	if items == nil {
		items = []Item{}
	}

	raw, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal list: %w", err)
	}
	raw = append(raw, '\n')

	err = os.MkdirAll(filepath.Dir(s.path), 0o755)
	if err != nil {
		return fmt.Errorf("failed to create list dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".list-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	_, err = tmp.Write(raw)
	if err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write list: %w", err)
	}
	err = tmp.Close()
	if err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	return os.Rename(tmp.Name(), s.path)
}

// Watch calls onChange whenever another process replaces or rewrites the
// list file, until ctx is done. The directory is watched because Save
// swaps the file by rename.
func (s *JSONFileStorage) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(s.path)
	err = os.MkdirAll(dir, 0o755)
	if err != nil {
		return fmt.Errorf("failed to create list dir: %w", err)
	}
	err = watcher.Add(dir)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	s.logger.Debug().
		Str("path", s.path).
		Msg("watching list file")

	target := filepath.Clean(s.path)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) != 0 {
				onChange()
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn().
				Err(err).
				Msg("fsnotify error")
		}
	}
}
