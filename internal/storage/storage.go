// Package storage persists small JSON documents under rasa's data directory.
// Each key maps to one file, <baseDir>/state/<key>.json; it is the local
// equivalent of browser storage.
package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joshsymonds/rasa/pkg/logger"
	"github.com/joshsymonds/rasa/pkg/pathutil"
)

// ErrNotFound is returned by Get for keys that were never stored.
var ErrNotFound = errors.New("key not found")

const stateDir = "state"

// Storage handles saving and loading keyed JSON documents.
type Storage struct {
	logger  logger.Logger
	baseDir string
}

// NewStorage creates a new storage instance.
func NewStorage(baseDir string) *Storage {
	return NewStorageWithLogger(baseDir, logger.GetGlobalLogger())
}

// NewStorageWithLogger creates a new storage instance with a custom logger.
func NewStorageWithLogger(baseDir string, log logger.Logger) *Storage {
	return &Storage{
		baseDir: baseDir,
		logger:  log,
	}
}

// BaseDir returns the data directory.
func (s *Storage) BaseDir() string {
	return s.baseDir
}

func (s *Storage) keyPath(key string) (string, error) {
	if err := pathutil.ValidateKey(key); err != nil {
		return "", err
	}
	return pathutil.JoinAndValidate(s.baseDir, stateDir, key+".json")
}

// Put serializes value under key, replacing any previous value. The write
// goes through a temporary file so readers never see a partial document.
func (s *Storage) Put(key string, value any) error {
	path, err := s.keyPath(key)
	if err != nil {
		return fmt.Errorf("invalid key path: %w", err)
	}

	if mkErr := os.MkdirAll(filepath.Dir(path), 0o750); mkErr != nil {
		return fmt.Errorf("creating state directory: %w", mkErr)
	}

	tmp := path + ".tmp"
	if err := s.saveJSON(tmp, value); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("saving %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("committing %s: %w", key, err)
	}

	s.logger.Debug("Stored key", "key", key, "path", path)
	return nil
}

// Get decodes the document stored under key into value.
func (s *Storage) Get(key string, value any) error {
	path, err := s.keyPath(key)
	if err != nil {
		return fmt.Errorf("invalid key path: %w", err)
	}

	if err := s.loadJSON(path, value); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, key)
		}
		return fmt.Errorf("loading %s: %w", key, err)
	}
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Storage) Delete(key string) error {
	path, err := s.keyPath(key)
	if err != nil {
		return fmt.Errorf("invalid key path: %w", err)
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", key, err)
	}

	s.logger.Debug("Deleted key", "key", key)
	return nil
}

// Keys lists stored keys in lexical order.
func (s *Storage) Keys() ([]string, error) {
	dir := filepath.Join(s.baseDir, stateDir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("reading state directory: %w", err)
	}

	keys := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(keys)
	return keys, nil
}

// saveJSON saves data as indented JSON.
func (s *Storage) saveJSON(path string, data any) (err error) {
	// Path should already be validated by caller
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600) // #nosec G304 - path is validated by caller
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// loadJSON loads JSON data from a file.
func (s *Storage) loadJSON(path string, data any) (err error) {
	// Path should already be validated by caller
	file, err := os.Open(path) // #nosec G304 - path is validated by caller
	if err != nil {
		return err
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return json.NewDecoder(file).Decode(data)
}
