package logdata

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/verte-zerg/ampgraph/internal/model"
)

// Store gives access to the log files of one flat data directory.
type Store struct {
	dir string
}

// NewStore returns a store for dir, which is made absolute.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("data directory is empty")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory: %w", err)
	}
	return &Store{dir: abs}, nil
}

// Dir returns the absolute data directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the absolute path of the file named name. It does not check existence.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// EnsureReady creates the data directory when it is missing. It is safe to call repeatedly.
func (s *Store) EnsureReady() error {
	info, err := os.Stat(s.dir)
	switch {
	case err == nil && info.IsDir():
	case err == nil:
		return &StorageError{Op: "use", Dir: s.dir, Err: fmt.Errorf("not a directory")}
	case os.IsNotExist(err):
		if err := os.MkdirAll(s.dir, 0o755); err != nil {
			return &StorageError{Op: "create", Dir: s.dir, Err: err}
		}
	default:
		return &StorageError{Op: "stat", Dir: s.dir, Err: err}
	}
	if _, err := os.ReadDir(s.dir); err != nil {
		return &StorageError{Op: "read", Dir: s.dir, Err: err}
	}
	return nil
}

// ListValidFiles returns the names of all valid log files in directory order.
// Every call rescans the directory.
func (s *Store) ListValidFiles() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, &StorageError{Op: "read", Dir: s.dir, Err: err}
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if s.IsValid(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// ListValidInfos is ListValidFiles with size and modification time attached.
// Files removed between the scan and the stat are skipped.
func (s *Store) ListValidInfos() ([]model.FileInfo, error) {
	names, err := s.ListValidFiles()
	if err != nil {
		return nil, err
	}
	infos := make([]model.FileInfo, 0, len(names))
	for _, name := range names {
		info, err := s.Stat(name)
		if err != nil {
			continue
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// Stat returns size and modification time of the named file.
func (s *Store) Stat(name string) (model.FileInfo, error) {
	if !isBaseName(name) {
		return model.FileInfo{}, fmt.Errorf("invalid file name %q", name)
	}
	fi, err := os.Stat(s.Path(name))
	if err != nil {
		return model.FileInfo{}, err
	}
	return model.FileInfo{Name: name, Size: fi.Size(), ModTime: fi.ModTime()}, nil
}

// Load reads and parses the named file. It does not validate first: a malformed file
// yields a *ParseError, so callers should pick names from ListValidFiles.
func (s *Store) Load(name string) (*DataSet, error) {
	if !isBaseName(name) {
		return nil, fmt.Errorf("invalid file name %q", name)
	}
	lines, err := readLines(s.Path(name))
	if err != nil {
		if errors.Is(err, errNotUTF8) {
			return nil, &ParseError{File: name, Line: 0, Field: -1, Err: err}
		}
		return nil, fmt.Errorf("failed to read log file: %w", err)
	}
	return parseDataSet(name, lines)
}
