package state

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// yamlState is the on-disk layout of a YAMLStore file
type yamlState struct {
	RootPath string `yaml:"root_path"`
}

// YAMLStore keeps the root path in a small YAML file
type YAMLStore struct {
	path string
	mu   sync.Mutex
}

func NewYAMLStore(path string) *YAMLStore {
	return &YAMLStore{path: path}
}

func (s *YAMLStore) Load(ctx context.Context) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	var st yamlState
	if err := yaml.Unmarshal(data, &st); err != nil {
		return "", false, fmt.Errorf("failed to unmarshal state file %s: %w", s.path, err)
	}
	return st.RootPath, st.RootPath != "", nil
}

// Save writes the file atomically via a temp file in the same directory
func (s *YAMLStore) Save(ctx context.Context, rootPath string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := yaml.Marshal(yamlState{RootPath: rootPath})
	if err != nil {
		return err
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".state-*.yaml")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name()) // nolint:errcheck
	if _, err := tmp.Write(data); err != nil {
		tmp.Close() // nolint:errcheck
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}

func (s *YAMLStore) Close() error { return nil }
