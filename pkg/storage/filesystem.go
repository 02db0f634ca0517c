package storage

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalStorage persists uploaded files on disk under a base directory and
// maps stored files to publicly served URLs.
type LocalStorage struct {
	baseDir       string
	publicBaseURL string
}

// NewLocalStorage ensures the base directory exists and returns a handle.
func NewLocalStorage(baseDir, publicBaseURL string) (*LocalStorage, error) {
	if baseDir == "" {
		baseDir = "./public/uploads"
	}
	if publicBaseURL == "" {
		publicBaseURL = "/uploads"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads directory: %w", err)
	}
	return &LocalStorage{baseDir: baseDir, publicBaseURL: strings.TrimRight(publicBaseURL, "/")}, nil
}

// Save writes the given bytes under folder/filename relative to the base dir.
func (s *LocalStorage) Save(folder, filename string, data []byte) (string, error) {
	rel := path.Join(folder, filename)
	target := s.resolve(rel)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("prepare upload directory: %w", err)
	}
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("write upload file: %w", err)
	}
	return rel, nil
}

// SaveStream copies from reader into folder/filename under the base dir.
func (s *LocalStorage) SaveStream(folder, filename string, r io.Reader) (string, error) {
	rel := path.Join(folder, filename)
	target := s.resolve(rel)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("prepare upload directory: %w", err)
	}
	file, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer file.Close() //nolint:errcheck
	if _, err := io.Copy(file, r); err != nil {
		return "", fmt.Errorf("write upload stream: %w", err)
	}
	return rel, nil
}

// Open returns a read-only handle for the stored file.
func (s *LocalStorage) Open(rel string) (*os.File, error) {
	file, err := os.Open(s.resolve(rel))
	if err != nil {
		return nil, fmt.Errorf("open upload file: %w", err)
	}
	return file, nil
}

// Delete removes a stored file if present.
func (s *LocalStorage) Delete(rel string) error {
	if err := os.Remove(s.resolve(rel)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete upload file: %w", err)
	}
	return nil
}

// PublicURL maps a stored relative path to the URL it is served under.
func (s *LocalStorage) PublicURL(rel string) string {
	return s.publicBaseURL + "/" + strings.TrimLeft(filepath.ToSlash(rel), "/")
}

// Path exposes the underlying absolute path (useful for debugging).
func (s *LocalStorage) Path(rel string) string {
	return s.resolve(rel)
}

func (s *LocalStorage) resolve(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(s.baseDir, filepath.FromSlash(rel))
}
