// Package filesystem implements driven.ObjectStore on a local directory.
//
// SignedURL returns a base64 data: URL rather than a network URL. Vision
// models accept data URLs, so image ingestion works without an S3 server.
// The ttl argument is ignored.
package filesystem

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

// Store keeps objects as files under a root directory.
type Store struct {
	root string
}

// Ensure Store implements the interface.
var _ driven.ObjectStore = (*Store)(nil)

// New creates the store. If root is empty, defaults to ~/.sercha-rag/objects.
func New(root string) (*Store, error) {
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		root = filepath.Join(home, ".sercha-rag", "objects")
	}
	if err := os.MkdirAll(root, 0700); err != nil {
		return nil, fmt.Errorf("creating object directory: %w: %w", domain.ErrStorage, err)
	}
	return &Store{root: root}, nil
}

// Root returns the root directory.
func (s *Store) Root() string {
	return s.root
}

// Upload writes data to the file for key, creating parent directories.
func (s *Store) Upload(_ context.Context, key string, data []byte, _ string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating %s: %w: %w", filepath.Dir(path), domain.ErrStorage, err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing %s: %w: %w", key, domain.ErrStorage, err)
	}
	return nil
}

// SignedURL returns the object as a data: URL. The media type comes from
// the key's extension, falling back to content sniffing.
func (s *Store) SignedURL(_ context.Context, key string, _ time.Duration) (string, error) {
	path, err := s.path(key)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("object %s: %w", key, domain.ErrNotFound)
		}
		return "", fmt.Errorf("reading %s: %w: %w", key, domain.ErrStorage, err)
	}

	mediaType := mime.TypeByExtension(strings.ToLower(filepath.Ext(key)))
	if mediaType == "" {
		mediaType = http.DetectContentType(data)
	}
	if i := strings.IndexByte(mediaType, ';'); i >= 0 {
		mediaType = mediaType[:i]
	}
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

// Delete removes the file. A missing file is not an error.
func (s *Store) Delete(_ context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("deleting %s: %w: %w", key, domain.ErrStorage, err)
	}
	return nil
}

// path resolves key inside root, rejecting keys that escape it.
func (s *Store) path(key string) (string, error) {
	if key == "" || !filepath.IsLocal(filepath.FromSlash(key)) {
		return "", fmt.Errorf("object key %q: %w", key, domain.ErrInvalidInput)
	}
	return filepath.Join(s.root, filepath.FromSlash(key)), nil
}
