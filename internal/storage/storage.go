package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// AvatarStore saves uploaded avatar images to a local directory that
// the server exposes under /avatars, and builds their public URLs.
type AvatarStore struct {
	dir     string
	baseURL string
}

// NewAvatarStore creates the store and its directory
func NewAvatarStore(dir, baseURL string) (*AvatarStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create avatar directory: %w", err)
	}
	return &AvatarStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Dir returns the local directory avatars are stored in
func (s *AvatarStore) Dir() string {
	return s.dir
}

// Save writes the uploaded file under a sanitized name and returns its
// public URL.
func (s *AvatarStore) Save(filename string, r io.Reader) (string, error) {
	name := unsafeChars.ReplaceAllString(filepath.Base(filename), "_")
	if name == "" || name == "." {
		return "", fmt.Errorf("invalid avatar filename %q", filename)
	}

	path := filepath.Join(s.dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create avatar file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("failed to write avatar file: %w", err)
	}

	return s.PublicURL(name), nil
}

// PublicURL returns the public URL for a stored avatar name
func (s *AvatarStore) PublicURL(name string) string {
	return s.baseURL + "/avatars/" + name
}
