package media

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const URLPrefix = "/media/"

// MaxUploadBytes caps a single image upload.
const MaxUploadBytes = 10 << 20

var ErrUnsupportedType = errors.New("unsupported image type")

var allowed = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

// Store keeps uploaded images under Dir and hands out /media URLs.
type Store struct {
	Dir string
}

func (s *Store) ensure(sub string) (string, error) {
	dir := filepath.Join(s.Dir, sub)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("media dir: %w", err)
	}
	return dir, nil
}

// Save copies r into sub/<uuid><ext> and returns the public path.
func (s *Store) Save(sub, filename string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowed[ext] {
		return "", fmt.Errorf("%s: %w", ext, ErrUnsupportedType)
	}
	dir, err := s.ensure(sub)
	if err != nil {
		return "", err
	}

	name := uuid.NewString() + ext
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("create media file: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(f, io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("write media file: %w", err)
	}
	if n > MaxUploadBytes {
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("image larger than %d bytes: %w", MaxUploadBytes, ErrUnsupportedType)
	}
	return URLPrefix + path.Join(sub, name), nil
}

// Remove deletes a file previously returned by Save. Paths outside the store
// and missing files are ignored.
func (s *Store) Remove(publicPath string) error {
	clean := path.Clean(publicPath)
	if !strings.HasPrefix(clean, URLPrefix) {
		return nil
	}
	rel := filepath.FromSlash(strings.TrimPrefix(clean, URLPrefix))
	if rel == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.Dir, rel))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
