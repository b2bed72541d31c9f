// Package blobstore keeps document bytes on a local or mounted filesystem.
package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"compliance/internal/core/ports"
	"compliance/internal/pkg/errs"
)

var _ ports.BlobStore = &Filesystem{}

// Filesystem stores each blob as a file under root. Keys are slash-separated relative paths.
// Writes go to a temporary file that is renamed into place, so readers never see partial
// content.
type Filesystem struct {
	root string
}

func NewFilesystem(root string) (*Filesystem, error) {
	if root == "" {
		return nil, errs.NewValueIsRequiredError("blob root")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve blob root: %w", err)
	}
	if err = os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("create blob root: %w", err)
	}
	return &Filesystem{root: abs}, nil
}

func (f *Filesystem) Put(ctx context.Context, key string, r io.Reader, limit int64) (int64, error) {
	path, err := f.path(key)
	if err != nil {
		return 0, err
	}
	if err = ctx.Err(); err != nil {
		return 0, err
	}
	if err = os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return 0, fmt.Errorf("create blob directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("create blob: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	// one extra byte tells an exact-limit body from an oversized one
	n, err := io.Copy(tmp, io.LimitReader(r, limit+1))
	closeErr := tmp.Close()
	if err != nil {
		return 0, fmt.Errorf("write blob: %w", err)
	}
	if closeErr != nil {
		return 0, fmt.Errorf("write blob: %w", closeErr)
	}
	if n > limit {
		return 0, errs.NewValueIsOutOfRangeError("file size", fmt.Sprintf("more than %d bytes", limit), 1, limit)
	}
	if err = ctx.Err(); err != nil {
		return 0, err
	}

	if err = os.Rename(tmp.Name(), path); err != nil {
		return 0, fmt.Errorf("store blob: %w", err)
	}
	return n, nil
}

func (f *Filesystem) Open(_ context.Context, key string) (io.ReadCloser, error) {
	path, err := f.path(key)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errs.NewObjectNotFoundErrorWithCause("blob", key, err)
	}
	if err != nil {
		return nil, fmt.Errorf("open blob: %w", err)
	}
	return file, nil
}

func (f *Filesystem) Delete(_ context.Context, key string) error {
	path, err := f.path(key)
	if err != nil {
		return err
	}
	if err = os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete blob: %w", err)
	}
	return nil
}

// path maps a key inside root and rejects keys that would escape it.
func (f *Filesystem) path(key string) (string, error) {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, `\`) {
		return "", errs.NewValueIsInvalidError("blob key")
	}
	path := filepath.Join(f.root, filepath.FromSlash(key))
	rel, err := filepath.Rel(f.root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", errs.NewValueIsInvalidError("blob key")
	}
	return path, nil
}
