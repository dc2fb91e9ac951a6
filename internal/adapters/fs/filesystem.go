// Package fs provides the file system adapter.
package fs

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	iofs "io/fs"
	"os"
	"path/filepath"

	"go.trai.ch/lockmend/internal/core/domain"
	"go.trai.ch/lockmend/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.FileSystem = (*FileSystem)(nil)

const tempPattern = ".lockmend-tmp-*"

// FileSystem implements ports.FileSystem on the local disk.
type FileSystem struct {
	hasher *Hasher
}

// NewFileSystem creates a new FileSystem.
func NewFileSystem(hasher *Hasher) *FileSystem {
	return &FileSystem{hasher: hasher}
}

// Exists reports whether path exists.
func (f *FileSystem) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, iofs.ErrNotExist) {
		return false, nil
	}
	return false, zerr.With(zerr.Wrap(err, "failed to stat path"), "path", path)
}

// ReadFile reads the entire file at path.
func (f *FileSystem) ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrLockfileReadFailed.Error()), "path", path)
	}
	return data, nil
}

// ChangeFile writes content to path through a temporary sibling file and a rename.
// With AutomaticNewlines the content takes the line ending of the first line of the
// file it replaces. Nothing is written when the digest of the resulting bytes matches
// the digest of the current file.
func (f *FileSystem) ChangeFile(path string, content []byte, opts ports.ChangeOptions) (bool, error) {
	perm := os.FileMode(domain.FilePerm)
	exists := false

	info, err := os.Stat(path)
	switch {
	case err == nil:
		perm = info.Mode().Perm()
		exists = true
	case !errors.Is(err, iofs.ErrNotExist):
		return false, zerr.With(zerr.Wrap(err, domain.ErrLockfileWriteFailed.Error()), "path", path)
	}

	if opts.AutomaticNewlines {
		crlf := false
		if exists {
			if crlf, err = usesCRLF(path); err != nil {
				return false, err
			}
		}
		content = normalizeLineEndings(crlf, content)
	}

	if exists {
		digest, err := f.hasher.ComputeFileHash(path)
		if err != nil {
			return false, zerr.With(zerr.Wrap(err, domain.ErrLockfileReadFailed.Error()), "path", path)
		}
		if digest == f.hasher.ComputeContentHash(content) {
			return false, nil
		}
	}

	if err := atomicWrite(path, content, perm); err != nil {
		return false, zerr.With(zerr.Wrap(err, domain.ErrLockfileWriteFailed.Error()), "path", path)
	}
	return true, nil
}

// usesCRLF reports whether the first line of the file at path ends with CRLF.
func usesCRLF(path string) (bool, error) {
	file, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, domain.ErrLockfileReadFailed.Error()), "path", path)
	}
	defer file.Close() //nolint:errcheck // Read-only handle

	line, err := bufio.NewReader(file).ReadBytes('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, zerr.With(zerr.Wrap(err, domain.ErrLockfileReadFailed.Error()), "path", path)
	}
	return bytes.HasSuffix(line, []byte("\r\n")), nil
}

// normalizeLineEndings converts content to CRLF when crlf is set, and to LF otherwise.
func normalizeLineEndings(crlf bool, content []byte) []byte {
	lf := bytes.ReplaceAll(content, []byte("\r\n"), []byte("\n"))
	if crlf {
		return bytes.ReplaceAll(lf, []byte("\n"), []byte("\r\n"))
	}
	return lf
}

func atomicWrite(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	tmpFile, err := os.CreateTemp(dir, tempPattern)
	if err != nil {
		return zerr.Wrap(err, "failed to create temp file")
	}
	tmpPath := tmpFile.Name()

	committed := false
	defer func() {
		if !committed {
			_ = tmpFile.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return zerr.Wrap(err, "failed to write temp file")
	}
	if err := tmpFile.Sync(); err != nil {
		return zerr.Wrap(err, "failed to sync temp file")
	}
	if err := tmpFile.Close(); err != nil {
		return zerr.Wrap(err, "failed to close temp file")
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return zerr.Wrap(err, "failed to set permissions")
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		committed = true
		return zerr.Wrap(err, "failed to rename temp file")
	}

	committed = true
	return nil
}
