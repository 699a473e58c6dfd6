// Package tmpio writes uniquely named temporary files for downloaded and
// extracted data. Names keep the source basename (and so its extension) with
// a short unique prefix, which matters for the archive collaborators that
// key off extensions.
package tmpio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Path returns a unique temp path preserving the basename of name.
func Path(name string) string {
	base := filepath.Base(strings.TrimRight(name, "/"))
	if base == "." || base == string(os.PathSeparator) || base == "" {
		base = "download"
	}
	return filepath.Join(os.TempDir(), fmt.Sprintf("%s-%s", uuid.NewString()[:8], base))
}

// WriteTemp writes contents to a unique temp file and returns its path.
func WriteTemp(name string, contents []byte) (string, error) {
	path := Path(name)
	if err := os.WriteFile(path, contents, 0o600); err != nil {
		return "", fmt.Errorf("write temp file %s: %w", path, err)
	}
	return path, nil
}

// Create opens a unique temp file for streaming writes.
func Create(name string) (*os.File, string, error) {
	path := Path(name)
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return nil, "", fmt.Errorf("create temp file %s: %w", path, err)
	}
	return f, path, nil
}

// TempDir creates a fresh directory for extracted archive members.
func TempDir(prefix string) (string, error) {
	dir, err := os.MkdirTemp("", prefix+"-")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	return dir, nil
}
