package archive

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/yeka/zip"
	"go.uber.org/zap"

	"github.com/datapipes/downpipe/internal/tmpio"
)

// ErrPathTraversal marks an archive member resolving outside the extraction
// directory.
var ErrPathTraversal = errors.New("archive member escapes destination directory")

// Untar extracts a tar file (gzip-compressed or plain) into a fresh temp
// directory and returns the extracted file paths. A nil logger disables
// logging.
func Untar(filename string, logger *zap.Logger) ([]string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug("uncompressing tar file", zap.String("file", filename))

	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("untar %s: %w", filename, err)
	}
	defer f.Close()

	var r io.Reader = f
	if isGzipName(filename) {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("untar %s: %w", filename, err)
		}
		defer gz.Close()
		r = gz
	}

	dest, err := tmpio.TempDir("untar")
	if err != nil {
		return nil, err
	}

	var extracted []string
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("untar %s: %w", filename, err)
		}
		target := filepath.Join(dest, hdr.Name)
		if !within(dest, target) {
			return nil, fmt.Errorf("untar %s: member %q: %w", filename, hdr.Name, ErrPathTraversal)
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return nil, fmt.Errorf("untar %s: %w", filename, err)
			}
		case tar.TypeReg:
			if err := writeMember(target, tr); err != nil {
				return nil, fmt.Errorf("untar %s: %w", filename, err)
			}
			extracted = append(extracted, target)
		}
	}
	logger.Info("uncompressed tar file",
		zap.String("file", filename), zap.Strings("contents", extracted))
	return extracted, nil
}

// Unzip extracts a zip file into a fresh temp directory and returns the
// extracted file paths. An empty password extracts plain archives only.
func Unzip(filename, password string, logger *zap.Logger) ([]string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug("uncompressing zip file",
		zap.String("file", filename), zap.Bool("password", password != ""))

	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, fmt.Errorf("unzip %s: %w", filename, err)
	}
	defer zr.Close()

	dest, err := tmpio.TempDir("unzip")
	if err != nil {
		return nil, err
	}

	var extracted []string
	for _, member := range zr.File {
		target := filepath.Join(dest, member.Name)
		if !within(dest, target) {
			return nil, fmt.Errorf("unzip %s: member %q: %w", filename, member.Name, ErrPathTraversal)
		}
		if member.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return nil, fmt.Errorf("unzip %s: %w", filename, err)
			}
			continue
		}
		if member.IsEncrypted() && password != "" {
			member.SetPassword(password)
		}
		rc, err := member.Open()
		if err != nil {
			return nil, fmt.Errorf("unzip %s: member %q: %w", filename, member.Name, err)
		}
		err = writeMember(target, rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("unzip %s: %w", filename, err)
		}
		extracted = append(extracted, target)
	}
	logger.Info("uncompressed zip file",
		zap.String("file", filename), zap.Strings("contents", extracted))
	return extracted, nil
}

// Ungzip decompresses a single gzip file into a fresh temp directory; the
// output name is the input basename up to its first dot. Returned as a
// one-element slice so it composes with the other extractors.
func Ungzip(filename string, logger *zap.Logger) ([]string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug("uncompressing gz file", zap.String("file", filename))

	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("ungzip %s: %w", filename, err)
	}
	defer f.Close()
	gz, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("ungzip %s: %w", filename, err)
	}
	defer gz.Close()

	dest, err := tmpio.TempDir("ungzip")
	if err != nil {
		return nil, err
	}
	name := strings.SplitN(filepath.Base(filename), ".", 2)[0]
	target := filepath.Join(dest, name)
	if err := writeMember(target, gz); err != nil {
		return nil, fmt.Errorf("ungzip %s: %w", filename, err)
	}
	logger.Info("uncompressed gz file",
		zap.String("file", filename), zap.String("target", target))
	return []string{target}, nil
}

func writeMember(target string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, r)
	return err
}

// within reports whether target stays under dir once cleaned.
func within(dir, target string) bool {
	rel, err := filepath.Rel(dir, filepath.Clean(target))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(os.PathSeparator))
}

func isGzipName(filename string) bool {
	return strings.HasSuffix(filename, ".gz") || strings.HasSuffix(filename, ".tgz")
}
