// Package bundler produces size-capped sequential archive volumes
package bundler

import (
	"archive/tar"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"
	"github.com/rs/zerolog"

	"github.com/yourusername/telegram-archive-bot/internal/domain/archive/consts"
	"github.com/yourusername/telegram-archive-bot/internal/domain/archive/deps"
)

// TarGzBundler bundles a directory into one tar.gz stream split across
// sequential volumes. Concatenating the volumes in order reconstructs the
// stream byte for byte.
type TarGzBundler struct {
	logger zerolog.Logger
}

// NewTarGzBundler creates a new bundler
func NewTarGzBundler(logger zerolog.Logger) *TarGzBundler {
	return &TarGzBundler{logger: logger}
}

var _ deps.Bundler = (*TarGzBundler)(nil)

// Split implements deps.Bundler
func (b *TarGzBundler) Split(ctx context.Context, sourceDir, stagingDir, baseName string, volumeSize int64) ([]string, error) {
	if volumeSize <= 0 {
		return nil, fmt.Errorf("volume size must be positive, got %d", volumeSize)
	}

	volumes := newVolumeWriter(stagingDir, baseName, volumeSize)
	gzipWriter := gzip.NewWriter(volumes)
	tarWriter := tar.NewWriter(gzipWriter)

	err := filepath.WalkDir(sourceDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}

		relative, err := filepath.Rel(sourceDir, path)
		if err != nil {
			return err
		}

		info, err := entry.Info()
		if err != nil {
			return err
		}

		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(relative)

		if err := tarWriter.WriteHeader(header); err != nil {
			return err
		}

		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()

		_, err = io.Copy(tarWriter, file)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to bundle %s: %w", sourceDir, err)
	}

	if err := tarWriter.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize tar stream: %w", err)
	}
	if err := gzipWriter.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize gzip stream: %w", err)
	}
	if err := volumes.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize volumes: %w", err)
	}

	b.logger.Debug().
		Str("source", sourceDir).
		Int("volumes", len(volumes.paths)).
		Msg("Directory bundled")

	return volumes.paths, nil
}

// volumeWriter fans one stream out into sequential files of at most limit
// bytes each, named <base>.tar.gz.NNN
type volumeWriter struct {
	dir     string
	base    string
	limit   int64
	seq     int
	current *os.File
	written int64
	paths   []string
}

func newVolumeWriter(dir, base string, limit int64) *volumeWriter {
	return &volumeWriter{dir: dir, base: base, limit: limit}
}

func (w *volumeWriter) Write(p []byte) (int, error) {
	total := 0
	for len(p) > 0 {
		if w.current == nil {
			if err := w.roll(); err != nil {
				return total, err
			}
		}

		chunk := int64(len(p))
		if room := w.limit - w.written; chunk > room {
			chunk = room
		}

		n, err := w.current.Write(p[:chunk])
		total += n
		w.written += int64(n)
		if err != nil {
			return total, err
		}

		p = p[n:]
		if w.written >= w.limit {
			if err := w.closeCurrent(); err != nil {
				return total, err
			}
		}
	}
	return total, nil
}

func (w *volumeWriter) roll() error {
	w.seq++
	name := fmt.Sprintf("%s.%s.%03d", w.base, consts.VolumeExt, w.seq)
	file, err := os.Create(filepath.Join(w.dir, name))
	if err != nil {
		return err
	}
	w.current = file
	w.written = 0
	w.paths = append(w.paths, file.Name())
	return nil
}

func (w *volumeWriter) closeCurrent() error {
	err := w.current.Close()
	w.current = nil
	return err
}

func (w *volumeWriter) Close() error {
	if w.current == nil {
		return nil
	}
	return w.closeCurrent()
}
