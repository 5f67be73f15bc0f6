// Package pathing computes on-disk destinations for archived files
package pathing

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yourusername/telegram-archive-bot/internal/domain/archive/dto"
	"github.com/yourusername/telegram-archive-bot/internal/domain/archive/entities"
	archiveerrors "github.com/yourusername/telegram-archive-bot/internal/domain/archive/errors"
)

// Resolution is the resolved destination of an accepted file
type Resolution struct {
	// Path is the absolute destination path
	Path string
	// FileName is the final chosen name, suffixed when a collision was
	// resolved
	FileName string
}

// Resolver computes destination paths under a fixed archive root
type Resolver struct {
	root string
	now  func() time.Time
}

// NewResolver creates a resolver rooted at the archive directory
func NewResolver(root string) *Resolver {
	return &Resolver{root: root, now: time.Now}
}

// Root returns the archive root directory
func (r *Resolver) Root() string {
	return r.root
}

// ChatDir returns the directory of one subscriber's archive
func (r *Resolver) ChatDir(name string) string {
	return filepath.Join(r.root, name)
}

// Resolve computes the destination for one file and creates the target
// directory. With sort_by_user the path is sharded by the lowercased
// sender name. Name collisions either reject (allow_duplicates=false,
// ErrDuplicateName) or pick the smallest free suffixed name. Resolution is
// deterministic for re-processing of the same message: the duplicate guard
// upstream ensures a retried message never reaches a second suffix search.
func (r *Resolver) Resolve(subscriber *entities.Subscriber, senderName string, media *dto.MediaDescriptor) (Resolution, error) {
	directory := r.ChatDir(subscriber.Name)
	if subscriber.SortByUser {
		directory = filepath.Join(directory, strings.ToLower(senderName))
	}

	if err := os.MkdirAll(directory, 0o755); err != nil {
		return Resolution{}, fmt.Errorf("failed to create target directory: %w", err)
	}

	fileName := media.FileName
	if fileName == "" {
		// Second-precision UTC timestamp, collisions with real document
		// names are not a practical concern.
		fileName = r.now().UTC().Format("media_2006-01-02_15-04-05")
	}

	taken, err := exists(filepath.Join(directory, fileName))
	if err != nil {
		return Resolution{}, fmt.Errorf("failed to probe destination: %w", err)
	}
	if taken {
		if !subscriber.AllowDuplicates {
			return Resolution{FileName: fileName}, archiveerrors.ErrDuplicateName
		}
		fileName, err = findFreeName(directory, fileName)
		if err != nil {
			return Resolution{}, err
		}
	}

	absolute, err := filepath.Abs(filepath.Join(directory, fileName))
	if err != nil {
		return Resolution{}, fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	return Resolution{Path: absolute, FileName: fileName}, nil
}

// findFreeName finds the smallest positive n for which <stem>_<n><ext>
// does not exist in the directory
func findFreeName(directory, fileName string) (string, error) {
	extension := filepath.Ext(fileName)
	stem := strings.TrimSuffix(fileName, extension)

	for counter := 1; ; counter++ {
		candidate := fmt.Sprintf("%s_%d%s", stem, counter, extension)
		taken, err := exists(filepath.Join(directory, candidate))
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
}

// exists probes one destination path. Stat failures other than not-exist
// are surfaced, not read as a collision.
func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat %s: %w", path, err)
}
