package pathing

import (
	"path/filepath"
	"strings"

	"github.com/yourusername/telegram-archive-bot/internal/domain/archive/consts"
	archiveerrors "github.com/yourusername/telegram-archive-bot/internal/domain/archive/errors"
)

// ValidateName checks a proposed subscriber name against the archive root.
// The canonicalized path it would produce must be a strict descendant of
// the root, and the name must not collide with the export staging
// directory. Callers treat a rejection as a security-relevant anomaly.
func (r *Resolver) ValidateName(proposed string) error {
	if proposed == consts.StagingDirName {
		return archiveerrors.ErrReservedName
	}

	root, err := filepath.Abs(r.root)
	if err != nil {
		return archiveerrors.ErrPathEscape
	}

	// filepath.Join would silently re-root an absolute name under the
	// archive root, hiding the escape attempt.
	var candidate string
	if filepath.IsAbs(proposed) {
		candidate = filepath.Clean(proposed)
	} else {
		candidate, err = filepath.Abs(filepath.Join(root, proposed))
		if err != nil {
			return archiveerrors.ErrPathEscape
		}
	}

	if candidate == root {
		return archiveerrors.ErrPathEscape
	}
	if !strings.HasPrefix(candidate, root+string(filepath.Separator)) {
		return archiveerrors.ErrPathEscape
	}

	return nil
}
