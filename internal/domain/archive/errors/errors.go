// Package errors contains domain-specific errors for the archive domain
package errors

import (
	pkgerrors "github.com/yourusername/telegram-archive-bot/pkg/errors"
)

// Domain errors for archive operations
var (
	ErrUnresolvableIdentity   = pkgerrors.NewValidationError("peer identity cannot be resolved")
	ErrDuplicateName          = pkgerrors.NewConflictError("file with this name already exists")
	ErrPathEscape             = pkgerrors.NewValidationError("target path escapes the archive root")
	ErrReservedName           = pkgerrors.NewValidationError("name is reserved for export staging")
	ErrNameTaken              = pkgerrors.NewConflictError("chat name already exists")
	ErrDuplicateRecord        = pkgerrors.NewConflictError("file record already exists for this chat")
	ErrNoFilesYet             = pkgerrors.NewNotFoundError("no files for this chat yet")
	ErrHistoryScanUnsupported = pkgerrors.NewValidationError("history scan requires a user session")
)
