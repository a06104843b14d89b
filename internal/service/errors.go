package service

import (
	"errors"
	"fmt"

	"connectrpc.com/connect"

	"github.com/mmynk/tabout/internal/auth"
	"github.com/mmynk/tabout/internal/calculator"
	"github.com/mmynk/tabout/internal/ledger"
	"github.com/mmynk/tabout/internal/storage"
)

var (
	errAuthRequired   = errors.New("authentication required")
	errNotParticipant = errors.New("you are not a participant in this split")
)

// toConnectError maps domain errors to RPC codes. Unrecognized errors become
// CodeInternal.
func toConnectError(err error) error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}

	var conflict *storage.ConflictError
	switch {
	case errors.Is(err, calculator.ErrInvalidInput), errors.Is(err, ledger.ErrUnknownPayer):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.As(err, &conflict):
		return connect.NewError(connect.CodeAborted, err)
	case errors.Is(err, auth.ErrEmailExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrInvalidEmail), errors.Is(err, auth.ErrMissingDisplayName):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, auth.ErrInvalidCredentials):
		return connect.NewError(connect.CodeUnauthenticated, err)
	}
	return connect.NewError(connect.CodeInternal, err)
}

func invalidArgument(format string, args ...any) error {
	return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf(format, args...))
}
