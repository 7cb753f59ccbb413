package ledgerv1

import "github.com/thetanav/trading-system/pkg/errors"

var (
	// ErrInternalConsistency is returned when a settlement would break a ledger
	// invariant or could not be persisted. Callers must stop trading.
	ErrInternalConsistency = errors.NewErrorDetails("ledger invariant violated", string(errors.InternalConsistencyError), "ledger")
	// ErrAccountNotFound is returned for unknown account ids.
	ErrAccountNotFound = errors.NewErrorDetails("account not found", string(errors.AccountNotFoundError), "accountId")
	// ErrAccountExists is returned when the email is already registered.
	ErrAccountExists = errors.NewErrorDetails("account already exists", string(errors.AccountExistsError), "email")
	// ErrInvalidName is returned when the signup name is blank.
	ErrInvalidName = errors.NewErrorDetails("name is required", string(errors.GeneralBadRequestError), "name")
	// ErrInvalidEmail is returned when the signup email is blank or malformed.
	ErrInvalidEmail = errors.NewErrorDetails("a valid email is required", string(errors.GeneralBadRequestError), "email")
)
