package staking

import (
	"github.com/Bridgeless-Project/stake-svc/internal/db"
	"github.com/Bridgeless-Project/stake-svc/internal/pda"
	"github.com/Bridgeless-Project/stake-svc/internal/runtime"
	"github.com/Bridgeless-Project/stake-svc/internal/token"
	"github.com/pkg/errors"
)

var (
	ErrAlreadyInitialized    = errors.New("vault signer already initialized")
	ErrSignerNotInitialized  = errors.New("vault signer not initialized")
	ErrInvalidOwner          = errors.New("vault signer account is not owned by the staking program")
	ErrLockedBalanceNotFound = errors.New("locked balance not found")
	ErrUnauthorizedUnstake   = errors.New("unauthorized unstake")
	ErrAmountTooLarge        = errors.New("amount exceeds locked balance")

	ErrAlreadyExists     = db.ErrAlreadyExists
	ErrHoldingNotFound   = token.ErrHoldingNotFound
	ErrMintNotFound      = token.ErrMintNotFound
	ErrMintMismatch      = token.ErrMintMismatch
	ErrInsufficientFunds = token.ErrInsufficientFunds
	ErrAmountOverflow    = token.ErrAmountOverflow
)

func IsDerivationError(err error) bool {
	return pda.IsDerivationError(err)
}

func IsAuthorizationError(err error) bool {
	return errors.Is(err, ErrUnauthorizedUnstake) || runtime.IsAuthorizationError(err)
}

func IsInvariantError(err error) bool {
	return errors.Is(err, ErrAmountTooLarge) ||
		errors.Is(err, ErrMintMismatch) ||
		errors.Is(err, ErrAmountOverflow) ||
		errors.Is(err, ErrInvalidOwner) ||
		errors.Is(err, runtime.ErrInvalidAccountData)
}

func IsIdempotencyError(err error) bool {
	return errors.Is(err, ErrAlreadyInitialized) || errors.Is(err, ErrAlreadyExists)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrSignerNotInitialized) ||
		errors.Is(err, ErrLockedBalanceNotFound) ||
		errors.Is(err, ErrHoldingNotFound) ||
		errors.Is(err, ErrMintNotFound)
}

func IsFundsError(err error) bool {
	return errors.Is(err, ErrInsufficientFunds) || errors.Is(err, runtime.ErrInsufficientLamports)
}

// Classify maps an instruction outcome to a short label for logs and metrics.
func Classify(err error) string {
	switch {
	case err == nil:
		return "ok"
	case IsAuthorizationError(err):
		return "unauthorized"
	case IsIdempotencyError(err):
		return "duplicate"
	case IsNotFoundError(err):
		return "not_found"
	case IsFundsError(err):
		return "insufficient_funds"
	case IsInvariantError(err):
		return "invariant"
	case IsDerivationError(err):
		return "derivation"
	default:
		return "error"
	}
}
