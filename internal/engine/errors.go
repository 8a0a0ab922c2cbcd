package engine

import "errors"

// Sentinel errors returned by the engine's entry points. Callers are
// expected to match them with errors.Is.
var (
	// ErrAmountTooLow rejects strategies with a per-execution budget
	// below models.MinAmountCents.
	ErrAmountTooLow = errors.New("amount below the 100 cent minimum")

	// ErrNotFound reports an unknown strategy id.
	ErrNotFound = errors.New("strategy not found")

	// ErrNotAuthorized reports a caller that does not own the strategy.
	ErrNotAuthorized = errors.New("caller is not the strategy owner")

	// ErrOracleUnavailable reports a price fetch failure with no fallback
	// price available for the asset.
	ErrOracleUnavailable = errors.New("price oracle unavailable and no fallback price exists")

	// ErrExecutionFailed wraps a ChainExecutor failure. No ledger write
	// happens when it is returned.
	ErrExecutionFailed = errors.New("chain execution failed")
)

// SkipError is a controlled non-execution: the engine decided not to buy
// on this slot. It is not a failure, but it travels as an error so the
// caller sees a single result channel.
type SkipError struct {
	Reason string
}

func (e *SkipError) Error() string {
	return "execution skipped: " + e.Reason
}
