package blockchain

// These constants are used to identify a specific RuleError. Processing
// callers match them with errors.Is.
var (
	// ErrStaleParent indicates the block's previous block hash does not
	// reference the current chain tip. The chain keeps a single best chain,
	// so such blocks are dropped rather than stored for a potential reorg.
	ErrStaleParent = newRuleError("ErrStaleParent")

	// ErrInvalidPoW indicates that the block proof-of-work is invalid.
	ErrInvalidPoW = newRuleError("ErrInvalidPoW")

	// ErrBadMerkleRoot indicates the calculated merkle root does not match
	// the expected value.
	ErrBadMerkleRoot = newRuleError("ErrBadMerkleRoot")

	// ErrNoTransactions indicates the block does not have at least one
	// transaction. A valid block must have at least the coinbase
	// transaction.
	ErrNoTransactions = newRuleError("ErrNoTransactions")

	// ErrFirstTxNotCoinbase indicates the first transaction in a block is
	// not a well-formed coinbase transaction.
	ErrFirstTxNotCoinbase = newRuleError("ErrFirstTxNotCoinbase")

	// ErrBadTxStructure indicates a non-coinbase transaction is missing
	// inputs or outputs.
	ErrBadTxStructure = newRuleError("ErrBadTxStructure")

	// ErrMissingTxOut indicates a transaction output referenced by an input
	// either does not exist or has already been spent.
	ErrMissingTxOut = newRuleError("ErrMissingTxOut")

	// ErrSpendTooHigh indicates a transaction is attempting to spend more
	// value than the sum of all of its inputs.
	ErrSpendTooHigh = newRuleError("ErrSpendTooHigh")

	// ErrDoubleSpendInBlock indicates two inputs within the same block
	// reference the same unspent output.
	ErrDoubleSpendInBlock = newRuleError("ErrDoubleSpendInBlock")

	// ErrBadCoinbaseValue indicates the amount of a coinbase value exceeds
	// the block subsidy plus the sum of all fees.
	ErrBadCoinbaseValue = newRuleError("ErrBadCoinbaseValue")

	// ErrBadAuthenticator indicates an input's authenticator was rejected
	// by the configured authenticator checker.
	ErrBadAuthenticator = newRuleError("ErrBadAuthenticator")

	// ErrDuplicateUTXO indicates an attempt to add an output to the
	// unspent set under a key that is already present.
	ErrDuplicateUTXO = newRuleError("ErrDuplicateUTXO")

	// ErrMissingUTXO indicates an attempt to remove an output from the
	// unspent set under a key that is not present.
	ErrMissingUTXO = newRuleError("ErrMissingUTXO")
)

// RuleError identifies a rule violation. It is used to indicate that
// processing of a block or transaction failed due to one of the many
// validation rules. Processing the same data again leads to the same error,
// so the data is simply dropped.
type RuleError struct {
	message string
	inner   error
}

// Error satisfies the error interface and prints human-readable errors.
func (e RuleError) Error() string {
	if e.inner != nil {
		return e.message + ": " + e.inner.Error()
	}
	return e.message
}

// Unwrap satisfies the errors.Unwrap interface
func (e RuleError) Unwrap() error {
	return e.inner
}

// Cause satisfies the github.com/pkg/errors.Cause interface
func (e RuleError) Cause() error {
	return e.inner
}

func newRuleError(message string) RuleError {
	return RuleError{message: message, inner: nil}
}
