package multisig

import "github.com/iov-one/custody/errors"

// Multisig errors use codes 60-75.
var (
	ErrAlreadyVoted = errors.Register(60, "already voted")
	// ErrApprovalThresholdMet is reserved.
	ErrApprovalThresholdMet     = errors.Register(61, "approval threshold met")
	ErrProposerMustBeMember     = errors.Register(62, "proposer must be member")
	ErrThresholdTooHigh         = errors.Register(63, "threshold too high")
	ErrMultisigDoesNotExist     = errors.Register(64, "multisig does not exist")
	ErrTransactionAlreadyExists = errors.Register(65, "transaction already exists")
	ErrTransactionDoesNotExist  = errors.Register(66, "transaction does not exist")
	ErrTransactionNotPending    = errors.Register(67, "transaction not pending")
	ErrTransactionFailed        = errors.Register(68, "transaction failed")
	ErrTransferFailed           = errors.Register(69, "transfer failed")
	ErrNotEnoughFunds           = errors.Register(70, "not enough funds")
	ErrZeroAmount               = errors.Register(71, "zero amount")
	ErrVoteLimitReached         = errors.Register(72, "vote limit reached")
	ErrNotAMember               = errors.Register(73, "not a member")
	// ErrThresholdNotReached is reserved.
	ErrThresholdNotReached = errors.Register(74, "threshold not reached")
	ErrMismatchingCallHash = errors.Register(75, "mismatching call hash")
)
