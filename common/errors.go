package common

import "errors"

// Contract failure reasons. Entry points panic with errors wrapping these
// sentinels; the host traps the panic and fails the call without partial
// state. Hosts and monitoring match on the substrings, so the texts are
// stable.
var (
	// ErrNotRegistered is raised when an operation names an account that has
	// no ledger entry.
	ErrNotRegistered = errors.New("the account is not registered")

	// ErrZeroAmount is raised by transfers of a zero amount.
	ErrZeroAmount = errors.New("the amount should be a positive number")

	// ErrSelfTransfer is raised when sender and receiver coincide.
	ErrSelfTransfer = errors.New("sender and receiver should be different")

	// ErrInsufficientBalance is raised when a debit exceeds the account
	// balance.
	ErrInsufficientBalance = errors.New("the account doesn't have enough balance")

	// ErrBalanceOverflow is raised when a credit would push an account
	// balance above the 128-bit range.
	ErrBalanceOverflow = errors.New("balance overflow")

	// ErrSupplyOverflow is raised when a deposit would push the total supply
	// above the 128-bit range.
	ErrSupplyOverflow = errors.New("total supply overflow")

	// ErrInsufficientDeposit is raised when the value attached to a storage
	// deposit does not cover the minimum stake of an unregistered account.
	ErrInsufficientDeposit = errors.New("the attached deposit is less than the minimum storage balance")

	// ErrPositiveBalance is raised by unforced unregistration of an account
	// that still holds tokens.
	ErrPositiveBalance = errors.New("can't unregister the account with the positive balance")

	// ErrAvailableExceeded is raised by a storage withdrawal above the
	// available (always zero, with fixed bounds) stake.
	ErrAvailableExceeded = errors.New("the amount is greater than the available storage balance")

	// ErrOneDepositRequired guards value-moving entry points: they must
	// carry exactly one atomic unit of attached value.
	ErrOneDepositRequired = errors.New("requires attached deposit of exactly 1 atomic unit")

	// ErrMoreGasRequired is raised when the prepaid gas cannot cover the
	// notification round-trip of a transfer-and-notify call.
	ErrMoreGasRequired = errors.New("more gas is required")

	// ErrPrivateMethod is raised when a host-only callback is invoked by an
	// outside party.
	ErrPrivateMethod = errors.New("method is private")

	// ErrAlreadyInitialized is raised by repeated genesis.
	ErrAlreadyInitialized = errors.New("the contract is already initialized")

	// ErrNotInitialized is raised when the contract is used before genesis.
	ErrNotInitialized = errors.New("the contract is not initialized")
)
