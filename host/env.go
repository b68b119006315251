package host

import "github.com/hostchain/fungible-token-contract/common"

// Gas is an amount of execution gas. The host meters it; contracts only
// split prepaid gas between outbound calls and compare against floors.
type Gas uint64

// TGas is one teragas, the conventional unit of gas floors.
const TGas Gas = 1_000_000_000_000

// StateStore is the persistent key-value state of a single contract
// account. A nil result from Get means the key is absent; an empty stored
// value is indistinguishable from an absent one, so records carry at least
// one byte.
type StateStore interface {
	Get(key []byte) []byte
	Put(key, value []byte)
	Delete(key []byte)

	// Usage reports the total bytes occupied by stored keys and values.
	// Storage staking prices account entries off this counter.
	Usage() uint64
}

// PromiseResult is the outcome of a completed outbound call, delivered to
// the callback chained to it. Value holds the returned bytes only when
// Success is true.
type PromiseResult struct {
	Success bool
	Value   []byte
}

// Promise is a handle of an initiated outbound call.
type Promise interface {
	// Then schedules method on the current account to run after the promise
	// settles, successfully or not. The callback observes the outcome via
	// [Env.PromiseResult]. It returns the handle of the callback call.
	Then(method string, args []byte, gas Gas) Promise
}

// PromiseOrValue is the result of an entry point: either immediate bytes or
// a pending promise whose eventual value the host substitutes once the
// chain settles.
type PromiseOrValue struct {
	Promise Promise
	Value   []byte
}

// Value returns an immediate result.
func Value(data []byte) PromiseOrValue {
	return PromiseOrValue{Value: data}
}

// Env is the view of the host granted to a contract for the duration of one
// call.
type Env interface {
	// State is the calling contract's own key-value state.
	State() StateStore

	// CurrentID is the account the contract is deployed to.
	CurrentID() AccountID
	// PredecessorID is the account that issued this call.
	PredecessorID() AccountID

	// AttachedDeposit is the native value attached to this call. It has
	// already been debited from the predecessor; a failed call returns it.
	AttachedDeposit() common.Amount
	// PrepaidGas is the gas allotment of this call.
	PrepaidGas() Gas
	// StorageUsage reports current state usage in bytes, as [StateStore.Usage].
	StorageUsage() uint64

	// Log emits a human-readable log line. Log lines are an observable part
	// of a contract's behavior.
	Log(msg string)

	// TransferValue moves native value from the current account to another
	// account, e.g. to refund an attached deposit.
	TransferValue(to AccountID, amount common.Amount)

	// CallMethod initiates an asynchronous outbound call executed by the
	// host after the current call returns.
	CallMethod(receiver AccountID, method string, args []byte, deposit common.Amount, gas Gas) Promise

	// PromiseResult returns the outcome of the dependency of the current
	// call. It reports false when the current call is not a chained
	// callback.
	PromiseResult() (PromiseResult, bool)
}

// Contract is a guest program runnable on a host. Invoke dispatches a named
// entry point with its encoded arguments and panics on failure.
type Contract interface {
	Invoke(env Env, method string, args []byte) PromiseOrValue
}
