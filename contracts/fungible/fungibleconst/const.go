package fungibleconst

import "github.com/hostchain/fungible-token-contract/host"

// Entry point names of the fungible token contract, shared with off-chain
// callers and with receiver contracts.
const (
	MethodNew = "new"

	MethodTransfer        = "ft_transfer"
	MethodTransferCall    = "ft_transfer_call"
	MethodResolveTransfer = "ft_resolve_transfer"
	MethodTotalSupply     = "ft_total_supply"
	MethodBalanceOf       = "ft_balance_of"
	MethodMetadata        = "ft_metadata"

	// MethodOnTransfer is the notification entry point a receiver must
	// implement to accept transfer-and-notify payments. It returns the
	// unused portion of the transferred amount as a base-10 string.
	MethodOnTransfer = "ft_on_transfer"

	MethodStorageDeposit       = "storage_deposit"
	MethodStorageWithdraw      = "storage_withdraw"
	MethodStorageUnregister    = "storage_unregister"
	MethodStorageBalanceBounds = "storage_balance_bounds"
	MethodStorageBalanceOf     = "storage_balance_of"

	MethodVersion = "version"
)

const (
	// GasForResolveTransfer is reserved for the resolve callback of a
	// transfer-and-notify call.
	GasForResolveTransfer = 5 * host.TGas

	// GasForTransferCall is the minimum prepaid gas of ft_transfer_call:
	// enough to schedule the notification and the resolve callback. The
	// remainder above this floor is forwarded to the receiver.
	GasForTransferCall = 30 * host.TGas
)

// StorageCostPerByte is the price, in atomic units of the host's native
// value, of holding one byte of contract state.
const StorageCostPerByte uint64 = 10_000_000_000_000_000_000
