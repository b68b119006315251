package fungible

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/hostchain/fungible-token-contract/common"
	"github.com/hostchain/fungible-token-contract/contracts/fungible/fungibleconst"
	"github.com/hostchain/fungible-token-contract/host"
)

// StorageBalance reports the stake backing an account's ledger entry.
// Entries are fixed-size, so the whole stake is locked: available stays
// zero.
type StorageBalance struct {
	Total     common.Amount `json:"total"`
	Available common.Amount `json:"available"`
}

// StorageBalanceBounds is the native-value cost range of one ledger entry.
// Entries never grow, hence Min == Max.
type StorageBalanceBounds struct {
	Min common.Amount `json:"min"`
	Max common.Amount `json:"max"`
}

// measureAccountEntry records the byte footprint of a single ledger entry,
// probed with a maximum-length account id so that the recorded stake covers
// any real account. Runs once, at genesis.
func measureAccountEntry(env host.Env) {
	before := env.StorageUsage()

	probe := host.AccountID(strings.Repeat("a", host.MaxAccountIDLen))
	putBalance(env, probe, common.Amount{})
	delta := env.StorageUsage() - before
	env.State().Delete(accountKey(probe))

	env.State().Put([]byte{entryBytesKey}, binary.BigEndian.AppendUint64(nil, delta))
}

func accountEntryBytes(env host.Env) uint64 {
	data := env.State().Get([]byte{entryBytesKey})
	if data == nil {
		panic(common.ErrNotInitialized)
	}
	return binary.BigEndian.Uint64(data)
}

// StorageBounds returns the fixed per-entry stake.
func StorageBounds(env host.Env) StorageBalanceBounds {
	min, ok := common.NewAmount(fungibleconst.StorageCostPerByte).MulUint64(accountEntryBytes(env))
	if !ok {
		panic(errors.New("storage stake does not fit in 128 bits"))
	}
	return StorageBalanceBounds{Min: min, Max: min}
}

// StorageBalanceOf reports the stake of id, nil when id is not registered.
func StorageBalanceOf(env host.Env, id host.AccountID) *StorageBalance {
	if _, ok := getBalance(env, id); !ok {
		return nil
	}
	return &StorageBalance{Total: StorageBounds(env).Min}
}

// StorageDeposit stakes the attached value for accountID (the caller, when
// nil) and registers it in the ledger. Depositing for an already registered
// account changes nothing and refunds the whole attached value, so callers
// need not query registration first. Value above the fixed minimum is
// refunded as well. An attached value below the minimum fails the call, and
// the host returns the full deposit to the payer.
//
// registrationOnly documents that the payer wants no headroom funded; with
// fixed bounds there is no headroom either way.
func StorageDeposit(env host.Env, accountID *host.AccountID, registrationOnly bool) StorageBalance {
	_ = registrationOnly

	deposit := env.AttachedDeposit()
	payer := env.PredecessorID()

	id := payer
	if accountID != nil {
		id = *accountID
	}

	if _, registered := getBalance(env, id); registered {
		env.Log("The account is already registered, refunding the deposit")
		if !deposit.IsZero() {
			env.TransferValue(payer, deposit)
		}
	} else {
		min := StorageBounds(env).Min
		if deposit.Cmp(min) < 0 {
			panic(fmt.Errorf("%w: %s < %s", common.ErrInsufficientDeposit, deposit, min))
		}

		registerAccount(env, id)

		if refund, _ := deposit.Sub(min); !refund.IsZero() {
			env.TransferValue(payer, refund)
		}
	}

	return *StorageBalanceOf(env, id)
}

// StorageWithdraw withdraws the requested value from the caller's available
// stake. The available stake of a fixed-size entry is always zero, so any
// positive amount fails; a nil or zero request is a balance report.
func StorageWithdraw(env host.Env, amount *common.Amount) StorageBalance {
	requireOneDeposit(env)

	id := env.PredecessorID()
	sb := StorageBalanceOf(env, id)
	if sb == nil {
		panic(fmt.Errorf("%w: %s", common.ErrNotRegistered, id))
	}
	if amount != nil && !amount.IsZero() {
		panic(common.ErrAvailableExceeded)
	}

	return *sb
}

// StorageUnregister removes the caller's ledger entry and returns its stake,
// reporting false when the caller was not registered. An entry holding
// tokens is only removed under force, which burns the remaining balance.
func StorageUnregister(env host.Env, force bool) bool {
	requireOneDeposit(env)

	id := env.PredecessorID()
	bal, ok := getBalance(env, id)
	if !ok {
		return false
	}
	if !bal.IsZero() && !force {
		panic(common.ErrPositiveBalance)
	}

	// Stake plus the guard deposit flow back to the account.
	refund, _ := StorageBounds(env).Min.Add(env.AttachedDeposit())

	env.State().Delete(accountKey(id))
	if !bal.IsZero() {
		burnTokens(env, id, bal, "account closed with positive balance")
	}

	env.Log(fmt.Sprintf("Closed @%s with %s", id, bal))
	env.TransferValue(id, refund)
	return true
}
