package fungible

import (
	"errors"
	"fmt"

	"github.com/hostchain/fungible-token-contract/common"
	"github.com/hostchain/fungible-token-contract/host"
)

// Storage layout of the contract state.
const (
	accountPrefix = 'a' // accountPrefix + account id -> 16-byte balance
	supplyKey     = 's' // 16-byte total supply
	metadataKey   = 'm' // JSON-encoded token metadata
	entryBytesKey = 'u' // byte footprint of one ledger entry, measured at genesis
)

func accountKey(id host.AccountID) []byte {
	return append([]byte{accountPrefix}, id...)
}

// getBalance returns the ledger entry of id. The second result reports
// registration: a registered account with zero balance is a different state
// than an absent entry.
func getBalance(env host.Env, id host.AccountID) (common.Amount, bool) {
	data := env.State().Get(accountKey(id))
	if data == nil {
		return common.Amount{}, false
	}

	bal, err := common.AmountFromBytes(data)
	if err != nil {
		panic(fmt.Errorf("corrupted ledger entry of %s: %w", id, err))
	}
	return bal, true
}

func putBalance(env host.Env, id host.AccountID, balance common.Amount) {
	env.State().Put(accountKey(id), balance.Bytes())
}

// registerAccount creates a zero-balance ledger entry for id. Registering an
// already registered account is a no-op: whether to charge for it again is
// the staking layer's decision.
func registerAccount(env host.Env, id host.AccountID) {
	if _, ok := getBalance(env, id); ok {
		return
	}
	putBalance(env, id, common.Amount{})
}

func getSupply(env host.Env) common.Amount {
	data := env.State().Get([]byte{supplyKey})
	if data == nil {
		return common.Amount{}
	}

	supply, err := common.AmountFromBytes(data)
	if err != nil {
		panic(fmt.Errorf("corrupted total supply record: %w", err))
	}
	return supply
}

func putSupply(env host.Env, supply common.Amount) {
	env.State().Put([]byte{supplyKey}, supply.Bytes())
}

// depositTokens credits amount to a registered account and grows the total
// supply by the same quantity. Both additions are checked before either
// write, so an overflow leaves the ledger untouched.
func depositTokens(env host.Env, id host.AccountID, amount common.Amount) {
	bal, ok := getBalance(env, id)
	if !ok {
		panic(fmt.Errorf("%w: %s", common.ErrNotRegistered, id))
	}

	newBal, ok := bal.Add(amount)
	if !ok {
		panic(common.ErrBalanceOverflow)
	}
	newSupply, ok := getSupply(env).Add(amount)
	if !ok {
		panic(common.ErrSupplyOverflow)
	}

	putBalance(env, id, newBal)
	putSupply(env, newSupply)
}

// withdrawTokens debits amount from a registered account and shrinks the
// total supply by the same quantity.
func withdrawTokens(env host.Env, id host.AccountID, amount common.Amount) {
	bal, ok := getBalance(env, id)
	if !ok {
		panic(fmt.Errorf("%w: %s", common.ErrNotRegistered, id))
	}

	newBal, ok := bal.Sub(amount)
	if !ok {
		panic(common.ErrInsufficientBalance)
	}
	// The supply cannot underflow while it equals the sum of balances.
	newSupply, ok := getSupply(env).Sub(amount)
	if !ok {
		panic(errors.New("total supply underflow: ledger invariant broken"))
	}

	putBalance(env, id, newBal)
	putSupply(env, newSupply)
}

// transferTokens moves amount between two distinct registered accounts. Any
// failure panics before the host commits, so there is never a partial move.
func transferTokens(env host.Env, senderID, receiverID host.AccountID, amount common.Amount, memo string) {
	if senderID == receiverID {
		panic(common.ErrSelfTransfer)
	}
	if amount.IsZero() {
		panic(common.ErrZeroAmount)
	}

	withdrawTokens(env, senderID, amount)
	depositTokens(env, receiverID, amount)

	emitTransfer(env, senderID, receiverID, amount, memo)
}

// burnTokens removes amount from circulation after it has already been
// debited from a ledger entry (or the entry itself removed).
func burnTokens(env host.Env, ownerID host.AccountID, amount common.Amount, memo string) {
	newSupply, ok := getSupply(env).Sub(amount)
	if !ok {
		panic(errors.New("total supply underflow: ledger invariant broken"))
	}
	putSupply(env, newSupply)

	emitBurn(env, ownerID, amount, memo)
}
