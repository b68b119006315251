package fungible

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hostchain/fungible-token-contract/common"
	"github.com/hostchain/fungible-token-contract/contracts/fungible/fungibleconst"
	"github.com/hostchain/fungible-token-contract/host"
)

// requireOneDeposit guards value-moving entry points: exactly one atomic
// unit of native value must be attached. The requirement forces the call to
// carry a signature over a value transfer, which rules out replay by
// restricted access keys.
func requireOneDeposit(env host.Env) {
	if env.AttachedDeposit().Cmp(common.NewAmount(1)) != 0 {
		panic(common.ErrOneDepositRequired)
	}
}

// requirePrivate restricts an entry point to callbacks scheduled by the
// contract itself.
func requirePrivate(env host.Env) {
	if env.PredecessorID() != env.CurrentID() {
		panic(common.ErrPrivateMethod)
	}
}

// Init performs genesis: it stores the metadata, sizes the storage stake,
// registers the owner and mints the initial supply to it. Repeated genesis
// is rejected.
func Init(env host.Env, ownerID host.AccountID, totalSupply common.Amount, md Metadata) {
	if env.State().Get([]byte{metadataKey}) != nil {
		panic(common.ErrAlreadyInitialized)
	}
	if err := md.Validate(); err != nil {
		panic(err)
	}

	putMetadata(env, md)
	measureAccountEntry(env)

	registerAccount(env, ownerID)
	depositTokens(env, ownerID, totalSupply)
	emitMint(env, ownerID, totalSupply, "new tokens are minted")
}

// Transfer moves amount from the caller to receiverID. Both parties must be
// registered, the amount must be positive and within the caller's balance,
// and the receiver must differ from the caller; any violation fails the
// call with no state change.
func Transfer(env host.Env, receiverID host.AccountID, amount common.Amount, memo string) {
	requireOneDeposit(env)
	transferTokens(env, env.PredecessorID(), receiverID, amount, memo)
}

// TransferCall moves amount from the caller to receiverID and notifies the
// receiver. The debit and credit commit immediately; the receiver's
// ft_on_transfer then runs asynchronously with the caller id, the amount
// and msg, and reports the portion of the amount it did not use. The
// chained ft_resolve_transfer callback settles that report, refunding the
// caller (or burning, should the caller have unregistered meanwhile). The
// eventual value of the call is the amount the receiver actually used.
func TransferCall(env host.Env, receiverID host.AccountID, amount common.Amount, memo, msg string) host.PromiseOrValue {
	requireOneDeposit(env)
	if env.PrepaidGas() < fungibleconst.GasForTransferCall {
		panic(common.ErrMoreGasRequired)
	}

	senderID := env.PredecessorID()
	transferTokens(env, senderID, receiverID, amount, memo)

	onArgs := mustJSON(onTransferArgs{
		SenderID: senderID,
		Amount:   amount,
		Msg:      msg,
	})
	resolveArgs := mustJSON(resolveTransferArgs{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Amount:     amount,
	})

	p := env.CallMethod(receiverID, fungibleconst.MethodOnTransfer, onArgs,
		common.Amount{}, env.PrepaidGas()-fungibleconst.GasForTransferCall).
		Then(fungibleconst.MethodResolveTransfer, resolveArgs, fungibleconst.GasForResolveTransfer)

	return host.PromiseOrValue{Promise: p}
}

// ResolveTransfer settles a transfer-and-notify round-trip and returns the
// amount the receiver used. Invoked by the host exactly once per
// TransferCall, after the receiver's notification completed or failed.
//
// A failed notification counts as a fully unused amount, and so does a
// malformed unused report: a misbehaving receiver must not cost the sender
// funds. The refund is clamped to the transferred amount and then to the
// receiver's current balance, since only what the receiver still holds can
// be clawed back.
func ResolveTransfer(env host.Env, senderID, receiverID host.AccountID, amount common.Amount) common.Amount {
	requirePrivate(env)

	res, ok := env.PromiseResult()
	if !ok {
		panic(errors.New("resolve callback requires a promise result"))
	}

	unused := amount
	if res.Success {
		var claimed common.Amount
		if err := json.Unmarshal(res.Value, &claimed); err == nil {
			unused = claimed.Min(amount)
		}
	}

	used := amount
	if !unused.IsZero() {
		receiverBal, registered := getBalance(env, receiverID)
		if !registered {
			// The receiver unregistered during the notification; its
			// balance is gone already and there is nothing to claw back.
			receiverBal = common.Amount{}
		}

		refund := unused.Min(receiverBal)
		if !refund.IsZero() {
			newReceiverBal, _ := receiverBal.Sub(refund)
			putBalance(env, receiverID, newReceiverBal)

			if senderBal, senderRegistered := getBalance(env, senderID); senderRegistered {
				newSenderBal, ok := senderBal.Add(refund)
				if !ok {
					// Unreachable while the supply invariant holds: the
					// refund was part of the supply a moment ago.
					panic(common.ErrBalanceOverflow)
				}
				putBalance(env, senderID, newSenderBal)
				emitTransfer(env, receiverID, senderID, refund, "refund")
			} else {
				burnTokens(env, senderID, refund, "")
				env.Log(fmt.Sprintf("Account @%s burned %s", senderID, refund))
			}

			used, _ = amount.Sub(refund)
		}
	}

	return used
}

// BalanceOf returns the token balance of id, zero when id is not
// registered. Whether an account is registered at all is answered by
// StorageBalanceOf.
func BalanceOf(env host.Env, id host.AccountID) common.Amount {
	bal, _ := getBalance(env, id)
	return bal
}

// TotalSupply returns the amount of tokens in circulation.
func TotalSupply(env host.Env) common.Amount {
	return getSupply(env)
}
