package fungible_test

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hostchain/fungible-token-contract/common"
	"github.com/hostchain/fungible-token-contract/contracts/fungible/fungibleconst"
	"github.com/hostchain/fungible-token-contract/host"
	"github.com/hostchain/fungible-token-contract/internal/testcontracts/ftrecv"
	"github.com/hostchain/fungible-token-contract/sandbox"
)

// newTokenWithReceiver additionally registers the receiver contract account
// in the ledger, which a notified transfer requires.
func newTokenWithReceiver(t *testing.T) *sandbox.Sandbox {
	sb := newToken(t)
	register(t, sb, recvID)
	return sb
}

func transferCall(sb *sandbox.Sandbox, sender, receiver host.AccountID, amt common.Amount, msg string) *sandbox.Result {
	return call(sb, sender, fungibleconst.MethodTransferCall,
		transferCallArgs(receiver, amt, msg), oneDeposit())
}

func usedAmount(t *testing.T, res *sandbox.Result) common.Amount {
	var used common.Amount
	require.NoError(t, json.Unmarshal(res.Value, &used))
	return used
}

func TestTransferCallReceiverKeepsAll(t *testing.T) {
	sb := newTokenWithReceiver(t)

	res := transferCall(sb, ownerID, recvID, amount(1000), ftrecv.MsgKeepAll)
	require.NoError(t, res.Err)

	require.Equal(t, amount(1000), usedAmount(t, res))
	require.Equal(t, amount(999_999_000), balanceOf(t, sb, ownerID))
	require.Equal(t, amount(1000), balanceOf(t, sb, recvID))
	require.Equal(t, amount(initialSupply), totalSupply(t, sb))
}

func TestTransferCallReceiverRefundsAll(t *testing.T) {
	sb := newTokenWithReceiver(t)

	res := transferCall(sb, ownerID, recvID, amount(1000), ftrecv.MsgRefundAll)
	require.NoError(t, res.Err)

	require.True(t, usedAmount(t, res).IsZero())
	require.Equal(t, amount(initialSupply), balanceOf(t, sb, ownerID))
	require.True(t, balanceOf(t, sb, recvID).IsZero())
	require.True(t, hasLog(res.Logs, `"old_owner_id":"recv","new_owner_id":"owner","amount":"1000","memo":"refund"`))
}

func TestTransferCallPartialRefund(t *testing.T) {
	sb := newTokenWithReceiver(t)

	res := transferCall(sb, ownerID, recvID, amount(1000), ftrecv.MsgUnusedPrefix+"400")
	require.NoError(t, res.Err)

	require.Equal(t, amount(600), usedAmount(t, res))
	require.Equal(t, amount(999_999_400), balanceOf(t, sb, ownerID))
	require.Equal(t, amount(600), balanceOf(t, sb, recvID))
	require.Equal(t, amount(initialSupply), totalSupply(t, sb))
}

func TestTransferCallClampsExcessiveUnusedClaim(t *testing.T) {
	sb := newTokenWithReceiver(t)

	// The receiver claims more unused than was transferred; the refund is
	// clamped to the transferred amount.
	res := transferCall(sb, ownerID, recvID, amount(1000), ftrecv.MsgUnusedPrefix+"5000")
	require.NoError(t, res.Err)

	require.True(t, usedAmount(t, res).IsZero())
	require.Equal(t, amount(initialSupply), balanceOf(t, sb, ownerID))
	require.True(t, balanceOf(t, sb, recvID).IsZero())
}

func TestTransferCallGarbageReportRefundsAll(t *testing.T) {
	sb := newTokenWithReceiver(t)

	res := transferCall(sb, ownerID, recvID, amount(1000), ftrecv.MsgGarbage)
	require.NoError(t, res.Err)

	require.True(t, usedAmount(t, res).IsZero())
	require.Equal(t, amount(initialSupply), balanceOf(t, sb, ownerID))
}

func TestTransferCallFailedNotificationRefundsAll(t *testing.T) {
	sb := newTokenWithReceiver(t)

	res := transferCall(sb, ownerID, recvID, amount(1000), ftrecv.MsgPanic)
	require.NoError(t, res.Err)

	require.True(t, usedAmount(t, res).IsZero())
	require.Equal(t, amount(initialSupply), balanceOf(t, sb, ownerID))
	require.True(t, balanceOf(t, sb, recvID).IsZero())
	require.Equal(t, amount(initialSupply), totalSupply(t, sb))
}

func TestTransferCallReceiverWithoutContract(t *testing.T) {
	sb := newToken(t)
	register(t, sb, bobID)

	// The optimistic transfer commits, the notification receipt fails, the
	// resolve step claws everything back.
	res := transferCall(sb, ownerID, bobID, amount(1000), ftrecv.MsgKeepAll)
	require.NoError(t, res.Err)

	require.True(t, usedAmount(t, res).IsZero())
	require.Equal(t, amount(initialSupply), balanceOf(t, sb, ownerID))
	require.True(t, balanceOf(t, sb, bobID).IsZero())
}

func TestTransferCallRejectsUnregisteredReceiver(t *testing.T) {
	sb := newToken(t)

	res := transferCall(sb, ownerID, recvID, amount(1000), ftrecv.MsgKeepAll)
	require.ErrorIs(t, res.Err, common.ErrNotRegistered)
	require.Equal(t, amount(initialSupply), balanceOf(t, sb, ownerID))
}

func TestTransferCallRequiresGasFloor(t *testing.T) {
	sb := newTokenWithReceiver(t)

	res := sb.Call(ownerID, tokenID, fungibleconst.MethodTransferCall,
		mustMarshal(transferCallArgs(recvID, amount(1000), ftrecv.MsgKeepAll)),
		sandbox.CallOpts{Deposit: oneDeposit(), Gas: fungibleconst.GasForTransferCall - 1})
	require.ErrorIs(t, res.Err, common.ErrMoreGasRequired)
	require.Equal(t, amount(initialSupply), balanceOf(t, sb, ownerID))
}

func TestTransferCallRequiresExactlyOneAttachedUnit(t *testing.T) {
	sb := newTokenWithReceiver(t)

	res := call(sb, ownerID, fungibleconst.MethodTransferCall,
		transferCallArgs(recvID, amount(1000), ftrecv.MsgKeepAll), common.Amount{})
	require.ErrorIs(t, res.Err, common.ErrOneDepositRequired)
}

func TestTransferCallRecordsNotification(t *testing.T) {
	sb := newTokenWithReceiver(t)

	res := transferCall(sb, ownerID, recvID, amount(1000), ftrecv.MsgKeepAll)
	require.NoError(t, res.Err)

	last := sb.View(recvID, "last_call", nil)
	require.NoError(t, last.Err)

	var rec ftrecv.Call
	require.NoError(t, json.Unmarshal(last.Value, &rec))
	require.Equal(t, ownerID, rec.SenderID)
	require.Equal(t, amount(1000), rec.Amount)
	require.Equal(t, ftrecv.MsgKeepAll, rec.Msg)
}

func TestResolveTransferIsPrivate(t *testing.T) {
	sb := newTokenWithReceiver(t)

	res := call(sb, ownerID, fungibleconst.MethodResolveTransfer, map[string]any{
		"sender_id":   ownerID,
		"receiver_id": recvID,
		"amount":      amount(1000),
	}, common.Amount{})
	require.ErrorIs(t, res.Err, common.ErrPrivateMethod)
}

func TestTransferCallRefundClampedToReceiverBalance(t *testing.T) {
	sb := newTokenWithReceiver(t)
	register(t, sb, bobID)

	// Start the round-trip and run the notification, but keep the resolve
	// callback queued.
	res := sb.Begin(ownerID, tokenID, fungibleconst.MethodTransferCall,
		mustMarshal(transferCallArgs(recvID, amount(1000), ftrecv.MsgRefundAll)),
		sandbox.CallOpts{Deposit: oneDeposit()})
	require.True(t, sb.Step())

	// The receiver spends most of the transfer before the resolve step runs.
	spend := sb.Begin(recvID, tokenID, fungibleconst.MethodTransfer,
		mustMarshal(map[string]any{"receiver_id": bobID, "amount": amount(600)}),
		sandbox.CallOpts{Deposit: oneDeposit()})
	require.NoError(t, spend.Err)

	sb.Settle()
	require.NoError(t, res.Err)

	// Only what the receiver still holds can be refunded.
	require.Equal(t, amount(600), usedAmount(t, res))
	require.Equal(t, amount(999_999_400), balanceOf(t, sb, ownerID))
	require.True(t, balanceOf(t, sb, recvID).IsZero())
	require.Equal(t, amount(600), balanceOf(t, sb, bobID))
	require.Equal(t, amount(initialSupply), totalSupply(t, sb))
}

func TestTransferCallBurnsRefundOfUnregisteredSender(t *testing.T) {
	sb := newTokenWithReceiver(t)

	res := sb.Begin(ownerID, tokenID, fungibleconst.MethodTransferCall,
		mustMarshal(transferCallArgs(recvID, amount(1000), ftrecv.MsgRefundAll)),
		sandbox.CallOpts{Deposit: oneDeposit()})
	require.True(t, sb.Step())

	// The sender force-closes its account while the round-trip is in
	// flight, burning its remaining balance.
	closing := sb.Begin(ownerID, tokenID, fungibleconst.MethodStorageUnregister,
		mustMarshal(map[string]any{"force": true}),
		sandbox.CallOpts{Deposit: oneDeposit()})
	require.NoError(t, closing.Err)
	require.True(t, hasLog(closing.Logs, "Closed @owner with 999999000"))

	sb.Settle()
	require.NoError(t, res.Err)

	// The refund has no destination left, so it is burned instead.
	require.True(t, usedAmount(t, res).IsZero())
	require.True(t, hasLog(res.Logs, "Account @owner burned 1000"))
	require.True(t, hasLog(res.Logs, `"event":"ft_burn"`))
	require.True(t, balanceOf(t, sb, recvID).IsZero())
	require.True(t, balanceOf(t, sb, ownerID).IsZero())
	require.True(t, totalSupply(t, sb).IsZero())
}

func TestTransferCallForwardsMemo(t *testing.T) {
	sb := newTokenWithReceiver(t)

	args := transferCallArgs(recvID, amount(5), ftrecv.MsgKeepAll)
	args["memo"] = "payment 42"
	res := call(sb, ownerID, fungibleconst.MethodTransferCall, args, oneDeposit())
	require.NoError(t, res.Err)
	require.True(t, hasLog(res.Logs, fmt.Sprintf(`"memo":%q`, "payment 42")))
}
