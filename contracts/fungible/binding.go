package fungible

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hostchain/fungible-token-contract/common"
	"github.com/hostchain/fungible-token-contract/contracts/fungible/fungibleconst"
	"github.com/hostchain/fungible-token-contract/host"
)

// Contract adapts the package's entry points to the host dispatch
// interface. Arguments and results travel as JSON, with 128-bit amounts as
// base-10 strings.
type Contract struct{}

type newArgs struct {
	OwnerID     host.AccountID `json:"owner_id"`
	TotalSupply common.Amount  `json:"total_supply"`
	Metadata    Metadata       `json:"metadata"`
}

type transferArgs struct {
	ReceiverID host.AccountID `json:"receiver_id"`
	Amount     common.Amount  `json:"amount"`
	Memo       string         `json:"memo,omitempty"`
}

type transferCallArgs struct {
	ReceiverID host.AccountID `json:"receiver_id"`
	Amount     common.Amount  `json:"amount"`
	Memo       string         `json:"memo,omitempty"`
	Msg        string         `json:"msg"`
}

type onTransferArgs struct {
	SenderID host.AccountID `json:"sender_id"`
	Amount   common.Amount  `json:"amount"`
	Msg      string         `json:"msg"`
}

type resolveTransferArgs struct {
	SenderID   host.AccountID `json:"sender_id"`
	ReceiverID host.AccountID `json:"receiver_id"`
	Amount     common.Amount  `json:"amount"`
}

type accountArgs struct {
	AccountID host.AccountID `json:"account_id"`
}

type storageDepositArgs struct {
	AccountID        *host.AccountID `json:"account_id,omitempty"`
	RegistrationOnly bool            `json:"registration_only,omitempty"`
}

type storageWithdrawArgs struct {
	Amount *common.Amount `json:"amount,omitempty"`
}

type storageUnregisterArgs struct {
	Force bool `json:"force,omitempty"`
}

// Invoke dispatches an entry point by name. Unknown methods and malformed
// arguments fail the call.
func (Contract) Invoke(env host.Env, method string, args []byte) host.PromiseOrValue {
	switch method {
	case fungibleconst.MethodNew:
		var a newArgs
		unmarshalArgs(args, &a)
		requireAccountArg(a.OwnerID)
		Init(env, a.OwnerID, a.TotalSupply, a.Metadata)
		return host.Value(nil)

	case fungibleconst.MethodTransfer:
		var a transferArgs
		unmarshalArgs(args, &a)
		requireAccountArg(a.ReceiverID)
		Transfer(env, a.ReceiverID, a.Amount, a.Memo)
		return host.Value(nil)

	case fungibleconst.MethodTransferCall:
		var a transferCallArgs
		unmarshalArgs(args, &a)
		requireAccountArg(a.ReceiverID)
		return TransferCall(env, a.ReceiverID, a.Amount, a.Memo, a.Msg)

	case fungibleconst.MethodResolveTransfer:
		var a resolveTransferArgs
		unmarshalArgs(args, &a)
		requireAccountArg(a.SenderID)
		requireAccountArg(a.ReceiverID)
		return host.Value(mustJSON(ResolveTransfer(env, a.SenderID, a.ReceiverID, a.Amount)))

	case fungibleconst.MethodTotalSupply:
		return host.Value(mustJSON(TotalSupply(env)))

	case fungibleconst.MethodBalanceOf:
		var a accountArgs
		unmarshalArgs(args, &a)
		requireAccountArg(a.AccountID)
		return host.Value(mustJSON(BalanceOf(env, a.AccountID)))

	case fungibleconst.MethodMetadata:
		return host.Value(mustJSON(GetMetadata(env)))

	case fungibleconst.MethodStorageDeposit:
		var a storageDepositArgs
		unmarshalArgs(args, &a)
		return host.Value(mustJSON(StorageDeposit(env, a.AccountID, a.RegistrationOnly)))

	case fungibleconst.MethodStorageWithdraw:
		var a storageWithdrawArgs
		unmarshalArgs(args, &a)
		return host.Value(mustJSON(StorageWithdraw(env, a.Amount)))

	case fungibleconst.MethodStorageUnregister:
		var a storageUnregisterArgs
		unmarshalArgs(args, &a)
		return host.Value(mustJSON(StorageUnregister(env, a.Force)))

	case fungibleconst.MethodStorageBalanceBounds:
		return host.Value(mustJSON(StorageBounds(env)))

	case fungibleconst.MethodStorageBalanceOf:
		var a accountArgs
		unmarshalArgs(args, &a)
		requireAccountArg(a.AccountID)
		return host.Value(mustJSON(StorageBalanceOf(env, a.AccountID)))

	case fungibleconst.MethodVersion:
		return host.Value(mustJSON(common.Version))

	default:
		panic(fmt.Errorf("method not found: %s", method))
	}
}

func unmarshalArgs(data []byte, v any) {
	if len(data) == 0 {
		return
	}
	if err := json.Unmarshal(data, v); err != nil {
		panic(fmt.Errorf("invalid arguments: %w", err))
	}
}

// requireAccountArg rejects calls whose argument object omits a mandatory
// account field. Present fields were validated during decoding.
func requireAccountArg(id host.AccountID) {
	if id == "" {
		panic(errors.New("invalid arguments: missing account id"))
	}
}
