// Package ftrecv is a test-only receiver of transfer-and-notify calls. Its
// ft_on_transfer behavior is scripted through the msg argument, which lets
// tests exercise every outcome of the resolve step.
package ftrecv

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/hostchain/fungible-token-contract/common"
	"github.com/hostchain/fungible-token-contract/host"
)

// Supported msg scripts.
const (
	// MsgKeepAll consumes the whole amount (reports "0" unused).
	MsgKeepAll = ""
	// MsgRefundAll consumes nothing (reports the full amount unused).
	MsgRefundAll = "refund-all"
	// MsgUnusedPrefix reports the amount after the colon as unused, e.g.
	// "unused:40". The value may exceed the transferred amount.
	MsgUnusedPrefix = "unused:"
	// MsgGarbage reports a non-numeric unused value.
	MsgGarbage = "garbage"
	// MsgPanic fails the notification outright.
	MsgPanic = "panic"
)

const lastCallKey = "last"

// Call is the record of the latest received notification, served by the
// last_call view.
type Call struct {
	SenderID host.AccountID `json:"sender_id"`
	Amount   common.Amount  `json:"amount"`
	Msg      string         `json:"msg"`
}

type onTransferArgs struct {
	SenderID host.AccountID `json:"sender_id"`
	Amount   common.Amount  `json:"amount"`
	Msg      string         `json:"msg"`
}

// Contract implements the receiver side of the transfer-and-notify
// protocol.
type Contract struct{}

func (Contract) Invoke(env host.Env, method string, args []byte) host.PromiseOrValue {
	switch method {
	case "ft_on_transfer":
		var a onTransferArgs
		if err := json.Unmarshal(args, &a); err != nil {
			panic(fmt.Errorf("invalid arguments: %w", err))
		}
		return host.Value(onTransfer(env, a))

	case "last_call":
		data := env.State().Get([]byte(lastCallKey))
		if data == nil {
			panic(errors.New("no calls received"))
		}
		return host.Value(data)

	default:
		panic(fmt.Errorf("method not found: %s", method))
	}
}

func onTransfer(env host.Env, a onTransferArgs) []byte {
	record, err := json.Marshal(Call{SenderID: a.SenderID, Amount: a.Amount, Msg: a.Msg})
	if err != nil {
		panic(err)
	}
	env.State().Put([]byte(lastCallKey), record)

	switch {
	case a.Msg == MsgKeepAll:
		return mustAmountJSON(common.Amount{})

	case a.Msg == MsgRefundAll:
		return mustAmountJSON(a.Amount)

	case strings.HasPrefix(a.Msg, MsgUnusedPrefix):
		unused, err := common.AmountFromDecimal(strings.TrimPrefix(a.Msg, MsgUnusedPrefix))
		if err != nil {
			panic(err)
		}
		return mustAmountJSON(unused)

	case a.Msg == MsgGarbage:
		return []byte(`"definitely-not-a-number"`)

	case a.Msg == MsgPanic:
		panic(errors.New("unable to accept the transfer"))

	default:
		panic(fmt.Errorf("unsupported msg script %q", a.Msg))
	}
}

func mustAmountJSON(a common.Amount) []byte {
	raw, err := json.Marshal(a)
	if err != nil {
		panic(err)
	}
	return raw
}
