package sandbox

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/hostchain/fungible-token-contract/common"
	"github.com/hostchain/fungible-token-contract/host"
)

// callEnv is the host environment of one receipt execution.
type callEnv struct {
	sb    *Sandbox
	r     *receipt
	state *txStore

	// receipts created through CallMethod, enqueued only if the receipt
	// succeeds
	pending []*receipt

	nativeUndo []nativeOp
}

func (e *callEnv) State() host.StateStore { return e.state }

func (e *callEnv) CurrentID() host.AccountID     { return e.r.receiverID }
func (e *callEnv) PredecessorID() host.AccountID { return e.r.predecessorID }

func (e *callEnv) AttachedDeposit() common.Amount { return e.r.deposit }
func (e *callEnv) PrepaidGas() host.Gas           { return e.r.gas }

func (e *callEnv) StorageUsage() uint64 { return e.state.Usage() }

func (e *callEnv) Log(msg string) {
	e.r.res.Logs = append(e.r.res.Logs, msg)
	e.sb.logger.Info("contract log",
		zap.String("receipt", e.r.id),
		zap.String("msg", msg))
}

func (e *callEnv) TransferValue(to host.AccountID, amount common.Amount) {
	if err := e.sb.moveNative(e.r.receiverID, to, amount, &e.nativeUndo); err != nil {
		panic(err)
	}
}

func (e *callEnv) CallMethod(receiver host.AccountID, method string, args []byte, deposit common.Amount, gas host.Gas) host.Promise {
	if err := receiver.Validate(); err != nil {
		panic(fmt.Errorf("outbound call: %w", err))
	}

	out := &receipt{
		id:            e.sb.newReceiptID(),
		predecessorID: e.r.receiverID,
		receiverID:    receiver,
		method:        method,
		args:          args,
		deposit:       deposit,
		gas:           gas,
		res:           e.r.res,
	}
	e.pending = append(e.pending, out)
	return &promiseHandle{env: e, r: out}
}

func (e *callEnv) PromiseResult() (host.PromiseResult, bool) {
	if e.r.input == nil {
		return host.PromiseResult{}, false
	}
	return *e.r.input, true
}

// revert undoes every effect of the receipt: state writes, native value
// moves (including the attached deposit, which flows back to the caller)
// and scheduled outbound calls.
func (e *callEnv) revert() {
	e.state.revert()
	e.sb.revertNative(e.nativeUndo)
	e.nativeUndo = nil
	e.pending = nil
}

// promiseHandle is the sandbox implementation of host.Promise.
type promiseHandle struct {
	env *callEnv
	r   *receipt
}

func (p *promiseHandle) Then(method string, args []byte, gas host.Gas) host.Promise {
	if p.r.callback != nil {
		panic(fmt.Errorf("receipt %s already has a callback", p.r.id))
	}

	cb := &receipt{
		id:            p.env.sb.newReceiptID(),
		predecessorID: p.env.r.receiverID,
		receiverID:    p.env.r.receiverID,
		method:        method,
		args:          args,
		gas:           gas,
		res:           p.env.r.res,
	}
	p.r.callback = cb
	return &promiseHandle{env: p.env, r: cb}
}
