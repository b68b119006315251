package sandbox

import (
	"crypto/sha256"
	"fmt"

	"github.com/google/uuid"
	"github.com/mr-tron/base58"
	"go.uber.org/zap"

	"github.com/hostchain/fungible-token-contract/common"
	"github.com/hostchain/fungible-token-contract/host"
)

// SystemAccount signs view calls, which carry no caller identity of their
// own.
const SystemAccount host.AccountID = "system"

// DefaultGas is the gas allotment of a call when CallOpts does not set one.
const DefaultGas = 300 * host.TGas

// Sandbox simulates the execution host in process: accounts with native
// balances, per-account contract state, and a deterministic FIFO receipt
// queue that delivers promise results to chained callbacks exactly once.
//
// A panicking call is rolled back completely (state writes, value moves,
// scheduled calls) and its attached deposit returns to the caller, matching
// the host contract the token code is written against.
type Sandbox struct {
	stores    StoreProvider
	logger    *zap.Logger
	contracts map[host.AccountID]host.Contract
	states    map[host.AccountID]host.StateStore
	native    map[host.AccountID]common.Amount
	queue     []*receipt
}

// Option configures a Sandbox.
type Option func(*Sandbox)

// WithStores replaces the in-memory store provider.
func WithStores(p StoreProvider) Option {
	return func(s *Sandbox) { s.stores = p }
}

// WithLogger attaches a logger; the default swallows everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *Sandbox) { s.logger = l }
}

// New returns an empty sandbox with the system account in place.
func New(opts ...Option) *Sandbox {
	s := &Sandbox{
		stores:    NewMemProvider(),
		logger:    zap.NewNop(),
		contracts: make(map[host.AccountID]host.Contract),
		states:    make(map[host.AccountID]host.StateStore),
		native:    make(map[host.AccountID]common.Amount),
	}
	for _, o := range opts {
		o(s)
	}
	s.native[SystemAccount] = common.Amount{}
	return s
}

// CreateAccount adds an account holding balance of native value.
func (s *Sandbox) CreateAccount(id host.AccountID, balance common.Amount) {
	if err := id.Validate(); err != nil {
		panic(err)
	}
	s.native[id] = balance
}

// DeployContract binds a contract to an account, creating the account when
// absent.
func (s *Sandbox) DeployContract(id host.AccountID, c host.Contract) {
	if _, ok := s.native[id]; !ok {
		s.CreateAccount(id, common.Amount{})
	}
	s.contracts[id] = c
}

// NativeBalance returns the native value held by id.
func (s *Sandbox) NativeBalance(id host.AccountID) common.Amount {
	return s.native[id]
}

// SetNativeBalance overwrites the native value held by id.
func (s *Sandbox) SetNativeBalance(id host.AccountID, balance common.Amount) {
	s.native[id] = balance
}

// State exposes the contract state of an account, e.g. for persistence.
func (s *Sandbox) State(id host.AccountID) host.StateStore {
	return s.stateOf(id)
}

// CallOpts carries the per-call parameters a caller controls.
type CallOpts struct {
	// Deposit is the attached native value, debited from the caller.
	Deposit common.Amount
	// Gas is the prepaid gas; DefaultGas when zero.
	Gas host.Gas
}

// Result is the outcome of a call chain. Logs aggregates the log lines of
// every receipt in the chain, in execution order. Value and Err come from
// the receipt that settles the chain: the entry call itself, or the last
// callback when the entry returned a promise.
type Result struct {
	Value []byte
	Err   error
	Logs  []string
}

// Call executes a contract call and settles every receipt it spawned.
func (s *Sandbox) Call(caller, contractID host.AccountID, method string, args []byte, opts CallOpts) *Result {
	res := s.Begin(caller, contractID, method, args, opts)
	s.Settle()
	return res
}

// Begin executes only the entry call, leaving spawned receipts queued. It
// lets a test interleave other calls between the stages of an asynchronous
// protocol; the returned Result is complete once the queue settles.
func (s *Sandbox) Begin(caller, contractID host.AccountID, method string, args []byte, opts CallOpts) *Result {
	if opts.Gas == 0 {
		opts.Gas = DefaultGas
	}

	r := &receipt{
		id:            s.newReceiptID(),
		predecessorID: caller,
		receiverID:    contractID,
		method:        method,
		args:          args,
		deposit:       opts.Deposit,
		gas:           opts.Gas,
		res:           &Result{},
		final:         true,
	}
	s.exec(r)
	return r.res
}

// Step executes the next queued receipt, reporting false on an empty queue.
func (s *Sandbox) Step() bool {
	if len(s.queue) == 0 {
		return false
	}
	r := s.queue[0]
	s.queue = s.queue[1:]
	s.exec(r)
	return true
}

// Settle drains the receipt queue.
func (s *Sandbox) Settle() {
	for s.Step() {
	}
}

// View performs a call signed by the system account with nothing attached,
// the way hosts serve read-only queries.
func (s *Sandbox) View(contractID host.AccountID, method string, args []byte) *Result {
	return s.Call(SystemAccount, contractID, method, args, CallOpts{})
}

type receipt struct {
	id            string
	predecessorID host.AccountID
	receiverID    host.AccountID
	method        string
	args          []byte
	deposit       common.Amount
	gas           host.Gas

	// input is the settled outcome of the dependency, present on chained
	// callbacks only.
	input *host.PromiseResult
	// callback runs after this receipt settles, with its outcome as input.
	callback *receipt

	// res aggregates the chain's logs; final marks the receipt whose own
	// return settles res.
	res   *Result
	final bool
}

func (s *Sandbox) exec(r *receipt) {
	env := &callEnv{sb: s, r: r, state: newTxStore(s.stateOf(r.receiverID))}

	s.logger.Debug("executing receipt",
		zap.String("receipt", r.id),
		zap.String("predecessor", string(r.predecessorID)),
		zap.String("receiver", string(r.receiverID)),
		zap.String("method", r.method))

	var out host.PromiseOrValue
	err := func() (err error) {
		defer func() {
			if rec := recover(); rec != nil {
				var ok bool
				if err, ok = rec.(error); !ok {
					err = fmt.Errorf("%v", rec)
				}
			}
		}()

		if err := s.moveNative(r.predecessorID, r.receiverID, r.deposit, &env.nativeUndo); err != nil {
			return err
		}

		c, ok := s.contracts[r.receiverID]
		if !ok {
			return fmt.Errorf("account %s has no contract deployed", r.receiverID)
		}
		out = c.Invoke(env, r.method, r.args)
		return nil
	}()

	if err != nil {
		env.revert()
		s.logger.Info("receipt failed",
			zap.String("receipt", r.id),
			zap.String("method", r.method),
			zap.Error(err))

		if r.callback != nil {
			r.callback.input = &host.PromiseResult{}
			s.queue = append(s.queue, r.callback)
		}
		if r.final {
			r.res.Err = err
		}
		return
	}

	s.queue = append(s.queue, env.pending...)

	if out.Promise != nil {
		// The chain settles with the tail of the returned promise, which
		// inherits both the finality of this receipt and anyone waiting on
		// it.
		tail := out.Promise.(*promiseHandle).r
		tail.final = r.final
		r.final = false
		if r.callback != nil {
			tail.callback = r.callback
			r.callback = nil
		}
		return
	}

	if r.callback != nil {
		r.callback.input = &host.PromiseResult{Success: true, Value: out.Value}
		s.queue = append(s.queue, r.callback)
	}
	if r.final {
		r.res.Value = out.Value
	}
}

func (s *Sandbox) stateOf(id host.AccountID) host.StateStore {
	st, ok := s.states[id]
	if !ok {
		st = s.stores.Namespace("state/" + string(id))
		s.states[id] = st
	}
	return st
}

type nativeOp struct {
	from, to host.AccountID
	amount   common.Amount
}

func (s *Sandbox) moveNative(from, to host.AccountID, amount common.Amount, undo *[]nativeOp) error {
	if amount.IsZero() {
		return nil
	}

	fromBal, ok := s.native[from]
	if !ok {
		return fmt.Errorf("unknown account %s", from)
	}
	newFrom, ok := fromBal.Sub(amount)
	if !ok {
		return fmt.Errorf("account %s holds less than %s of native value", from, amount)
	}
	newTo, ok := s.native[to].Add(amount)
	if !ok {
		return fmt.Errorf("native balance of %s overflows", to)
	}

	s.native[from] = newFrom
	s.native[to] = newTo
	*undo = append(*undo, nativeOp{from: from, to: to, amount: amount})
	return nil
}

func (s *Sandbox) revertNative(ops []nativeOp) {
	for i := len(ops) - 1; i >= 0; i-- {
		op := ops[i]
		from, _ := s.native[op.from].Add(op.amount)
		to, _ := s.native[op.to].Sub(op.amount)
		s.native[op.from] = from
		s.native[op.to] = to
	}
}

// newReceiptID mints a fresh receipt identifier: the base58 form of a
// hashed nonce, the way the real host displays receipt and transaction
// hashes.
func (s *Sandbox) newReceiptID() string {
	nonce := uuid.New()
	sum := sha256.Sum256(nonce[:])
	return base58.Encode(sum[:])
}
