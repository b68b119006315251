package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/hostchain/fungible-token-contract/common"
	"github.com/hostchain/fungible-token-contract/contracts/fungible"
	"github.com/hostchain/fungible-token-contract/host"
	"github.com/hostchain/fungible-token-contract/sandbox"
	"github.com/hostchain/fungible-token-contract/sandbox/boltstore"
)

// metaNamespace is the store namespace holding sandbox bookkeeping (known
// accounts and their native balances) between runs.
const metaNamespace = "sandbox-meta"

const accountsKey = "accounts"

// app is one CLI invocation: a sandbox over the persistent store, with the
// token contract bound and native balances restored.
type app struct {
	v        *viper.Viper
	log      *zap.Logger
	provider *boltstore.Provider
	sb       *sandbox.Sandbox

	contractID host.AccountID
	signerID   host.AccountID
	accounts   map[host.AccountID]bool
}

func openApp(v *viper.Viper) (*app, error) {
	log := zap.NewNop()
	if v.GetBool("verbose") {
		var err error
		if log, err = zap.NewDevelopment(); err != nil {
			return nil, err
		}
	}

	statePath := v.GetString("state")
	if err := os.MkdirAll(filepath.Dir(statePath), 0o700); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}
	provider, err := boltstore.Open(statePath)
	if err != nil {
		return nil, err
	}

	a := &app{
		v:        v,
		log:      log,
		provider: provider,
		sb:       sandbox.New(sandbox.WithStores(provider), sandbox.WithLogger(log)),
		accounts: make(map[host.AccountID]bool),
	}

	if a.contractID, err = host.ParseAccountID(v.GetString("contract")); err != nil {
		provider.Close()
		return nil, fmt.Errorf("contract account: %w", err)
	}
	if a.signerID, err = host.ParseAccountID(v.GetString("signer")); err != nil {
		provider.Close()
		return nil, fmt.Errorf("signer account: %w", err)
	}

	a.sb.DeployContract(a.contractID, fungible.Contract{})
	a.loadAccounts()
	return a, nil
}

// close persists native balances and releases the store.
func (a *app) close() error {
	a.saveAccounts()
	return a.provider.Close()
}

func (a *app) meta() host.StateStore {
	return a.provider.Namespace(metaNamespace)
}

func (a *app) loadAccounts() {
	meta := a.meta()
	list := meta.Get([]byte(accountsKey))
	if list == nil {
		return
	}
	for _, raw := range strings.Split(string(list), "\n") {
		if raw == "" {
			continue
		}
		id := host.AccountID(raw)
		a.accounts[id] = true

		if data := meta.Get([]byte("native/" + raw)); data != nil {
			bal, err := common.AmountFromBytes(data)
			if err == nil {
				a.sb.SetNativeBalance(id, bal)
			}
		}
	}
}

func (a *app) saveAccounts() {
	meta := a.meta()
	ids := make([]string, 0, len(a.accounts))
	for id := range a.accounts {
		ids = append(ids, string(id))
		meta.Put([]byte("native/"+string(id)), a.sb.NativeBalance(id).Bytes())
	}
	meta.Put([]byte(accountsKey), []byte(strings.Join(ids, "\n")))
}

// ensureAccount registers an account in the bookkeeping, optionally
// creating it with a native balance.
func (a *app) ensureAccount(id host.AccountID, balance common.Amount) {
	if !a.accounts[id] {
		a.sb.CreateAccount(id, balance)
		a.accounts[id] = true
	}
}

// call executes a signed call and prints its log lines.
func (a *app) call(method string, args map[string]any, opts sandbox.CallOpts) (*sandbox.Result, error) {
	raw, err := json.Marshal(args)
	if err != nil {
		return nil, err
	}

	res := a.sb.Call(a.signerID, a.contractID, method, raw, opts)
	for _, line := range res.Logs {
		fmt.Println(line)
	}
	return res, res.Err
}

// view executes a read-only call and prints the JSON result.
func (a *app) view(method string, args map[string]any) error {
	raw, err := json.Marshal(args)
	if err != nil {
		return err
	}

	res := a.sb.View(a.contractID, method, raw)
	if res.Err != nil {
		return res.Err
	}
	fmt.Println(string(res.Value))
	return nil
}
