// Package deploy performs genesis of the fungible token contract on an
// execution host.
package deploy

import (
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/hostchain/fungible-token-contract/common"
	"github.com/hostchain/fungible-token-contract/contracts/fungible"
	"github.com/hostchain/fungible-token-contract/contracts/fungible/fungibleconst"
	"github.com/hostchain/fungible-token-contract/host"
	"github.com/hostchain/fungible-token-contract/sandbox"
)

// Host groups the host-side services required for deployment: the ability
// to execute calls against the target account. *sandbox.Sandbox implements
// it; so would a driver of a real chain.
type Host interface {
	Call(caller, contractID host.AccountID, method string, args []byte, opts sandbox.CallOpts) *sandbox.Result
}

// ErrAlreadyDeployed means the target account already carries initialized
// token state.
var ErrAlreadyDeployed = errors.New("the contract is already deployed")

// Prm groups the parameters of the token deployment procedure.
type Prm struct {
	// Writes progress into the log.
	Logger *zap.Logger

	// Host to deploy to.
	Host Host

	// ContractAccount is the account the contract code is bound to.
	ContractAccount host.AccountID

	// Owner receives the initial supply.
	Owner host.AccountID

	// TotalSupply is minted to Owner at genesis.
	TotalSupply common.Amount

	// Metadata describes the token.
	Metadata fungible.Metadata
}

type initArgs struct {
	OwnerID     host.AccountID    `json:"owner_id"`
	TotalSupply common.Amount     `json:"total_supply"`
	Metadata    fungible.Metadata `json:"metadata"`
}

// Deploy initializes the token contract: validates the parameters, refuses
// an account that is already initialized and mints the initial supply to
// the owner.
func Deploy(prm Prm) error {
	l := prm.Logger
	if l == nil {
		l = zap.NewNop()
	}

	if prm.Host == nil {
		return errors.New("missing host")
	}
	if err := prm.ContractAccount.Validate(); err != nil {
		return fmt.Errorf("invalid contract account: %w", err)
	}
	if err := prm.Owner.Validate(); err != nil {
		return fmt.Errorf("invalid owner account: %w", err)
	}
	if err := prm.Metadata.Validate(); err != nil {
		return fmt.Errorf("invalid metadata: %w", err)
	}

	if res := prm.Host.Call(sandbox.SystemAccount, prm.ContractAccount,
		fungibleconst.MethodMetadata, nil, sandbox.CallOpts{}); res.Err == nil {
		return ErrAlreadyDeployed
	}

	args, err := json.Marshal(initArgs{
		OwnerID:     prm.Owner,
		TotalSupply: prm.TotalSupply,
		Metadata:    prm.Metadata,
	})
	if err != nil {
		return fmt.Errorf("encode genesis arguments: %w", err)
	}

	res := prm.Host.Call(prm.ContractAccount, prm.ContractAccount,
		fungibleconst.MethodNew, args, sandbox.CallOpts{})
	if res.Err != nil {
		return fmt.Errorf("genesis call: %w", res.Err)
	}

	l.Info("fungible token contract successfully initialized",
		zap.String("contract", string(prm.ContractAccount)),
		zap.String("owner", string(prm.Owner)),
		zap.String("supply", prm.TotalSupply.String()),
		zap.String("symbol", prm.Metadata.Symbol))

	return nil
}
