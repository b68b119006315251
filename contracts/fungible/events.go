package fungible

import (
	"encoding/json"
	"fmt"

	"github.com/hostchain/fungible-token-contract/common"
	"github.com/hostchain/fungible-token-contract/host"
)

// Events are emitted as structured log lines carrying a JSON envelope after
// the "EVENT_JSON:" prefix, so that indexers can follow supply and balance
// changes without replaying contract state.
const (
	eventLogPrefix = "EVENT_JSON:"

	eventStandard = "nep141"
	eventVersion  = "1.0.0"

	eventMint     = "ft_mint"
	eventTransfer = "ft_transfer"
	eventBurn     = "ft_burn"
)

type eventEnvelope struct {
	Standard string `json:"standard"`
	Version  string `json:"version"`
	Event    string `json:"event"`
	Data     any    `json:"data"`
}

type mintEvent struct {
	OwnerID host.AccountID `json:"owner_id"`
	Amount  common.Amount  `json:"amount"`
	Memo    string         `json:"memo,omitempty"`
}

type transferEvent struct {
	OldOwnerID host.AccountID `json:"old_owner_id"`
	NewOwnerID host.AccountID `json:"new_owner_id"`
	Amount     common.Amount  `json:"amount"`
	Memo       string         `json:"memo,omitempty"`
}

type burnEvent struct {
	OwnerID host.AccountID `json:"owner_id"`
	Amount  common.Amount  `json:"amount"`
	Memo    string         `json:"memo,omitempty"`
}

func emitEvent(env host.Env, event string, data any) {
	raw := mustJSON(eventEnvelope{
		Standard: eventStandard,
		Version:  eventVersion,
		Event:    event,
		Data:     data,
	})
	env.Log(eventLogPrefix + string(raw))
}

func emitMint(env host.Env, ownerID host.AccountID, amount common.Amount, memo string) {
	emitEvent(env, eventMint, []mintEvent{{OwnerID: ownerID, Amount: amount, Memo: memo}})
}

func emitTransfer(env host.Env, oldOwnerID, newOwnerID host.AccountID, amount common.Amount, memo string) {
	emitEvent(env, eventTransfer, []transferEvent{{
		OldOwnerID: oldOwnerID,
		NewOwnerID: newOwnerID,
		Amount:     amount,
		Memo:       memo,
	}})
}

func emitBurn(env host.Env, ownerID host.AccountID, amount common.Amount, memo string) {
	emitEvent(env, eventBurn, []burnEvent{{OwnerID: ownerID, Amount: amount, Memo: memo}})
}

func mustJSON(v any) []byte {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("encode %T: %w", v, err))
	}
	return raw
}
