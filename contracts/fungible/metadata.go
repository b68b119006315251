package fungible

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hostchain/fungible-token-contract/common"
	"github.com/hostchain/fungible-token-contract/host"
)

// MetadataSpec is the metadata format version this contract implements.
const MetadataSpec = "ft-1.0.0"

// Metadata describes the token: a static record set at genesis and served
// by the ft_metadata view.
type Metadata struct {
	Spec          string  `json:"spec"`
	Name          string  `json:"name"`
	Symbol        string  `json:"symbol"`
	Icon          *string `json:"icon,omitempty"`
	Reference     *string `json:"reference,omitempty"`
	ReferenceHash []byte  `json:"reference_hash,omitempty"`
	Decimals      uint8   `json:"decimals"`
}

// Validate checks the metadata record for internal consistency.
func (m Metadata) Validate() error {
	if m.Spec != MetadataSpec {
		return fmt.Errorf("unsupported metadata spec %q, want %q", m.Spec, MetadataSpec)
	}
	if m.Name == "" {
		return errors.New("token name must not be empty")
	}
	if m.Symbol == "" {
		return errors.New("token symbol must not be empty")
	}
	if (m.Reference == nil) != (len(m.ReferenceHash) == 0) {
		return errors.New("reference and reference hash must come together")
	}
	if len(m.ReferenceHash) != 0 && len(m.ReferenceHash) != 32 {
		return errors.New("reference hash must be 32 bytes")
	}
	return nil
}

func putMetadata(env host.Env, md Metadata) {
	env.State().Put([]byte{metadataKey}, mustJSON(md))
}

// GetMetadata returns the metadata record stored at genesis.
func GetMetadata(env host.Env) Metadata {
	data := env.State().Get([]byte{metadataKey})
	if data == nil {
		panic(common.ErrNotInitialized)
	}

	var md Metadata
	if err := json.Unmarshal(data, &md); err != nil {
		panic(fmt.Errorf("corrupted metadata record: %w", err))
	}
	return md
}
