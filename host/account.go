package host

import (
	"encoding/json"
	"fmt"
)

// AccountID is an opaque identifier of a host account. The host guarantees
// syntactic validity of identifiers it passes in; identifiers arriving in
// call arguments are validated on decoding.
//
// The rules are those of the host's account namespace: 2 to 64 characters,
// lowercase letters and digits grouped into segments separated by a single
// '.', '-' or '_'.
type AccountID string

const (
	// MinAccountIDLen is the shortest valid account identifier.
	MinAccountIDLen = 2
	// MaxAccountIDLen is the longest valid account identifier.
	MaxAccountIDLen = 64
)

// ParseAccountID validates s and returns it as an AccountID.
func ParseAccountID(s string) (AccountID, error) {
	id := AccountID(s)
	if err := id.Validate(); err != nil {
		return "", err
	}
	return id, nil
}

// Validate checks id against the host account namespace rules.
func (id AccountID) Validate() error {
	if len(id) < MinAccountIDLen || len(id) > MaxAccountIDLen {
		return fmt.Errorf("invalid account id %q: length must be in [%d, %d]", string(id), MinAccountIDLen, MaxAccountIDLen)
	}
	prevSeparator := true // a separator must not lead
	for i := 0; i < len(id); i++ {
		c := id[i]
		switch {
		case c >= 'a' && c <= 'z' || c >= '0' && c <= '9':
			prevSeparator = false
		case c == '.' || c == '-' || c == '_':
			if prevSeparator {
				return fmt.Errorf("invalid account id %q: misplaced separator", string(id))
			}
			prevSeparator = true
		default:
			return fmt.Errorf("invalid account id %q: invalid character %q", string(id), c)
		}
	}
	if prevSeparator {
		return fmt.Errorf("invalid account id %q: trailing separator", string(id))
	}
	return nil
}

// UnmarshalJSON decodes and validates an account identifier, so that invalid
// identifiers are rejected at the call boundary.
func (id *AccountID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseAccountID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
