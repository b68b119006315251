package common

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/holiman/uint256"
)

// Amount is an unsigned 128-bit token quantity. The same representation is
// used for token balances and for values in the host's native unit. Any
// arithmetic result wider than 128 bits is an overflow, never a wrap.
//
// On the wire an Amount is a JSON string with the base-10 value, so that
// callers are not limited by 53-bit JSON numbers.
type Amount struct {
	v uint256.Int
}

// AmountBytesLen is the length of the fixed binary encoding of an Amount.
const AmountBytesLen = 16

// NewAmount returns an Amount holding x.
func NewAmount(x uint64) Amount {
	var a Amount
	a.v.SetUint64(x)
	return a
}

// AmountFromDecimal parses a base-10 amount. Values above 2^128-1 are
// rejected.
func AmountFromDecimal(s string) (Amount, error) {
	var a Amount
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return a, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if v.BitLen() > 128 {
		return a, fmt.Errorf("invalid amount %q: wider than 128 bits", s)
	}
	a.v = *v
	return a, nil
}

// AmountFromBytes decodes the fixed 16-byte big-endian encoding produced by
// Bytes.
func AmountFromBytes(b []byte) (Amount, error) {
	var a Amount
	if len(b) != AmountBytesLen {
		return a, errors.New("invalid amount encoding length")
	}
	a.v.SetBytes(b)
	return a, nil
}

// Bytes returns the fixed 16-byte big-endian encoding of a.
func (a Amount) Bytes() []byte {
	b := a.v.Bytes32()
	return b[16:]
}

// Add returns a+b, reporting false when the sum does not fit in 128 bits.
func (a Amount) Add(b Amount) (Amount, bool) {
	var r Amount
	_, carry := r.v.AddOverflow(&a.v, &b.v)
	if carry || r.v.BitLen() > 128 {
		return Amount{}, false
	}
	return r, true
}

// Sub returns a-b, reporting false when b exceeds a.
func (a Amount) Sub(b Amount) (Amount, bool) {
	var r Amount
	_, borrow := r.v.SubOverflow(&a.v, &b.v)
	if borrow {
		return Amount{}, false
	}
	return r, true
}

// MulUint64 returns a*x, reporting false on overflow.
func (a Amount) MulUint64(x uint64) (Amount, bool) {
	var r Amount
	_, overflow := r.v.MulOverflow(&a.v, uint256.NewInt(x))
	if overflow || r.v.BitLen() > 128 {
		return Amount{}, false
	}
	return r, true
}

// Cmp returns -1, 0 or 1 depending on whether a is less than, equal to or
// greater than b.
func (a Amount) Cmp(b Amount) int {
	return a.v.Cmp(&b.v)
}

// IsZero reports whether a is zero.
func (a Amount) IsZero() bool {
	return a.v.IsZero()
}

// Min returns the smaller of a and b.
func (a Amount) Min(b Amount) Amount {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

// Uint64 returns a as uint64, panicking if it does not fit. Meant for
// constants and tests.
func (a Amount) Uint64() uint64 {
	if !a.v.IsUint64() {
		panic("amount does not fit in uint64")
	}
	return a.v.Uint64()
}

// String returns the base-10 representation of a.
func (a Amount) String() string {
	return a.v.Dec()
}

// MarshalJSON encodes a as a base-10 JSON string.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON decodes a base-10 JSON string.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := AmountFromDecimal(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
