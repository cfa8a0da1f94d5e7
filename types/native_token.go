package types

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/tangleline/tangleline-go-sdk/cbor"
)

const (
	TokenSchemeSimple TokenSchemeKind = 0
)

type (
	TokenSchemeKind byte

	// NativeToken is an amount of a ledger tracked fungible token class
	// held by an output. Amounts are unsigned 256 bit integers.
	NativeToken struct {
		ID     NativeTokenID `json:"id"`
		Amount *uint256.Int  `json:"amount"`
	}

	// TokenScheme tracks the supply of the token class controlled by a
	// foundry. The circulating supply is Minted - Melted, it can never
	// exceed MaximumSupply.
	TokenScheme struct {
		Kind          TokenSchemeKind `json:"kind"`
		Minted        *uint256.Int    `json:"minted"`
		Melted        *uint256.Int    `json:"melted"`
		MaximumSupply *uint256.Int    `json:"maximumSupply"`
	}

	// uint256 values carry their own JSON form but no CBOR form, on the
	// wire amounts travel as big endian byte strings.
	nativeTokenWire struct {
		_      struct{} `cbor:",toarray"`
		ID     NativeTokenID
		Amount []byte
	}

	tokenSchemeWire struct {
		_             struct{} `cbor:",toarray"`
		Kind          TokenSchemeKind
		Minted        []byte
		Melted        []byte
		MaximumSupply []byte
	}
)

func amountBytes(v *uint256.Int) []byte {
	if v == nil {
		return nil
	}
	return v.Bytes()
}

func amountFromBytes(b []byte) (*uint256.Int, error) {
	if len(b) > 32 {
		return nil, fmt.Errorf("token amount must fit into 256 bits, got %d bytes", len(b))
	}
	return new(uint256.Int).SetBytes(b), nil
}

func (n NativeToken) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(nativeTokenWire{ID: n.ID, Amount: amountBytes(n.Amount)})
}

func (n *NativeToken) UnmarshalCBOR(data []byte) error {
	var w nativeTokenWire
	if err := cbor.Unmarshal(data, &w); err != nil {
		return err
	}
	amount, err := amountFromBytes(w.Amount)
	if err != nil {
		return err
	}
	n.ID, n.Amount = w.ID, amount
	return nil
}

func (s TokenScheme) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(tokenSchemeWire{
		Kind:          s.Kind,
		Minted:        amountBytes(s.Minted),
		Melted:        amountBytes(s.Melted),
		MaximumSupply: amountBytes(s.MaximumSupply),
	})
}

func (s *TokenScheme) UnmarshalCBOR(data []byte) error {
	var w tokenSchemeWire
	if err := cbor.Unmarshal(data, &w); err != nil {
		return err
	}
	minted, err := amountFromBytes(w.Minted)
	if err != nil {
		return err
	}
	melted, err := amountFromBytes(w.Melted)
	if err != nil {
		return err
	}
	maximum, err := amountFromBytes(w.MaximumSupply)
	if err != nil {
		return err
	}
	s.Kind, s.Minted, s.Melted, s.MaximumSupply = w.Kind, minted, melted, maximum
	return nil
}

func (s TokenScheme) IsValid() error {
	if s.Kind != TokenSchemeSimple {
		return fmt.Errorf("unknown token scheme kind %d", s.Kind)
	}
	if s.Minted == nil || s.Melted == nil || s.MaximumSupply == nil {
		return fmt.Errorf("token scheme supply values must be assigned")
	}
	if s.Melted.Gt(s.Minted) {
		return fmt.Errorf("melted supply %s exceeds minted supply %s", s.Melted, s.Minted)
	}
	if s.Minted.Gt(s.MaximumSupply) {
		return fmt.Errorf("minted supply %s exceeds maximum supply %s", s.Minted, s.MaximumSupply)
	}
	return nil
}

// CirculatingSupply returns Minted - Melted.
func (s TokenScheme) CirculatingSupply() *uint256.Int {
	return new(uint256.Int).Sub(s.Minted, s.Melted)
}
