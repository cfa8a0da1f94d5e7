package types

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/bech32"

	"github.com/tangleline/tangleline-go-sdk/types/hex"
)

const (
	AddressKeyLength = 32
	// AddressLength is the serialized form: kind byte plus key.
	AddressLength = 1 + AddressKeyLength
)

const (
	AddressEd25519 AddressKind = 0
	AddressAccount AddressKind = 8
	AddressNFT     AddressKind = 16
	// AddressImplicitAccountCreation is an Ed25519 backed address which
	// turns the first basic output sent to it into an account.
	AddressImplicitAccountCreation AddressKind = 32
)

type (
	AddressKind byte

	// Address is a ledger address: an address kind and a 32 byte key.
	// The key is the BLAKE2b-256 digest of an Ed25519 public key, an
	// account ID or an NFT ID, depending on the kind.
	Address struct {
		_    struct{}    `cbor:",toarray"`
		Kind AddressKind `json:"kind"`
		Key  hex.Bytes   `json:"key"`
	}
)

func NewEd25519Address(pubKeyHash []byte) Address {
	return Address{Kind: AddressEd25519, Key: bytes.Clone(pubKeyHash)}
}

func NewAccountAddress(id AccountID) Address {
	return Address{Kind: AddressAccount, Key: id[:]}
}

func NewNFTAddress(id NFTID) Address {
	return Address{Kind: AddressNFT, Key: id[:]}
}

func NewImplicitAccountCreationAddress(pubKeyHash []byte) Address {
	return Address{Kind: AddressImplicitAccountCreation, Key: bytes.Clone(pubKeyHash)}
}

func (k AddressKind) String() string {
	switch k {
	case AddressEd25519:
		return "ed25519"
	case AddressAccount:
		return "account"
	case AddressNFT:
		return "nft"
	case AddressImplicitAccountCreation:
		return "implicit-account-creation"
	default:
		return fmt.Sprintf("unknown address kind %d", byte(k))
	}
}

func (a Address) IsValid() error {
	switch a.Kind {
	case AddressEd25519, AddressAccount, AddressNFT, AddressImplicitAccountCreation:
	default:
		return fmt.Errorf("invalid address: %s", a.Kind)
	}
	if len(a.Key) != AddressKeyLength {
		return fmt.Errorf("address key length must be %d bytes, got %d bytes", AddressKeyLength, len(a.Key))
	}
	return nil
}

func (a Address) Eq(other Address) bool {
	return a.Kind == other.Kind && bytes.Equal(a.Key, other.Key)
}

// AccountID returns the account ID of an account address.
func (a Address) AccountID() (AccountID, error) {
	if a.Kind != AddressAccount {
		return AccountID{}, fmt.Errorf("expected account address, got %s address", a.Kind)
	}
	return AccountIDFromBytes(a.Key)
}

// Bytes returns the serialized form of the address, the kind byte
// followed by the key.
func (a Address) Bytes() []byte {
	b := make([]byte, 0, AddressLength)
	b = append(b, byte(a.Kind))
	return append(b, a.Key...)
}

func AddressFromBytes(b []byte) (Address, error) {
	if len(b) != AddressLength {
		return Address{}, fmt.Errorf("address length must be %d bytes, got %d bytes", AddressLength, len(b))
	}
	addr := Address{Kind: AddressKind(b[0]), Key: bytes.Clone(b[1:])}
	return addr, addr.IsValid()
}

// Bech32 encodes the address with the given human readable prefix.
func (a Address) Bech32(hrp string) (string, error) {
	if err := a.IsValid(); err != nil {
		return "", err
	}
	conv, err := bech32.ConvertBits(a.Bytes(), 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("converting address bits: %w", err)
	}
	return bech32.Encode(hrp, conv)
}

// AddressFromBech32 decodes a bech32 encoded address, returning also
// the human readable prefix it was encoded with.
func AddressFromBech32(s string) (string, Address, error) {
	hrp, conv, err := bech32.Decode(s)
	if err != nil {
		return "", Address{}, fmt.Errorf("decoding bech32 string: %w", err)
	}
	b, err := bech32.ConvertBits(conv, 5, 8, false)
	if err != nil {
		return "", Address{}, fmt.Errorf("converting address bits: %w", err)
	}
	addr, err := AddressFromBytes(b)
	return hrp, addr, err
}
