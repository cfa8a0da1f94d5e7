package types

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/tangleline/tangleline-go-sdk/hash"
	"github.com/tangleline/tangleline-go-sdk/types/hex"
)

const (
	AccountIDLength     = 32
	NFTIDLength         = 32
	TransactionIDLength = 32
	OutputIDLength      = TransactionIDLength + 2
	SerialNumberLength  = 4
	// FoundryID is the serialized controlling account address plus the
	// foundry serial number plus the token scheme kind.
	FoundryIDLength = AddressLength + SerialNumberLength + 1
)

type (
	// AccountID identifies an account on the ledger. An empty ID is a
	// placeholder used in the output that creates the account; the
	// effective ID is derived from the creating output ID.
	AccountID [AccountIDLength]byte

	// NFTID identifies a non fungible token on the ledger.
	NFTID [NFTIDLength]byte

	TransactionID [TransactionIDLength]byte

	// OutputID is the transaction ID concatenated with the little
	// endian uint16 index of the output within that transaction.
	OutputID [OutputIDLength]byte

	FoundryID [FoundryIDLength]byte

	// NativeTokenID identifies a native token class. It is by
	// construction equal to the ID of the foundry minting the token.
	NativeTokenID = FoundryID
)

func AccountIDFromBytes(b []byte) (id AccountID, _ error) {
	if len(b) != AccountIDLength {
		return id, fmt.Errorf("account ID length must be %d bytes, got %d bytes", AccountIDLength, len(b))
	}
	copy(id[:], b)
	return id, nil
}

// AccountIDFromOutputID derives the account ID assigned to an account
// created by the given output.
func AccountIDFromOutputID(outputID OutputID) (id AccountID) {
	copy(id[:], hash.Sum256(outputID[:]))
	return id
}

func (id AccountID) IsEmpty() bool { return id == AccountID{} }

func (id AccountID) Eq(other AccountID) bool { return id == other }

func (id AccountID) String() string { return hex.Bytes(id[:]).String() }

func (id AccountID) MarshalText() ([]byte, error) { return hex.Encode(id[:]), nil }

func (id *AccountID) UnmarshalText(src []byte) error {
	b, err := hex.Decode(src)
	if err != nil {
		return err
	}
	*id, err = AccountIDFromBytes(b)
	return err
}

func NFTIDFromBytes(b []byte) (id NFTID, _ error) {
	if len(b) != NFTIDLength {
		return id, fmt.Errorf("NFT ID length must be %d bytes, got %d bytes", NFTIDLength, len(b))
	}
	copy(id[:], b)
	return id, nil
}

// NFTIDFromOutputID derives the NFT ID assigned to a token minted by
// the given output.
func NFTIDFromOutputID(outputID OutputID) (id NFTID) {
	copy(id[:], hash.Sum256(outputID[:]))
	return id
}

func (id NFTID) IsEmpty() bool { return id == NFTID{} }

func (id NFTID) Eq(other NFTID) bool { return id == other }

func (id NFTID) String() string { return hex.Bytes(id[:]).String() }

func (id NFTID) MarshalText() ([]byte, error) { return hex.Encode(id[:]), nil }

func (id *NFTID) UnmarshalText(src []byte) error {
	b, err := hex.Decode(src)
	if err != nil {
		return err
	}
	*id, err = NFTIDFromBytes(b)
	return err
}

func TransactionIDFromBytes(b []byte) (id TransactionID, _ error) {
	if len(b) != TransactionIDLength {
		return id, fmt.Errorf("transaction ID length must be %d bytes, got %d bytes", TransactionIDLength, len(b))
	}
	copy(id[:], b)
	return id, nil
}

func (id TransactionID) String() string { return hex.Bytes(id[:]).String() }

func (id TransactionID) MarshalText() ([]byte, error) { return hex.Encode(id[:]), nil }

func (id *TransactionID) UnmarshalText(src []byte) error {
	b, err := hex.Decode(src)
	if err != nil {
		return err
	}
	*id, err = TransactionIDFromBytes(b)
	return err
}

func NewOutputID(txID TransactionID, index uint16) (id OutputID) {
	copy(id[:], txID[:])
	binary.LittleEndian.PutUint16(id[TransactionIDLength:], index)
	return id
}

func OutputIDFromBytes(b []byte) (id OutputID, _ error) {
	if len(b) != OutputIDLength {
		return id, fmt.Errorf("output ID length must be %d bytes, got %d bytes", OutputIDLength, len(b))
	}
	copy(id[:], b)
	return id, nil
}

func (id OutputID) TransactionID() (txID TransactionID) {
	copy(txID[:], id[:TransactionIDLength])
	return txID
}

func (id OutputID) Index() uint16 {
	return binary.LittleEndian.Uint16(id[TransactionIDLength:])
}

func (id OutputID) Compare(other OutputID) int { return bytes.Compare(id[:], other[:]) }

func (id OutputID) String() string { return hex.Bytes(id[:]).String() }

func (id OutputID) MarshalText() ([]byte, error) { return hex.Encode(id[:]), nil }

func (id *OutputID) UnmarshalText(src []byte) error {
	b, err := hex.Decode(src)
	if err != nil {
		return err
	}
	*id, err = OutputIDFromBytes(b)
	return err
}

// NewFoundryID composes the foundry ID from the controlling account
// address, the foundry serial number and the token scheme kind.
func NewFoundryID(account Address, serialNumber uint32, schemeKind TokenSchemeKind) (id FoundryID, _ error) {
	if account.Kind != AddressAccount {
		return id, fmt.Errorf("foundry must be controlled by an account address, got %s", account.Kind)
	}
	n := copy(id[:], account.Bytes())
	binary.LittleEndian.PutUint32(id[n:], serialNumber)
	id[n+SerialNumberLength] = byte(schemeKind)
	return id, nil
}

func FoundryIDFromBytes(b []byte) (id FoundryID, _ error) {
	if len(b) != FoundryIDLength {
		return id, fmt.Errorf("foundry ID length must be %d bytes, got %d bytes", FoundryIDLength, len(b))
	}
	copy(id[:], b)
	return id, nil
}

func (id FoundryID) AccountAddress() Address {
	addr, _ := AddressFromBytes(id[:AddressLength])
	return addr
}

func (id FoundryID) SerialNumber() uint32 {
	return binary.LittleEndian.Uint32(id[AddressLength:])
}

func (id FoundryID) SchemeKind() TokenSchemeKind {
	return TokenSchemeKind(id[FoundryIDLength-1])
}

func (id FoundryID) Eq(other FoundryID) bool { return id == other }

func (id FoundryID) String() string { return hex.Bytes(id[:]).String() }

func (id FoundryID) MarshalText() ([]byte, error) { return hex.Encode(id[:]), nil }

func (id *FoundryID) UnmarshalText(src []byte) error {
	b, err := hex.Decode(src)
	if err != nil {
		return err
	}
	*id, err = FoundryIDFromBytes(b)
	return err
}
