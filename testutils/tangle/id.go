package tangle

import (
	"crypto/rand"
	"encoding/binary"
	"testing"

	"github.com/holiman/uint256"

	"github.com/tangleline/tangleline-go-sdk/types"
)

func Random(buf []byte) error {
	_, err := rand.Read(buf)
	return err
}

func randomBytes(t *testing.T, n int) []byte {
	t.Helper()
	buf := make([]byte, n)
	if err := Random(buf); err != nil {
		t.Fatal("failed to generate random bytes:", err)
	}
	return buf
}

func RandomAccountID(t *testing.T) types.AccountID {
	id, err := types.AccountIDFromBytes(randomBytes(t, types.AccountIDLength))
	if err != nil {
		t.Fatal("failed to generate account ID:", err)
	}
	return id
}

func RandomNFTID(t *testing.T) types.NFTID {
	id, err := types.NFTIDFromBytes(randomBytes(t, types.NFTIDLength))
	if err != nil {
		t.Fatal("failed to generate NFT ID:", err)
	}
	return id
}

func RandomTransactionID(t *testing.T) types.TransactionID {
	id, err := types.TransactionIDFromBytes(randomBytes(t, types.TransactionIDLength))
	if err != nil {
		t.Fatal("failed to generate transaction ID:", err)
	}
	return id
}

func RandomOutputID(t *testing.T) types.OutputID {
	return types.NewOutputID(RandomTransactionID(t), uint16(randomBytes(t, 1)[0]))
}

func RandomFoundryID(t *testing.T) types.FoundryID {
	serial := binary.LittleEndian.Uint32(randomBytes(t, 4))
	id, err := types.NewFoundryID(RandomAccountAddress(t), serial, types.TokenSchemeSimple)
	if err != nil {
		t.Fatal("failed to generate foundry ID:", err)
	}
	return id
}

func RandomTokenID(t *testing.T) types.NativeTokenID {
	return RandomFoundryID(t)
}

// RandomAmount returns a random 256 bit token amount.
func RandomAmount(t *testing.T) *uint256.Int {
	return new(uint256.Int).SetBytes(randomBytes(t, 32))
}

func RandomEd25519Address(t *testing.T) types.Address {
	return types.NewEd25519Address(randomBytes(t, types.AddressKeyLength))
}

func RandomAccountAddress(t *testing.T) types.Address {
	return types.NewAccountAddress(RandomAccountID(t))
}

func RandomNFTAddress(t *testing.T) types.Address {
	return types.NewNFTAddress(RandomNFTID(t))
}

func RandomImplicitAddress(t *testing.T) types.Address {
	return types.NewImplicitAccountCreationAddress(randomBytes(t, types.AddressKeyLength))
}

// RandomAddress returns an address of a random kind.
func RandomAddress(t *testing.T) types.Address {
	switch randomBytes(t, 1)[0] % 4 {
	case 0:
		return RandomEd25519Address(t)
	case 1:
		return RandomAccountAddress(t)
	case 2:
		return RandomNFTAddress(t)
	default:
		return RandomImplicitAddress(t)
	}
}
