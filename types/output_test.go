package types

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

func testTokenID(t *testing.T, fill byte) NativeTokenID {
	t.Helper()
	var accountID AccountID
	accountID[0] = fill
	id, err := NewFoundryID(NewAccountAddress(accountID), uint32(fill), TokenSchemeSimple)
	require.NoError(t, err)
	return id
}

func Test_Output_roundtrip(t *testing.T) {
	owner := UnlockConditions{Address: addrCondition(AddressEd25519, 1)}

	cases := []Output{
		&BasicOutput{Amount: 100, UnlockConditions: owner},
		&BasicOutput{
			Amount: 50,
			NativeTokens: []NativeToken{
				{ID: testTokenID(t, 1), Amount: uint256.NewInt(1000)},
			},
			UnlockConditions: owner,
		},
		&AccountOutput{Amount: 200, AccountID: AccountID{1}, FoundryCounter: 2, UnlockConditions: owner},
		&FoundryOutput{
			Amount:       300,
			SerialNumber: 1,
			TokenScheme: TokenScheme{
				Minted:        uint256.NewInt(500),
				Melted:        uint256.NewInt(100),
				MaximumSupply: uint256.NewInt(1000),
			},
			UnlockConditions: UnlockConditions{Address: addrCondition(AddressAccount, 2)},
		},
		&NFTOutput{Amount: 400, NFTID: NFTID{9}, UnlockConditions: owner},
	}

	for _, src := range cases {
		t.Run(src.Kind().String(), func(t *testing.T) {
			buf, err := MarshalOutput(src)
			require.NoError(t, err)

			dst, err := UnmarshalOutput(buf)
			require.NoError(t, err)
			require.Equal(t, src.Kind(), dst.Kind())
			require.Equal(t, src, dst)
		})
	}

	t.Run("nil output", func(t *testing.T) {
		_, err := MarshalOutput(nil)
		require.EqualError(t, err, `output is nil`)
	})

	t.Run("unknown tag", func(t *testing.T) {
		buf, err := MarshalOutput(cases[0])
		require.NoError(t, err)
		// the helper refuses tags outside the output range
		_, err = UnmarshalOutput(append([]byte{0xD9, 0x0F, 0xA0}, buf[3:]...))
		require.EqualError(t, err, `unknown output tag 4000`)
	})
}

func Test_FoundryOutput_ID(t *testing.T) {
	out := &FoundryOutput{
		Amount:       10,
		SerialNumber: 5,
		TokenScheme: TokenScheme{
			Minted:        uint256.NewInt(0),
			Melted:        uint256.NewInt(0),
			MaximumSupply: uint256.NewInt(100),
		},
		UnlockConditions: UnlockConditions{Address: addrCondition(AddressAccount, 3)},
	}

	id, err := out.ID()
	require.NoError(t, err)
	require.EqualValues(t, 5, id.SerialNumber())
	require.True(t, out.UnlockConditions.Address.Address.Eq(id.AccountAddress()))

	tokenID, err := out.TokenID()
	require.NoError(t, err)
	require.True(t, id.Eq(tokenID))

	t.Run("no controlling address", func(t *testing.T) {
		_, err := (&FoundryOutput{}).ID()
		require.EqualError(t, err, `foundry output has no controlling address`)
	})
}

func Test_FoundryOutput_IsValid(t *testing.T) {
	out := &FoundryOutput{
		TokenScheme: TokenScheme{
			Minted:        uint256.NewInt(10),
			Melted:        uint256.NewInt(0),
			MaximumSupply: uint256.NewInt(100),
		},
		UnlockConditions: UnlockConditions{Address: addrCondition(AddressAccount, 1)},
	}
	require.NoError(t, out.IsValid())

	t.Run("non account controller", func(t *testing.T) {
		bad := *out
		bad.UnlockConditions = UnlockConditions{Address: addrCondition(AddressEd25519, 1)}
		require.EqualError(t, bad.IsValid(), `foundry must be controlled by an account address, got ed25519`)
	})

	t.Run("melted exceeds minted", func(t *testing.T) {
		bad := *out
		bad.TokenScheme.Melted = uint256.NewInt(11)
		require.EqualError(t, bad.IsValid(), `melted supply 11 exceeds minted supply 10`)
	})

	t.Run("minted exceeds maximum", func(t *testing.T) {
		bad := *out
		bad.TokenScheme.Minted = uint256.NewInt(101)
		require.EqualError(t, bad.IsValid(), `minted supply 101 exceeds maximum supply 100`)
	})
}

func Test_TokenScheme_CirculatingSupply(t *testing.T) {
	s := TokenScheme{
		Minted:        uint256.NewInt(500),
		Melted:        uint256.NewInt(120),
		MaximumSupply: uint256.NewInt(1000),
	}
	require.Equal(t, uint256.NewInt(380), s.CirculatingSupply())
}

func Test_Output_IDNonEmpty(t *testing.T) {
	var txID TransactionID
	txID[0] = 0xAA
	outputID := NewOutputID(txID, 3)

	t.Run("account placeholder", func(t *testing.T) {
		out := &AccountOutput{}
		require.Equal(t, AccountIDFromOutputID(outputID), out.AccountIDNonEmpty(outputID))

		out.AccountID = AccountID{7}
		require.Equal(t, AccountID{7}, out.AccountIDNonEmpty(outputID))
	})

	t.Run("NFT placeholder", func(t *testing.T) {
		out := &NFTOutput{}
		require.Equal(t, NFTIDFromOutputID(outputID), out.NFTIDNonEmpty(outputID))

		out.NFTID = NFTID{8}
		require.Equal(t, NFTID{8}, out.NFTIDNonEmpty(outputID))
	})
}

func Test_RentCost(t *testing.T) {
	params := RentParameters{StorageCost: 10, StorageOffset: 5}
	owner := UnlockConditions{Address: addrCondition(AddressEd25519, 1)}

	small, err := RentCost(&BasicOutput{Amount: 1, UnlockConditions: owner}, params)
	require.NoError(t, err)
	require.Greater(t, small, params.StorageCost*params.StorageOffset)

	// an output carrying more state costs more to store
	large, err := RentCost(&BasicOutput{
		Amount: 1,
		NativeTokens: []NativeToken{
			{ID: testTokenID(t, 1), Amount: uint256.NewInt(1)},
			{ID: testTokenID(t, 2), Amount: uint256.NewInt(2)},
		},
		UnlockConditions: owner,
	}, params)
	require.NoError(t, err)
	require.Greater(t, large, small)
}

func Test_NativeToken_cbor_roundtrip(t *testing.T) {
	src := NativeToken{ID: testTokenID(t, 4), Amount: uint256.MustFromHex("0xffffffffffffffffffffffffffffffff")}

	buf, err := src.MarshalCBOR()
	require.NoError(t, err)

	var dst NativeToken
	require.NoError(t, dst.UnmarshalCBOR(buf))
	require.Equal(t, src, dst)
}
