package wallet

import (
	"encoding/json"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/tangleline/tangleline-go-sdk/cbor"
	"github.com/tangleline/tangleline-go-sdk/testutils/tangle"
	"github.com/tangleline/tangleline-go-sdk/types"
)

func Test_Burn_IsEmpty(t *testing.T) {
	var b *Burn
	require.True(t, b.IsEmpty())
	require.True(t, NewBurn().IsEmpty())

	require.False(t, NewBurn().AddAccount(tangle.RandomAccountID(t)).IsEmpty())
	require.False(t, NewBurn().AddNFT(tangle.RandomNFTID(t)).IsEmpty())
	require.False(t, NewBurn().AddFoundry(tangle.RandomFoundryID(t)).IsEmpty())
	require.False(t, NewBurn().AddNativeToken(tangle.RandomTokenID(t), uint256.NewInt(1)).IsEmpty())
}

func Test_Burn_adders_deduplicate(t *testing.T) {
	accountID := tangle.RandomAccountID(t)
	nftID := tangle.RandomNFTID(t)
	foundryID := tangle.RandomFoundryID(t)

	b := NewBurn().
		AddAccount(accountID).AddAccount(accountID).
		AddNFT(nftID).AddNFT(nftID).
		AddFoundry(foundryID).AddFoundry(foundryID)

	require.Len(t, b.Accounts, 1)
	require.Len(t, b.NFTs, 1)
	require.Len(t, b.Foundries, 1)
}

func Test_Burn_AddNativeToken_replaces_amount(t *testing.T) {
	tokenID := tangle.RandomTokenID(t)

	b := NewBurn().
		AddNativeToken(tokenID, uint256.NewInt(5)).
		AddNativeToken(tokenID, uint256.NewInt(9))

	// one amount per token class, the last one wins
	require.Len(t, b.NativeTokens, 1)
	require.Equal(t, uint256.NewInt(9), b.NativeTokens[tokenID])
}

func Test_Burn_JSON_roundtrip(t *testing.T) {
	t.Run("empty burn", func(t *testing.T) {
		buf, err := json.Marshal(NewBurn())
		require.NoError(t, err)
		require.JSONEq(t, `{}`, string(buf))

		var dst Burn
		require.NoError(t, json.Unmarshal(buf, &dst))
		require.True(t, dst.IsEmpty())
	})

	t.Run("populated burn", func(t *testing.T) {
		src := NewBurn().
			AddAccount(tangle.RandomAccountID(t)).
			AddNFT(tangle.RandomNFTID(t)).
			AddFoundry(tangle.RandomFoundryID(t)).
			AddNativeToken(tangle.RandomTokenID(t), tangle.RandomAmount(t)).
			AddNativeToken(tangle.RandomTokenID(t), uint256.NewInt(42))

		buf, err := json.Marshal(src)
		require.NoError(t, err)

		var dst Burn
		require.NoError(t, json.Unmarshal(buf, &dst))
		require.ElementsMatch(t, src.Accounts, dst.Accounts)
		require.ElementsMatch(t, src.NFTs, dst.NFTs)
		require.ElementsMatch(t, src.Foundries, dst.Foundries)
		require.Equal(t, src.NativeTokens, dst.NativeTokens)
	})

	t.Run("absent fields stay absent", func(t *testing.T) {
		src := NewBurn().AddNFT(tangle.RandomNFTID(t))
		buf, err := json.Marshal(src)
		require.NoError(t, err)
		require.NotContains(t, string(buf), "accounts")
		require.NotContains(t, string(buf), "foundries")
		require.NotContains(t, string(buf), "nativeTokens")
	})
}

func Test_Burn_CBOR_roundtrip(t *testing.T) {
	src := NewBurn().
		AddAccount(tangle.RandomAccountID(t)).
		AddNFT(tangle.RandomNFTID(t)).
		AddFoundry(tangle.RandomFoundryID(t)).
		AddNativeToken(tangle.RandomTokenID(t), tangle.RandomAmount(t))

	buf, err := cbor.Marshal(src)
	require.NoError(t, err)

	var dst Burn
	require.NoError(t, cbor.Unmarshal(buf, &dst))
	require.ElementsMatch(t, src.Accounts, dst.Accounts)
	require.ElementsMatch(t, src.NFTs, dst.NFTs)
	require.ElementsMatch(t, src.Foundries, dst.Foundries)
	require.Equal(t, src.NativeTokens, dst.NativeTokens)
}

func Test_Burn_native_tokens_keys_unique(t *testing.T) {
	// the mapping is key-unique structurally; decoding a document with
	// a duplicate key must not yield two amounts for one class
	var dst Burn
	err := json.Unmarshal([]byte(`{"nativeTokens":{
		"`+tokenIDHex(t, 1)+`":"0x1",
		"`+tokenIDHex(t, 1)+`":"0x2"
	}}`), &dst)
	require.NoError(t, err)
	require.Len(t, dst.NativeTokens, 1)
}

func tokenIDHex(t *testing.T, fill byte) string {
	t.Helper()
	var accountID types.AccountID
	accountID[0] = fill
	id, err := types.NewFoundryID(types.NewAccountAddress(accountID), uint32(fill), types.TokenSchemeSimple)
	require.NoError(t, err)
	return id.String()
}
