package wallet

import (
	"path/filepath"
	"sort"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/tangleline/tangleline-go-sdk/testutils/tangle"
	"github.com/tangleline/tangleline-go-sdk/types"
	"github.com/tangleline/tangleline-go-sdk/wallet/storage"
	"github.com/tangleline/tangleline-go-sdk/wallet/stronghold"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func testClientConfig(t *testing.T) *Config {
	t.Helper()
	dir := t.TempDir()
	return &Config{
		NodeURL:                "https://node.example:14265",
		StrongholdPassword:     "open sesame",
		StrongholdSnapshotPath: filepath.Join(dir, "wallet.stronghold"),
		Mnemonic:               testMnemonic,
		StoragePath:            filepath.Join(dir, "walletdb"),
	}
}

func Test_Client_AccountRoundTrip(t *testing.T) {
	client, err := NewClient(testClientConfig(t))
	require.NoError(t, err)
	defer func() { require.NoError(t, client.Close()) }()

	addr := tangle.RandomEd25519Address(t)
	outputID := tangle.RandomOutputID(t)
	details := &AccountDetails{
		Alias: "savings",
		Index: 3,
		AddressesWithUnspentOutputs: []AddressWithUnspentOutputs{
			{Address: addr, KeyIndex: 0, OutputIDs: []types.OutputID{outputID}},
		},
		UnspentOutputs: map[types.OutputID]OutputRecord{
			outputID: {
				OutputID:  outputID,
				NetworkID: DefaultLedgerParameters.NetworkID,
				Output:    basicOwnedBy(addr),
			},
		},
		LockedOutputs: map[types.OutputID]bool{},
	}
	require.NoError(t, client.SaveAccount(details))

	loaded, err := client.Account("savings")
	require.NoError(t, err)
	require.Equal(t, details, loaded.Details())

	_, err = client.Account("no-such-account")
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func Test_Client_SecretManager(t *testing.T) {
	cfg := testClientConfig(t)

	client, err := NewClient(cfg)
	require.NoError(t, err)
	require.NoFileExists(t, cfg.StrongholdSnapshotPath)

	secrets, err := client.SecretManager()
	require.NoError(t, err)
	require.FileExists(t, cfg.StrongholdSnapshotPath)
	addr, err := secrets.Address(0)
	require.NoError(t, err)
	require.NoError(t, client.Close())

	t.Run("snapshot is reused", func(t *testing.T) {
		client2, err := NewClient(cfg)
		require.NoError(t, err)
		defer func() { require.NoError(t, client2.Close()) }()

		secrets2, err := client2.SecretManager()
		require.NoError(t, err)
		addr2, err := secrets2.Address(0)
		require.NoError(t, err)
		require.True(t, addr.Eq(addr2))
	})

	t.Run("wrong password", func(t *testing.T) {
		badCfg := *cfg
		badCfg.StrongholdPassword = "not the password"
		client3, err := NewClient(&badCfg)
		require.NoError(t, err)

		_, err = client3.SecretManager()
		require.ErrorIs(t, err, stronghold.ErrDecrypt)
	})
}

func Test_Client_PrepareBurn(t *testing.T) {
	client, err := NewClient(testClientConfig(t))
	require.NoError(t, err)

	t.Run("empty burn", func(t *testing.T) {
		acc, _ := newTestAccount(t, 100)
		_, err := client.PrepareBurn(acc, NewBurn())
		require.ErrorIs(t, err, ErrEmptyBurn)
	})

	t.Run("objects not held by the wallet", func(t *testing.T) {
		acc, _ := newTestAccount(t, 100)

		_, err := client.PrepareBurn(acc, NewBurn().AddAccount(tangle.RandomAccountID(t)))
		require.ErrorContains(t, err, "is not held by the wallet")
		_, err = client.PrepareBurn(acc, NewBurn().AddNFT(tangle.RandomNFTID(t)))
		require.ErrorContains(t, err, "is not held by the wallet")
		_, err = client.PrepareBurn(acc, NewBurn().AddFoundry(tangle.RandomFoundryID(t)))
		require.ErrorContains(t, err, "is not held by the wallet")
	})

	t.Run("burning assets selects their outputs", func(t *testing.T) {
		acc, addr := newTestAccount(t, 100)
		accountOutID := addOutput(t, acc, &types.AccountOutput{
			Amount:           100,
			UnlockConditions: types.UnlockConditions{Address: &types.AddressUnlockCondition{Address: addr}},
		})
		nftOutID := addOutput(t, acc, &types.NFTOutput{
			Amount:           100,
			UnlockConditions: types.UnlockConditions{Address: &types.AddressUnlockCondition{Address: addr}},
		})
		// an unrelated output must not be selected
		addOutput(t, acc, basicOwnedBy(addr))

		burn := NewBurn().
			AddAccount(types.AccountIDFromOutputID(accountOutID)).
			AddNFT(types.NFTIDFromOutputID(nftOutID))
		prepared, err := client.PrepareBurn(acc, burn)
		require.NoError(t, err)
		require.Equal(t, burn, prepared.Burn)
		require.ElementsMatch(t, []types.OutputID{accountOutID, nftOutID}, prepared.Inputs)
		require.True(t, sort.SliceIsSorted(prepared.Inputs, func(i, j int) bool {
			return prepared.Inputs[i].Compare(prepared.Inputs[j]) < 0
		}))
	})

	t.Run("burning a foundry", func(t *testing.T) {
		acc, _ := newTestAccount(t, 100)
		foundry := &types.FoundryOutput{
			Amount:       100,
			SerialNumber: 7,
			TokenScheme: types.TokenScheme{
				Kind:          types.TokenSchemeSimple,
				Minted:        uint256.NewInt(10),
				Melted:        uint256.NewInt(0),
				MaximumSupply: uint256.NewInt(1000),
			},
			UnlockConditions: types.UnlockConditions{
				Address: &types.AddressUnlockCondition{Address: tangle.RandomAccountAddress(t)},
			},
		}
		foundryOutID := addOutput(t, acc, foundry)
		foundryID, err := foundry.ID()
		require.NoError(t, err)

		prepared, err := client.PrepareBurn(acc, NewBurn().AddFoundry(foundryID))
		require.NoError(t, err)
		require.Equal(t, []types.OutputID{foundryOutID}, prepared.Inputs)
	})

	t.Run("zero token amount", func(t *testing.T) {
		acc, _ := newTestAccount(t, 100)
		burn := NewBurn().AddNativeToken(tangle.RandomTokenID(t), uint256.NewInt(0))
		_, err := client.PrepareBurn(acc, burn)
		require.ErrorContains(t, err, "must not be zero")
	})

	t.Run("token amount exceeds the available balance", func(t *testing.T) {
		acc, addr := newTestAccount(t, 100)
		tokenID := tangle.RandomTokenID(t)
		out := basicOwnedBy(addr)
		out.NativeTokens = []types.NativeToken{{ID: tokenID, Amount: uint256.NewInt(30)}}
		addOutput(t, acc, out)

		_, err := client.PrepareBurn(acc, NewBurn().AddNativeToken(tokenID, uint256.NewInt(31)))
		require.ErrorContains(t, err, "exceeds available balance")
	})

	t.Run("burning tokens selects all outputs holding them", func(t *testing.T) {
		acc, addr := newTestAccount(t, 100)
		tokenID := tangle.RandomTokenID(t)
		first := basicOwnedBy(addr)
		first.NativeTokens = []types.NativeToken{{ID: tokenID, Amount: uint256.NewInt(30)}}
		firstID := addOutput(t, acc, first)
		second := basicOwnedBy(addr)
		second.NativeTokens = []types.NativeToken{{ID: tokenID, Amount: uint256.NewInt(12)}}
		secondID := addOutput(t, acc, second)
		addOutput(t, acc, basicOwnedBy(addr))

		prepared, err := client.PrepareBurn(acc, NewBurn().AddNativeToken(tokenID, uint256.NewInt(40)))
		require.NoError(t, err)
		require.ElementsMatch(t, []types.OutputID{firstID, secondID}, prepared.Inputs)
	})
}
