package wallet

import (
	"slices"

	"github.com/holiman/uint256"

	"github.com/tangleline/tangleline-go-sdk/cbor"
	"github.com/tangleline/tangleline-go-sdk/types"
)

type (
	// Burn describes which ledger objects a transaction should destroy:
	// accounts, NFTs, foundries and amounts of native tokens. It is a
	// passive value type, all fields are optional and an empty Burn is
	// a valid "burn nothing" request. Whether the referenced objects
	// exist, are owned by the wallet and the token balances suffice is
	// checked when the transaction is built, not here.
	Burn struct {
		Accounts  []types.AccountID `json:"accounts,omitempty"`
		NFTs      []types.NFTID     `json:"nfts,omitempty"`
		Foundries []types.FoundryID `json:"foundries,omitempty"`
		// NativeTokens maps the token class to the amount to burn, one
		// amount per class by construction.
		NativeTokens map[types.NativeTokenID]*uint256.Int `json:"nativeTokens,omitempty"`
	}

	burnWire struct {
		_            struct{} `cbor:",toarray"`
		Accounts     []types.AccountID
		NFTs         []types.NFTID
		Foundries    []types.FoundryID
		NativeTokens map[types.NativeTokenID][]byte
	}
)

func NewBurn() *Burn {
	return &Burn{}
}

func (b *Burn) IsEmpty() bool {
	return b == nil ||
		len(b.Accounts) == 0 && len(b.NFTs) == 0 && len(b.Foundries) == 0 && len(b.NativeTokens) == 0
}

// AddAccount adds the account to the set of accounts to burn.
func (b *Burn) AddAccount(id types.AccountID) *Burn {
	if !slices.Contains(b.Accounts, id) {
		b.Accounts = append(b.Accounts, id)
	}
	return b
}

// AddNFT adds the NFT to the set of NFTs to burn.
func (b *Burn) AddNFT(id types.NFTID) *Burn {
	if !slices.Contains(b.NFTs, id) {
		b.NFTs = append(b.NFTs, id)
	}
	return b
}

// AddFoundry adds the foundry to the set of foundries to burn.
func (b *Burn) AddFoundry(id types.FoundryID) *Burn {
	if !slices.Contains(b.Foundries, id) {
		b.Foundries = append(b.Foundries, id)
	}
	return b
}

// AddNativeToken sets the amount of the native token class to burn,
// replacing any amount set for the class before.
func (b *Burn) AddNativeToken(id types.NativeTokenID, amount *uint256.Int) *Burn {
	if b.NativeTokens == nil {
		b.NativeTokens = map[types.NativeTokenID]*uint256.Int{}
	}
	b.NativeTokens[id] = amount
	return b
}

func (b Burn) MarshalCBOR() ([]byte, error) {
	w := burnWire{
		Accounts:  b.Accounts,
		NFTs:      b.NFTs,
		Foundries: b.Foundries,
	}
	if len(b.NativeTokens) > 0 {
		w.NativeTokens = make(map[types.NativeTokenID][]byte, len(b.NativeTokens))
		for id, amount := range b.NativeTokens {
			w.NativeTokens[id] = amount.Bytes()
		}
	}
	return cbor.Marshal(w)
}

func (b *Burn) UnmarshalCBOR(data []byte) error {
	var w burnWire
	if err := cbor.Unmarshal(data, &w); err != nil {
		return err
	}
	b.Accounts, b.NFTs, b.Foundries, b.NativeTokens = w.Accounts, w.NFTs, w.Foundries, nil
	if len(w.NativeTokens) > 0 {
		b.NativeTokens = make(map[types.NativeTokenID]*uint256.Int, len(w.NativeTokens))
		for id, amount := range w.NativeTokens {
			b.NativeTokens[id] = new(uint256.Int).SetBytes(amount)
		}
	}
	return nil
}
