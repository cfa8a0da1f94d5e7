package types

import (
	"fmt"

	"github.com/tangleline/tangleline-go-sdk/cbor"
)

const (
	OutputBasic   OutputKind = 0
	OutputAccount OutputKind = 1
	OutputFoundry OutputKind = 2
	OutputNFT     OutputKind = 3
)

// CBOR tags marking the concrete output type in the (otherwise
// untyped) encoding, outputKindTagBase + OutputKind.
const outputKindTagBase cbor.Tag = 1000

type (
	OutputKind byte

	// Output is a ledger UTXO. Base coins live in outputs directly,
	// native tokens, accounts, foundries and NFTs live in the
	// corresponding output kinds.
	Output interface {
		Kind() OutputKind
		// BaseAmount is the amount of base coins held by the output.
		BaseAmount() uint64
		// Tokens is the native tokens held by the output, nil for
		// output kinds which can not hold any.
		Tokens() []NativeToken
		Conditions() *UnlockConditions
		IsValid() error
	}

	BasicOutput struct {
		_                struct{}         `cbor:",toarray"`
		Amount           uint64           `json:"amount"`
		NativeTokens     []NativeToken    `json:"nativeTokens,omitempty"`
		UnlockConditions UnlockConditions `json:"unlockConditions"`
	}

	AccountOutput struct {
		_                struct{}         `cbor:",toarray"`
		Amount           uint64           `json:"amount"`
		AccountID        AccountID        `json:"accountId"`
		FoundryCounter   uint32           `json:"foundryCounter"`
		UnlockConditions UnlockConditions `json:"unlockConditions"`
	}

	// FoundryOutput controls minting and melting of one native token
	// class. Its address unlock condition holds the controlling
	// account address.
	FoundryOutput struct {
		_                struct{}         `cbor:",toarray"`
		Amount           uint64           `json:"amount"`
		SerialNumber     uint32           `json:"serialNumber"`
		TokenScheme      TokenScheme      `json:"tokenScheme"`
		NativeTokens     []NativeToken    `json:"nativeTokens,omitempty"`
		UnlockConditions UnlockConditions `json:"unlockConditions"`
	}

	NFTOutput struct {
		_                struct{}         `cbor:",toarray"`
		Amount           uint64           `json:"amount"`
		NFTID            NFTID            `json:"nftId"`
		UnlockConditions UnlockConditions `json:"unlockConditions"`
	}

	// RentParameters prices the perpetual storage of an output, the
	// deposit an output must hold to stay on the ledger.
	RentParameters struct {
		_ struct{} `cbor:",toarray"`
		// StorageCost is the base coin price of one weighted byte.
		StorageCost uint64 `json:"storageCost"`
		// StorageOffset is the weighted byte count charged for the
		// bookkeeping shared by all outputs (output ID, block ID etc).
		StorageOffset uint64 `json:"storageOffset"`
	}
)

func (k OutputKind) String() string {
	switch k {
	case OutputBasic:
		return "basic"
	case OutputAccount:
		return "account"
	case OutputFoundry:
		return "foundry"
	case OutputNFT:
		return "nft"
	default:
		return fmt.Sprintf("unknown output kind %d", byte(k))
	}
}

func (o *BasicOutput) Kind() OutputKind                { return OutputBasic }
func (o *BasicOutput) BaseAmount() uint64              { return o.Amount }
func (o *BasicOutput) Tokens() []NativeToken           { return o.NativeTokens }
func (o *BasicOutput) Conditions() *UnlockConditions   { return &o.UnlockConditions }
func (o *AccountOutput) Kind() OutputKind              { return OutputAccount }
func (o *AccountOutput) BaseAmount() uint64            { return o.Amount }
func (o *AccountOutput) Tokens() []NativeToken         { return nil }
func (o *AccountOutput) Conditions() *UnlockConditions { return &o.UnlockConditions }
func (o *FoundryOutput) Kind() OutputKind              { return OutputFoundry }
func (o *FoundryOutput) BaseAmount() uint64            { return o.Amount }
func (o *FoundryOutput) Tokens() []NativeToken         { return o.NativeTokens }
func (o *FoundryOutput) Conditions() *UnlockConditions { return &o.UnlockConditions }
func (o *NFTOutput) Kind() OutputKind                  { return OutputNFT }
func (o *NFTOutput) BaseAmount() uint64                { return o.Amount }
func (o *NFTOutput) Tokens() []NativeToken             { return nil }
func (o *NFTOutput) Conditions() *UnlockConditions     { return &o.UnlockConditions }

func (o *BasicOutput) IsValid() error {
	return o.UnlockConditions.IsValid()
}

func (o *AccountOutput) IsValid() error {
	return o.UnlockConditions.IsValid()
}

func (o *FoundryOutput) IsValid() error {
	if err := o.UnlockConditions.IsValid(); err != nil {
		return err
	}
	if o.UnlockConditions.Address.Address.Kind != AddressAccount {
		return fmt.Errorf("foundry must be controlled by an account address, got %s", o.UnlockConditions.Address.Address.Kind)
	}
	return o.TokenScheme.IsValid()
}

func (o *NFTOutput) IsValid() error {
	return o.UnlockConditions.IsValid()
}

// AccountIDNonEmpty returns the account ID, deriving it from the
// creating output ID when the output still carries the empty
// placeholder ID.
func (o *AccountOutput) AccountIDNonEmpty(outputID OutputID) AccountID {
	if o.AccountID.IsEmpty() {
		return AccountIDFromOutputID(outputID)
	}
	return o.AccountID
}

// NFTIDNonEmpty returns the NFT ID, deriving it from the creating
// output ID when the output still carries the empty placeholder ID.
func (o *NFTOutput) NFTIDNonEmpty(outputID OutputID) NFTID {
	if o.NFTID.IsEmpty() {
		return NFTIDFromOutputID(outputID)
	}
	return o.NFTID
}

// ID composes the foundry ID from the controlling account address, the
// serial number and the token scheme kind.
func (o *FoundryOutput) ID() (FoundryID, error) {
	if o.UnlockConditions.Address == nil {
		return FoundryID{}, fmt.Errorf("foundry output has no controlling address")
	}
	return NewFoundryID(o.UnlockConditions.Address.Address, o.SerialNumber, o.TokenScheme.Kind)
}

// TokenID returns the ID of the native token class minted by the
// foundry, which equals the foundry ID.
func (o *FoundryOutput) TokenID() (NativeTokenID, error) {
	return o.ID()
}

// RentCost returns the storage deposit the output must hold to stay on
// the ledger: the storage cost times the weighted size of the output.
func RentCost(o Output, p RentParameters) (uint64, error) {
	buf, err := MarshalOutput(o)
	if err != nil {
		return 0, fmt.Errorf("serializing output: %w", err)
	}
	return p.StorageCost * (p.StorageOffset + uint64(len(buf))), nil
}

// MarshalOutput encodes the output as a tagged CBOR value so that the
// concrete type survives the round trip.
func MarshalOutput(o Output) ([]byte, error) {
	if o == nil {
		return nil, fmt.Errorf("output is nil")
	}
	return cbor.MarshalTaggedValue(outputKindTagBase+cbor.Tag(o.Kind()), o)
}

// UnmarshalOutput decodes an output encoded by MarshalOutput.
func UnmarshalOutput(data []byte) (Output, error) {
	tag, content, err := cbor.UnmarshalTagged(data)
	if err != nil {
		return nil, fmt.Errorf("decoding output tag: %w", err)
	}
	if tag < outputKindTagBase || tag > outputKindTagBase+cbor.Tag(OutputNFT) {
		return nil, fmt.Errorf("unknown output tag %d", tag)
	}
	var out Output
	switch OutputKind(tag - outputKindTagBase) {
	case OutputBasic:
		out = &BasicOutput{}
	case OutputAccount:
		out = &AccountOutput{}
	case OutputFoundry:
		out = &FoundryOutput{}
	case OutputNFT:
		out = &NFTOutput{}
	default:
		return nil, fmt.Errorf("unknown output tag %d", tag)
	}
	if err := cbor.Unmarshal(content, out); err != nil {
		return nil, err
	}
	return out, nil
}
