package wallet

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tangleline/tangleline-go-sdk/cbor"
	"github.com/tangleline/tangleline-go-sdk/types"
)

type (
	// LedgerParameters is the protocol wide data the wallet needs to
	// interpret outputs: network, address prefix, storage pricing and
	// the slot timing model.
	LedgerParameters struct {
		_                 struct{}             `cbor:",toarray"`
		NetworkID         uint64               `json:"networkId"`
		Bech32HRP         string               `json:"bech32Hrp"`
		RentParameters    types.RentParameters `json:"rentParameters"`
		SlotParameters    types.SlotParameters `json:"slotParameters"`
		MinCommittableAge uint32               `json:"minCommittableAge"`
		MaxCommittableAge uint32               `json:"maxCommittableAge"`
	}

	// AddressWithUnspentOutputs is a wallet address together with the
	// IDs of the unspent outputs unlockable by it.
	AddressWithUnspentOutputs struct {
		_         struct{}         `cbor:",toarray"`
		Address   types.Address    `json:"address"`
		KeyIndex  uint32           `json:"keyIndex"`
		OutputIDs []types.OutputID `json:"outputIds"`
	}

	// OutputRecord is an unspent output as tracked by the wallet.
	OutputRecord struct {
		OutputID  types.OutputID `json:"outputId"`
		NetworkID uint64         `json:"networkId"`
		Output    types.Output   `json:"output"`
	}

	outputRecordWire struct {
		_         struct{} `cbor:",toarray"`
		OutputID  types.OutputID
		NetworkID uint64
		Output    []byte
	}

	// AccountDetails is the persisted state of one wallet account.
	AccountDetails struct {
		_                           struct{}                        `cbor:",toarray"`
		Alias                       string                          `json:"alias"`
		Index                       uint32                          `json:"index"`
		AddressesWithUnspentOutputs []AddressWithUnspentOutputs     `json:"addressesWithUnspentOutputs"`
		UnspentOutputs              map[types.OutputID]OutputRecord `json:"unspentOutputs"`
		// LockedOutputs are outputs reserved by in-flight transactions.
		LockedOutputs map[types.OutputID]bool `json:"lockedOutputs"`
	}

	// Account is a handle for balance and transaction operations over
	// one account's details.
	Account struct {
		details *AccountDetails
		params  LedgerParameters
		log     *zap.Logger
		now     func() time.Time
	}
)

func (r OutputRecord) MarshalCBOR() ([]byte, error) {
	out, err := types.MarshalOutput(r.Output)
	if err != nil {
		return nil, err
	}
	return cbor.Marshal(outputRecordWire{OutputID: r.OutputID, NetworkID: r.NetworkID, Output: out})
}

func (r *OutputRecord) UnmarshalCBOR(data []byte) error {
	var w outputRecordWire
	if err := cbor.Unmarshal(data, &w); err != nil {
		return err
	}
	out, err := types.UnmarshalOutput(w.Output)
	if err != nil {
		return err
	}
	r.OutputID, r.NetworkID, r.Output = w.OutputID, w.NetworkID, out
	return nil
}

// NewAccount wraps account details into an operation handle.
func NewAccount(details *AccountDetails, params LedgerParameters, log *zap.Logger) (*Account, error) {
	if details == nil {
		return nil, fmt.Errorf("account details must be assigned")
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Account{
		details: details,
		params:  params,
		log:     log.With(zap.String("account", details.Alias)),
		now:     time.Now,
	}, nil
}

func (a *Account) Alias() string { return a.details.Alias }

func (a *Account) Details() *AccountDetails { return a.details }

// currentSlot maps the wall clock onto the ledger slot model.
func (a *Account) currentSlot() types.SlotIndex {
	return a.params.SlotParameters.SlotFromUnixTime(uint64(a.now().Unix()))
}

// Addresses returns all addresses of the account.
func (a *Account) Addresses() []types.Address {
	addrs := make([]types.Address, len(a.details.AddressesWithUnspentOutputs))
	for i, awo := range a.details.AddressesWithUnspentOutputs {
		addrs[i] = awo.Address
	}
	return addrs
}

func (a *Account) ownsAddress(addr types.Address) bool {
	for _, awo := range a.details.AddressesWithUnspentOutputs {
		if awo.Address.Eq(addr) {
			return true
		}
	}
	return false
}
