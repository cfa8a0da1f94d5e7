package wallet

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/holiman/uint256"
	"go.uber.org/zap"

	"github.com/tangleline/tangleline-go-sdk/types"
	"github.com/tangleline/tangleline-go-sdk/util"
)

type (
	BaseCoinBalance struct {
		Total uint64 `json:"total"`
		// Available is the total minus amounts locked by in-flight
		// transactions and storage deposits which can not be spent
		// without burning other assets.
		Available uint64 `json:"available"`
	}

	// RequiredStorageDeposit is the base coin amount tied up as storage
	// deposit, per output kind.
	RequiredStorageDeposit struct {
		Basic   uint64 `json:"basic"`
		Account uint64 `json:"account"`
		Foundry uint64 `json:"foundry"`
		NFT     uint64 `json:"nft"`
	}

	NativeTokenBalance struct {
		TokenID   types.NativeTokenID `json:"tokenId"`
		Total     *uint256.Int        `json:"total"`
		Available *uint256.Int        `json:"available"`
	}

	Balance struct {
		BaseCoin               BaseCoinBalance        `json:"baseCoin"`
		RequiredStorageDeposit RequiredStorageDeposit `json:"requiredStorageDeposit"`
		NativeTokens           []NativeTokenBalance   `json:"nativeTokens,omitempty"`
		Accounts               []types.AccountID      `json:"accounts,omitempty"`
		Foundries              []types.FoundryID      `json:"foundries,omitempty"`
		NFTs                   []types.NFTID          `json:"nfts,omitempty"`
		// PotentiallyLockedOutputs are outputs whose unlock conditions
		// keep their amounts out of the balance for now; the value
		// tells whether the output is claimable at the moment.
		PotentiallyLockedOutputs map[types.OutputID]bool `json:"potentiallyLockedOutputs,omitempty"`
	}
)

func (b *Balance) merge(other *Balance) {
	b.BaseCoin.Total += other.BaseCoin.Total
	b.RequiredStorageDeposit.Basic += other.RequiredStorageDeposit.Basic
	b.RequiredStorageDeposit.Account += other.RequiredStorageDeposit.Account
	b.RequiredStorageDeposit.Foundry += other.RequiredStorageDeposit.Foundry
	b.RequiredStorageDeposit.NFT += other.RequiredStorageDeposit.NFT
	b.Accounts = append(b.Accounts, other.Accounts...)
	b.Foundries = append(b.Foundries, other.Foundries...)
	b.NFTs = append(b.NFTs, other.NFTs...)
}

// Balance aggregates the balance over all addresses of the account.
func (a *Account) Balance() (*Balance, error) {
	a.log.Debug("computing balance")
	return a.balance(a.details.AddressesWithUnspentOutputs)
}

// AddressesBalance aggregates the balance over the given addresses
// only. All of them must belong to the account.
func (a *Account) AddressesBalance(addresses []types.Address) (*Balance, error) {
	a.log.Debug("computing addresses balance", zap.Int("addresses", len(addresses)))

	selected := make([]AddressWithUnspentOutputs, 0, len(addresses))
	for _, addr := range addresses {
		found := false
		for _, awo := range a.details.AddressesWithUnspentOutputs {
			if awo.Address.Eq(addr) {
				selected = append(selected, awo)
				found = true
				break
			}
		}
		if !found {
			bech, _ := addr.Bech32(a.params.Bech32HRP)
			return nil, fmt.Errorf("address %s does not belong to the account", bech)
		}
	}
	return a.balance(selected)
}

func (a *Account) balance(addresses []AddressWithUnspentOutputs) (*Balance, error) {
	var (
		slot            = a.currentSlot()
		walletAddresses = a.Addresses()
		balance         = &Balance{PotentiallyLockedOutputs: map[types.OutputID]bool{}}
		totalRent       uint64
		totalTokens     = map[types.NativeTokenID]*uint256.Int{}
	)

	for _, awo := range addresses {
		for _, outputID := range awo.OutputIDs {
			rec, ok := a.details.UnspentOutputs[outputID]
			if !ok {
				continue
			}
			// skip outputs from other networks
			if rec.NetworkID != a.params.NetworkID {
				continue
			}
			out := rec.Output
			rent, err := types.RentCost(out, a.params.RentParameters)
			if err != nil {
				return nil, fmt.Errorf("output %s: %w", outputID, err)
			}

			outputBalance := &Balance{BaseCoin: BaseCoinBalance{Total: out.BaseAmount()}}
			switch o := out.(type) {
			case *types.BasicOutput:
				outputBalance.RequiredStorageDeposit.Basic += rent
			case *types.AccountOutput:
				outputBalance.RequiredStorageDeposit.Account += rent
				outputBalance.Accounts = append(outputBalance.Accounts, o.AccountIDNonEmpty(outputID))
			case *types.FoundryOutput:
				outputBalance.RequiredStorageDeposit.Foundry += rent
				foundryID, err := o.ID()
				if err != nil {
					return nil, fmt.Errorf("output %s: %w", outputID, err)
				}
				outputBalance.Foundries = append(outputBalance.Foundries, foundryID)
			case *types.NFTOutput:
				outputBalance.RequiredStorageDeposit.NFT += rent
				outputBalance.NFTs = append(outputBalance.NFTs, o.NFTIDNonEmpty(outputID))
			}

			if !a.details.LockedOutputs[outputID] {
				// the deposit of a plain basic output is spendable
				// without burning anything, unless it carries native
				// tokens
				if out.Kind() != types.OutputBasic || len(out.Tokens()) > 0 {
					totalRent += rent
				}
			}

			addTokens(totalTokens, out.Tokens())

			if out.Conditions().OnlyAddress() {
				balance.merge(outputBalance)
				continue
			}

			minAge, maxAge := a.params.MinCommittableAge, a.params.MaxCommittableAge
			if CanOutputBeUnlockedNow(walletAddresses, out, slot, minAge, maxAge) {
				if CanOutputBeUnlockedForeverFromNowOn(walletAddresses, out, slot, minAge, maxAge) {
					// a storage deposit return owed to someone else
					// must be sent back, it is not ours to spend
					if sdr := out.Conditions().StorageDepositReturn; sdr != nil && !a.ownsAddress(sdr.ReturnAddress) {
						outputBalance.BaseCoin.Total -= sdr.Amount
					}
					balance.merge(outputBalance)
				} else {
					balance.PotentiallyLockedOutputs[outputID] = true
				}
				continue
			}

			// not claimable by us; an already expired output went to
			// the other party for good and is dropped entirely
			if exp := out.Conditions().Expiration; exp != nil && slot+types.SlotIndex(minAge) >= exp.Slot {
				continue
			}
			balance.PotentiallyLockedOutputs[outputID] = false
		}
	}

	return a.finishBalance(balance, totalRent, totalTokens)
}

func (a *Account) finishBalance(balance *Balance, totalRent uint64, totalTokens map[types.NativeTokenID]*uint256.Int) (*Balance, error) {
	var (
		lockedAmount uint64
		lockedTokens = map[types.NativeTokenID]*uint256.Int{}
	)
	for outputID := range a.details.LockedOutputs {
		// potentially locked outputs never contributed to the totals
		if _, ok := balance.PotentiallyLockedOutputs[outputID]; ok {
			continue
		}
		rec, ok := a.details.UnspentOutputs[outputID]
		if !ok || rec.NetworkID != a.params.NetworkID {
			continue
		}
		lockedAmount += rec.Output.BaseAmount()
		addTokens(lockedTokens, rec.Output.Tokens())
	}

	a.log.Debug("balance totals",
		zap.Uint64("total", balance.BaseCoin.Total),
		zap.Uint64("locked", lockedAmount),
		zap.Uint64("rent", totalRent),
	)
	lockedAmount, ok := util.SafeAdd(lockedAmount, totalRent)
	if !ok {
		return nil, fmt.Errorf("locked amount overflows uint64")
	}

	for _, tokenID := range sortedTokenIDs(totalTokens) {
		total := totalTokens[tokenID]
		available := new(uint256.Int).Set(total)
		if locked, ok := lockedTokens[tokenID]; ok {
			available.Sub(available, locked)
		}
		balance.NativeTokens = append(balance.NativeTokens, NativeTokenBalance{
			TokenID:   tokenID,
			Total:     total,
			Available: available,
		})
	}

	if available, ok := util.SafeSub(balance.BaseCoin.Total, lockedAmount); ok {
		balance.BaseCoin.Available = available
	}
	return balance, nil
}

func addTokens(acc map[types.NativeTokenID]*uint256.Int, tokens []types.NativeToken) {
	for _, token := range tokens {
		if token.Amount == nil {
			continue
		}
		sum, ok := acc[token.ID]
		if !ok {
			sum = uint256.NewInt(0)
			acc[token.ID] = sum
		}
		sum.Add(sum, token.Amount)
	}
}

func sortedTokenIDs(tokens map[types.NativeTokenID]*uint256.Int) []types.NativeTokenID {
	ids := make([]types.NativeTokenID, 0, len(tokens))
	for id := range tokens {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return bytes.Compare(ids[i][:], ids[j][:]) < 0 })
	return ids
}
