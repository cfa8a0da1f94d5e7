package wallet

import (
	"github.com/tangleline/tangleline-go-sdk/types"
)

// CanOutputBeUnlockedNow reports whether any of the wallet addresses
// can unlock the output at the given slot: the output must not be
// timelocked and the address required at the slot (expiration aware)
// must belong to the wallet.
func CanOutputBeUnlockedNow(walletAddresses []types.Address, out types.Output, slot types.SlotIndex, minCommittableAge, maxCommittableAge uint32) bool {
	uc := out.Conditions()
	if uc.IsTimelocked(slot, minCommittableAge) {
		return false
	}
	required := uc.RequiredAddress(slot, minCommittableAge, maxCommittableAge)
	if required == nil {
		return false
	}
	for _, addr := range walletAddresses {
		if addr.Eq(*required) {
			return true
		}
	}
	return false
}

// CanOutputBeUnlockedForeverFromNowOn reports whether the wallet can
// unlock the output now and at any point in the future: not
// timelocked, and any expiration condition already resolved in the
// wallet's favour (the return address is ours and its claim window is
// open for good).
func CanOutputBeUnlockedForeverFromNowOn(walletAddresses []types.Address, out types.Output, slot types.SlotIndex, minCommittableAge, maxCommittableAge uint32) bool {
	uc := out.Conditions()
	if uc == nil {
		return false
	}
	if uc.IsTimelocked(slot, minCommittableAge) {
		return false
	}
	if exp := uc.Expiration; exp != nil {
		if slot+types.SlotIndex(minCommittableAge) < exp.Slot {
			return false
		}
		owned := false
		for _, addr := range walletAddresses {
			if addr.Eq(exp.ReturnAddress) {
				owned = true
				break
			}
		}
		if !owned {
			return false
		}
	}
	return true
}
