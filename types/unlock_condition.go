package types

import (
	"errors"
)

// ErrTimelockZero is returned when a timelock unlock condition is
// created with slot index zero - such a condition would never lock.
var ErrTimelockZero = errors.New("timelock slot index must not be zero")

type (
	// UnlockConditions is the set of unlock conditions of an output. An
	// output carries at most one condition of each kind, absent kinds
	// are nil.
	UnlockConditions struct {
		_                    struct{}                             `cbor:",toarray"`
		Address              *AddressUnlockCondition              `json:"address,omitempty"`
		StorageDepositReturn *StorageDepositReturnUnlockCondition `json:"storageDepositReturn,omitempty"`
		Timelock             *TimelockUnlockCondition             `json:"timelock,omitempty"`
		Expiration           *ExpirationUnlockCondition           `json:"expiration,omitempty"`
	}

	// AddressUnlockCondition names the address which may unlock the
	// output (subject to the other conditions).
	AddressUnlockCondition struct {
		_       struct{} `cbor:",toarray"`
		Address Address  `json:"address"`
	}

	// StorageDepositReturnUnlockCondition obligates the consumer of the
	// output to return Amount base coins to the return address.
	StorageDepositReturnUnlockCondition struct {
		_             struct{} `cbor:",toarray"`
		ReturnAddress Address  `json:"returnAddress"`
		Amount        uint64   `json:"amount"`
	}

	// TimelockUnlockCondition defines a slot index until which the
	// output can not be unlocked.
	TimelockUnlockCondition struct {
		_    struct{}  `cbor:",toarray"`
		Slot SlotIndex `json:"slot"`
	}

	// ExpirationUnlockCondition hands the output over to the return
	// address once the expiration slot is reached.
	ExpirationUnlockCondition struct {
		_             struct{}  `cbor:",toarray"`
		ReturnAddress Address   `json:"returnAddress"`
		Slot          SlotIndex `json:"slot"`
	}
)

func NewTimelockUnlockCondition(slot SlotIndex) (*TimelockUnlockCondition, error) {
	if slot == 0 {
		return nil, ErrTimelockZero
	}
	return &TimelockUnlockCondition{Slot: slot}, nil
}

// IsTimelocked reports whether the timelock is still in effect at the
// given slot. A transaction created at the slot can be committed up to
// minCommittableAge slots later, so the lock holds while
// slot + minCommittableAge is before the timelock slot.
func (t *TimelockUnlockCondition) IsTimelocked(slot SlotIndex, minCommittableAge uint32) bool {
	return slot+SlotIndex(minCommittableAge) < t.Slot
}

func (u *UnlockConditions) IsValid() error {
	if u == nil {
		return errors.New("output must have unlock conditions")
	}
	if u.Address == nil {
		return errors.New("output must have an address unlock condition")
	}
	if err := u.Address.Address.IsValid(); err != nil {
		return err
	}
	if u.Timelock != nil && u.Timelock.Slot == 0 {
		return ErrTimelockZero
	}
	return nil
}

func (u *UnlockConditions) IsTimelocked(slot SlotIndex, minCommittableAge uint32) bool {
	return u != nil && u.Timelock != nil && u.Timelock.IsTimelocked(slot, minCommittableAge)
}

// OnlyAddress reports whether the address condition is the only one
// set, i.e. the output is spendable by its owner without restrictions.
func (u *UnlockConditions) OnlyAddress() bool {
	return u != nil && u.Address != nil &&
		u.StorageDepositReturn == nil && u.Timelock == nil && u.Expiration == nil
}

/*
RequiredAddress returns the address which may unlock the output at the
given slot, ignoring timelocks.

Without an expiration condition that is always the target address. With
one, the target address may unlock while the transaction is guaranteed
to commit before the expiration slot (slot + maxCommittableAge is
before it) and the return address once the transaction is guaranteed to
commit after it (slot + minCommittableAge reaches it). In the window
between the two neither party can safely unlock and nil is returned.
*/
func (u *UnlockConditions) RequiredAddress(slot SlotIndex, minCommittableAge, maxCommittableAge uint32) *Address {
	if u == nil || u.Address == nil {
		return nil
	}
	if u.Expiration == nil {
		return &u.Address.Address
	}
	if slot+SlotIndex(minCommittableAge) >= u.Expiration.Slot {
		return &u.Expiration.ReturnAddress
	}
	if slot+SlotIndex(maxCommittableAge) < u.Expiration.Slot {
		return &u.Address.Address
	}
	return nil
}
