package types

// SlotIndex is the index of a slot in the slot based time model of the
// ledger. Slot 0 is reserved for "before genesis", the first slot after
// the genesis timestamp has index 1.
type SlotIndex uint32

type SlotParameters struct {
	_                struct{} `cbor:",toarray"`
	GenesisTimestamp uint64   `json:"genesisTimestamp"` // seconds since Unix epoch
	SlotDuration     uint8    `json:"slotDuration"`     // seconds
}

// SlotFromUnixTime returns the index of the slot the given Unix
// timestamp (seconds) falls into.
func (p SlotParameters) SlotFromUnixTime(ts uint64) SlotIndex {
	if p.SlotDuration == 0 || ts < p.GenesisTimestamp {
		return 0
	}
	return SlotIndex(1 + (ts-p.GenesisTimestamp)/uint64(p.SlotDuration))
}

// SlotStartUnixTime returns the Unix timestamp (seconds) of the first
// second of the given slot.
func (p SlotParameters) SlotStartUnixTime(slot SlotIndex) uint64 {
	if slot == 0 {
		return 0
	}
	return p.GenesisTimestamp + uint64(slot-1)*uint64(p.SlotDuration)
}
