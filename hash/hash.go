package hash

import (
	"golang.org/x/crypto/blake2b"
)

var Zero256 = make([]byte, blake2b.Size256)

// Sum256 returns the BLAKE2b-256 digest of the data. Ledger object IDs
// (account ID, NFT ID) are derived from the creating output ID with it.
func Sum256(data []byte) []byte {
	// return zero hash in case data is either empty or missing
	if len(data) == 0 {
		return Zero256
	}
	hsh := blake2b.Sum256(data)
	return hsh[:]
}

// SumHashes hashes the hashes.
func SumHashes(hashes ...[]byte) []byte {
	hasher, err := blake2b.New256(nil)
	if err != nil {
		return nil
	}
	for _, hash := range hashes {
		hasher.Write(hash)
	}
	return hasher.Sum(nil)
}
