/*
Package stronghold implements the encrypted secret snapshot: the wallet
mnemonic sealed into a file with a password derived key. The snapshot
is the only place the seed material touches disk.
*/
package stronghold

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	bip39 "github.com/tyler-smith/go-bip39"
	"golang.org/x/crypto/pbkdf2"

	"github.com/tangleline/tangleline-go-sdk/cbor"
	"github.com/tangleline/tangleline-go-sdk/hash"
	"github.com/tangleline/tangleline-go-sdk/types"
)

const (
	kdfLabel      = "pbkdf2-sha256"
	kdfIterations = 310_000
	saltLength    = 16

	snapshotTag cbor.Tag = 2001
)

// ErrDecrypt is returned for a wrong password as well as for a
// corrupted snapshot, the two cases are deliberately not told apart.
var ErrDecrypt = errors.New("incorrect password or corrupted snapshot")

type (
	// SecretManager holds the decrypted seed in memory. Call Zero when
	// done with it.
	SecretManager struct {
		seed []byte
	}

	snapshot struct {
		_          struct{} `cbor:",toarray"`
		KDF        string
		Iterations uint32
		Salt       []byte
		// Sealed is nonce|ciphertext of the mnemonic, AES-256-GCM.
		Sealed []byte
	}
)

func deriveKey(password string, salt []byte, iterations int) []byte {
	return pbkdf2.Key([]byte(password), salt, iterations, 32, sha256.New)
}

func seal(data, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return append(nonce, gcm.Seal(nil, nonce, data, nil)...), nil
}

func open(sealed, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	if len(sealed) < gcm.NonceSize() {
		return nil, ErrDecrypt
	}
	plain, err := gcm.Open(nil, sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():], nil)
	if err != nil {
		return nil, ErrDecrypt
	}
	return plain, nil
}

func clearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// Write seals the mnemonic into a snapshot file at path. The mnemonic
// must carry a valid BIP-39 checksum.
func Write(path, password, mnemonic string) error {
	if !bip39.IsMnemonicValid(mnemonic) {
		return errors.New("mnemonic is not a valid BIP-39 phrase")
	}
	salt := make([]byte, saltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return fmt.Errorf("generating salt: %w", err)
	}
	key := deriveKey(password, salt, kdfIterations)
	defer clearBytes(key)

	sealed, err := seal([]byte(mnemonic), key)
	if err != nil {
		return fmt.Errorf("sealing mnemonic: %w", err)
	}
	buf, err := cbor.MarshalTaggedValue(snapshotTag, snapshot{
		KDF:        kdfLabel,
		Iterations: kdfIterations,
		Salt:       salt,
		Sealed:     sealed,
	})
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return os.WriteFile(path, buf, 0o600)
}

// Open reads the snapshot at path and unseals it with the password,
// returning a secret manager holding the derived seed.
func Open(path, password string) (*SecretManager, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	var snap snapshot
	if err := cbor.UnmarshalTaggedValue(snapshotTag, buf, &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	if snap.KDF != kdfLabel {
		return nil, fmt.Errorf("unsupported key derivation function %q", snap.KDF)
	}
	key := deriveKey(password, snap.Salt, int(snap.Iterations))
	defer clearBytes(key)

	mnemonic, err := open(snap.Sealed, key)
	if err != nil {
		return nil, err
	}
	defer clearBytes(mnemonic)
	return NewSecretManagerFromMnemonic(string(mnemonic))
}

// NewSecretManagerFromMnemonic derives the seed from the mnemonic (no
// extra BIP-39 passphrase) and keeps it in memory.
func NewSecretManagerFromMnemonic(mnemonic string) (*SecretManager, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, errors.New("mnemonic is not a valid BIP-39 phrase")
	}
	return &SecretManager{seed: bip39.NewSeed(mnemonic, "")}, nil
}

// Zero wipes the seed. The manager must not be used afterwards.
func (m *SecretManager) Zero() {
	clearBytes(m.seed)
	m.seed = nil
}

// key derives the Ed25519 signing key for the address index: the
// SLIP-10 style master key from the seed, then the index mixed in.
func (m *SecretManager) key(index uint32) (ed25519.PrivateKey, error) {
	if len(m.seed) == 0 {
		return nil, errors.New("secret manager holds no seed")
	}
	mac := hmac.New(sha512.New, []byte("ed25519 seed"))
	mac.Write(m.seed)
	master := mac.Sum(nil)[:ed25519.SeedSize]

	idx := make([]byte, 4)
	binary.LittleEndian.PutUint32(idx, index)
	return ed25519.NewKeyFromSeed(hash.SumHashes(master, idx)), nil
}

// Address returns the Ed25519 address for the given index.
func (m *SecretManager) Address(index uint32) (types.Address, error) {
	key, err := m.key(index)
	if err != nil {
		return types.Address{}, err
	}
	pub := key.Public().(ed25519.PublicKey)
	return types.NewEd25519Address(hash.Sum256(pub)), nil
}

// Sign signs msg with the key of the given address index.
func (m *SecretManager) Sign(index uint32, msg []byte) ([]byte, error) {
	key, err := m.key(index)
	if err != nil {
		return nil, err
	}
	return ed25519.Sign(key, msg), nil
}
