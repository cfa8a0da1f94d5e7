/*
Package storage persists wallet state (account details, unspent output
records) into a local badger database rooted at the configured wallet
database path.
*/
package storage

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v3"
	"go.uber.org/zap"

	"github.com/tangleline/tangleline-go-sdk/cbor"
)

// ErrNotFound is returned when the requested key has no value stored.
var ErrNotFound = errors.New("not found")

type Store struct {
	db  *badger.DB
	log *zap.Logger
}

// Open opens (creating when necessary) the wallet database in the
// given directory.
func Open(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening wallet database %s: %w", path, err)
	}
	log.Debug("wallet database opened", zap.String("path", path))
	return &Store{db: db, log: log}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Set stores v under key, CBOR encoded.
func (s *Store) Set(key []byte, v any) error {
	buf, err := cbor.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding value for key %q: %w", key, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, buf)
	})
}

// Get decodes the value stored under key into v, ErrNotFound when the
// key has no value.
func (s *Store) Get(key []byte, v any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("key %q: %w", key, ErrNotFound)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return cbor.Unmarshal(val, v)
		})
	})
}

// Delete removes the value stored under key, missing keys are not an
// error.
func (s *Store) Delete(key []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

// Keys returns all keys with the given prefix.
func (s *Store) Keys(prefix []byte) ([][]byte, error) {
	var keys [][]byte
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, it.Item().KeyCopy(nil))
		}
		return nil
	})
	return keys, err
}
