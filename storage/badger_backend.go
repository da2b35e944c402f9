package storage

import (
	"github.com/dgraph-io/badger/v2"
)

// TestBadgerDB opens an in-memory badger instance for tests.
func TestBadgerDB() *badger.DB {
	option := badger.DefaultOptions("").WithInMemory(true)
	db, err := badger.Open(option)
	if err != nil {
		panic(err)
	}
	return db
}

type BadgerBackend struct {
	db *badger.DB
}

func NewBadgerBackend(db *badger.DB) *BadgerBackend {
	return &BadgerBackend{db: db}
}

func (backend *BadgerBackend) txnGet(key []byte) ([]byte, error) {
	var buf []byte
	err := backend.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		buf, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return nil, ErrCheckpointNotFound
	}
	return buf, err
}

func (backend *BadgerBackend) txnPut(key, buf []byte) error {
	return backend.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, buf)
	})
}

func (backend *BadgerBackend) txnDelete(key []byte) error {
	return backend.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(key)
	})
}

func (backend *BadgerBackend) Get(streamID, checkpointID int64) ([]byte, error) {
	return backend.txnGet(GetKey(streamID, checkpointID))
}

func (backend *BadgerBackend) Put(streamID, checkpointID int64, buf []byte) error {
	return backend.txnPut(GetKey(streamID, checkpointID), buf)
}

func (backend *BadgerBackend) Delete(streamID, checkpointID int64) error {
	return backend.txnDelete(GetKey(streamID, checkpointID))
}

func (backend *BadgerBackend) Latest(streamID int64) (int64, bool, error) {
	latest := int64(0)
	found := false
	err := backend.iterate(streamID, func(checkpointID int64) {
		if !found || checkpointID > latest {
			latest = checkpointID
			found = true
		}
	})
	return latest, found, err
}

func (backend *BadgerBackend) IterateCheckpoints(streamID int64, lambda func(int64)) error {
	return backend.iterate(streamID, lambda)
}

func (backend *BadgerBackend) iterate(streamID int64, lambda func(int64)) error {
	prefix := GetStreamPrefix(streamID)
	return backend.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().Key()
			if len(key) != 16 {
				// Metadata records use shorter keys.
				continue
			}
			lambda(GetCheckpointIDFromKey(key))
		}
		return nil
	})
}

func (backend *BadgerBackend) Close() error {
	return backend.db.Close()
}
