package storage

import (
	"encoding/binary"
	"github.com/dgraph-io/badger/v2"
)

const DbKey = "DBKEY"

// GetStreamMetadataKey is 8 bytes, so it can never collide with the
// 16-byte checkpoint keys sharing the same badger instance.
func GetStreamMetadataKey(streamID int64) []byte {
	key := make([]byte, 8)
	binary.LittleEndian.PutUint64(key, uint64(streamID))
	return key
}

type BadgerMetadataStore struct {
	db *badger.DB
}

func NewBadgerMetadataStore(db *badger.DB) *BadgerMetadataStore {
	return &BadgerMetadataStore{db: db}
}

func (bms *BadgerMetadataStore) GetDB() ([]byte, error) {
	var dbBytes []byte
	err := bms.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(DbKey))
		if err != nil {
			return err
		}
		dbBytes, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return nil, ErrDBNotFound
	}
	return dbBytes, err
}

func (bms *BadgerMetadataStore) GetStream(streamID int64) ([]byte, error) {
	var streamBytes []byte
	err := bms.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(GetStreamMetadataKey(streamID))
		if err != nil {
			return err
		}
		streamBytes, err = item.ValueCopy(nil)
		return err
	})
	if err == badger.ErrKeyNotFound {
		return nil, ErrStreamNotFound
	}
	return streamBytes, err
}

func (bms *BadgerMetadataStore) PutDBAndStream(
	dbBuf []byte, streamID int64, streamBuf []byte) error {
	return bms.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(DbKey), dbBuf); err != nil {
			return err
		}
		return txn.Set(GetStreamMetadataKey(streamID), streamBuf)
	})
}
