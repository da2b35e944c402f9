package storage

import (
	"streamstats/utils"
	"testing"
)

func TestBadgerBackend(t *testing.T) {
	backend := NewBadgerBackend(TestBadgerDB())
	testBackend(t, backend)
	utils.AssertEqual(t, backend.Close(), nil)
}

func TestBadgerBackend_IgnoresMetadataKeys(t *testing.T) {
	db := TestBadgerDB()
	backend := NewBadgerBackend(db)
	defer backend.Close()

	mds := NewBadgerMetadataStore(db)
	utils.AssertEqual(t,
		mds.PutDBAndStream([]byte("db"), 1, []byte("stream")), nil)
	utils.AssertEqual(t, backend.Put(1, 7, []byte("snap")), nil)

	// The 8-byte stream metadata key shares the checkpoint key prefix
	// and must not show up as a checkpoint.
	count := 0
	err := backend.IterateCheckpoints(1, func(checkpointID int64) {
		utils.AssertEqual(t, checkpointID, int64(7))
		count++
	})
	utils.AssertEqual(t, err, nil)
	utils.AssertEqual(t, count, 1)
}

func TestBadgerMetadataStore(t *testing.T) {
	db := TestBadgerDB()
	defer db.Close()
	mds := NewBadgerMetadataStore(db)

	_, err := mds.GetDB()
	utils.AssertEqual(t, err, ErrDBNotFound)
	_, err = mds.GetStream(4)
	utils.AssertEqual(t, err, ErrStreamNotFound)

	utils.AssertEqual(t,
		mds.PutDBAndStream([]byte("db record"), 4, []byte("stream record")), nil)

	dbBuf, err := mds.GetDB()
	utils.AssertEqual(t, err, nil)
	utils.AssertEqual(t, string(dbBuf), "db record")

	streamBuf, err := mds.GetStream(4)
	utils.AssertEqual(t, err, nil)
	utils.AssertEqual(t, string(streamBuf), "stream record")
}

func TestSimpleMetadataStore(t *testing.T) {
	mds := NewSimpleMetadataStore()

	_, err := mds.GetDB()
	utils.AssertEqual(t, err, ErrDBNotFound)

	utils.AssertEqual(t, mds.PutDBAndStream([]byte("d"), 1, []byte("s")), nil)
	dbBuf, err := mds.GetDB()
	utils.AssertEqual(t, err, nil)
	utils.AssertEqual(t, string(dbBuf), "d")
}
