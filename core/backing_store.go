package core

import (
	"streamstats/storage"

	"github.com/dgraph-io/ristretto"
)

// BackingStore puts a ristretto cache in front of the checkpoint
// backend, so repeated snapshot reads (recovery probes, inspection)
// skip the decode and the backend round trip.
type BackingStore struct {
	backend       storage.Backend
	cacheEnabled  bool
	snapshotCache *ristretto.Cache
}

func NewBackingStore(backend storage.Backend, cacheEnabled bool) *BackingStore {
	snapshotCache, _ := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e4,
		MaxCost:     1 << 22,
		BufferItems: 64,
	})
	return &BackingStore{
		backend:       backend,
		cacheEnabled:  cacheEnabled,
		snapshotCache: snapshotCache,
	}
}

func (store *BackingStore) Get(streamID, checkpointID int64) (*Snapshot, error) {
	if store.cacheEnabled {
		snapshot, found := store.snapshotCache.Get(storage.GetKey(streamID, checkpointID))
		if found {
			return snapshot.(*Snapshot), nil
		}
	}
	buf, err := store.backend.Get(streamID, checkpointID)
	if err != nil {
		return nil, err
	}
	snapshot := BytesToSnapshot(buf)
	if snapshot == nil {
		return nil, storage.ErrCheckpointNotFound
	}
	return snapshot, nil
}

func (store *BackingStore) Put(streamID, checkpointID int64, snapshot *Snapshot) error {
	if store.cacheEnabled {
		store.snapshotCache.Set(storage.GetKey(streamID, checkpointID), snapshot, 1)
	}
	return store.backend.Put(streamID, checkpointID, SnapshotToBytes(snapshot))
}

func (store *BackingStore) Delete(streamID, checkpointID int64) error {
	if store.cacheEnabled {
		store.snapshotCache.Del(storage.GetKey(streamID, checkpointID))
	}
	return store.backend.Delete(streamID, checkpointID)
}

func (store *BackingStore) Latest(streamID int64) (int64, bool, error) {
	return store.backend.Latest(streamID)
}
