package storage

import (
	"encoding/binary"
	"errors"
	"sync"
)

var ErrCheckpointNotFound = errors.New("checkpoint not found")

// GetKey builds the storage key for one checkpoint:
//	<8 bytes stream ID> <8 bytes checkpoint ID>
func GetKey(streamID, checkpointID int64) []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint64(buf[:8], uint64(streamID))
	binary.LittleEndian.PutUint64(buf[8:], uint64(checkpointID))
	return buf
}

// GetStreamPrefix is the shared prefix of every checkpoint key of a stream.
func GetStreamPrefix(streamID int64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, uint64(streamID))
	return buf
}

func GetStreamIDFromKey(buf []byte) int64 {
	return int64(binary.LittleEndian.Uint64(buf[:8]))
}

func GetCheckpointIDFromKey(buf []byte) int64 {
	return int64(binary.LittleEndian.Uint64(buf[8:]))
}

// Backend stores encoded checkpoint snapshots keyed by
// (stream ID, checkpoint ID). Implementations must be safe for
// concurrent use; checkpoint IDs within a stream are monotonically
// increasing, so Latest is the recovery point.
type Backend interface {
	Get(streamID, checkpointID int64) ([]byte, error)
	Put(streamID, checkpointID int64, buf []byte) error
	Delete(streamID, checkpointID int64) error

	// Latest returns the highest checkpoint ID written for the stream.
	// The bool is false when the stream has no checkpoints.
	Latest(streamID int64) (int64, bool, error)

	IterateCheckpoints(streamID int64, lambda func(checkpointID int64)) error

	Close() error
}

type InMemoryBackend struct {
	checkpoints map[string][]byte
	mutex       sync.Mutex
}

func NewInMemoryBackend() *InMemoryBackend {
	return &InMemoryBackend{
		checkpoints: make(map[string][]byte),
	}
}

func (backend *InMemoryBackend) Get(streamID, checkpointID int64) ([]byte, error) {
	backend.mutex.Lock()
	defer backend.mutex.Unlock()
	buf, ok := backend.checkpoints[string(GetKey(streamID, checkpointID))]
	if !ok {
		return nil, ErrCheckpointNotFound
	}
	return buf, nil
}

func (backend *InMemoryBackend) Put(streamID, checkpointID int64, buf []byte) error {
	backend.mutex.Lock()
	defer backend.mutex.Unlock()
	backend.checkpoints[string(GetKey(streamID, checkpointID))] = buf
	return nil
}

func (backend *InMemoryBackend) Delete(streamID, checkpointID int64) error {
	backend.mutex.Lock()
	defer backend.mutex.Unlock()
	delete(backend.checkpoints, string(GetKey(streamID, checkpointID)))
	return nil
}

func (backend *InMemoryBackend) Latest(streamID int64) (int64, bool, error) {
	backend.mutex.Lock()
	defer backend.mutex.Unlock()

	latest := int64(0)
	found := false
	for k := range backend.checkpoints {
		buf := []byte(k)
		if GetStreamIDFromKey(buf) != streamID {
			continue
		}
		checkpointID := GetCheckpointIDFromKey(buf)
		if !found || checkpointID > latest {
			latest = checkpointID
			found = true
		}
	}
	return latest, found, nil
}

func (backend *InMemoryBackend) IterateCheckpoints(streamID int64, lambda func(int64)) error {
	backend.mutex.Lock()
	defer backend.mutex.Unlock()

	for k := range backend.checkpoints {
		buf := []byte(k)
		if GetStreamIDFromKey(buf) != streamID {
			continue
		}
		lambda(GetCheckpointIDFromKey(buf))
	}
	return nil
}

func (backend *InMemoryBackend) Close() error {
	backend.mutex.Lock()
	defer backend.mutex.Unlock()
	backend.checkpoints = nil
	return nil
}
