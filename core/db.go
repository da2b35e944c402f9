package core

import (
	"errors"
	"streamstats/storage"
	"sync"

	"github.com/dgraph-io/badger/v2"
)

// DB owns a set of streams over one checkpoint backend plus the
// metadata registry used to recover them.
type DB struct {
	backend      storage.Backend
	mds          storage.MetadataStore
	streams      map[int64]*Stream
	config       *StoreConfig
	nextStreamId int64
	mu           sync.Mutex
}

// New opens a badger-backed DB at path. An empty path opens badger
// in-memory.
func New(path string) (*DB, error) {
	badgerOptions := badger.DefaultOptions(path).WithTruncate(true)
	if path == "" {
		badgerOptions = badger.DefaultOptions("").WithInMemory(true)
	}
	badgerDb, err := badger.Open(badgerOptions)
	if err != nil {
		return nil, err
	}
	return &DB{
		backend:      storage.NewBadgerBackend(badgerDb),
		mds:          storage.NewBadgerMetadataStore(badgerDb),
		streams:      make(map[int64]*Stream),
		config:       DefaultStoreConfig(),
		nextStreamId: 0,
	}, nil
}

// NewInMemory builds a DB over the in-memory backend, for tests and
// ephemeral use.
func NewInMemory() *DB {
	return &DB{
		backend:      storage.NewInMemoryBackend(),
		mds:          storage.NewSimpleMetadataStore(),
		streams:      make(map[int64]*Stream),
		config:       DefaultStoreConfig(),
		nextStreamId: 0,
	}
}

// Open opens the DB at path and recovers every registered stream from
// its latest checkpoint.
func Open(path string) (*DB, error) {
	db, err := New(path)
	if err != nil {
		return nil, err
	}
	if err := db.ReadDB(); err != nil {
		return nil, err
	}
	return db, nil
}

func (db *DB) SetConfig(config *StoreConfig) *DB {
	db.config = config
	return db
}

func (db *DB) NewStream() (*Stream, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	streamId := db.nextStreamId
	db.nextStreamId += 1
	stream := NewStreamWithId(streamId, db.config).
		SetBackend(db.backend, db.config.CacheEnabled)
	db.streams[streamId] = stream

	if err := db.writeDBAndStream(stream); err != nil {
		delete(db.streams, streamId)
		return nil, err
	}
	return stream, nil
}

func (db *DB) writeDBAndStream(stream *Stream) error {
	streamIds := make([]int64, 0, len(db.streams))
	for id := range db.streams {
		streamIds = append(streamIds, id)
	}
	dbBuf := DBInfoToBytes(&DBInfo{
		NextStreamId: db.nextStreamId,
		StreamIds:    streamIds,
	})
	streamBuf := StreamInfoToBytes(&StreamInfo{
		Id:             stream.streamId,
		NumShards:      int64(stream.config.NumShards),
		EachBufferSize: stream.config.EachBufferSize,
		NumBuffers:     stream.config.NumBuffers,
	})
	return db.mds.PutDBAndStream(dbBuf, stream.streamId, streamBuf)
}

// ReadDB rebuilds the stream set from the registry. Streams come back
// primed but not running.
func (db *DB) ReadDB() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	dbBuf, err := db.mds.GetDB()
	if err == storage.ErrDBNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	info := BytesToDBInfo(dbBuf)
	if info == nil {
		return errors.New("corrupt db record")
	}
	db.nextStreamId = info.NextStreamId

	for _, streamId := range info.StreamIds {
		streamBuf, err := db.mds.GetStream(streamId)
		if err != nil {
			return err
		}
		streamInfo := BytesToStreamInfo(streamBuf)
		if streamInfo == nil {
			return errors.New("corrupt stream record")
		}
		config := &StoreConfig{
			EachBufferSize:  streamInfo.EachBufferSize,
			NumBuffers:      streamInfo.NumBuffers,
			NumShards:       int(streamInfo.NumShards),
			KeepCheckpoints: db.config.KeepCheckpoints,
			CacheEnabled:    db.config.CacheEnabled,
		}
		stream := NewStreamWithId(streamId, config).
			SetBackend(db.backend, config.CacheEnabled)
		if err := stream.PrimeUp(); err != nil {
			return err
		}
		db.streams[streamId] = stream
	}
	return nil
}

func (db *DB) GetStream(streamId int64) (*Stream, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	stream, ok := db.streams[streamId]
	if !ok {
		return nil, errors.New("stream not found")
	}
	return stream, nil
}

// Close shuts every running stream down, checkpointing each, then
// closes the backend.
func (db *DB) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, stream := range db.streams {
		if _, err := stream.Shutdown(); err != nil {
			return err
		}
	}
	return db.backend.Close()
}
