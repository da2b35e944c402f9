package storage

import "errors"

var (
	ErrDBNotFound     = errors.New("db record not found")
	ErrStreamNotFound = errors.New("stream record not found")
)

// MetadataStore persists the encoded registry records needed to recover
// a database: one record for the DB itself (the set of streams) and one
// per stream (its configuration). The DB record and the stream record
// are written together so a crash cannot register a stream without its
// config, or vice versa.
type MetadataStore interface {
	GetDB() ([]byte, error)
	GetStream(streamID int64) ([]byte, error)
	PutDBAndStream(dbBuf []byte, streamID int64, streamBuf []byte) error
}

type SimpleMetadataStore struct {
	db      []byte
	streams map[int64][]byte
}

func NewSimpleMetadataStore() *SimpleMetadataStore {
	return &SimpleMetadataStore{
		db:      nil,
		streams: make(map[int64][]byte),
	}
}

func (sms *SimpleMetadataStore) GetDB() ([]byte, error) {
	if sms.db == nil {
		return nil, ErrDBNotFound
	}
	return sms.db, nil
}

func (sms *SimpleMetadataStore) GetStream(streamID int64) ([]byte, error) {
	buf, ok := sms.streams[streamID]
	if !ok {
		return nil, ErrStreamNotFound
	}
	return buf, nil
}

func (sms *SimpleMetadataStore) PutDBAndStream(
	dbBuf []byte, streamID int64, streamBuf []byte) error {
	sms.db = dbBuf
	sms.streams[streamID] = streamBuf
	return nil
}
