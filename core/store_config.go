package core

type StoreConfig struct {
	// EachBufferSize is the observation capacity of one ingest buffer.
	EachBufferSize int64
	// NumBuffers bounds in-flight buffers; Append blocks past it.
	NumBuffers int64
	// NumShards is the number of folder workers per stream.
	NumShards int
	// KeepCheckpoints is how many checkpoints to retain per stream;
	// older ones are deleted as new ones are written. 0 keeps all.
	KeepCheckpoints int64
	CacheEnabled    bool
}

func DefaultStoreConfig() *StoreConfig {
	return &StoreConfig{
		EachBufferSize:  1024,
		NumBuffers:      8,
		NumShards:       4,
		KeepCheckpoints: 3,
		CacheEnabled:    true,
	}
}
