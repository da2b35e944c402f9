package core

import "sync"

// IngestBufferAllocatorIFace bounds the number of in-flight ingest
// buffers. Allocate blocks while the limit is reached, which is the
// backpressure point between a fast producer and slow folders.
type IngestBufferAllocatorIFace interface {
	Allocate(capacity int64) *IngestBuffer
	Deallocate()
	SetMaxBuffers(maxBuffers int64)
}

type IngestBufferAllocator struct {
	cv             *sync.Cond
	currentBuffers int64
	maxBuffers     int64
}

func NewIngestBufferAllocator() *IngestBufferAllocator {
	mutex := sync.Mutex{}
	return &IngestBufferAllocator{
		cv:             sync.NewCond(&mutex),
		currentBuffers: 0,
		maxBuffers:     1,
	}
}

func (iba *IngestBufferAllocator) Allocate(capacity int64) *IngestBuffer {
	iba.cv.L.Lock()
	for iba.currentBuffers >= iba.maxBuffers {
		iba.cv.Wait()
	}
	iba.currentBuffers += 1
	iba.cv.L.Unlock()
	return NewIngestBuffer(capacity, iba)
}

func (iba *IngestBufferAllocator) Deallocate() {
	iba.cv.L.Lock()
	iba.currentBuffers -= 1
	iba.cv.Broadcast()
	iba.cv.L.Unlock()
}

func (iba *IngestBufferAllocator) SetMaxBuffers(maxBuffers int64) {
	iba.cv.L.Lock()
	iba.maxBuffers = maxBuffers
	iba.cv.Broadcast()
	iba.cv.L.Unlock()
}

// --- FOR TESTING ---

// TestAllocator counts allocations and deallocations so leak checks can
// assert the two match after a flush.
type TestAllocator struct {
	alloc         *IngestBufferAllocator
	totalAllocs   int
	totalDeallocs int
}

func NewTestAllocator() *TestAllocator {
	return &TestAllocator{
		alloc:         NewIngestBufferAllocator(),
		totalAllocs:   0,
		totalDeallocs: 0,
	}
}

func (ta *TestAllocator) Allocate(capacity int64) *IngestBuffer {
	ta.totalAllocs += 1
	ib := ta.alloc.Allocate(capacity)
	ib.allocator = ta
	return ib
}

func (ta *TestAllocator) Deallocate() {
	ta.totalDeallocs += 1
	ta.alloc.Deallocate()
}

func (ta *TestAllocator) SetMaxBuffers(maxBuffers int64) {
	ta.alloc.SetMaxBuffers(maxBuffers)
}
