package core

// IngestBuffer batches (timestamp, value) pairs between the appending
// caller and the folder workers, so the hot path hands off one buffer
// instead of one channel send per observation.
type IngestBuffer struct {
	Capacity   int64
	Size       int64
	timestamps []int64
	values     []float64
	allocator  IngestBufferAllocatorIFace
}

var shutdownIngestBuffer *IngestBuffer = nil
var flushIngestBuffer *IngestBuffer = nil

// ConstShutdownIngestBuffer is the sentinel telling a folder to flush
// and exit.
func ConstShutdownIngestBuffer() *IngestBuffer {
	if shutdownIngestBuffer == nil {
		shutdownIngestBuffer = NewIngestBuffer(0, nil)
	}
	return shutdownIngestBuffer
}

// ConstFlushIngestBuffer is the sentinel telling a folder to flush and
// keep running.
func ConstFlushIngestBuffer() *IngestBuffer {
	if flushIngestBuffer == nil {
		flushIngestBuffer = NewIngestBuffer(0, nil)
	}
	return flushIngestBuffer
}

func NewIngestBuffer(capacity int64, allocator IngestBufferAllocatorIFace) *IngestBuffer {
	return &IngestBuffer{
		Capacity:   capacity,
		Size:       0,
		timestamps: make([]int64, capacity),
		values:     make([]float64, capacity),
		allocator:  allocator,
	}
}

func (ib *IngestBuffer) Append(timestamp int64, value float64) bool {
	if ib.IsFull() {
		return false
	}
	ib.timestamps[ib.Size] = timestamp
	ib.values[ib.Size] = value
	ib.Size += 1
	return true
}

func (ib *IngestBuffer) IsFull() bool {
	return ib.Size == ib.Capacity
}

func (ib *IngestBuffer) Get(pos int64) (int64, float64, bool) {
	if pos < 0 || pos >= ib.Size {
		return 0, 0, false
	}
	return ib.timestamps[pos], ib.values[pos], true
}

func (ib *IngestBuffer) Clear() {
	ib.Size = 0
}

// Dispose returns the buffer's slot to the allocator. The buffer must
// not be used afterwards.
func (ib *IngestBuffer) Dispose() {
	ib.Clear()
	if ib.allocator != nil {
		ib.allocator.Deallocate()
	}
}

// Ingester fills buffers from a single appending caller and deals them
// round-robin to the folder queues.
type Ingester struct {
	activeBuffer   *IngestBuffer
	bufferCapacity int64
	allocator      IngestBufferAllocatorIFace
	foldQueues     []chan *IngestBuffer
	nextQueue      int
}

func NewIngester(foldQueues []chan *IngestBuffer) *Ingester {
	return &Ingester{
		activeBuffer:   nil,
		bufferCapacity: 1,
		allocator:      NewIngestBufferAllocator(),
		foldQueues:     foldQueues,
		nextQueue:      0,
	}
}

func (i *Ingester) setBufferCapacity(capacity int64) {
	i.bufferCapacity = capacity
}

func (i *Ingester) PushActiveToQueue() {
	if i.activeBuffer != nil && i.activeBuffer.Size > 0 {
		i.foldQueues[i.nextQueue] <- i.activeBuffer
		i.nextQueue = (i.nextQueue + 1) % len(i.foldQueues)
		i.activeBuffer = nil
	}
}

func (i *Ingester) Append(timestamp int64, value float64) {
	if i.activeBuffer == nil {
		i.activeBuffer = i.allocator.Allocate(i.bufferCapacity)
	}
	i.activeBuffer.Append(timestamp, value)
	if i.activeBuffer.IsFull() {
		i.PushActiveToQueue()
	}
}

// Flush pushes the partially filled active buffer and then a sentinel
// into every fold queue, so each folder flushes exactly once.
func (i *Ingester) Flush(shutdown bool) {
	i.PushActiveToQueue()
	sentinel := ConstFlushIngestBuffer()
	if shutdown {
		sentinel = ConstShutdownIngestBuffer()
	}
	for _, queue := range i.foldQueues {
		queue <- sentinel
	}
}
