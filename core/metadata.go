package core

import "encoding/binary"

// DBInfo is the registry record for a database: the id counter and the
// ids of every registered stream.
type DBInfo struct {
	NextStreamId int64
	StreamIds    []int64
}

// StreamInfo is the per-stream config record, enough to rebuild the
// stream's pipeline on recovery.
type StreamInfo struct {
	Id             int64
	NumShards      int64
	EachBufferSize int64
	NumBuffers     int64
}

func DBInfoToBytes(info *DBInfo) []byte {
	buf := make([]byte, 16+8*len(info.StreamIds))
	binary.LittleEndian.PutUint64(buf[:8], uint64(info.NextStreamId))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(len(info.StreamIds)))
	for i, id := range info.StreamIds {
		binary.LittleEndian.PutUint64(buf[16+i*8:], uint64(id))
	}
	return buf
}

func BytesToDBInfo(buf []byte) *DBInfo {
	if len(buf) < 16 {
		return nil
	}
	numStreams := int(binary.LittleEndian.Uint64(buf[8:16]))
	if len(buf) != 16+8*numStreams {
		return nil
	}
	info := &DBInfo{
		NextStreamId: int64(binary.LittleEndian.Uint64(buf[:8])),
		StreamIds:    make([]int64, numStreams),
	}
	for i := range info.StreamIds {
		info.StreamIds[i] = int64(binary.LittleEndian.Uint64(buf[16+i*8:]))
	}
	return info
}

func StreamInfoToBytes(info *StreamInfo) []byte {
	buf := make([]byte, 32)
	binary.LittleEndian.PutUint64(buf[:8], uint64(info.Id))
	binary.LittleEndian.PutUint64(buf[8:16], uint64(info.NumShards))
	binary.LittleEndian.PutUint64(buf[16:24], uint64(info.EachBufferSize))
	binary.LittleEndian.PutUint64(buf[24:32], uint64(info.NumBuffers))
	return buf
}

func BytesToStreamInfo(buf []byte) *StreamInfo {
	if len(buf) != 32 {
		return nil
	}
	return &StreamInfo{
		Id:             int64(binary.LittleEndian.Uint64(buf[:8])),
		NumShards:      int64(binary.LittleEndian.Uint64(buf[8:16])),
		EachBufferSize: int64(binary.LittleEndian.Uint64(buf[16:24])),
		NumBuffers:     int64(binary.LittleEndian.Uint64(buf[24:32])),
	}
}
