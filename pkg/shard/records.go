package shard

import "encoding/binary"

// FileDataSequenceHeader precedes the FileDataSequenceEntry records for one
// file within the File Info section (spec §3/§4.F).
type FileDataSequenceHeader struct {
	FileHash   [32]byte
	EntryCount uint32
	FileSize   uint64
}

func (h FileDataSequenceHeader) encode() [RecordSize]byte {
	var buf [RecordSize]byte
	copy(buf[0:32], h.FileHash[:])
	binary.LittleEndian.PutUint32(buf[32:36], h.EntryCount)
	binary.LittleEndian.PutUint64(buf[36:44], h.FileSize)
	return buf
}

func decodeFileDataSequenceHeader(buf []byte) FileDataSequenceHeader {
	var h FileDataSequenceHeader
	copy(h.FileHash[:], buf[0:32])
	h.EntryCount = binary.LittleEndian.Uint32(buf[32:36])
	h.FileSize = binary.LittleEndian.Uint64(buf[36:44])
	return h
}

// FileDataSequenceEntry names the xorb chunk range contributing one segment
// of a file's reconstruction (spec §3/§4.F).
type FileDataSequenceEntry struct {
	XorbHash         [32]byte
	ChunkIndexStart  uint32
	ChunkIndexEnd    uint32
	UnpackedLength   uint32
}

func (e FileDataSequenceEntry) encode() [RecordSize]byte {
	var buf [RecordSize]byte
	copy(buf[0:32], e.XorbHash[:])
	binary.LittleEndian.PutUint32(buf[32:36], e.ChunkIndexStart)
	binary.LittleEndian.PutUint32(buf[36:40], e.ChunkIndexEnd)
	binary.LittleEndian.PutUint32(buf[40:44], e.UnpackedLength)
	return buf
}

func decodeFileDataSequenceEntry(buf []byte) FileDataSequenceEntry {
	var e FileDataSequenceEntry
	copy(e.XorbHash[:], buf[0:32])
	e.ChunkIndexStart = binary.LittleEndian.Uint32(buf[32:36])
	e.ChunkIndexEnd = binary.LittleEndian.Uint32(buf[36:40])
	e.UnpackedLength = binary.LittleEndian.Uint32(buf[40:44])
	return e
}

// FileVerificationEntry records a per-range verification hash used to
// authenticate a reconstructed segment without rehashing the whole file.
// Not emitted by Builder.AddFileInfo; defined for forward-compatible
// readers of shards written by other producers.
type FileVerificationEntry struct {
	RangeHash  [32]byte
	RangeStart uint32
	RangeEnd   uint32
}

func (e FileVerificationEntry) encode() [RecordSize]byte {
	var buf [RecordSize]byte
	copy(buf[0:32], e.RangeHash[:])
	binary.LittleEndian.PutUint32(buf[32:36], e.RangeStart)
	binary.LittleEndian.PutUint32(buf[36:40], e.RangeEnd)
	return buf
}

// FileMetadataExt is a reserved, optional extension record for future
// per-file metadata. Not emitted by Builder.AddFileInfo.
type FileMetadataExt struct {
	Flags uint32
}

func (e FileMetadataExt) encode() [RecordSize]byte {
	var buf [RecordSize]byte
	binary.LittleEndian.PutUint32(buf[0:4], e.Flags)
	return buf
}

// CASChunkSequenceHeader precedes the CASChunkSequenceEntry records
// describing one xorb's chunk layout within the CAS Info section
// (spec §3/§4.F).
type CASChunkSequenceHeader struct {
	XorbHash       [32]byte
	EntryCount     uint32
	SerializedSize uint32
	TotalRawBytes  uint64
}

func (h CASChunkSequenceHeader) encode() [RecordSize]byte {
	var buf [RecordSize]byte
	copy(buf[0:32], h.XorbHash[:])
	binary.LittleEndian.PutUint32(buf[32:36], h.EntryCount)
	binary.LittleEndian.PutUint32(buf[36:40], h.SerializedSize)
	binary.LittleEndian.PutUint64(buf[40:48], h.TotalRawBytes)
	return buf
}

func decodeCASChunkSequenceHeader(buf []byte) CASChunkSequenceHeader {
	var h CASChunkSequenceHeader
	copy(h.XorbHash[:], buf[0:32])
	h.EntryCount = binary.LittleEndian.Uint32(buf[32:36])
	h.SerializedSize = binary.LittleEndian.Uint32(buf[36:40])
	h.TotalRawBytes = binary.LittleEndian.Uint64(buf[40:48])
	return h
}

// CASChunkSequenceEntry locates one chunk within its xorb: its content
// hash, byte offset, and serialized size (spec §3/§4.F).
type CASChunkSequenceEntry struct {
	ChunkHash  [32]byte
	ByteOffset uint64
	Size       uint32
}

func (e CASChunkSequenceEntry) encode() [RecordSize]byte {
	var buf [RecordSize]byte
	copy(buf[0:32], e.ChunkHash[:])
	binary.LittleEndian.PutUint64(buf[32:40], e.ByteOffset)
	binary.LittleEndian.PutUint32(buf[40:44], e.Size)
	return buf
}

func decodeCASChunkSequenceEntry(buf []byte) CASChunkSequenceEntry {
	var e CASChunkSequenceEntry
	copy(e.ChunkHash[:], buf[0:32])
	e.ByteOffset = binary.LittleEndian.Uint64(buf[32:40])
	e.Size = binary.LittleEndian.Uint32(buf[40:44])
	return e
}

// ChunkLocation is the reader's denormalized view of a CASChunkSequenceEntry:
// its xorb hash is carried alongside rather than looked up separately
// (spec §4.F ParseCASInfo).
type ChunkLocation struct {
	ChunkHash  [32]byte
	XorbHash   [32]byte
	ByteOffset uint64
	Size       uint32
}
