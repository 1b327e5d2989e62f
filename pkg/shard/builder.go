package shard

import (
	"bytes"
	"time"

	"github.com/xetproto/xetgo/pkg/xeterr"
)

type fileGroup struct {
	hash    [32]byte
	entries []FileDataSequenceEntry
}

type casGroup struct {
	hash           [32]byte
	entries        []CASChunkSequenceEntry
	totalRawBytes  uint64
	serializedSize uint32
}

// Builder assembles a shard file incrementally: file-reconstruction groups
// first, then CAS chunk-layout groups, serialized in one pass (spec §4.F).
type Builder struct {
	files []fileGroup
	cas   []casGroup
}

// NewBuilder returns an empty shard Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// AddFileInfo appends one file's reconstruction sequence: a
// FileDataSequenceHeader followed by its FileDataSequenceEntry records.
func (b *Builder) AddFileInfo(fileHash [32]byte, entries []FileDataSequenceEntry) {
	b.files = append(b.files, fileGroup{hash: fileHash, entries: append([]FileDataSequenceEntry(nil), entries...)})
}

// AddCASInfo appends one xorb's chunk layout: a CASChunkSequenceHeader
// followed by its CASChunkSequenceEntry records.
func (b *Builder) AddCASInfo(xorbHash [32]byte, entries []CASChunkSequenceEntry, totalRawBytes uint64, serializedSize uint32) {
	b.cas = append(b.cas, casGroup{
		hash:           xorbHash,
		entries:        append([]CASChunkSequenceEntry(nil), entries...),
		totalRawBytes:  totalRawBytes,
		serializedSize: serializedSize,
	})
}

// Serialize writes ShardHeader ‖ FileInfoSection ‖ Bookend ‖ CASInfoSection
// ‖ Bookend ‖ ShardFooter (spec §3/§4.F).
func (b *Builder) Serialize() ([]byte, error) {
	var out bytes.Buffer

	header := Header{Version: CurrentVersion, FooterSize: FooterSize}
	headerBuf := header.Encode()
	out.Write(headerBuf[:])

	fileInfoOffset := uint64(out.Len())
	for _, g := range b.files {
		fh := FileDataSequenceHeader{
			FileHash:   g.hash,
			EntryCount: uint32(len(g.entries)),
		}
		for _, e := range g.entries {
			fh.FileSize += uint64(e.UnpackedLength)
		}
		buf := fh.encode()
		out.Write(buf[:])
		for _, e := range g.entries {
			eb := e.encode()
			out.Write(eb[:])
		}
	}
	out.Write(bookend[:])

	casInfoOffset := uint64(out.Len())
	for _, g := range b.cas {
		ch := CASChunkSequenceHeader{
			XorbHash:       g.hash,
			EntryCount:     uint32(len(g.entries)),
			SerializedSize: g.serializedSize,
			TotalRawBytes:  g.totalRawBytes,
		}
		buf := ch.encode()
		out.Write(buf[:])
		for _, e := range g.entries {
			eb := e.encode()
			out.Write(eb[:])
		}
	}
	out.Write(bookend[:])

	footer := Footer{
		Version:           CurrentVersion,
		FileInfoOffset:    fileInfoOffset,
		CASInfoOffset:     casInfoOffset,
		CreationTimestamp: uint64(time.Now().Unix()),
		FooterOffset:      uint64(out.Len()),
	}
	footerBuf := footer.Encode()
	out.Write(footerBuf[:])

	return out.Bytes(), nil
}

// Empty reports whether the builder has accumulated no file or CAS groups.
func (b *Builder) Empty() bool { return len(b.files) == 0 && len(b.cas) == 0 }

var errShardSectionTooShort = xeterr.New(xeterr.CodeTruncatedShard, "shard section shorter than one record")
