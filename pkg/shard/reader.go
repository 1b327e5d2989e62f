package shard

import (
	"github.com/xetproto/xetgo/pkg/xeterr"
)

// Reader parses a serialized shard's sections (spec §4.F).
type Reader struct {
	data   []byte
	header Header
	footer Footer
}

// NewReader parses the header and footer of a shard and returns a Reader
// positioned to walk either section.
func NewReader(data []byte) (*Reader, error) {
	if len(data) < HeaderSize+FooterSize {
		return nil, xeterr.New(xeterr.CodeTruncatedShard, "shard smaller than header+footer")
	}
	header, err := DecodeHeader(data[:HeaderSize])
	if err != nil {
		return nil, err
	}
	footer, err := DecodeFooter(data[len(data)-FooterSize:])
	if err != nil {
		return nil, err
	}
	return &Reader{data: data, header: header, footer: footer}, nil
}

// Header returns the parsed shard header.
func (r *Reader) Header() Header { return r.header }

// Footer returns the parsed shard footer.
func (r *Reader) Footer() Footer { return r.footer }

// FileInfo is one file's parsed reconstruction sequence.
type FileInfo struct {
	FileHash [32]byte
	FileSize uint64
	Entries  []FileDataSequenceEntry
}

// ParseFileInfo walks the File Info section from footer.FileInfoOffset,
// reading (header, N entries) groups until the bookend marker terminates
// the section (spec §4.F).
func (r *Reader) ParseFileInfo() ([]FileInfo, error) {
	pos := int(r.footer.FileInfoOffset)
	var out []FileInfo
	for {
		if pos+RecordSize > len(r.data) {
			return nil, errShardSectionTooShort
		}
		record := r.data[pos : pos+RecordSize]
		if isBookend(record) {
			return out, nil
		}
		header := decodeFileDataSequenceHeader(record)
		pos += RecordSize

		entries := make([]FileDataSequenceEntry, 0, header.EntryCount)
		for i := uint32(0); i < header.EntryCount; i++ {
			if pos+RecordSize > len(r.data) {
				return nil, errShardSectionTooShort
			}
			entries = append(entries, decodeFileDataSequenceEntry(r.data[pos:pos+RecordSize]))
			pos += RecordSize
		}
		out = append(out, FileInfo{FileHash: header.FileHash, FileSize: header.FileSize, Entries: entries})
	}
}

// ParseCASInfo walks the CAS Info section from footer.CASInfoOffset,
// flattening each (header, N entries) group into ChunkLocation records
// carrying the xorb hash alongside each chunk descriptor, until the
// bookend marker terminates the section (spec §4.F).
func (r *Reader) ParseCASInfo() ([]ChunkLocation, error) {
	pos := int(r.footer.CASInfoOffset)
	var out []ChunkLocation
	for {
		if pos+RecordSize > len(r.data) {
			return nil, errShardSectionTooShort
		}
		record := r.data[pos : pos+RecordSize]
		if isBookend(record) {
			return out, nil
		}
		header := decodeCASChunkSequenceHeader(record)
		pos += RecordSize

		for i := uint32(0); i < header.EntryCount; i++ {
			if pos+RecordSize > len(r.data) {
				return nil, errShardSectionTooShort
			}
			entry := decodeCASChunkSequenceEntry(r.data[pos : pos+RecordSize])
			out = append(out, ChunkLocation{
				ChunkHash:  entry.ChunkHash,
				XorbHash:   header.XorbHash,
				ByteOffset: entry.ByteOffset,
				Size:       entry.Size,
			})
			pos += RecordSize
		}
	}
}
