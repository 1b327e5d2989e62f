// Package shard implements the MDB shard metadata index format of spec
// §3/§4.F: a fixed 48-byte-record binary layout mapping file hashes to
// (xorb, chunk-range) sequences and xorbs to chunk descriptors, built and
// parsed the way the teacher's pkg/content manifest/CID types model
// content metadata, generalized here from a single CBOR-friendly struct
// to the reference's fixed-width binary record layout.
package shard

import (
	"encoding/binary"
	"fmt"

	"github.com/xetproto/xetgo/pkg/xeterr"
)

// RecordSize is the fixed byte length of every shard record (spec §3).
const RecordSize = 48

// HeaderSize is the fixed byte length of a ShardHeader.
const HeaderSize = 48

// FooterSize is the fixed byte length of a ShardFooter.
const FooterSize = 200

// CurrentVersion is the only shard format version this implementation
// emits or accepts.
const CurrentVersion = uint64(1)

// magic is the 32-byte fixed tag identifying an MDB shard file.
var magic = [32]byte{
	'X', 'E', 'T', 'S', 'H', 'A', 'R', 'D', 'M', 'D', 'B', 'v', '1', 0, 0, 0,
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// bookend is the fixed 48-byte marker terminating each section. Its value
// (all 0xFF) can never collide with a real record, whose first bytes are
// always a hash digest or a small integer count.
var bookend [RecordSize]byte

func init() {
	for i := range bookend {
		bookend[i] = 0xFF
	}
}

// Header is the fixed 48-byte shard file header (spec §3).
type Header struct {
	Version    uint64
	FooterSize uint64
}

// Encode serializes h into its 48-byte wire form.
func (h Header) Encode() [HeaderSize]byte {
	var buf [HeaderSize]byte
	copy(buf[0:32], magic[:])
	binary.LittleEndian.PutUint64(buf[32:40], h.Version)
	binary.LittleEndian.PutUint64(buf[40:48], h.FooterSize)
	return buf
}

// DecodeHeader parses and validates a 48-byte shard header.
func DecodeHeader(buf []byte) (Header, error) {
	if len(buf) < HeaderSize {
		return Header{}, xeterr.New(xeterr.CodeTruncatedShard, "truncated shard header")
	}
	if string(buf[0:32]) != string(magic[:]) {
		return Header{}, xeterr.New(xeterr.CodeTruncatedShard, "bad shard magic")
	}
	h := Header{
		Version:    binary.LittleEndian.Uint64(buf[32:40]),
		FooterSize: binary.LittleEndian.Uint64(buf[40:48]),
	}
	if h.Version != CurrentVersion {
		return Header{}, xeterr.New(xeterr.CodeUnsupportedVersion,
			fmt.Sprintf("unsupported shard version %d", h.Version))
	}
	return h, nil
}

// Footer is the fixed 200-byte shard file footer (spec §3).
type Footer struct {
	Version             uint64
	FileInfoOffset      uint64
	CASInfoOffset       uint64
	ChunkHashHMACKey     [32]byte // all-zero means "no keyed protection"
	CreationTimestamp   uint64
	KeyExpiry           uint64
	FooterOffset        uint64
}

// Encode serializes f into its 200-byte wire form.
func (f Footer) Encode() [FooterSize]byte {
	var buf [FooterSize]byte
	binary.LittleEndian.PutUint64(buf[0:8], f.Version)
	binary.LittleEndian.PutUint64(buf[8:16], f.FileInfoOffset)
	binary.LittleEndian.PutUint64(buf[16:24], f.CASInfoOffset)
	// buf[24:72] reserved (48 bytes)
	copy(buf[72:104], f.ChunkHashHMACKey[:])
	binary.LittleEndian.PutUint64(buf[104:112], f.CreationTimestamp)
	binary.LittleEndian.PutUint64(buf[112:120], f.KeyExpiry)
	// buf[120:192] reserved (72 bytes)
	binary.LittleEndian.PutUint64(buf[192:200], f.FooterOffset)
	return buf
}

// DecodeFooter parses and validates a 200-byte shard footer.
func DecodeFooter(buf []byte) (Footer, error) {
	if len(buf) < FooterSize {
		return Footer{}, xeterr.New(xeterr.CodeTruncatedShard, "truncated shard footer")
	}
	f := Footer{
		Version:        binary.LittleEndian.Uint64(buf[0:8]),
		FileInfoOffset: binary.LittleEndian.Uint64(buf[8:16]),
		CASInfoOffset:  binary.LittleEndian.Uint64(buf[16:24]),
	}
	copy(f.ChunkHashHMACKey[:], buf[72:104])
	f.CreationTimestamp = binary.LittleEndian.Uint64(buf[104:112])
	f.KeyExpiry = binary.LittleEndian.Uint64(buf[112:120])
	f.FooterOffset = binary.LittleEndian.Uint64(buf[192:200])
	if f.Version != CurrentVersion {
		return Footer{}, xeterr.New(xeterr.CodeUnsupportedVersion,
			fmt.Sprintf("unsupported shard footer version %d", f.Version))
	}
	return f, nil
}

func isBookend(buf []byte) bool {
	if len(buf) < RecordSize {
		return false
	}
	for _, b := range buf[:RecordSize] {
		if b != 0xFF {
			return false
		}
	}
	return true
}
