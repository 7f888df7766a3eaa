// Package lzip implements the parts of the lzip (version 1) container
// format that the recovery engine needs: header and trailer parsing and
// validation. The compressed payload itself is decoded by
// github.com/ulikunitz/xz/lzma; see internal/recover/oracle.
package lzip

import "encoding/binary"

const (
	// HeaderSize is the fixed size in bytes of a member header.
	HeaderSize = 6
	// TrailerSize is the fixed size in bytes of a member trailer.
	TrailerSize = 20
	// MinMemberSize is the smallest possible well-formed member: header
	// (6) + minimum LZMA payload (10) + trailer (20).
	MinMemberSize = HeaderSize + 10 + TrailerSize

	// MinDictSize is the minimum dictionary size lzip allows, 4 KiB.
	MinDictSize = 1 << 12
	// MaxDictSize is the maximum dictionary size lzip allows, 512 MiB.
	MaxDictSize = 1 << 29
)

// Magic is the 4-byte member magic prefix, "LZIP".
var Magic = [4]byte{'L', 'Z', 'I', 'P'}

// Header is the fixed-size member header.
type Header struct {
	Version  byte
	DictSize uint32
}

// ParseHeader decodes a 6-byte header. It checks only the magic prefix,
// returning ok=false on a mismatch; call Valid to check version and
// dictionary size bounds.
func ParseHeader(b []byte) (Header, bool) {
	if len(b) < HeaderSize {
		return Header{}, false
	}
	if [4]byte{b[0], b[1], b[2], b[3]} != Magic {
		return Header{}, false
	}
	dictSize := uint32(1) << (b[5] & 0x1f)
	dictSize -= (dictSize / 16) * uint32((b[5]>>5)&0x07)
	return Header{Version: b[4], DictSize: dictSize}, true
}

// Valid reports whether h satisfies the version and dictionary-size
// gates a decodable member requires. It does not check the magic
// prefix; ParseHeader already rejects a bad magic by returning ok=false.
func (h Header) Valid() bool {
	return h.Version == 1 && h.DictSize >= MinDictSize && h.DictSize <= MaxDictSize
}

// Trailer is the fixed-size member trailer.
type Trailer struct {
	CRC        uint32
	DataSize   uint64
	MemberSize uint64
}

// ParseTrailer decodes a 20-byte trailer.
func ParseTrailer(b []byte) (Trailer, bool) {
	if len(b) < TrailerSize {
		return Trailer{}, false
	}
	return Trailer{
		CRC:        binary.LittleEndian.Uint32(b[0:4]),
		DataSize:   binary.LittleEndian.Uint64(b[4:12]),
		MemberSize: binary.LittleEndian.Uint64(b[12:20]),
	}, true
}
