// Package rectest builds genuine, decodable lzip members for tests
// across the recovery engine: oracle, merge and repair all need a real
// compressed fixture to prove they drive an actual accept path, not
// just their rejection/exhaustion paths.
package rectest

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"

	"github.com/ulikunitz/xz/lzma"
)

// DictSize is the dictionary size used for every fixture this package
// builds. It is pinned to lzma.MinDictCap so the lzip header's
// dictionary-size byte is the plain bit length of DictSize with no
// fractional adjustment, matching github.com/sorairolake/lzip-go's own
// header encoding for that case.
const DictSize = lzma.MinDictCap

// dictSizeByte is the header byte, 12, because lzma.MinDictCap is
// 1<<12 and the fractional-subtraction bits only apply when the
// requested size exceeds the next power of two below it.
const dictSizeByte = 12

// BuildMember compresses plaintext with the real LZMA writer and
// wraps the result in a minimal, single-member lzip v1 container with
// a correct header and trailer, so internal/recover/oracle.TryDecompress
// accepts it exactly as it would a genuine lziprecover input file.
func BuildMember(plaintext []byte) ([]byte, error) {
	var buf bytes.Buffer
	cw, err := lzma.WriterConfig{DictCap: DictSize}.NewWriter(&buf)
	if err != nil {
		return nil, err
	}
	if _, err := cw.Write(plaintext); err != nil {
		return nil, err
	}
	if err := cw.Close(); err != nil {
		return nil, err
	}

	// The writer prepends its own 13-byte LZMA header; the oracle
	// rebuilds that header itself from the lzip header and trailer, so
	// only the compressed payload after it belongs in the member.
	payload := buf.Bytes()[lzma.HeaderLen:]

	member := make([]byte, 0, 6+len(payload)+20)
	member = append(member, 'L', 'Z', 'I', 'P', 1, dictSizeByte)
	member = append(member, payload...)

	var trailer [20]byte
	binary.LittleEndian.PutUint32(trailer[0:4], crc32.ChecksumIEEE(plaintext))
	binary.LittleEndian.PutUint64(trailer[4:12], uint64(len(plaintext)))
	binary.LittleEndian.PutUint64(trailer[12:20], uint64(len(member)+len(trailer)))
	member = append(member, trailer[:]...)

	return member, nil
}
