// Package oracle implements the decompression-validation oracle: the
// fitness function the merge and repair engines drive. It treats the
// actual LZMA decoder as an external collaborator, per the recovery
// engine's design, and is satisfied here by github.com/ulikunitz/xz/lzma
// rather than a hand-rolled range coder.
package oracle

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"io"
	"runtime"
	"strings"

	"github.com/ulikunitz/xz/lzma"

	"github.com/lzip-tools/lziprecover/internal/lzip"
)

// Verdict is the result of one oracle invocation.
type Verdict struct {
	// Accepted is true iff the member decoded completely and the
	// decoder consumed exactly the expected number of bytes.
	Accepted bool
	// FailurePos is the number of bytes consumed before decoding
	// failed. It is zero when the gating checks reject the header
	// before any decoding is attempted.
	FailurePos int64
	// Fatal is set only when the decoder panicked with a runtime
	// out-of-memory allocation failure. Every other panic the decoder
	// raises (malformed bitstream conditions reachable on arbitrary
	// candidate data, e.g. an out-of-range match distance) is an
	// ordinary rejection, not Fatal: callers must terminate the process
	// with exit code 1 only when Fatal is set, and keep enumerating
	// candidates otherwise.
	Fatal error
}

// TryDecompress reads src from offset 0, gates on the header, then runs
// the LZMA decoder to member completion. It returns Accepted=true only
// if decoding completes without error and consumes exactly size bytes.
func TryDecompress(src io.ReaderAt, size int64) Verdict {
	if size <= 0 {
		return Verdict{}
	}

	hdr := make([]byte, lzip.HeaderSize)
	if _, err := src.ReadAt(hdr, 0); err != nil {
		return Verdict{}
	}
	h, ok := lzip.ParseHeader(hdr)
	if !ok || !h.Valid() {
		return Verdict{}
	}

	rest := make([]byte, size-lzip.HeaderSize)
	if _, err := src.ReadAt(rest, lzip.HeaderSize); err != nil {
		return Verdict{}
	}
	if len(rest) < lzip.TrailerSize {
		return Verdict{}
	}

	trailer, _ := lzip.ParseTrailer(rest[len(rest)-lzip.TrailerSize:])
	payload := rest[:len(rest)-lzip.TrailerSize]

	return decode(h, trailer, payload, size)
}

// decode runs the LZMA decoder over payload, reporting consumed bytes
// relative to the whole member (header included).
func decode(h lzip.Header, trailer lzip.Trailer, payload []byte, size int64) (v Verdict) {
	var cr *countingReader
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if oom, ok := r.(runtime.Error); ok && isOutOfMemory(oom) {
			v = Verdict{Fatal: fatalError{oom}}
			return
		}
		// Any other panic is the same kind of malformed-bitstream
		// condition an ordinary decode error reports; a candidate that
		// drives the decoder into an invariant violation is rejected,
		// not fatal, so the search above keeps enumerating.
		pos := int64(0)
		if cr != nil {
			pos = clamp(cr.n, int64(len(payload)))
		}
		v = Verdict{FailurePos: lzip.HeaderSize + pos}
	}()

	var synth [lzma.HeaderLen]byte
	synth[0] = lzma.Properties{LC: 3, LP: 0, PB: 2}.Code()
	binary.LittleEndian.PutUint32(synth[1:5], h.DictSize)
	binary.LittleEndian.PutUint64(synth[5:13], trailer.DataSize)

	cr = &countingReader{r: bytes.NewReader(payload)}
	stream := io.MultiReader(bytes.NewReader(synth[:]), cr)

	dec, err := lzma.NewReader(stream)
	if err != nil {
		return Verdict{FailurePos: lzip.HeaderSize}
	}

	hasher := crc32.NewIEEE()
	n, err := io.Copy(hasher, dec)
	if err != nil {
		return Verdict{FailurePos: lzip.HeaderSize + clamp(cr.n, int64(len(payload)))}
	}

	consumedTotal := lzip.HeaderSize + cr.n + lzip.TrailerSize
	if uint64(n) != trailer.DataSize || hasher.Sum32() != trailer.CRC {
		return Verdict{FailurePos: lzip.HeaderSize + clamp(cr.n, int64(len(payload)))}
	}
	return Verdict{
		Accepted:   consumedTotal == size,
		FailurePos: lzip.HeaderSize + cr.n,
	}
}

func clamp(n, max int64) int64 {
	if n > max {
		return max
	}
	return n
}

// countingReader tracks how many bytes have been read from r, giving
// the oracle its "bytes consumed" measurement.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// isOutOfMemory reports whether a recovered runtime.Error indicates an
// allocation failure rather than some other runtime invariant panic.
func isOutOfMemory(err runtime.Error) bool {
	return strings.Contains(err.Error(), "out of memory")
}

// fatalError wraps a recovered runtime out-of-memory panic as an error.
type fatalError struct {
	err runtime.Error
}

func (e fatalError) Error() string {
	return "lzma decoder: out of memory: " + e.err.Error()
}

func (e fatalError) Unwrap() error {
	return e.err
}
