package merge

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lzip-tools/lziprecover/internal/recover/rectest"
	"github.com/lzip-tools/lziprecover/internal/recover/rerr"
)

// memFile is an in-memory io.ReadWriteSeeker + io.ReaderAt, standing in
// for the *os.File the app layer would otherwise hand merge.Run.
type memFile struct {
	buf []byte
	pos int64
}

func newMemFile(size int64) *memFile { return &memFile{buf: make([]byte, size)} }

func (m *memFile) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(m.buf)) {
		return 0, io.EOF
	}
	n := copy(p, m.buf[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func (m *memFile) Read(p []byte) (int, error) {
	n, err := m.ReadAt(p, m.pos)
	m.pos += int64(n)
	return n, err
}

func (m *memFile) Write(p []byte) (int, error) {
	end := m.pos + int64(len(p))
	if end > int64(len(m.buf)) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}
	n := copy(m.buf[m.pos:], p)
	m.pos += int64(n)
	return n, nil
}

func (m *memFile) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		m.pos = offset
	case io.SeekCurrent:
		m.pos += offset
	case io.SeekEnd:
		m.pos = int64(len(m.buf)) + offset
	}
	return m.pos, nil
}

// validMemberShell returns a buffer with a valid lzip header at offset
// 0 and arbitrary bytes after it. The payload is never valid LZMA, so
// the oracle always rejects it; these tests exercise the enumeration
// and classification logic around the oracle, not a successful decode.
func validMemberShell(size int64, fill byte) []byte {
	b := bytes.Repeat([]byte{fill}, int(size))
	copy(b[:6], []byte{'L', 'Z', 'I', 'P', 1, 23})
	return b
}

func TestRunIdenticalFilesRejected(t *testing.T) {
	data := validMemberShell(64, 0x55)
	copies := []Source{bytes.NewReader(data), bytes.NewReader(append([]byte{}, data...))}
	out := newMemFile(64)

	err := Run(copies, out, 64, nil)
	require.Error(t, err)
	assert.Equal(t, rerr.Environmental, rerr.ExitCode(err))
	assert.ErrorContains(t, err, "identical")
}

func TestRunSingleByteDamageRejected(t *testing.T) {
	a := validMemberShell(64, 0x55)
	b := append([]byte{}, a...)
	b[40] = 0x56 // exactly one byte differs

	copies := []Source{bytes.NewReader(a), bytes.NewReader(b)}
	out := newMemFile(64)

	err := Run(copies, out, 64, nil)
	require.Error(t, err)
	assert.Equal(t, rerr.Environmental, rerr.ExitCode(err))
	assert.ErrorContains(t, err, "try repairing")
}

func TestRunExhaustsSearchWhenNoVariationDecodes(t *testing.T) {
	a := validMemberShell(64, 0x55)
	b := append([]byte{}, a...)
	// A multi-byte block of damage: garbage payload, so no variation
	// the enumeration tries will ever satisfy the oracle.
	b[40] = 0x56
	b[41] = 0x57
	b[42] = 0x58

	var seenVariations int64
	progress := func(v, total int64) {
		seenVariations = v
		assert.LessOrEqual(t, v, total)
	}

	copies := []Source{bytes.NewReader(a), bytes.NewReader(b)}
	out := newMemFile(64)

	// The payload is never valid LZMA, so no variation the enumeration
	// tries can possibly satisfy the oracle. Every rejection the garbage
	// payload produces is an ordinary decode failure, never an
	// out-of-memory panic, so the search must run to exhaustion (Invalid)
	// rather than abort early, and it must have tried at least one
	// variation along the way.
	err := Run(copies, out, 64, progress)
	require.Error(t, err)
	assert.Equal(t, rerr.Invalid, rerr.ExitCode(err))
	assert.Greater(t, seenVariations, int64(0))
}

// A genuine single-byte corruption in each of two copies, at two
// isolated positions, is exactly the multi-block case merge exists to
// resolve: each copy is correct exactly where the other is wrong, so
// the enumeration must find the one assignment that reconstructs the
// original member byte-for-byte and drives the oracle to acceptance.
func TestRunRecoversGenuineMemberFromTwoCorruptedCopies(t *testing.T) {
	original, err := rectest.BuildMember([]byte("Pack my box with five dozen liquor jugs. 0123456789 ABCDEFGHIJKLMNOPQRSTUVWXYZ!"))
	require.NoError(t, err)

	payloadLen := int64(len(original)) - 6 - 20
	require.Greater(t, payloadLen, int64(10), "payload too short to place two isolated corruptions")
	p1 := 6 + payloadLen/3
	p2 := 6 + 2*payloadLen/3

	a := append([]byte{}, original...)
	b := append([]byte{}, original...)
	a[p1] ^= 0xff // a is wrong at p1, still correct at p2
	b[p2] ^= 0xff // b is wrong at p2, still correct at p1

	copies := []Source{bytes.NewReader(a), bytes.NewReader(b)}
	out := newMemFile(int64(len(original)))

	err = Run(copies, out, int64(len(original)), nil)
	require.NoError(t, err)

	got := make([]byte, len(original))
	_, err = out.ReadAt(got, 0)
	require.NoError(t, err)
	assert.Equal(t, original, got)
}

func TestIpow(t *testing.T) {
	testCases := []struct {
		desc         string
		base, exp    int64
		want         int64
		wantOverflow bool
	}{
		{desc: "2^3", base: 2, exp: 3, want: 8},
		{desc: "3^0", base: 3, exp: 0, want: 1},
		{desc: "overflow", base: 2, exp: 62, wantOverflow: true},
	}
	for _, tt := range testCases {
		t.Run(tt.desc, func(t *testing.T) {
			got, overflow := ipow(tt.base, tt.exp)
			assert.Equal(t, tt.wantOverflow, overflow)
			if !tt.wantOverflow {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
