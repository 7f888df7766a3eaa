package repair

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lzip-tools/lziprecover/internal/recover/rectest"
	"github.com/lzip-tools/lziprecover/internal/recover/rerr"
)

// memFile is an in-memory io.ReaderAt + io.WriterAt, standing in for
// the *os.File the app layer would otherwise hand repair.Run.
type memFile struct {
	buf []byte
}

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

func (m *memFile) WriteAt(p []byte, off int64) (int, error) {
	end := off + int64(len(p))
	if end > int64(len(m.buf)) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}
	return copy(m.buf[off:], p), nil
}

func validMemberShell(size int64, fill byte) []byte {
	b := bytes.Repeat([]byte{fill}, int(size))
	copy(b[:6], []byte{'L', 'Z', 'I', 'P', 1, 23})
	return b
}

func TestRunFailurePosTooCloseToTrailerRejected(t *testing.T) {
	// size-9 < HeaderSize forces the "can't repair" rejection before
	// any byte is ever tried.
	size := int64(14)
	out := &memFile{buf: validMemberShell(size, 0x11)}

	err := Run(out, size, size-1, nil)
	require.Error(t, err)
	assert.Equal(t, rerr.Invalid, rerr.ExitCode(err))
	assert.ErrorContains(t, err, "can't repair")
}

func TestRunRestoresOriginalByteOnExhaustion(t *testing.T) {
	size := int64(64)
	out := &memFile{buf: validMemberShell(size, 0x55)}
	before := append([]byte{}, out.buf...)

	var positions []int64
	err := Run(out, size, 20, func(pos int64) { positions = append(positions, pos) })
	require.Error(t, err)
	// Garbage payload: no single-byte mutation can ever make it decode,
	// and every rejection it produces is an ordinary decode failure, so
	// the search must run to exhaustion (Invalid) rather than abort
	// early or report success.
	assert.Equal(t, rerr.Invalid, rerr.ExitCode(err))
	assert.NotEmpty(t, positions)
	assert.Equal(t, before, out.buf)
}

// A genuine member with exactly one corrupted byte must be restored
// byte-for-byte: the 255-value trial loop is guaranteed to pass through
// the original byte before exhausting, so the oracle must eventually
// accept and Run must leave the genuine member in out.
func TestRunRestoresGenuineMemberFromSingleByteCorruption(t *testing.T) {
	original, err := rectest.BuildMember([]byte("Pack my box with five dozen liquor jugs. 0123456789 ABCDEFGHIJKLMNOPQRSTUVWXYZ!"))
	require.NoError(t, err)
	size := int64(len(original))

	payloadLen := size - 6 - 20
	require.Greater(t, payloadLen, int64(1), "payload too short to place a corruption")
	pos := int64(6) + payloadLen/2

	corrupted := append([]byte{}, original...)
	corrupted[pos] ^= 0xff

	out := &memFile{buf: corrupted}

	err = Run(out, size, pos, nil)
	require.NoError(t, err)
	assert.Equal(t, original, out.buf)
}

func TestRunWindowBounds(t *testing.T) {
	// failurePos-1000 goes negative here, so the window must clamp to
	// the header boundary rather than scanning past it.
	size := int64(700)
	out := &memFile{buf: validMemberShell(size, 0x77)}

	var positions []int64
	_ = Run(out, size, 30, func(pos int64) { positions = append(positions, pos) })

	require.NotEmpty(t, positions)
	for _, p := range positions {
		assert.LessOrEqual(t, p, int64(30))
		assert.GreaterOrEqual(t, p, int64(6))
	}
	// Descending scan order, starting at failurePos.
	assert.Equal(t, int64(30), positions[0])
}
