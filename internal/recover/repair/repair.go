// Package repair implements the repair recovery strategy: a bounded
// single-byte mutation search around the oracle-reported failure
// position of a single damaged member.
package repair

import (
	"io"

	"github.com/lzip-tools/lziprecover/internal/lzip"
	"github.com/lzip-tools/lziprecover/internal/recover/oracle"
	"github.com/lzip-tools/lziprecover/internal/recover/rerr"
)

// Output is the file being repaired in place: a byte-exact copy of the
// damaged input that this package mutates one byte at a time.
type Output interface {
	io.ReaderAt
	io.WriterAt
}

// Progress is called before each candidate position is tried, with the
// byte offset under test. It may be nil.
type Progress func(pos int64)

// Run searches for a single-byte mutation that makes out decode
// successfully. failurePos is the byte offset try_decompress reported
// for the unmodified input; out must already be a byte-exact copy of
// it. On success the winning byte is left in place in out. On
// exhaustion it returns an Invalid-classified error; the caller is
// responsible for deleting out in that case.
func Run(out Output, size, failurePos int64, progress Progress) error {
	if failurePos >= size-8 {
		failurePos = size - 9
	}
	if failurePos < lzip.HeaderSize {
		return rerr.New(rerr.Invalid, "can't repair error in input file")
	}

	minPos := failurePos - 1000
	if minPos < lzip.HeaderSize {
		minPos = lzip.HeaderSize
	}

	buf := make([]byte, 1)
	for pos := failurePos; pos >= minPos; pos-- {
		if progress != nil {
			progress(pos)
		}

		if _, err := out.ReadAt(buf, pos); err != nil {
			return rerr.Wrap(rerr.Environmental, err, "reading output file")
		}
		original := buf[0]

		found := false
		b := original
		for i := 0; i < 255; i++ {
			b++
			if _, err := out.WriteAt([]byte{b}, pos); err != nil {
				return rerr.Wrap(rerr.Environmental, err, "writing output file")
			}

			verdict := oracle.TryDecompress(out, size)
			if verdict.Fatal != nil {
				return rerr.Wrap(rerr.Environmental, verdict.Fatal, "not enough memory, find a machine with more memory")
			}
			if verdict.Accepted {
				found = true
				break
			}
		}
		if found {
			return nil
		}

		// Restore the original byte; the 255th mutation above left
		// it at original-1, one short of wrapping back around.
		b++
		if _, err := out.WriteAt([]byte{b}, pos); err != nil {
			return rerr.Wrap(rerr.Environmental, err, "writing output file")
		}
	}

	return rerr.New(rerr.Invalid, "error is larger than 1 byte, can't repair input file")
}
