// Package split implements the split recovery strategy: scanning a
// concatenated multi-member lzip stream for member boundaries and
// writing each member out to a sequentially numbered file.
package split

import (
	"io"

	"github.com/lzip-tools/lziprecover/internal/lzip"
	"github.com/lzip-tools/lziprecover/internal/recover/rerr"
)

const chunkSize = 64 * 1024

// NewOutput creates the next output file by name. The caller owns
// closing it; Run closes each output itself once it is done writing to
// it, via the io.WriteCloser it was handed.
type NewOutput func(name string) (io.WriteCloser, error)

// Run scans in for lzip member boundaries and writes each member to a
// file produced by newOutput, named by namer. in need not be seekable;
// Run reads it once, forward only.
func Run(in io.Reader, namer *Namer, newOutput NewOutput) error {
	hsize := lzip.HeaderSize
	tsize := lzip.TrailerSize

	// buf holds tsize bytes of lookback, the active chunk, and hsize
	// bytes of lookahead so a boundary spanning a chunk edge can still
	// be confirmed; see the memmove at the bottom of the loop.
	buf := make([]byte, tsize+chunkSize+hsize)

	n, err := io.ReadFull(in, buf[tsize:tsize+chunkSize+hsize])
	size := n - hsize
	atEnd := size < chunkSize
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return rerr.Wrap(rerr.Environmental, err, "reading input file")
	}
	if size <= tsize {
		return rerr.New(rerr.Invalid, "input file is too short")
	}

	chunk := buf[tsize:]
	if verr := lzip.VerifyHeader(chunk[:hsize]); verr != nil {
		return rerr.Wrap(rerr.Invalid, verr, "invalid member header")
	}

	out, err := newOutput(namer.Current())
	if err != nil {
		return rerr.Wrap(rerr.Environmental, err, "creating output file")
	}

	var partialMemberSize int64
	for {
		pos := 0
		for newpos := 1; newpos <= size; newpos++ {
			if !isMagic(chunk, newpos) {
				continue
			}
			memberSize := readMemberSizeBefore(buf, tsize, newpos)
			if partialMemberSize+int64(newpos-pos) != memberSize {
				continue
			}

			if _, err := out.Write(chunk[pos:newpos]); err != nil {
				return rerr.Wrap(rerr.Environmental, err, "writing output file")
			}
			if err := out.Close(); err != nil {
				return rerr.Wrap(rerr.Environmental, err, "closing output file")
			}
			if !namer.Next() {
				return rerr.New(rerr.Environmental, "too many members in file")
			}
			out, err = newOutput(namer.Current())
			if err != nil {
				return rerr.Wrap(rerr.Environmental, err, "creating output file")
			}
			partialMemberSize = 0
			pos = newpos
		}

		if atEnd {
			if _, err := out.Write(chunk[pos : size+hsize]); err != nil {
				return rerr.Wrap(rerr.Environmental, err, "writing output file")
			}
			break
		}
		if pos < chunkSize {
			partialMemberSize += int64(chunkSize - pos)
			if _, err := out.Write(chunk[pos:chunkSize]); err != nil {
				return rerr.Wrap(rerr.Environmental, err, "writing output file")
			}
		}

		copy(buf, buf[chunkSize:chunkSize+tsize+hsize])
		n, err := io.ReadFull(in, buf[tsize+hsize:tsize+hsize+chunkSize])
		size = n
		atEnd = size < chunkSize
		if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
			return rerr.Wrap(rerr.Environmental, err, "reading input file")
		}
	}

	if err := out.Close(); err != nil {
		return rerr.Wrap(rerr.Environmental, err, "closing output file")
	}
	return nil
}

func isMagic(chunk []byte, pos int) bool {
	return [4]byte{chunk[pos], chunk[pos+1], chunk[pos+2], chunk[pos+3]} == lzip.Magic
}

// readMemberSizeBefore reads the 8-byte little-endian candidate
// member-size trailer field ending just before newpos in the chunk,
// from the base buffer that includes tsize bytes of lookback.
func readMemberSizeBefore(base []byte, tsize, newpos int) int64 {
	var memberSize int64
	for i := 1; i <= 8; i++ {
		memberSize <<= 8
		memberSize += int64(base[tsize+newpos-i])
	}
	return memberSize
}
