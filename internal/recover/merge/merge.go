// Package merge implements the merge recovery strategy: enumerate
// block-wise byte-source assignments across K damaged copies of the
// same member and drive the decompression oracle until one assignment
// decodes.
package merge

import (
	"io"
	"math"

	"github.com/lzip-tools/lziprecover/internal/recover/diff"
	"github.com/lzip-tools/lziprecover/internal/recover/oracle"
	"github.com/lzip-tools/lziprecover/internal/recover/rerr"
)

// Source is a single damaged copy: merge needs to both stream it
// (for the initial diff scan) and seek+read arbitrary byte ranges from
// it (to assemble a candidate assignment).
type Source interface {
	io.ReadSeeker
}

// Output is the file merge builds candidates into: writable, seekable,
// and randomly readable so the oracle can be invoked on it directly.
type Output interface {
	io.ReadWriteSeeker
	io.ReaderAt
}

// Progress is called before each variation is tried, with the 1-based
// variation number and the total variation count, so a caller can print
// "Trying variation N of M" at the verbosity level it chooses. It may be
// nil.
type Progress func(variation, total int64)

// Run enumerates block-wise assignments of copies into out until the
// oracle accepts one, or the search is exhausted. copies must all have
// already been verified as equal-length, valid single members of size,
// none of which individually decodes — those preconditions are the
// caller's responsibility (see internal/app), since they require
// file-level diagnostics this package does not own.
func Run(copies []Source, out Output, size int64, progress Progress) error {
	readers := make([]io.Reader, len(copies))
	for i, c := range copies {
		if _, err := c.Seek(0, io.SeekStart); err != nil {
			return rerr.Wrap(rerr.Environmental, err, "seeking input file")
		}
		readers[i] = c
	}
	if _, err := out.Seek(0, io.SeekStart); err != nil {
		return rerr.Wrap(rerr.Environmental, err, "seeking output file")
	}

	blocks, err := diff.CopyAndDiff(readers, out)
	if err != nil {
		return rerr.Wrap(rerr.Environmental, err, "diffing input files")
	}

	if len(blocks) == 0 {
		return rerr.New(rerr.Environmental, "input files are identical, recovery is not possible")
	}
	singleBlock := len(blocks) == 1
	if singleBlock && blocks[0].Size < 2 {
		return rerr.New(rerr.Environmental, "input files have the same byte damaged, try repairing one of them")
	}

	k := int64(len(copies))
	baseVariations, overflow := ipow(k, int64(len(blocks)))
	if overflow || baseVariations >= math.MaxInt32 {
		return rerr.New(rerr.Environmental, "input files are too damaged, recovery is not possible")
	}
	if singleBlock {
		k2, _ := ipow(k, 2)
		if k2 >= math.MaxInt32/blocks[0].Size {
			return rerr.New(rerr.Environmental, "input files are too damaged, recovery is not possible")
		}
	}

	shifts := int64(1)
	if singleBlock {
		shifts = blocks[0].Size - 1
		shifted := diff.Block{Pos: blocks[0].Pos + 1, Size: blocks[0].Size - 1}
		blocks[0].Size = 1
		blocks = append(blocks, shifted)
		// Each pivot position enumerates every assignment of the two
		// sub-blocks; K^2 fits, as checked above.
		baseVariations, _ = ipow(k, int64(len(blocks)))
	}

	variations := baseVariations*shifts - 2
	for v := int64(1); v <= variations; v++ {
		if progress != nil {
			progress(v, variations)
		}

		tmp := v
		for i := range blocks {
			src := copies[tmp%k]
			tmp /= k
			if err := copyRange(src, out, blocks[i].Pos, blocks[i].Size); err != nil {
				return rerr.Wrap(rerr.Environmental, err, "assembling candidate output")
			}
		}

		if _, err := out.Seek(0, io.SeekStart); err != nil {
			return rerr.Wrap(rerr.Environmental, err, "seeking output file")
		}
		verdict := oracle.TryDecompress(out, size)
		if verdict.Fatal != nil {
			return rerr.Wrap(rerr.Environmental, verdict.Fatal, "not enough memory, find a machine with more memory")
		}
		if verdict.Accepted {
			return nil
		}

		if v%baseVariations == 0 {
			blocks[0].Size++
			blocks[1].Pos++
			blocks[1].Size--
		}
	}

	return rerr.New(rerr.Invalid, "some error areas overlap, can't recover input file")
}

// copyRange copies size bytes starting at pos from src to the same
// offset in out.
func copyRange(src Source, out Output, pos, size int64) error {
	if _, err := src.Seek(pos, io.SeekStart); err != nil {
		return err
	}
	if _, err := out.Seek(pos, io.SeekStart); err != nil {
		return err
	}
	_, err := io.CopyN(out, src, size)
	return err
}

// ipow computes base^exp, reporting overflow (and returning
// math.MaxInt32) once the result would exceed math.MaxInt32, the way the
// original tool's saturating ipow would have hit INT_MAX.
func ipow(base, exp int64) (result int64, overflow bool) {
	result = 1
	for i := int64(0); i < exp; i++ {
		if result > math.MaxInt32/base {
			return math.MaxInt32, true
		}
		result *= base
	}
	return result, false
}
