// Package diff implements the multi-copy diff scanner used by the merge
// engine: it reads N equal-length copies in lockstep and reports the
// byte regions where they disagree.
package diff

import "io"

const chunkSize = 64 * 1024

// Block is a half-open byte interval [Pos, Pos+Size) over which at
// least one copy disagrees with copies[0].
type Block struct {
	Pos  int64
	Size int64
}

// End returns Pos + Size.
func (b Block) End() int64 { return b.Pos + b.Size }

// CopyAndDiff reads all of copies in lockstep in fixed-size chunks,
// writes copies[0]'s bytes to out, and returns the ordered list of
// blocks where some copy disagrees with copies[0].
//
// A block opens at the first position where any copy differs from
// copies[0], and closes once two consecutive bytes agree across every
// copy; a single matching byte is not enough, since LZMA coding state
// couples adjacent bytes. If EOF is reached with a block open, it closes
// there.
func CopyAndDiff(copies []io.Reader, out io.Writer) ([]Block, error) {
	bufs := make([][]byte, len(copies))
	for i := range bufs {
		bufs[i] = make([]byte, chunkSize)
	}

	var blocks []Block
	var open bool
	var block Block
	var equalRun int
	var partialPos int64

	for {
		rd, err := io.ReadFull(copies[0], bufs[0])
		if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
			return nil, err
		}
		for i := 1; i < len(copies); i++ {
			if rd == 0 {
				break
			}
			if _, err := io.ReadFull(copies[i], bufs[i][:rd]); err != nil {
				return nil, err
			}
		}
		if rd > 0 {
			if _, err := out.Write(bufs[0][:rd]); err != nil {
				return nil, err
			}

			for i := 0; i < rd; i++ {
				differs := false
				for j := 1; j < len(copies); j++ {
					if bufs[0][i] != bufs[j][i] {
						differs = true
						break
					}
				}

				if !open {
					if differs {
						open = true
						block = Block{Pos: partialPos + int64(i)}
						equalRun = 0
					}
					continue
				}

				if differs {
					equalRun = 0
					continue
				}
				equalRun++
				if equalRun >= 2 {
					block.Size = partialPos + int64(i) - int64(equalRun-1) - block.Pos
					blocks = append(blocks, block)
					open = false
					equalRun = 0
				}
			}
			partialPos += int64(rd)
		}
		if rd < chunkSize {
			break
		}
	}

	if open {
		block.Size = partialPos - block.Pos
		blocks = append(blocks, block)
	}
	return blocks, nil
}
