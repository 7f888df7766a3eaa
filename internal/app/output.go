package app

import (
	"os"
	"strings"

	"github.com/lzip-tools/lziprecover/internal/recover/rerr"
)

// insertFixed derives the default merge/repair output filename from the
// first input: "_fixed" is inserted before a ".lz" or ".tlz" suffix, or
// appended with a ".lz" extension if neither is present.
func insertFixed(name string) string {
	switch {
	case strings.HasSuffix(name, ".tlz"):
		return name[:len(name)-4] + "_fixed.tlz"
	case strings.HasSuffix(name, ".lz"):
		return name[:len(name)-3] + "_fixed.lz"
	default:
		return name + "_fixed.lz"
	}
}

// openInput opens name for reading and verifies it is a regular file,
// returning its size.
func openInput(name string) (*os.File, int64, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, 0, rerr.Wrap(rerr.Environmental, err, "can't open input file")
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, rerr.Wrap(rerr.Environmental, err, "can't stat input file")
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, 0, rerr.New(rerr.Environmental, "input file "+name+" is not a regular file")
	}
	return f, info.Size(), nil
}

// createOutput creates name for read/write, failing if it already
// exists unless force is set.
func createOutput(name string, force bool) (*os.File, error) {
	flags := os.O_CREATE | os.O_RDWR
	if force {
		flags |= os.O_TRUNC
	} else {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(name, flags, 0644)
	if err != nil {
		if os.IsExist(err) {
			return nil, rerr.Wrap(rerr.Environmental, err, "output file "+name+" already exists, use --force to overwrite it")
		}
		return nil, rerr.Wrap(rerr.Environmental, err, "can't create output file "+name)
	}
	return f, nil
}
