package lzip

import (
	"fmt"
	"io"
)

// HeaderError describes why a header failed verification. The version
// checks are split so callers can tell "version 0, unsupported by
// design" apart from "unknown version", matching the distinct
// diagnostics the original recovery tool gives for each.
type HeaderError struct {
	Reason string
}

func (e *HeaderError) Error() string { return "lzip: " + e.Reason }

// VerifyHeader checks magic, version and dictionary size. Version 0 is
// rejected with a distinct reason from other unsupported versions, even
// though both are failures.
func VerifyHeader(b []byte) error {
	h, ok := ParseHeader(b)
	if !ok {
		return &HeaderError{Reason: "bad magic number (file not in lzip format)"}
	}
	switch h.Version {
	case 0:
		return &HeaderError{Reason: "version 0 member format can't be recovered"}
	case 1:
	default:
		return &HeaderError{Reason: fmt.Sprintf("version %d member format not supported", h.Version)}
	}
	if h.DictSize < MinDictSize {
		return &HeaderError{Reason: "dictionary size is too small"}
	}
	if h.DictSize > MaxDictSize {
		return &HeaderError{Reason: "dictionary size is too large"}
	}
	return nil
}

// MultiMemberError reports that a file believed to hold a single member
// in fact holds more than one, as detected from a trailer member-size
// field smaller than the file.
type MultiMemberError struct{}

func (e *MultiMemberError) Error() string {
	return "lzip: input file has more than 1 member, split it first"
}

// VerifySingleMember reads the header at offset 0 and the trailer at
// offset size-TrailerSize of src, and checks that the header is valid
// and the trailer's member-size field equals size exactly. If the
// trailer declares a smaller member size and a valid header is found at
// that earlier offset, it reports MultiMemberError instead of a generic
// mismatch, since that is a more useful diagnostic.
func VerifySingleMember(src io.ReaderAt, size int64) error {
	if size < MinMemberSize {
		return &HeaderError{Reason: "input file is too short"}
	}

	hdr := make([]byte, HeaderSize)
	if _, err := src.ReadAt(hdr, 0); err != nil {
		return fmt.Errorf("lzip: reading member header: %w", err)
	}
	if err := VerifyHeader(hdr); err != nil {
		return err
	}

	trl := make([]byte, TrailerSize)
	if _, err := src.ReadAt(trl, size-TrailerSize); err != nil {
		return fmt.Errorf("lzip: reading member trailer: %w", err)
	}
	trailer, _ := ParseTrailer(trl)
	if int64(trailer.MemberSize) == size {
		return nil
	}

	if int64(trailer.MemberSize) < size && trailer.MemberSize > 0 {
		prevHdr := make([]byte, HeaderSize)
		off := size - int64(trailer.MemberSize)
		if off >= 0 {
			if _, err := src.ReadAt(prevHdr, off); err == nil {
				if VerifyHeader(prevHdr) == nil {
					return &MultiMemberError{}
				}
			}
		}
	}
	return &HeaderError{Reason: "member size in input file trailer is corrupt"}
}
