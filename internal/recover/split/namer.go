package split

// Namer produces the sequence of output filenames "rec00001<suffix>",
// "rec00002<suffix>", … required by the split engine, incrementing the
// fixed-width 5-digit counter embedded at offset 3 with base-10 carry.
type Namer struct {
	name []byte
}

// prefixLen is len("rec00001"): the fixed 8-character prefix holding
// the "rec" tag and the 5-digit zero-padded counter.
const prefixLen = 8

// counterLo and counterHi bound the digit positions of the counter
// within the prefix, inclusive, scanned from least to most significant.
const (
	counterLo = 3
	counterHi = 7
)

// NewNamer creates a Namer starting at "rec00001" followed by suffix.
func NewNamer(suffix string) *Namer {
	n := &Namer{name: make([]byte, prefixLen+len(suffix))}
	copy(n.name, "rec00001")
	copy(n.name[prefixLen:], suffix)
	return n
}

// Current returns the current filename.
func (n *Namer) Current() string {
	return string(n.name)
}

// Next advances the counter to the next value, with carry propagation
// across the 5 digit positions. It returns false on overflow past
// "99999", a fatal "too many members" condition the caller must handle.
func (n *Namer) Next() bool {
	for i := counterHi; i >= counterLo; i-- {
		if n.name[i] < '9' {
			n.name[i]++
			return true
		}
		n.name[i] = '0'
	}
	return false
}
