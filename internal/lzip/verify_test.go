package lzip

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifyHeader(t *testing.T) {
	testCases := []struct {
		desc    string
		mutate  func([]byte)
		wantErr string
	}{
		{
			desc:   "valid",
			mutate: func(b []byte) {},
		},
		{
			desc:    "bad magic",
			mutate:  func(b []byte) { b[0] = 'X' },
			wantErr: "bad magic number (file not in lzip format)",
		},
		{
			desc:    "version 0",
			mutate:  func(b []byte) { b[4] = 0 },
			wantErr: "version 0 member format can't be recovered",
		},
		{
			desc:    "version 2",
			mutate:  func(b []byte) { b[4] = 2 },
			wantErr: "version 2 member format not supported",
		},
		{
			desc:    "dict too small",
			mutate:  func(b []byte) { b[5] = 0 }, // 1<<0 = 1, below MinDictSize
			wantErr: "dictionary size is too small",
		},
	}

	for _, tt := range testCases {
		t.Run(tt.desc, func(t *testing.T) {
			b := validHeaderBytes()
			tt.mutate(b)
			err := VerifyHeader(b)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

// buildMember assembles a minimal well-formed single member of the
// given total size, with a self-consistent trailer.
func buildMember(size int64) []byte {
	b := make([]byte, size)
	copy(b[:HeaderSize], validHeaderBytes())
	trailer := b[size-TrailerSize:]
	binary.LittleEndian.PutUint32(trailer[0:4], 0)
	binary.LittleEndian.PutUint64(trailer[4:12], 0)
	binary.LittleEndian.PutUint64(trailer[12:20], uint64(size))
	return b
}

func TestVerifySingleMember(t *testing.T) {
	t.Run("file shorter than minimum member size", func(t *testing.T) {
		b := make([]byte, MinMemberSize-1)
		err := VerifySingleMember(bytes.NewReader(b), int64(len(b)))
		assert.ErrorContains(t, err, "too short")
	})

	t.Run("valid single member", func(t *testing.T) {
		b := buildMember(MinMemberSize + 100)
		err := VerifySingleMember(bytes.NewReader(b), int64(len(b)))
		assert.NoError(t, err)
	})

	t.Run("concatenated multi-member file detected", func(t *testing.T) {
		first := buildMember(MinMemberSize + 10)
		second := buildMember(MinMemberSize + 20)
		both := append(append([]byte{}, first...), second...)

		err := VerifySingleMember(bytes.NewReader(both), int64(len(both)))
		assert.ErrorAs(t, err, new(*MultiMemberError))
	})

	t.Run("corrupt member size in trailer", func(t *testing.T) {
		b := buildMember(MinMemberSize + 10)
		binary.LittleEndian.PutUint64(b[len(b)-8:], 999999)
		err := VerifySingleMember(bytes.NewReader(b), int64(len(b)))
		assert.ErrorContains(t, err, "corrupt")
	})
}
