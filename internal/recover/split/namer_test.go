package split

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNamerCarry(t *testing.T) {
	n := NewNamer(".lz")
	assert.Equal(t, "rec00001.lz", n.Current())

	for i := 0; i < 8; i++ {
		assert.True(t, n.Next())
	}
	assert.Equal(t, "rec00009.lz", n.Current())

	// rec00009 -> rec00010 exercises the carry from the ones digit.
	assert.True(t, n.Next())
	assert.Equal(t, "rec00010.lz", n.Current())
}

func TestNamerOverflow(t *testing.T) {
	n := NewNamer("")
	n.name[3] = '9'
	n.name[4] = '9'
	n.name[5] = '9'
	n.name[6] = '9'
	n.name[7] = '9'
	assert.Equal(t, "rec99999", n.Current())
	assert.False(t, n.Next())
}
