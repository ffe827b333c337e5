package hash

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/concurrenthopscotch/hopscotch"
)

func keyWithFirstByte(b byte) [hopscotch.KeySize]byte {
	var k [hopscotch.KeySize]byte
	k[0] = b
	return k
}

func TestMurmurNeverZero(t *testing.T) {
	var zeroKey [hopscotch.KeySize]byte
	assert.NotZero(t, Murmur(zeroKey))
}

func TestMurmurDeterministic(t *testing.T) {
	key := keyWithFirstByte(0x42)
	assert.Equal(t, Murmur(key), Murmur(key))
}

func TestMurmurDistinguishesKeys(t *testing.T) {
	a := keyWithFirstByte(0x01)
	b := keyWithFirstByte(0x02)
	assert.NotEqual(t, Murmur(a), Murmur(b))
}

func TestJenkinsNeverZero(t *testing.T) {
	var zeroKey [hopscotch.KeySize]byte
	assert.NotZero(t, Jenkins(zeroKey))
}

func TestJenkinsDeterministic(t *testing.T) {
	key := keyWithFirstByte(0x7F)
	assert.Equal(t, Jenkins(key), Jenkins(key))
}

func TestJenkinsDistinguishesKeys(t *testing.T) {
	a := keyWithFirstByte(0x01)
	b := keyWithFirstByte(0x02)
	assert.NotEqual(t, Jenkins(a), Jenkins(b))
}

func TestConstantIgnoresKey(t *testing.T) {
	a := keyWithFirstByte(0x01)
	b := keyWithFirstByte(0xFF)
	assert.Equal(t, Constant(a), Constant(b))
	assert.NotZero(t, Constant(a))
}

func TestXXHashNeverZero(t *testing.T) {
	var zeroKey [hopscotch.KeySize]byte
	assert.NotZero(t, XXHash(zeroKey))
}

func TestXXHashDeterministic(t *testing.T) {
	key := keyWithFirstByte(0x13)
	assert.Equal(t, XXHash(key), XXHash(key))
}

func TestXXHashDistinguishesKeys(t *testing.T) {
	a := keyWithFirstByte(0x01)
	b := keyWithFirstByte(0x02)
	assert.NotEqual(t, XXHash(a), XXHash(b))
}
