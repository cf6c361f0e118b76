// Package discriminator implements the 8-byte type tags that prefix every
// TLV record and instruction payload.
package discriminator

import (
	"encoding/hex"
	"errors"

	"github.com/minio/sha256-simd"
)

const Length = 8

var ErrInvalidDiscriminatorLength = errors.New("ErrInvalidDiscriminatorLength")

type ArrayDiscriminator [Length]byte

// Uninitialized is reserved: a record tagged with it marks the end of written data.
var Uninitialized = ArrayDiscriminator{}

func New(b [Length]byte) ArrayDiscriminator {
	return ArrayDiscriminator(b)
}

func FromBytes(b []byte) (ArrayDiscriminator, error) {
	var d ArrayDiscriminator
	if len(b) != Length {
		return d, ErrInvalidDiscriminatorLength
	}
	copy(d[:], b)
	return d, nil
}

func FromUint64(v uint64) ArrayDiscriminator {
	var d ArrayDiscriminator
	for i := 0; i < Length; i++ {
		d[i] = byte(v >> (8 * i))
	}
	return d
}

// FromHashInput returns the first eight bytes of sha256(input).
func FromHashInput(input string) ArrayDiscriminator {
	sum := sha256.Sum256([]byte(input))
	var d ArrayDiscriminator
	copy(d[:], sum[:Length])
	return d
}

func (d ArrayDiscriminator) IsUninitialized() bool {
	return d == Uninitialized
}

func (d ArrayDiscriminator) Bytes() []byte {
	return d[:]
}

func (d ArrayDiscriminator) String() string {
	return hex.EncodeToString(d[:])
}

func (d ArrayDiscriminator) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}
