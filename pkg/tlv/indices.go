package tlv

import (
	"go.firedancer.io/tlvstate/pkg/discriminator"
	"go.firedancer.io/tlvstate/pkg/safemath"
)

// Indices locates the three parts of the record beginning at TypeStart.
type Indices struct {
	TypeStart        int
	LengthStart      int
	ValueStart       int
	RepetitionNumber int
}

// IndicesAt does no bounds checking; callers must check ValueStart against
// the buffer length before slicing.
func IndicesAt(typeStart int, repetitionNumber int) Indices {
	lengthStart := safemath.SaturatingAddInt(typeStart, discriminator.Length)
	valueStart := safemath.SaturatingAddInt(lengthStart, LengthSize)
	return Indices{
		TypeStart:        typeStart,
		LengthStart:      lengthStart,
		ValueStart:       valueStart,
		RepetitionNumber: repetitionNumber,
	}
}

// GetBaseLen is the size of a record header.
func GetBaseLen() int {
	return IndicesAt(0, 0).ValueStart
}

// SizeOf returns the bytes a record with a value of valueLen bytes occupies.
func SizeOf(valueLen int) int {
	return safemath.SaturatingAddInt(GetBaseLen(), valueLen)
}
