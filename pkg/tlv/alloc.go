package tlv

import (
	"go.firedancer.io/tlvstate/pkg/discriminator"
	"go.firedancer.io/tlvstate/pkg/safemath"
)

// Alloc writes the header of a new record for disc and returns its value
// region together with the repetition number it was given.
//
// Without allowRepetition only repetition 0 may be allocated and an
// existing record yields ErrTypeAlreadyExists. With it, the record is placed
// after every existing repetition of disc. A failed allocation leaves the
// buffer unchanged.
func (s *State) Alloc(disc discriminator.ArrayDiscriminator, length int, allowRepetition bool) ([]byte, int, error) {
	if length < 0 {
		return nil, 0, ErrInvalidArgument
	}

	repetition := 0
	if allowRepetition {
		repetition = anyRepetition
	}

	idx, err := findIndices(s.data, disc, true, repetition)
	if err != nil {
		return nil, 0, err
	}

	if !readDiscriminator(s.data, idx).IsUninitialized() {
		return nil, 0, ErrTypeAlreadyExists
	}

	end := safemath.SaturatingAddInt(idx.ValueStart, length)
	if len(s.data) < end {
		return nil, 0, ErrInvalidAccountData
	}

	err = writeLength(s.data[idx.LengthStart:idx.ValueStart], length)
	if err != nil {
		return nil, 0, err
	}
	copy(s.data[idx.TypeStart:idx.LengthStart], disc[:])

	return s.data[idx.ValueStart:end], idx.RepetitionNumber, nil
}
