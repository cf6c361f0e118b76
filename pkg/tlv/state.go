// Package tlv packs discriminator-tagged, length-prefixed records back to
// back in a single account data buffer.
//
// Each record is laid out as an 8-byte discriminator, a 4-byte little-endian
// length and then the value. An all-zero discriminator marks the end of
// written data, after which the buffer must only contain zeros.
package tlv

import (
	"go.firedancer.io/tlvstate/pkg/discriminator"
)

// State borrows a buffer for the duration of a call. It never copies or
// resizes the data it was unpacked from.
type State struct {
	data []byte
}

// Unpack validates that data holds a well-formed sequence of records.
func Unpack(data []byte) (*State, error) {
	if len(data) < GetBaseLen() {
		return nil, ErrInvalidAccountData
	}

	_, _, err := discriminatorsAndEndIndex(data)
	if err != nil {
		return nil, err
	}

	return &State{data: data}, nil
}

func (s *State) Data() []byte {
	return s.data
}

func (s *State) valueBounds(disc discriminator.ArrayDiscriminator, repetition int) (Indices, int, error) {
	if repetition < 0 {
		return Indices{}, 0, ErrInvalidArgument
	}

	idx, err := findIndices(s.data, disc, false, repetition)
	if err != nil {
		return Indices{}, 0, err
	}

	end, err := valueEnd(s.data, idx)
	if err != nil {
		return Indices{}, 0, err
	}
	if len(s.data) < end {
		return Indices{}, 0, ErrInvalidAccountData
	}

	return idx, end, nil
}

// GetBytes returns a copy of the value of the given repetition of disc.
func (s *State) GetBytes(disc discriminator.ArrayDiscriminator, repetition int) ([]byte, error) {
	value, err := s.GetBytesMut(disc, repetition)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), value...), nil
}

// GetBytesMut returns the value region itself. Writes through it land in
// the underlying buffer.
func (s *State) GetBytesMut(disc discriminator.ArrayDiscriminator, repetition int) ([]byte, error) {
	idx, end, err := s.valueBounds(disc, repetition)
	if err != nil {
		return nil, err
	}
	return s.data[idx.ValueStart:end], nil
}

func (s *State) Discriminators() ([]discriminator.ArrayDiscriminator, error) {
	discs, _, err := discriminatorsAndEndIndex(s.data)
	return discs, err
}

// EndIndex is the offset at which written records end.
func (s *State) EndIndex() (int, error) {
	_, end, err := discriminatorsAndEndIndex(s.data)
	return end, err
}

// Entry describes one record, as reported by Entries.
type Entry struct {
	Discriminator    discriminator.ArrayDiscriminator `yaml:"discriminator"`
	RepetitionNumber int                              `yaml:"repetition"`
	Offset           int                              `yaml:"offset"`
	ValueStart       int                              `yaml:"value_start"`
	Length           int                              `yaml:"length"`
}

func (s *State) Entries() ([]Entry, error) {
	entries := make([]Entry, 0)

	it := s.Iter()
	for {
		idx, err := it.Next()
		if err == ErrIteratorEnd {
			return entries, nil
		} else if err != nil {
			return nil, err
		}

		length, err := readLength(s.data[idx.LengthStart:idx.ValueStart])
		if err != nil {
			return nil, err
		}

		entries = append(entries, Entry{
			Discriminator:    readDiscriminator(s.data, idx),
			RepetitionNumber: idx.RepetitionNumber,
			Offset:           idx.TypeStart,
			ValueStart:       idx.ValueStart,
			Length:           length,
		})
	}
}
