package tlv

import (
	"github.com/samber/lo"
	"go.firedancer.io/tlvstate/pkg/discriminator"
)

// anyRepetition makes findIndices skip every existing repetition, which is
// how an allocation that allows repeats finds the next free slot.
const anyRepetition = -1

func readDiscriminator(data []byte, idx Indices) discriminator.ArrayDiscriminator {
	var d discriminator.ArrayDiscriminator
	copy(d[:], data[idx.TypeStart:idx.LengthStart])
	return d
}

func isZero(b []byte) bool {
	return lo.EveryBy(b, func(x byte) bool { return x == 0 })
}

// findIndices walks the records from offset 0 looking for the given
// repetition of disc. With init set, reaching the uninitialized sentinel
// returns the free slot instead of ErrTypeNotFound.
func findIndices(data []byte, disc discriminator.ArrayDiscriminator, init bool, repetition int) (Indices, error) {
	if disc.IsUninitialized() {
		return Indices{}, ErrInvalidArgument
	}

	var currentRepetition int
	var start int
	for start < len(data) {
		idx := IndicesAt(start, currentRepetition)
		if len(data) < idx.ValueStart {
			return Indices{}, ErrInvalidAccountData
		}

		found := readDiscriminator(data, idx)
		switch {
		case found == disc:
			if repetition == currentRepetition {
				return idx, nil
			}
			currentRepetition++
		case found.IsUninitialized():
			if init {
				return idx, nil
			}
			return Indices{}, ErrTypeNotFound
		}

		end, err := valueEnd(data, idx)
		if err != nil {
			return Indices{}, err
		}
		start = end
	}

	return Indices{}, ErrInvalidAccountData
}

// discriminatorsAndEndIndex enumerates every record and returns the offset
// at which written data ends. Everything past that offset must be zero.
func discriminatorsAndEndIndex(data []byte) ([]discriminator.ArrayDiscriminator, int, error) {
	discs := make([]discriminator.ArrayDiscriminator, 0)

	var start int
	for start < len(data) {
		idx := IndicesAt(start, 0)
		if len(data) < idx.LengthStart {
			// only room for part of a discriminator
			if isZero(data[idx.TypeStart:]) {
				return discs, idx.TypeStart, nil
			}
			return nil, 0, ErrInvalidAccountData
		}

		found := readDiscriminator(data, idx)
		if found.IsUninitialized() {
			if !isZero(data[idx.TypeStart:]) {
				return nil, 0, ErrInvalidAccountData
			}
			return discs, idx.TypeStart, nil
		}

		if len(data) < idx.ValueStart {
			return nil, 0, ErrInvalidAccountData
		}
		discs = append(discs, found)

		end, err := valueEnd(data, idx)
		if err != nil {
			return nil, 0, err
		}
		if end > len(data) {
			return nil, 0, ErrInvalidAccountData
		}
		start = end
	}

	return discs, start, nil
}
