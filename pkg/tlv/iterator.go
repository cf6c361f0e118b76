package tlv

import (
	"go.firedancer.io/tlvstate/pkg/discriminator"
)

// Iterator walks the records of a buffer in order.
type Iterator struct {
	data        []byte
	next        int
	repetitions map[discriminator.ArrayDiscriminator]int
}

func NewIterator(data []byte) *Iterator {
	return &Iterator{
		data:        data,
		repetitions: make(map[discriminator.ArrayDiscriminator]int),
	}
}

func (s *State) Iter() *Iterator {
	return NewIterator(s.data)
}

// Next returns ErrIteratorEnd at the sentinel or the end of the data.
func (it *Iterator) Next() (Indices, error) {
	if it.next >= len(it.data) {
		return Indices{}, ErrIteratorEnd
	}

	idx := IndicesAt(it.next, 0)
	if len(it.data) < idx.LengthStart {
		if isZero(it.data[idx.TypeStart:]) {
			return Indices{}, ErrIteratorEnd
		}
		return Indices{}, ErrInvalidAccountData
	}

	disc := readDiscriminator(it.data, idx)
	if disc.IsUninitialized() {
		return Indices{}, ErrIteratorEnd
	}
	if len(it.data) < idx.ValueStart {
		return Indices{}, ErrInvalidAccountData
	}

	end, err := valueEnd(it.data, idx)
	if err != nil {
		return Indices{}, err
	}
	if end > len(it.data) {
		return Indices{}, ErrInvalidAccountData
	}

	idx.RepetitionNumber = it.repetitions[disc]
	it.repetitions[disc]++
	it.next = end

	return idx, nil
}

func (it *Iterator) value(idx Indices) []byte {
	length, _ := readLength(it.data[idx.LengthStart:idx.ValueStart])
	return it.data[idx.ValueStart : idx.ValueStart+length]
}

// NextEntry returns the next record tagged as T, skipping records whose
// bytes do not decode.
func NextEntry[T any, P PodPtr[T]](it *Iterator) (*T, error) {
	disc := podDiscriminator[T, P]()
	for {
		idx, err := it.Next()
		if err != nil {
			return nil, err
		}
		if readDiscriminator(it.data, idx) != disc {
			continue
		}
		value, err := podFromBytes[T, P](it.value(idx))
		if err != nil {
			continue
		}
		return value, nil
	}
}

// NextVariableEntry is NextEntry for variable-length values.
func NextVariableEntry[T any, P VariableLenPackPtr[T]](it *Iterator) (*T, error) {
	disc := P(new(T)).TlvDiscriminator()
	for {
		idx, err := it.Next()
		if err != nil {
			return nil, err
		}
		if readDiscriminator(it.data, idx) != disc {
			continue
		}
		value := new(T)
		if err := P(value).UnpackFromSlice(it.value(idx)); err != nil {
			continue
		}
		return value, nil
	}
}
