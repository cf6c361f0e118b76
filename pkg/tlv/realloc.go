package tlv

import (
	"go.firedancer.io/tlvstate/pkg/discriminator"
	"go.firedancer.io/tlvstate/pkg/safemath"
)

// Realloc changes the length of an existing record, moving every record
// after it. Bytes vacated at the end of written data are zeroed when
// shrinking; the newly exposed part of the value is zeroed when growing.
//
// Growth that would run past the end of the buffer fails with
// ErrInvalidAccountData before anything is written.
func (s *State) Realloc(disc discriminator.ArrayDiscriminator, newLength int, repetition int) ([]byte, error) {
	if newLength < 0 || repetition < 0 {
		return nil, ErrInvalidArgument
	}

	idx, err := findIndices(s.data, disc, false, repetition)
	if err != nil {
		return nil, err
	}

	_, endIndex, err := discriminatorsAndEndIndex(s.data)
	if err != nil {
		return nil, err
	}

	lengthBytes := s.data[idx.LengthStart:idx.ValueStart]
	oldLength, err := readLength(lengthBytes)
	if err != nil {
		return nil, err
	}

	if oldLength < newLength {
		newEndIndex := safemath.SaturatingAddInt(endIndex, newLength-oldLength)
		if newEndIndex > len(s.data) {
			return nil, ErrInvalidAccountData
		}
	}

	err = writeLength(lengthBytes, newLength)
	if err != nil {
		return nil, err
	}

	oldValueEnd := idx.ValueStart + oldLength
	newValueEnd := idx.ValueStart + newLength
	copy(s.data[newValueEnd:], s.data[oldValueEnd:endIndex])

	switch {
	case oldLength > newLength:
		clear(s.data[endIndex-(oldLength-newLength) : endIndex])
	case oldLength < newLength:
		clear(s.data[oldValueEnd:newValueEnd])
	}

	return s.data[idx.ValueStart:newValueEnd], nil
}

// Resizer is an account whose data can be grown or shrunk. Realloc may
// replace the slice returned by Data.
type Resizer interface {
	Data() []byte
	Realloc(newLen int, zeroInit bool) error
}

// ReallocAndPackVariable packs value into its existing record, resizing both
// the record and the account around it. When growing, the account is resized
// first; when shrinking, the value is packed into the old record, which is
// then compacted before the account is cut down. Either way the records fit
// the account's current length at every step.
func ReallocAndPackVariable(acct Resizer, value VariableLenPack, repetition int) error {
	disc := value.TlvDiscriminator()

	state, err := Unpack(acct.Data())
	if err != nil {
		return err
	}
	previous, err := state.GetBytesMut(disc, repetition)
	if err != nil {
		return err
	}
	previousLength := len(previous)

	newLength, err := value.PackedLen()
	if err != nil {
		return err
	}
	previousAccountSize := len(acct.Data())

	if previousLength < newLength {
		err = acct.Realloc(previousAccountSize+(newLength-previousLength), true)
		if err != nil {
			return err
		}

		state, err = Unpack(acct.Data())
		if err != nil {
			return err
		}
		_, err = state.Realloc(disc, newLength, repetition)
		if err != nil {
			return err
		}
		return PackVariableValue(state, value, repetition)
	}

	err = PackVariableValue(state, value, repetition)
	if err != nil {
		return err
	}

	if removedBytes := previousLength - newLength; removedBytes > 0 {
		_, err = state.Realloc(disc, newLength, repetition)
		if err != nil {
			return err
		}
		return acct.Realloc(previousAccountSize-removedBytes, false)
	}
	return nil
}
