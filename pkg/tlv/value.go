package tlv

import (
	"bytes"

	bin "github.com/gagliardetto/binary"
	"go.firedancer.io/tlvstate/pkg/discriminator"
)

type Discriminated interface {
	TlvDiscriminator() discriminator.ArrayDiscriminator
}

// Pod is a fixed-size value. Its encoding must be exactly PodLen bytes.
type Pod interface {
	Discriminated
	PodLen() int
	MarshalWithEncoder(encoder *bin.Encoder) error
	UnmarshalWithDecoder(decoder *bin.Decoder) error
}

type PodPtr[T any] interface {
	*T
	Pod
}

// Defaulter is implemented by values whose default is not all zeros.
type Defaulter interface {
	SetDefault()
}

// VariableLenPack is a value whose packed size depends on its contents.
type VariableLenPack interface {
	Discriminated
	PackedLen() (int, error)
	// PackIntoSlice fails if dst is too small.
	PackIntoSlice(dst []byte) error
	UnpackFromSlice(src []byte) error
}

type VariableLenPackPtr[T any] interface {
	*T
	VariableLenPack
}

func podDiscriminator[T any, P PodPtr[T]]() discriminator.ArrayDiscriminator {
	return P(new(T)).TlvDiscriminator()
}

func podFromBytes[T any, P PodPtr[T]](b []byte) (*T, error) {
	value := new(T)
	if len(b) != P(value).PodLen() {
		return nil, ErrInvalidArgument
	}

	err := P(value).UnmarshalWithDecoder(bin.NewBinDecoder(b))
	if err != nil {
		return nil, err
	}
	return value, nil
}

// EncodePod returns the fixed-size encoding of value.
func EncodePod(value Pod) ([]byte, error) {
	buf := new(bytes.Buffer)
	err := value.MarshalWithEncoder(bin.NewBinEncoder(buf))
	if err != nil {
		return nil, err
	}
	if buf.Len() != value.PodLen() {
		return nil, ErrInvalidArgument
	}
	return buf.Bytes(), nil
}

func podIntoBytes(value Pod, dst []byte) error {
	encoded, err := EncodePod(value)
	if err != nil {
		return err
	}
	if len(dst) != len(encoded) {
		return ErrInvalidArgument
	}
	copy(dst, encoded)
	return nil
}

// ValueMut is a decoded copy of a fixed-size record bound to the slot it
// came from. Changes to Value reach the buffer on Store. The slot is only
// valid until the next Realloc of the state.
type ValueMut[T any, P PodPtr[T]] struct {
	Value            *T
	RepetitionNumber int
	slot             []byte
}

func (m *ValueMut[T, P]) Store() error {
	return podIntoBytes(P(m.Value), m.slot)
}

func GetValue[T any, P PodPtr[T]](s *State, repetition int) (*T, error) {
	b, err := s.GetBytesMut(podDiscriminator[T, P](), repetition)
	if err != nil {
		return nil, err
	}
	return podFromBytes[T, P](b)
}

func GetFirstValue[T any, P PodPtr[T]](s *State) (*T, error) {
	return GetValue[T, P](s, 0)
}

func GetValueMut[T any, P PodPtr[T]](s *State, repetition int) (*ValueMut[T, P], error) {
	b, err := s.GetBytesMut(podDiscriminator[T, P](), repetition)
	if err != nil {
		return nil, err
	}
	value, err := podFromBytes[T, P](b)
	if err != nil {
		return nil, err
	}
	return &ValueMut[T, P]{Value: value, RepetitionNumber: repetition, slot: b}, nil
}

// InitValue allocates a record for T and writes T's default into it.
func InitValue[T any, P PodPtr[T]](s *State, allowRepetition bool) (*ValueMut[T, P], error) {
	value := new(T)
	if d, ok := any(value).(Defaulter); ok {
		d.SetDefault()
	}

	slot, repetition, err := s.Alloc(P(value).TlvDiscriminator(), P(value).PodLen(), allowRepetition)
	if err != nil {
		return nil, err
	}

	m := &ValueMut[T, P]{Value: value, RepetitionNumber: repetition, slot: slot}
	err = m.Store()
	if err != nil {
		return nil, err
	}
	return m, nil
}

// AddEntry allocates a record for value and copies it in.
func AddEntry[T any, P PodPtr[T]](s *State, value *T, allowRepetition bool) (int, error) {
	encoded, err := EncodePod(P(value))
	if err != nil {
		return 0, err
	}

	slot, repetition, err := s.Alloc(P(value).TlvDiscriminator(), len(encoded), allowRepetition)
	if err != nil {
		return 0, err
	}
	copy(slot, encoded)
	return repetition, nil
}

// FindValueMut returns the first repetition whose bytes equal entry's
// encoding. Once the repetitions run out it returns the lookup error,
// ErrTypeNotFound for a buffer with free space left.
func FindValueMut[T any, P PodPtr[T]](s *State, entry *T) (*ValueMut[T, P], error) {
	encoded, err := EncodePod(P(entry))
	if err != nil {
		return nil, err
	}

	disc := P(entry).TlvDiscriminator()
	for repetition := 0; ; repetition++ {
		b, err := s.GetBytesMut(disc, repetition)
		if err != nil {
			return nil, err
		}
		if !bytes.Equal(b, encoded) {
			continue
		}

		value, err := podFromBytes[T, P](b)
		if err != nil {
			return nil, err
		}
		return &ValueMut[T, P]{Value: value, RepetitionNumber: repetition, slot: b}, nil
	}
}

func GetVariableValue[T any, P VariableLenPackPtr[T]](s *State, repetition int) (*T, error) {
	value := new(T)
	b, err := s.GetBytesMut(P(value).TlvDiscriminator(), repetition)
	if err != nil {
		return nil, err
	}

	err = P(value).UnpackFromSlice(b)
	if err != nil {
		return nil, err
	}
	return value, nil
}

// PackVariableValue writes value into its existing record. The record must
// already have the right size; use Realloc or ReallocAndPackVariable first.
func PackVariableValue(s *State, value VariableLenPack, repetition int) error {
	b, err := s.GetBytesMut(value.TlvDiscriminator(), repetition)
	if err != nil {
		return err
	}
	return value.PackIntoSlice(b)
}

// AllocAndPackVariable allocates a record sized for value and packs it in.
func AllocAndPackVariable(s *State, value VariableLenPack, allowRepetition bool) (int, error) {
	length, err := value.PackedLen()
	if err != nil {
		return 0, err
	}

	slot, repetition, err := s.Alloc(value.TlvDiscriminator(), length, allowRepetition)
	if err != nil {
		return 0, err
	}

	err = value.PackIntoSlice(slot)
	if err != nil {
		return 0, err
	}
	return repetition, nil
}

// AddVariableEntry is AllocAndPackVariable under the name used for
// fixed-size values.
func AddVariableEntry(s *State, value VariableLenPack, allowRepetition bool) (int, error) {
	return AllocAndPackVariable(s, value, allowRepetition)
}
