package tlv

import (
	"bytes"

	bin "github.com/gagliardetto/binary"
	"go.firedancer.io/tlvstate/pkg/discriminator"
)

func repeatedDisc(b byte) discriminator.ArrayDiscriminator {
	var d discriminator.ArrayDiscriminator
	for i := range d {
		d[i] = b
	}
	return d
}

func readFixed(decoder *bin.Decoder, dst []byte) error {
	if len(dst) == 0 {
		return nil
	}
	b, err := decoder.ReadNBytes(len(dst))
	if err != nil {
		return err
	}
	copy(dst, b)
	return nil
}

type testValue struct {
	Data [32]byte
}

func (v *testValue) TlvDiscriminator() discriminator.ArrayDiscriminator { return repeatedDisc(1) }
func (v *testValue) PodLen() int                                        { return 32 }
func (v *testValue) MarshalWithEncoder(encoder *bin.Encoder) error {
	return encoder.WriteBytes(v.Data[:], false)
}
func (v *testValue) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	return readFixed(decoder, v.Data[:])
}

type testSmallValue struct {
	Data [3]byte
}

func (v *testSmallValue) TlvDiscriminator() discriminator.ArrayDiscriminator { return repeatedDisc(2) }
func (v *testSmallValue) PodLen() int                                        { return 3 }
func (v *testSmallValue) MarshalWithEncoder(encoder *bin.Encoder) error {
	return encoder.WriteBytes(v.Data[:], false)
}
func (v *testSmallValue) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	return readFixed(decoder, v.Data[:])
}

// shares its tag with testSmallValue but is a single byte
type testByteValue struct {
	Data byte
}

func (v *testByteValue) TlvDiscriminator() discriminator.ArrayDiscriminator { return repeatedDisc(2) }
func (v *testByteValue) PodLen() int                                        { return 1 }
func (v *testByteValue) MarshalWithEncoder(encoder *bin.Encoder) error {
	return encoder.WriteByte(v.Data)
}
func (v *testByteValue) UnmarshalWithDecoder(decoder *bin.Decoder) (err error) {
	v.Data, err = decoder.ReadByte()
	return
}

type testEmptyValue struct{}

func (v *testEmptyValue) TlvDiscriminator() discriminator.ArrayDiscriminator { return repeatedDisc(3) }
func (v *testEmptyValue) PodLen() int                                        { return 0 }
func (v *testEmptyValue) MarshalWithEncoder(encoder *bin.Encoder) error      { return nil }
func (v *testEmptyValue) UnmarshalWithDecoder(decoder *bin.Decoder) error    { return nil }

var testNonZeroDefaultData = [5]byte{4, 4, 4, 4, 4}

type testNonZeroDefault struct {
	Data [5]byte
}

func (v *testNonZeroDefault) TlvDiscriminator() discriminator.ArrayDiscriminator {
	return repeatedDisc(4)
}
func (v *testNonZeroDefault) PodLen() int { return 5 }
func (v *testNonZeroDefault) SetDefault() { v.Data = testNonZeroDefaultData }
func (v *testNonZeroDefault) MarshalWithEncoder(encoder *bin.Encoder) error {
	return encoder.WriteBytes(v.Data[:], false)
}
func (v *testNonZeroDefault) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	return readFixed(decoder, v.Data[:])
}

// u64 length prefix followed by the string bytes
type testVariableLen struct {
	Data string
}

func (v *testVariableLen) TlvDiscriminator() discriminator.ArrayDiscriminator { return repeatedDisc(5) }

func (v *testVariableLen) PackedLen() (int, error) {
	return 8 + len(v.Data), nil
}

func (v *testVariableLen) PackIntoSlice(dst []byte) error {
	end := 8 + len(v.Data)
	if len(dst) < end {
		return ErrInvalidAccountData
	}
	buf := new(bytes.Buffer)
	encoder := bin.NewBinEncoder(buf)
	_ = encoder.WriteUint64(uint64(len(v.Data)), bin.LE)
	_ = encoder.WriteBytes([]byte(v.Data), false)
	copy(dst, buf.Bytes())
	return nil
}

func (v *testVariableLen) UnpackFromSlice(src []byte) error {
	decoder := bin.NewBinDecoder(src)
	length, err := decoder.ReadUint64(bin.LE)
	if err != nil {
		return err
	}
	if length > uint64(decoder.Remaining()) {
		return ErrInvalidAccountData
	}
	b, err := decoder.ReadNBytes(int(length))
	if err != nil {
		return err
	}
	v.Data = string(b)
	return nil
}

type testAccount struct {
	data     []byte
	reallocs []int
}

func (a *testAccount) Data() []byte {
	return a.data
}

func (a *testAccount) Realloc(newLen int, zeroInit bool) error {
	if newLen > len(a.data) {
		a.data = append(a.data, make([]byte, newLen-len(a.data))...)
	} else {
		a.data = a.data[:newLen]
	}
	a.reallocs = append(a.reallocs, newLen)
	return nil
}
