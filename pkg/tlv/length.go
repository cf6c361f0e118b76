package tlv

import (
	"math"

	bin "github.com/gagliardetto/binary"
	"go.firedancer.io/tlvstate/pkg/safemath"
)

// LengthSize is the width of the little-endian u32 length header.
const LengthSize = 4

func readLength(b []byte) (int, error) {
	if len(b) != LengthSize {
		return 0, ErrInvalidArgument
	}
	length := bin.LE.Uint32(b)
	if uint64(length) > uint64(math.MaxInt) {
		return 0, ErrInvalidAccountData
	}
	return int(length), nil
}

func writeLength(b []byte, length int) error {
	if len(b) != LengthSize {
		return ErrInvalidArgument
	}
	if length < 0 || uint64(length) > math.MaxUint32 {
		return ErrInvalidArgument
	}
	bin.LE.PutUint32(b, uint32(length))
	return nil
}

// valueEnd reads the length header at idx and returns where its value ends.
func valueEnd(data []byte, idx Indices) (int, error) {
	length, err := readLength(data[idx.LengthStart:idx.ValueStart])
	if err != nil {
		return 0, err
	}
	return safemath.SaturatingAddInt(idx.ValueStart, length), nil
}
