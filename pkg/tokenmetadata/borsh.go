package tokenmetadata

import (
	bin "github.com/gagliardetto/binary"
)

func readString(decoder *bin.Decoder) (string, error) {
	length, err := decoder.ReadUint32(bin.LE)
	if err != nil {
		return "", err
	}
	if uint64(length) > uint64(decoder.Remaining()) {
		return "", ErrInvalidBorsh
	}
	b, err := decoder.ReadNBytes(int(length))
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func writeString(encoder *bin.Encoder, s string) error {
	err := encoder.WriteUint32(uint32(len(s)), bin.LE)
	if err != nil {
		return err
	}
	return encoder.WriteBytes([]byte(s), false)
}

func stringLen(s string) int {
	return 4 + len(s)
}

func readOptionU64(decoder *bin.Decoder) (*uint64, error) {
	tag, err := decoder.ReadByte()
	if err != nil {
		return nil, err
	}
	switch tag {
	case 0:
		return nil, nil
	case 1:
		n, err := decoder.ReadUint64(bin.LE)
		if err != nil {
			return nil, err
		}
		return &n, nil
	default:
		return nil, ErrInvalidBorsh
	}
}

func writeOptionU64(encoder *bin.Encoder, n *uint64) error {
	if n == nil {
		return encoder.WriteByte(0)
	}
	err := encoder.WriteByte(1)
	if err != nil {
		return err
	}
	return encoder.WriteUint64(*n, bin.LE)
}

func readBool(decoder *bin.Decoder) (bool, error) {
	b, err := decoder.ReadByte()
	if err != nil {
		return false, err
	}
	if b > 1 {
		return false, ErrInvalidBorsh
	}
	return b == 1, nil
}
