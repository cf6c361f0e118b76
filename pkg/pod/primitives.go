// Package pod holds fixed-width little-endian fields for fixed-size records.
package pod

import (
	bin "github.com/gagliardetto/binary"
)

type PodBool byte

func PodBoolFromBool(b bool) PodBool {
	if b {
		return 1
	}
	return 0
}

// Bool treats any non-zero byte as true.
func (p PodBool) Bool() bool {
	return p != 0
}

func (p PodBool) MarshalWithEncoder(encoder *bin.Encoder) error {
	return encoder.WriteByte(byte(p))
}

func (p *PodBool) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	b, err := decoder.ReadByte()
	if err != nil {
		return err
	}
	*p = PodBool(b)
	return nil
}

type PodU16 [2]byte

func PodU16FromUint16(n uint16) PodU16 {
	var p PodU16
	bin.LE.PutUint16(p[:], n)
	return p
}

func (p PodU16) Uint16() uint16 {
	return bin.LE.Uint16(p[:])
}

func (p PodU16) MarshalWithEncoder(encoder *bin.Encoder) error {
	return encoder.WriteBytes(p[:], false)
}

func (p *PodU16) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	b, err := decoder.ReadNBytes(len(p))
	if err != nil {
		return err
	}
	copy(p[:], b)
	return nil
}

type PodU32 [4]byte

func PodU32FromUint32(n uint32) PodU32 {
	var p PodU32
	bin.LE.PutUint32(p[:], n)
	return p
}

func (p PodU32) Uint32() uint32 {
	return bin.LE.Uint32(p[:])
}

func (p PodU32) MarshalWithEncoder(encoder *bin.Encoder) error {
	return encoder.WriteBytes(p[:], false)
}

func (p *PodU32) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	b, err := decoder.ReadNBytes(len(p))
	if err != nil {
		return err
	}
	copy(p[:], b)
	return nil
}

type PodU64 [8]byte

func PodU64FromUint64(n uint64) PodU64 {
	var p PodU64
	bin.LE.PutUint64(p[:], n)
	return p
}

func (p PodU64) Uint64() uint64 {
	return bin.LE.Uint64(p[:])
}

func (p PodU64) MarshalWithEncoder(encoder *bin.Encoder) error {
	return encoder.WriteBytes(p[:], false)
}

func (p *PodU64) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	b, err := decoder.ReadNBytes(len(p))
	if err != nil {
		return err
	}
	copy(p[:], b)
	return nil
}

func (p PodBool) MarshalYAML() (interface{}, error) {
	return p.Bool(), nil
}

func (p PodU16) MarshalYAML() (interface{}, error) {
	return p.Uint16(), nil
}

func (p PodU32) MarshalYAML() (interface{}, error) {
	return p.Uint32(), nil
}

func (p PodU64) MarshalYAML() (interface{}, error) {
	return p.Uint64(), nil
}
