// Package token decodes the parts of SPL token accounts that the metadata
// and group processors check against.
package token

import (
	"bytes"
	"errors"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/samber/lo"
)

const (
	MintLen    = 82
	AccountLen = 165

	// AccountTypeMint marks an extended mint at byte AccountLen.
	AccountTypeMint = 1
)

var (
	ErrInvalidMint       = errors.New("ErrInvalidMint")
	ErrUninitializedMint = errors.New("ErrUninitializedMint")
)

type Mint struct {
	MintAuthority   *solana.PublicKey
	Supply          uint64
	Decimals        byte
	IsInitialized   bool
	FreezeAuthority *solana.PublicKey
}

func readCOptionPubkey(decoder *bin.Decoder) (*solana.PublicKey, error) {
	tag, err := decoder.ReadUint32(bin.LE)
	if err != nil {
		return nil, err
	}
	b, err := decoder.ReadNBytes(solana.PublicKeyLength)
	if err != nil {
		return nil, err
	}
	switch tag {
	case 0:
		return nil, nil
	case 1:
		key := solana.PublicKeyFromBytes(b)
		return &key, nil
	default:
		return nil, ErrInvalidMint
	}
}

func writeCOptionPubkey(encoder *bin.Encoder, key *solana.PublicKey) error {
	var tag uint32
	var b solana.PublicKey
	if key != nil {
		tag, b = 1, *key
	}
	err := encoder.WriteUint32(tag, bin.LE)
	if err != nil {
		return err
	}
	return encoder.WriteBytes(b[:], false)
}

func (m *Mint) UnmarshalWithDecoder(decoder *bin.Decoder) (err error) {
	m.MintAuthority, err = readCOptionPubkey(decoder)
	if err != nil {
		return
	}
	m.Supply, err = decoder.ReadUint64(bin.LE)
	if err != nil {
		return
	}
	m.Decimals, err = decoder.ReadByte()
	if err != nil {
		return
	}
	isInitialized, err := decoder.ReadByte()
	if err != nil {
		return
	}
	if isInitialized > 1 {
		return ErrInvalidMint
	}
	m.IsInitialized = isInitialized == 1
	m.FreezeAuthority, err = readCOptionPubkey(decoder)
	return
}

func (m *Mint) MarshalWithEncoder(encoder *bin.Encoder) error {
	err := writeCOptionPubkey(encoder, m.MintAuthority)
	if err != nil {
		return err
	}
	err = encoder.WriteUint64(m.Supply, bin.LE)
	if err != nil {
		return err
	}
	err = encoder.WriteByte(m.Decimals)
	if err != nil {
		return err
	}
	err = encoder.WriteBool(m.IsInitialized)
	if err != nil {
		return err
	}
	return writeCOptionPubkey(encoder, m.FreezeAuthority)
}

// Pack returns the 82-byte base encoding of the mint.
func (m *Mint) Pack() ([]byte, error) {
	buf := new(bytes.Buffer)
	err := m.MarshalWithEncoder(bin.NewBinEncoder(buf))
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnpackMint decodes a mint from either a plain 82-byte account or a
// Token-2022 style account with extensions, where the base is padded to
// AccountLen and followed by the account type byte.
func UnpackMint(data []byte) (*Mint, error) {
	if len(data) < MintLen {
		return nil, ErrInvalidMint
	}

	if len(data) > MintLen {
		if len(data) <= AccountLen {
			return nil, ErrInvalidMint
		}
		if !lo.EveryBy(data[MintLen:AccountLen], func(b byte) bool { return b == 0 }) {
			return nil, ErrInvalidMint
		}
		if data[AccountLen] != AccountTypeMint {
			return nil, ErrInvalidMint
		}
	}

	mint := new(Mint)
	err := mint.UnmarshalWithDecoder(bin.NewBinDecoder(data[:MintLen]))
	if err != nil {
		return nil, ErrInvalidMint
	}
	if !mint.IsInitialized {
		return nil, ErrUninitializedMint
	}
	return mint, nil
}
