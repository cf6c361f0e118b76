// Package tokenmetadata implements the token-metadata interface on top of
// TLV account state: a variable-length metadata record and a processor for
// its instructions.
package tokenmetadata

import (
	"bytes"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/samber/lo"
	"go.firedancer.io/tlvstate/pkg/discriminator"
	"go.firedancer.io/tlvstate/pkg/pod"
	"go.firedancer.io/tlvstate/pkg/tlv"
)

const Namespace = "spl_token_metadata_interface"

var TokenMetadataDiscriminator = discriminator.New([8]byte{112, 132, 90, 90, 11, 88, 157, 87})

type KeyValue struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

type TokenMetadata struct {
	UpdateAuthority    pod.OptionalNonZeroPubkey `yaml:"update_authority"`
	Mint               solana.PublicKey          `yaml:"mint"`
	Name               string                    `yaml:"name"`
	Symbol             string                    `yaml:"symbol"`
	Uri                string                    `yaml:"uri"`
	AdditionalMetadata []KeyValue                `yaml:"additional_metadata"`
}

func (m *TokenMetadata) TlvDiscriminator() discriminator.ArrayDiscriminator {
	return TokenMetadataDiscriminator
}

func (m *TokenMetadata) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	err := m.UpdateAuthority.UnmarshalWithDecoder(decoder)
	if err != nil {
		return err
	}

	mint, err := decoder.ReadNBytes(solana.PublicKeyLength)
	if err != nil {
		return err
	}
	copy(m.Mint[:], mint)

	if m.Name, err = readString(decoder); err != nil {
		return err
	}
	if m.Symbol, err = readString(decoder); err != nil {
		return err
	}
	if m.Uri, err = readString(decoder); err != nil {
		return err
	}

	count, err := decoder.ReadUint32(bin.LE)
	if err != nil {
		return err
	}
	// each pair takes at least two length prefixes
	if uint64(count)*8 > uint64(decoder.Remaining()) {
		return ErrInvalidBorsh
	}
	m.AdditionalMetadata = make([]KeyValue, 0, count)
	for i := uint32(0); i < count; i++ {
		var kv KeyValue
		if kv.Key, err = readString(decoder); err != nil {
			return err
		}
		if kv.Value, err = readString(decoder); err != nil {
			return err
		}
		m.AdditionalMetadata = append(m.AdditionalMetadata, kv)
	}
	return nil
}

func (m *TokenMetadata) MarshalWithEncoder(encoder *bin.Encoder) error {
	err := m.UpdateAuthority.MarshalWithEncoder(encoder)
	if err != nil {
		return err
	}
	err = encoder.WriteBytes(m.Mint[:], false)
	if err != nil {
		return err
	}
	for _, s := range []string{m.Name, m.Symbol, m.Uri} {
		err = writeString(encoder, s)
		if err != nil {
			return err
		}
	}

	err = encoder.WriteUint32(uint32(len(m.AdditionalMetadata)), bin.LE)
	if err != nil {
		return err
	}
	for _, kv := range m.AdditionalMetadata {
		err = writeString(encoder, kv.Key)
		if err != nil {
			return err
		}
		err = writeString(encoder, kv.Value)
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *TokenMetadata) PackedLen() (int, error) {
	size := 2*solana.PublicKeyLength + stringLen(m.Name) + stringLen(m.Symbol) + stringLen(m.Uri) + 4
	for _, kv := range m.AdditionalMetadata {
		size += stringLen(kv.Key) + stringLen(kv.Value)
	}
	return size, nil
}

func (m *TokenMetadata) PackIntoSlice(dst []byte) error {
	buf := new(bytes.Buffer)
	err := m.MarshalWithEncoder(bin.NewBinEncoder(buf))
	if err != nil {
		return err
	}
	if buf.Len() > len(dst) {
		return tlv.ErrInvalidAccountData
	}
	copy(dst, buf.Bytes())
	return nil
}

// UnpackFromSlice ignores bytes after the encoded metadata.
func (m *TokenMetadata) UnpackFromSlice(src []byte) error {
	return m.UnmarshalWithDecoder(bin.NewBinDecoder(src))
}

// TlvSizeOf is the size of the metadata as a complete TLV record.
func (m *TokenMetadata) TlvSizeOf() (int, error) {
	packedLen, err := m.PackedLen()
	if err != nil {
		return 0, err
	}
	return tlv.SizeOf(packedLen), nil
}

func (m *TokenMetadata) Update(field Field, value string) {
	switch field.Kind {
	case FieldName:
		m.Name = value
	case FieldSymbol:
		m.Symbol = value
	case FieldUri:
		m.Uri = value
	case FieldKey:
		m.SetKeyValue(field.Key, value)
	}
}

// SetKeyValue overwrites an existing key in place or appends a new pair.
func (m *TokenMetadata) SetKeyValue(key string, value string) {
	_, idx, found := lo.FindIndexOf(m.AdditionalMetadata, func(kv KeyValue) bool {
		return kv.Key == key
	})
	if found {
		m.AdditionalMetadata[idx].Value = value
		return
	}
	m.AdditionalMetadata = append(m.AdditionalMetadata, KeyValue{Key: key, Value: value})
}

// RemoveKey reports whether the key was present.
func (m *TokenMetadata) RemoveKey(key string) bool {
	kept := lo.Reject(m.AdditionalMetadata, func(kv KeyValue, _ int) bool {
		return kv.Key == key
	})
	found := len(kept) != len(m.AdditionalMetadata)
	m.AdditionalMetadata = kept
	return found
}

// GetSlice returns data[start:end], with missing bounds meaning the start
// and end of data. Out-of-range bounds give false.
func GetSlice(data []byte, start *uint64, end *uint64) ([]byte, bool) {
	from := uint64(0)
	if start != nil {
		from = *start
	}
	to := uint64(len(data))
	if end != nil {
		to = *end
	}
	if from > to || to > uint64(len(data)) {
		return nil, false
	}
	return data[from:to], true
}
