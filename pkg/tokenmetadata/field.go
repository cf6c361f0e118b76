package tokenmetadata

import (
	"fmt"

	bin "github.com/gagliardetto/binary"
)

type FieldKind byte

const (
	FieldName FieldKind = iota
	FieldSymbol
	FieldUri
	FieldKey
)

// Field names a metadata field to update. Key is only used by FieldKey.
type Field struct {
	Kind FieldKind
	Key  string
}

func FieldFromString(s string) Field {
	switch s {
	case "name":
		return Field{Kind: FieldName}
	case "symbol":
		return Field{Kind: FieldSymbol}
	case "uri":
		return Field{Kind: FieldUri}
	default:
		return Field{Kind: FieldKey, Key: s}
	}
}

func (f Field) String() string {
	switch f.Kind {
	case FieldName:
		return "name"
	case FieldSymbol:
		return "symbol"
	case FieldUri:
		return "uri"
	default:
		return fmt.Sprintf("key(%s)", f.Key)
	}
}

func (f *Field) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	kind, err := decoder.ReadByte()
	if err != nil {
		return err
	}
	f.Kind = FieldKind(kind)

	switch f.Kind {
	case FieldName, FieldSymbol, FieldUri:
		return nil
	case FieldKey:
		f.Key, err = readString(decoder)
		return err
	default:
		return ErrInvalidBorsh
	}
}

func (f Field) MarshalWithEncoder(encoder *bin.Encoder) error {
	err := encoder.WriteByte(byte(f.Kind))
	if err != nil {
		return err
	}
	if f.Kind == FieldKey {
		return writeString(encoder, f.Key)
	}
	return nil
}
