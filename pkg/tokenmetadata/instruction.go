package tokenmetadata

import (
	"bytes"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"go.firedancer.io/tlvstate/pkg/discriminator"
	"go.firedancer.io/tlvstate/pkg/pod"
	"go.firedancer.io/tlvstate/pkg/sealevel"
)

var (
	InitializeDiscriminator      = discriminator.FromHashInput(Namespace + ":initialize_account")
	UpdateFieldDiscriminator     = discriminator.FromHashInput(Namespace + ":updating_field")
	RemoveKeyDiscriminator       = discriminator.FromHashInput(Namespace + ":remove_key_ix")
	UpdateAuthorityDiscriminator = discriminator.FromHashInput(Namespace + ":update_the_authority")
	EmitDiscriminator            = discriminator.FromHashInput(Namespace + ":emitter")
)

// Instruction is one of the token-metadata instructions. Its encoding is
// the 8-byte discriminator followed by the Borsh-encoded fields.
type Instruction interface {
	InstructionDiscriminator() discriminator.ArrayDiscriminator
	MarshalWithEncoder(encoder *bin.Encoder) error
	UnmarshalWithDecoder(decoder *bin.Decoder) error
}

type InstrInitialize struct {
	Name   string
	Symbol string
	Uri    string
}

type InstrUpdateField struct {
	Field Field
	Value string
}

type InstrRemoveKey struct {
	Idempotent bool
	Key        string
}

type InstrUpdateAuthority struct {
	NewAuthority pod.OptionalNonZeroPubkey
}

type InstrEmit struct {
	Start *uint64
	End   *uint64
}

func PackInstruction(ix Instruction) ([]byte, error) {
	buf := new(bytes.Buffer)
	encoder := bin.NewBinEncoder(buf)

	disc := ix.InstructionDiscriminator()
	err := encoder.WriteBytes(disc[:], false)
	if err != nil {
		return nil, err
	}
	err = ix.MarshalWithEncoder(encoder)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func UnpackInstruction(data []byte) (Instruction, error) {
	if len(data) < discriminator.Length {
		return nil, sealevel.InstrErrInvalidInstructionData
	}
	disc, err := discriminator.FromBytes(data[:discriminator.Length])
	if err != nil {
		return nil, sealevel.InstrErrInvalidInstructionData
	}

	var ix Instruction
	switch disc {
	case InitializeDiscriminator:
		ix = new(InstrInitialize)
	case UpdateFieldDiscriminator:
		ix = new(InstrUpdateField)
	case RemoveKeyDiscriminator:
		ix = new(InstrRemoveKey)
	case UpdateAuthorityDiscriminator:
		ix = new(InstrUpdateAuthority)
	case EmitDiscriminator:
		ix = new(InstrEmit)
	default:
		return nil, sealevel.InstrErrInvalidInstructionData
	}

	decoder := bin.NewBinDecoder(data[discriminator.Length:])
	err = ix.UnmarshalWithDecoder(decoder)
	if err != nil || decoder.Remaining() != 0 {
		return nil, sealevel.InstrErrInvalidInstructionData
	}
	return ix, nil
}

func (instr *InstrInitialize) InstructionDiscriminator() discriminator.ArrayDiscriminator {
	return InitializeDiscriminator
}

func (instr *InstrInitialize) UnmarshalWithDecoder(decoder *bin.Decoder) (err error) {
	if instr.Name, err = readString(decoder); err != nil {
		return
	}
	if instr.Symbol, err = readString(decoder); err != nil {
		return
	}
	instr.Uri, err = readString(decoder)
	return
}

func (instr *InstrInitialize) MarshalWithEncoder(encoder *bin.Encoder) error {
	for _, s := range []string{instr.Name, instr.Symbol, instr.Uri} {
		err := writeString(encoder, s)
		if err != nil {
			return err
		}
	}
	return nil
}

func (instr *InstrUpdateField) InstructionDiscriminator() discriminator.ArrayDiscriminator {
	return UpdateFieldDiscriminator
}

func (instr *InstrUpdateField) UnmarshalWithDecoder(decoder *bin.Decoder) (err error) {
	err = instr.Field.UnmarshalWithDecoder(decoder)
	if err != nil {
		return
	}
	instr.Value, err = readString(decoder)
	return
}

func (instr *InstrUpdateField) MarshalWithEncoder(encoder *bin.Encoder) error {
	err := instr.Field.MarshalWithEncoder(encoder)
	if err != nil {
		return err
	}
	return writeString(encoder, instr.Value)
}

func (instr *InstrRemoveKey) InstructionDiscriminator() discriminator.ArrayDiscriminator {
	return RemoveKeyDiscriminator
}

func (instr *InstrRemoveKey) UnmarshalWithDecoder(decoder *bin.Decoder) (err error) {
	instr.Idempotent, err = readBool(decoder)
	if err != nil {
		return
	}
	instr.Key, err = readString(decoder)
	return
}

func (instr *InstrRemoveKey) MarshalWithEncoder(encoder *bin.Encoder) error {
	err := encoder.WriteBool(instr.Idempotent)
	if err != nil {
		return err
	}
	return writeString(encoder, instr.Key)
}

func (instr *InstrUpdateAuthority) InstructionDiscriminator() discriminator.ArrayDiscriminator {
	return UpdateAuthorityDiscriminator
}

func (instr *InstrUpdateAuthority) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	return instr.NewAuthority.UnmarshalWithDecoder(decoder)
}

func (instr *InstrUpdateAuthority) MarshalWithEncoder(encoder *bin.Encoder) error {
	return instr.NewAuthority.MarshalWithEncoder(encoder)
}

func (instr *InstrEmit) InstructionDiscriminator() discriminator.ArrayDiscriminator {
	return EmitDiscriminator
}

func (instr *InstrEmit) UnmarshalWithDecoder(decoder *bin.Decoder) (err error) {
	instr.Start, err = readOptionU64(decoder)
	if err != nil {
		return
	}
	instr.End, err = readOptionU64(decoder)
	return
}

func (instr *InstrEmit) MarshalWithEncoder(encoder *bin.Encoder) error {
	err := writeOptionU64(encoder, instr.Start)
	if err != nil {
		return err
	}
	return writeOptionU64(encoder, instr.End)
}

func newInstruction(programId solana.PublicKey, ix Instruction, accts []sealevel.AccountMeta) (sealevel.Instruction, error) {
	data, err := PackInstruction(ix)
	if err != nil {
		return sealevel.Instruction{}, err
	}
	return sealevel.Instruction{ProgramId: programId, Accounts: accts, Data: data}, nil
}

func NewInitializeInstruction(programId, metadata, updateAuthority, mint, mintAuthority solana.PublicKey, name, symbol, uri string) (sealevel.Instruction, error) {
	return newInstruction(programId, &InstrInitialize{Name: name, Symbol: symbol, Uri: uri}, []sealevel.AccountMeta{
		{Pubkey: metadata, IsWritable: true},
		{Pubkey: updateAuthority},
		{Pubkey: mint},
		{Pubkey: mintAuthority, IsSigner: true},
	})
}

func NewUpdateFieldInstruction(programId, metadata, updateAuthority solana.PublicKey, field Field, value string) (sealevel.Instruction, error) {
	return newInstruction(programId, &InstrUpdateField{Field: field, Value: value}, []sealevel.AccountMeta{
		{Pubkey: metadata, IsWritable: true},
		{Pubkey: updateAuthority, IsSigner: true},
	})
}

func NewRemoveKeyInstruction(programId, metadata, updateAuthority solana.PublicKey, key string, idempotent bool) (sealevel.Instruction, error) {
	return newInstruction(programId, &InstrRemoveKey{Idempotent: idempotent, Key: key}, []sealevel.AccountMeta{
		{Pubkey: metadata, IsWritable: true},
		{Pubkey: updateAuthority, IsSigner: true},
	})
}

func NewUpdateAuthorityInstruction(programId, metadata, currentAuthority solana.PublicKey, newAuthority pod.OptionalNonZeroPubkey) (sealevel.Instruction, error) {
	return newInstruction(programId, &InstrUpdateAuthority{NewAuthority: newAuthority}, []sealevel.AccountMeta{
		{Pubkey: metadata, IsWritable: true},
		{Pubkey: currentAuthority, IsSigner: true},
	})
}

func NewEmitInstruction(programId, metadata solana.PublicKey, start, end *uint64) (sealevel.Instruction, error) {
	return newInstruction(programId, &InstrEmit{Start: start, End: end}, []sealevel.AccountMeta{
		{Pubkey: metadata},
	})
}
