package tokengroup

import (
	"bytes"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"go.firedancer.io/tlvstate/pkg/discriminator"
	"go.firedancer.io/tlvstate/pkg/pod"
	"go.firedancer.io/tlvstate/pkg/sealevel"
)

var (
	InitializeGroupDiscriminator      = discriminator.FromHashInput(Namespace + ":initialize_token_group")
	UpdateGroupMaxSizeDiscriminator   = discriminator.FromHashInput(Namespace + ":update_group_max_size")
	UpdateGroupAuthorityDiscriminator = discriminator.FromHashInput(Namespace + ":update_authority")
	InitializeMemberDiscriminator     = discriminator.FromHashInput(Namespace + ":initialize_member")
)

type Instruction interface {
	InstructionDiscriminator() discriminator.ArrayDiscriminator
	MarshalWithEncoder(encoder *bin.Encoder) error
	UnmarshalWithDecoder(decoder *bin.Decoder) error
}

type InstrInitializeGroup struct {
	UpdateAuthority pod.OptionalNonZeroPubkey
	MaxSize         pod.PodU64
}

type InstrUpdateGroupMaxSize struct {
	MaxSize pod.PodU64
}

type InstrUpdateGroupAuthority struct {
	NewAuthority pod.OptionalNonZeroPubkey
}

type InstrInitializeMember struct{}

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
	case InitializeGroupDiscriminator:
		ix = new(InstrInitializeGroup)
	case UpdateGroupMaxSizeDiscriminator:
		ix = new(InstrUpdateGroupMaxSize)
	case UpdateGroupAuthorityDiscriminator:
		ix = new(InstrUpdateGroupAuthority)
	case InitializeMemberDiscriminator:
		ix = new(InstrInitializeMember)
	default:
		return nil, sealevel.InstrErrInvalidInstructionData
	}

	// pod instruction data must be exactly sized
	decoder := bin.NewBinDecoder(data[discriminator.Length:])
	err = ix.UnmarshalWithDecoder(decoder)
	if err != nil || decoder.Remaining() != 0 {
		return nil, sealevel.InstrErrInvalidInstructionData
	}
	return ix, nil
}

func (instr *InstrInitializeGroup) InstructionDiscriminator() discriminator.ArrayDiscriminator {
	return InitializeGroupDiscriminator
}

func (instr *InstrInitializeGroup) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	err := instr.UpdateAuthority.UnmarshalWithDecoder(decoder)
	if err != nil {
		return err
	}
	return instr.MaxSize.UnmarshalWithDecoder(decoder)
}

func (instr *InstrInitializeGroup) MarshalWithEncoder(encoder *bin.Encoder) error {
	err := instr.UpdateAuthority.MarshalWithEncoder(encoder)
	if err != nil {
		return err
	}
	return instr.MaxSize.MarshalWithEncoder(encoder)
}

func (instr *InstrUpdateGroupMaxSize) InstructionDiscriminator() discriminator.ArrayDiscriminator {
	return UpdateGroupMaxSizeDiscriminator
}

func (instr *InstrUpdateGroupMaxSize) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	return instr.MaxSize.UnmarshalWithDecoder(decoder)
}

func (instr *InstrUpdateGroupMaxSize) MarshalWithEncoder(encoder *bin.Encoder) error {
	return instr.MaxSize.MarshalWithEncoder(encoder)
}

func (instr *InstrUpdateGroupAuthority) InstructionDiscriminator() discriminator.ArrayDiscriminator {
	return UpdateGroupAuthorityDiscriminator
}

func (instr *InstrUpdateGroupAuthority) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	return instr.NewAuthority.UnmarshalWithDecoder(decoder)
}

func (instr *InstrUpdateGroupAuthority) MarshalWithEncoder(encoder *bin.Encoder) error {
	return instr.NewAuthority.MarshalWithEncoder(encoder)
}

func (instr *InstrInitializeMember) InstructionDiscriminator() discriminator.ArrayDiscriminator {
	return InitializeMemberDiscriminator
}

func (instr *InstrInitializeMember) UnmarshalWithDecoder(*bin.Decoder) error {
	return nil
}

func (instr *InstrInitializeMember) MarshalWithEncoder(*bin.Encoder) error {
	return nil
}

func newInstruction(programId solana.PublicKey, ix Instruction, accts []sealevel.AccountMeta) (sealevel.Instruction, error) {
	data, err := PackInstruction(ix)
	if err != nil {
		return sealevel.Instruction{}, err
	}
	return sealevel.Instruction{ProgramId: programId, Accounts: accts, Data: data}, nil
}

func NewInitializeGroupInstruction(programId, group, mint, mintAuthority solana.PublicKey, updateAuthority pod.OptionalNonZeroPubkey, maxSize uint64) (sealevel.Instruction, error) {
	ix := &InstrInitializeGroup{UpdateAuthority: updateAuthority, MaxSize: pod.PodU64FromUint64(maxSize)}
	return newInstruction(programId, ix, []sealevel.AccountMeta{
		{Pubkey: group, IsWritable: true},
		{Pubkey: mint},
		{Pubkey: mintAuthority, IsSigner: true},
	})
}

func NewUpdateGroupMaxSizeInstruction(programId, group, updateAuthority solana.PublicKey, maxSize uint64) (sealevel.Instruction, error) {
	ix := &InstrUpdateGroupMaxSize{MaxSize: pod.PodU64FromUint64(maxSize)}
	return newInstruction(programId, ix, []sealevel.AccountMeta{
		{Pubkey: group, IsWritable: true},
		{Pubkey: updateAuthority, IsSigner: true},
	})
}

func NewUpdateGroupAuthorityInstruction(programId, group, currentAuthority solana.PublicKey, newAuthority pod.OptionalNonZeroPubkey) (sealevel.Instruction, error) {
	ix := &InstrUpdateGroupAuthority{NewAuthority: newAuthority}
	return newInstruction(programId, ix, []sealevel.AccountMeta{
		{Pubkey: group, IsWritable: true},
		{Pubkey: currentAuthority, IsSigner: true},
	})
}

func NewInitializeMemberInstruction(programId, member, memberMint, memberMintAuthority, group, groupUpdateAuthority solana.PublicKey) (sealevel.Instruction, error) {
	return newInstruction(programId, &InstrInitializeMember{}, []sealevel.AccountMeta{
		{Pubkey: member, IsWritable: true},
		{Pubkey: memberMint},
		{Pubkey: memberMintAuthority, IsSigner: true},
		{Pubkey: group, IsWritable: true},
		{Pubkey: groupUpdateAuthority, IsSigner: true},
	})
}
