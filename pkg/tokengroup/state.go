// Package tokengroup implements the token-group interface: fixed-size group
// and member records stored in TLV account state, and their processor.
package tokengroup

import (
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"go.firedancer.io/tlvstate/pkg/discriminator"
	"go.firedancer.io/tlvstate/pkg/pod"
	"go.firedancer.io/tlvstate/pkg/safemath"
	"go.firedancer.io/tlvstate/pkg/sealevel"
)

const Namespace = "spl_token_group_interface"

const (
	TokenGroupLen       = 80
	TokenGroupMemberLen = 72
)

var (
	TokenGroupDiscriminator       = discriminator.FromHashInput(Namespace + ":group")
	TokenGroupMemberDiscriminator = discriminator.FromHashInput(Namespace + ":member")
)

type TokenGroup struct {
	UpdateAuthority pod.OptionalNonZeroPubkey `yaml:"update_authority"`
	Mint            solana.PublicKey          `yaml:"mint"`
	Size            pod.PodU64                `yaml:"size"`
	MaxSize         pod.PodU64                `yaml:"max_size"`
}

func NewTokenGroup(mint solana.PublicKey, updateAuthority pod.OptionalNonZeroPubkey, maxSize uint64) TokenGroup {
	return TokenGroup{
		UpdateAuthority: updateAuthority,
		Mint:            mint,
		MaxSize:         pod.PodU64FromUint64(maxSize),
	}
}

func (g *TokenGroup) TlvDiscriminator() discriminator.ArrayDiscriminator {
	return TokenGroupDiscriminator
}

func (g *TokenGroup) PodLen() int {
	return TokenGroupLen
}

func (g *TokenGroup) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	err := g.UpdateAuthority.UnmarshalWithDecoder(decoder)
	if err != nil {
		return err
	}
	mint, err := decoder.ReadNBytes(solana.PublicKeyLength)
	if err != nil {
		return err
	}
	copy(g.Mint[:], mint)
	err = g.Size.UnmarshalWithDecoder(decoder)
	if err != nil {
		return err
	}
	return g.MaxSize.UnmarshalWithDecoder(decoder)
}

func (g *TokenGroup) MarshalWithEncoder(encoder *bin.Encoder) error {
	err := g.UpdateAuthority.MarshalWithEncoder(encoder)
	if err != nil {
		return err
	}
	err = encoder.WriteBytes(g.Mint[:], false)
	if err != nil {
		return err
	}
	err = g.Size.MarshalWithEncoder(encoder)
	if err != nil {
		return err
	}
	return g.MaxSize.MarshalWithEncoder(encoder)
}

// UpdateMaxSize fails if the group already holds more members than newMaxSize.
func (g *TokenGroup) UpdateMaxSize(newMaxSize uint64) error {
	if newMaxSize < g.Size.Uint64() {
		return ErrSizeExceedsNewMaxSize
	}
	g.MaxSize = pod.PodU64FromUint64(newMaxSize)
	return nil
}

// IncrementSize adds a member and returns the new size, which is also the
// new member's number.
func (g *TokenGroup) IncrementSize() (uint64, error) {
	newSize, ok := safemath.CheckedAddU64(g.Size.Uint64(), 1)
	if !ok {
		return 0, sealevel.InstrErrArithmeticOverflow
	}
	if newSize > g.MaxSize.Uint64() {
		return 0, ErrSizeExceedsMaxSize
	}
	g.Size = pod.PodU64FromUint64(newSize)
	return newSize, nil
}

type TokenGroupMember struct {
	Mint         solana.PublicKey `yaml:"mint"`
	Group        solana.PublicKey `yaml:"group"`
	MemberNumber pod.PodU64       `yaml:"member_number"`
}

func NewTokenGroupMember(mint, group solana.PublicKey, memberNumber uint64) TokenGroupMember {
	return TokenGroupMember{Mint: mint, Group: group, MemberNumber: pod.PodU64FromUint64(memberNumber)}
}

func (m *TokenGroupMember) TlvDiscriminator() discriminator.ArrayDiscriminator {
	return TokenGroupMemberDiscriminator
}

func (m *TokenGroupMember) PodLen() int {
	return TokenGroupMemberLen
}

func (m *TokenGroupMember) UnmarshalWithDecoder(decoder *bin.Decoder) error {
	mint, err := decoder.ReadNBytes(solana.PublicKeyLength)
	if err != nil {
		return err
	}
	copy(m.Mint[:], mint)
	group, err := decoder.ReadNBytes(solana.PublicKeyLength)
	if err != nil {
		return err
	}
	copy(m.Group[:], group)
	return m.MemberNumber.UnmarshalWithDecoder(decoder)
}

func (m *TokenGroupMember) MarshalWithEncoder(encoder *bin.Encoder) error {
	err := encoder.WriteBytes(m.Mint[:], false)
	if err != nil {
		return err
	}
	err = encoder.WriteBytes(m.Group[:], false)
	if err != nil {
		return err
	}
	return m.MemberNumber.MarshalWithEncoder(encoder)
}
