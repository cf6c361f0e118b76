package tokengroup

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.firedancer.io/tlvstate/pkg/accounts"
	"go.firedancer.io/tlvstate/pkg/pod"
	"go.firedancer.io/tlvstate/pkg/sealevel"
	"go.firedancer.io/tlvstate/pkg/tlv"
	"go.firedancer.io/tlvstate/pkg/token"
)

type groupFixture struct {
	programId       solana.PublicKey
	group           solana.PublicKey
	groupMint       solana.PublicKey
	member          solana.PublicKey
	memberMint      solana.PublicKey
	mintAuthority   solana.PublicKey
	updateAuthority solana.PublicKey
	execCtx         *sealevel.ExecutionCtx
}

func newGroupFixture(t *testing.T) *groupFixture {
	t.Helper()
	f := &groupFixture{
		programId:       solana.NewWallet().PublicKey(),
		group:           solana.NewWallet().PublicKey(),
		groupMint:       solana.NewWallet().PublicKey(),
		member:          solana.NewWallet().PublicKey(),
		memberMint:      solana.NewWallet().PublicKey(),
		mintAuthority:   solana.NewWallet().PublicKey(),
		updateAuthority: solana.NewWallet().PublicKey(),
	}

	mint := token.Mint{MintAuthority: &f.mintAuthority, IsInitialized: true}
	mintData, err := mint.Pack()
	require.NoError(t, err)

	txAccts := sealevel.NewTransactionAccounts([]accounts.Account{
		{Key: f.programId, Executable: true},
		{Key: f.group, Owner: f.programId, Data: make([]byte, tlv.SizeOf(TokenGroupLen))},
		{Key: f.groupMint, Owner: solana.TokenProgramID, Data: mintData},
		{Key: f.member, Owner: f.programId, Data: make([]byte, tlv.SizeOf(TokenGroupMemberLen))},
		{Key: f.memberMint, Owner: solana.TokenProgramID, Data: append([]byte(nil), mintData...)},
		{Key: f.mintAuthority},
		{Key: f.updateAuthority},
	})
	f.execCtx = sealevel.NewExecutionCtx(sealevel.NewTransactionCtx(*txAccts), accounts.NewMemAccounts())
	f.execCtx.RegisterProgram(f.programId, TokenGroupExecute)
	return f
}

func (f *groupFixture) accountData(t *testing.T, idx uint64) []byte {
	acct, err := f.execCtx.TransactionContext.Accounts.GetAccount(idx)
	require.NoError(t, err)
	return acct.Data
}

func (f *groupFixture) fetchGroup(t *testing.T) *TokenGroup {
	state, err := tlv.Unpack(f.accountData(t, 1))
	require.NoError(t, err)
	group, err := tlv.GetFirstValue[TokenGroup](state)
	require.NoError(t, err)
	return group
}

func (f *groupFixture) initializeGroup(t *testing.T, maxSize uint64) error {
	updateAuthority, err := pod.OptionalNonZeroPubkeyFrom(&f.updateAuthority)
	require.NoError(t, err)
	ix, err := NewInitializeGroupInstruction(f.programId, f.group, f.groupMint, f.mintAuthority, updateAuthority, maxSize)
	require.NoError(t, err)
	return f.execCtx.Execute(ix)
}

func (f *groupFixture) initializeMember(t *testing.T) error {
	ix, err := NewInitializeMemberInstruction(f.programId, f.member, f.memberMint, f.mintAuthority, f.group, f.updateAuthority)
	require.NoError(t, err)
	return f.execCtx.Execute(ix)
}

func TestTokenGroup_InitializeGroup(t *testing.T) {
	f := newGroupFixture(t)
	require.NoError(t, f.initializeGroup(t, 2))

	group := f.fetchGroup(t)
	assert.Equal(t, f.groupMint, group.Mint)
	assert.True(t, group.UpdateAuthority.Equals(f.updateAuthority))
	assert.Equal(t, uint64(0), group.Size.Uint64())
	assert.Equal(t, uint64(2), group.MaxSize.Uint64())

	err := f.initializeGroup(t, 2)
	code, custom := sealevel.TranslateErrToInstrErrCode(err)
	assert.Equal(t, sealevel.InstrErrCodeCustom, code)
	assert.Equal(t, uint32(tlv.TlvErrCodeTypeAlreadyExists), custom)
}

func TestTokenGroup_InitializeGroup_Wrong_Mint_Authority(t *testing.T) {
	f := newGroupFixture(t)
	ix, err := NewInitializeGroupInstruction(f.programId, f.group, f.groupMint, f.updateAuthority, pod.OptionalNonZeroPubkey{}, 2)
	require.NoError(t, err)

	err = f.execCtx.Execute(ix)
	assert.ErrorIs(t, err, ErrIncorrectMintAuthority)
	_, custom := sealevel.TranslateErrToInstrErrCode(err)
	assert.Equal(t, uint32(ErrCodeIncorrectMintAuthority), custom)
	assert.Equal(t, make([]byte, tlv.SizeOf(TokenGroupLen)), f.accountData(t, 1))
}

func TestTokenGroup_UpdateGroupMaxSize(t *testing.T) {
	f := newGroupFixture(t)
	require.NoError(t, f.initializeGroup(t, 2))
	require.NoError(t, f.initializeMember(t))

	update := func(authority solana.PublicKey, maxSize uint64) error {
		ix, err := NewUpdateGroupMaxSizeInstruction(f.programId, f.group, authority, maxSize)
		require.NoError(t, err)
		return f.execCtx.Execute(ix)
	}

	require.NoError(t, update(f.updateAuthority, 5))
	assert.Equal(t, uint64(5), f.fetchGroup(t).MaxSize.Uint64())

	assert.ErrorIs(t, update(f.updateAuthority, 0), ErrSizeExceedsNewMaxSize)
	assert.ErrorIs(t, update(f.mintAuthority, 10), ErrIncorrectUpdateAuthority)
	assert.Equal(t, uint64(5), f.fetchGroup(t).MaxSize.Uint64())
}

func TestTokenGroup_UpdateGroupAuthority(t *testing.T) {
	f := newGroupFixture(t)
	require.NoError(t, f.initializeGroup(t, 2))

	ix, err := NewUpdateGroupAuthorityInstruction(f.programId, f.group, f.updateAuthority, pod.OptionalNonZeroPubkey{})
	require.NoError(t, err)
	require.NoError(t, f.execCtx.Execute(ix))
	assert.Nil(t, f.fetchGroup(t).UpdateAuthority.Get())

	err = f.execCtx.Execute(ix)
	assert.ErrorIs(t, err, ErrImmutableGroup)
	_, custom := sealevel.TranslateErrToInstrErrCode(err)
	assert.Equal(t, uint32(ErrCodeImmutableGroup), custom)
}

func TestTokenGroup_InitializeMember(t *testing.T) {
	f := newGroupFixture(t)
	require.NoError(t, f.initializeGroup(t, 1))
	require.NoError(t, f.initializeMember(t))

	assert.Equal(t, uint64(1), f.fetchGroup(t).Size.Uint64())

	state, err := tlv.Unpack(f.accountData(t, 3))
	require.NoError(t, err)
	member, err := tlv.GetFirstValue[TokenGroupMember](state)
	require.NoError(t, err)
	assert.Equal(t, f.memberMint, member.Mint)
	assert.Equal(t, f.group, member.Group)
	assert.Equal(t, uint64(1), member.MemberNumber.Uint64())

	// the group is full, and nothing changes
	memberData := append([]byte(nil), f.accountData(t, 3)...)
	assert.ErrorIs(t, f.initializeMember(t), ErrSizeExceedsMaxSize)
	assert.Equal(t, uint64(1), f.fetchGroup(t).Size.Uint64())
	assert.Equal(t, memberData, f.accountData(t, 3))
}

func TestTokenGroup_InitializeMember_Failures(t *testing.T) {
	f := newGroupFixture(t)
	require.NoError(t, f.initializeGroup(t, 5))

	ix, err := NewInitializeMemberInstruction(f.programId, f.group, f.memberMint, f.mintAuthority, f.group, f.updateAuthority)
	require.NoError(t, err)
	assert.ErrorIs(t, f.execCtx.Execute(ix), ErrMemberAccountIsGroupAccount)

	ix, err = NewInitializeMemberInstruction(f.programId, f.member, f.memberMint, f.mintAuthority, f.group, f.mintAuthority)
	require.NoError(t, err)
	assert.ErrorIs(t, f.execCtx.Execute(ix), ErrIncorrectUpdateAuthority)

	ix, err = NewInitializeMemberInstruction(f.programId, f.member, f.memberMint, f.mintAuthority, f.group, f.updateAuthority)
	require.NoError(t, err)
	ix.Accounts[2].IsSigner = false
	assert.ErrorIs(t, f.execCtx.Execute(ix), sealevel.InstrErrMissingRequiredSignature)

	assert.Equal(t, uint64(0), f.fetchGroup(t).Size.Uint64())
}

func TestTokenGroup_Instruction_Pack_Unpack(t *testing.T) {
	authority := solana.NewWallet().PublicKey()
	updateAuthority, err := pod.OptionalNonZeroPubkeyFrom(&authority)
	require.NoError(t, err)

	for _, ix := range []Instruction{
		&InstrInitializeGroup{UpdateAuthority: updateAuthority, MaxSize: pod.PodU64FromUint64(7)},
		&InstrUpdateGroupMaxSize{MaxSize: pod.PodU64FromUint64(9)},
		&InstrUpdateGroupAuthority{NewAuthority: updateAuthority},
		&InstrInitializeMember{},
	} {
		packed, err := PackInstruction(ix)
		require.NoError(t, err)
		unpacked, err := UnpackInstruction(packed)
		require.NoError(t, err)
		assert.Equal(t, ix, unpacked)

		_, err = UnpackInstruction(append(packed, 0))
		assert.ErrorIs(t, err, sealevel.InstrErrInvalidInstructionData)
	}

	_, err = UnpackInstruction(TokenGroupDiscriminator[:])
	assert.ErrorIs(t, err, sealevel.InstrErrInvalidInstructionData)
}
