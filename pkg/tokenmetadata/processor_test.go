package tokenmetadata

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

type metadataFixture struct {
	programId       solana.PublicKey
	metadata        solana.PublicKey
	updateAuthority solana.PublicKey
	mint            solana.PublicKey
	mintAuthority   solana.PublicKey
	execCtx         *sealevel.ExecutionCtx
}

func newMetadataFixture(t *testing.T, metadataSpace int) *metadataFixture {
	t.Helper()
	f := &metadataFixture{
		programId:       solana.NewWallet().PublicKey(),
		metadata:        solana.NewWallet().PublicKey(),
		updateAuthority: solana.NewWallet().PublicKey(),
		mint:            solana.NewWallet().PublicKey(),
		mintAuthority:   solana.NewWallet().PublicKey(),
	}

	mint := token.Mint{MintAuthority: &f.mintAuthority, Decimals: 2, IsInitialized: true}
	mintData, err := mint.Pack()
	require.NoError(t, err)

	txAccts := sealevel.NewTransactionAccounts([]accounts.Account{
		{Key: f.programId, Executable: true},
		{Key: f.metadata, Owner: f.programId, Data: make([]byte, metadataSpace)},
		{Key: f.updateAuthority},
		{Key: f.mint, Owner: solana.TokenProgramID, Data: mintData},
		{Key: f.mintAuthority},
	})
	f.execCtx = sealevel.NewExecutionCtx(sealevel.NewTransactionCtx(*txAccts), accounts.NewMemAccounts())
	f.execCtx.RegisterProgram(f.programId, TokenMetadataExecute)
	return f
}

func (f *metadataFixture) metadataData(t *testing.T) []byte {
	acct, err := f.execCtx.TransactionContext.Accounts.GetAccount(1)
	require.NoError(t, err)
	return acct.Data
}

func (f *metadataFixture) fetchMetadata(t *testing.T) *TokenMetadata {
	state, err := tlv.Unpack(f.metadataData(t))
	require.NoError(t, err)
	metadata, err := tlv.GetVariableValue[TokenMetadata](state, 0)
	require.NoError(t, err)
	return metadata
}

func (f *metadataFixture) initialize(t *testing.T) error {
	ix, err := NewInitializeInstruction(f.programId, f.metadata, f.updateAuthority, f.mint, f.mintAuthority,
		"MySuperCoolToken", "MINE", "my.super.cool.token")
	require.NoError(t, err)
	return f.execCtx.Execute(ix)
}

func initialMetadataSize(t *testing.T) int {
	metadata := TokenMetadata{Name: "MySuperCoolToken", Symbol: "MINE", Uri: "my.super.cool.token"}
	size, err := metadata.TlvSizeOf()
	require.NoError(t, err)
	return size
}

func TestTokenMetadata_Initialize_Success(t *testing.T) {
	f := newMetadataFixture(t, initialMetadataSize(t))
	require.NoError(t, f.initialize(t))

	metadata := f.fetchMetadata(t)
	assert.Equal(t, "MySuperCoolToken", metadata.Name)
	assert.Equal(t, "MINE", metadata.Symbol)
	assert.Equal(t, "my.super.cool.token", metadata.Uri)
	assert.Equal(t, f.mint, metadata.Mint)
	assert.True(t, metadata.UpdateAuthority.Equals(f.updateAuthority))
	assert.Empty(t, metadata.AdditionalMetadata)

	// fails the second time around
	err := f.initialize(t)
	var custom *sealevel.CustomError
	require.ErrorAs(t, err, &custom)
	assert.Equal(t, uint32(tlv.TlvErrCodeTypeAlreadyExists), custom.Code)
}

func TestTokenMetadata_Initialize_Failures(t *testing.T) {
	// too small
	f := newMetadataFixture(t, initialMetadataSize(t)-1)
	assert.ErrorIs(t, f.initialize(t), sealevel.InstrErrInvalidAccountData)

	// mint authority must sign
	f = newMetadataFixture(t, initialMetadataSize(t))
	ix, err := NewInitializeInstruction(f.programId, f.metadata, f.updateAuthority, f.mint, f.mintAuthority, "a", "b", "c")
	require.NoError(t, err)
	ix.Accounts[3].IsSigner = false
	assert.ErrorIs(t, f.execCtx.Execute(ix), sealevel.InstrErrMissingRequiredSignature)

	// wrong mint authority
	ix, err = NewInitializeInstruction(f.programId, f.metadata, f.updateAuthority, f.mint, f.updateAuthority, "a", "b", "c")
	require.NoError(t, err)
	ix.Accounts[3].IsSigner = true
	err = f.execCtx.Execute(ix)
	assert.ErrorIs(t, err, ErrIncorrectMintAuthority)
	code, custom := sealevel.TranslateErrToInstrErrCode(err)
	assert.Equal(t, sealevel.InstrErrCodeCustom, code)
	assert.Equal(t, uint32(ErrCodeIncorrectMintAuthority), custom)

	// failed instructions leave the account untouched
	assert.Equal(t, make([]byte, initialMetadataSize(t)), f.metadataData(t))
}

func TestTokenMetadata_UpdateField(t *testing.T) {
	f := newMetadataFixture(t, initialMetadataSize(t))
	require.NoError(t, f.initialize(t))

	update := func(field Field, value string) error {
		ix, err := NewUpdateFieldInstruction(f.programId, f.metadata, f.updateAuthority, field, value)
		require.NoError(t, err)
		return f.execCtx.Execute(ix)
	}

	// grows the account
	require.NoError(t, update(FieldFromString("name"), "AnEvenCoolerTokenName"))
	require.NoError(t, update(FieldFromString("color"), "blue"))
	metadata := f.fetchMetadata(t)
	assert.Equal(t, "AnEvenCoolerTokenName", metadata.Name)
	assert.Equal(t, []KeyValue{{"color", "blue"}}, metadata.AdditionalMetadata)

	size, err := metadata.TlvSizeOf()
	require.NoError(t, err)
	assert.Len(t, f.metadataData(t), size)

	// shrinks the account
	require.NoError(t, update(FieldFromString("uri"), ""))
	metadata = f.fetchMetadata(t)
	assert.Equal(t, "", metadata.Uri)
	size, err = metadata.TlvSizeOf()
	require.NoError(t, err)
	assert.Len(t, f.metadataData(t), size)

	// wrong authority
	ix, err := NewUpdateFieldInstruction(f.programId, f.metadata, f.mintAuthority, FieldFromString("name"), "x")
	require.NoError(t, err)
	assert.ErrorIs(t, f.execCtx.Execute(ix), ErrIncorrectUpdateAuthority)

	// authority did not sign
	ix, err = NewUpdateFieldInstruction(f.programId, f.metadata, f.updateAuthority, FieldFromString("name"), "x")
	require.NoError(t, err)
	ix.Accounts[1].IsSigner = false
	assert.ErrorIs(t, f.execCtx.Execute(ix), sealevel.InstrErrMissingRequiredSignature)
}

func TestTokenMetadata_RemoveKey_Processor(t *testing.T) {
	f := newMetadataFixture(t, initialMetadataSize(t))
	require.NoError(t, f.initialize(t))

	ix, err := NewUpdateFieldInstruction(f.programId, f.metadata, f.updateAuthority, FieldFromString("k"), "v")
	require.NoError(t, err)
	require.NoError(t, f.execCtx.Execute(ix))

	remove := func(idempotent bool) error {
		ix, err := NewRemoveKeyInstruction(f.programId, f.metadata, f.updateAuthority, "k", idempotent)
		require.NoError(t, err)
		return f.execCtx.Execute(ix)
	}

	require.NoError(t, remove(false))
	assert.Empty(t, f.fetchMetadata(t).AdditionalMetadata)
	assert.Len(t, f.metadataData(t), initialMetadataSize(t))

	assert.ErrorIs(t, remove(false), ErrKeyNotFound)
	assert.NoError(t, remove(true))
}

func TestTokenMetadata_UpdateAuthority_Processor(t *testing.T) {
	f := newMetadataFixture(t, initialMetadataSize(t))
	require.NoError(t, f.initialize(t))

	// hand the authority over to the mint authority
	newAuthority, err := pod.OptionalNonZeroPubkeyFrom(&f.mintAuthority)
	require.NoError(t, err)

	ix, err := NewUpdateAuthorityInstruction(f.programId, f.metadata, f.updateAuthority, newAuthority)
	require.NoError(t, err)
	require.NoError(t, f.execCtx.Execute(ix))
	assert.True(t, f.fetchMetadata(t).UpdateAuthority.Equals(f.mintAuthority))
	assert.Len(t, f.metadataData(t), initialMetadataSize(t))

	// the old authority no longer works
	assert.ErrorIs(t, f.execCtx.Execute(ix), ErrIncorrectUpdateAuthority)

	// make the metadata immutable
	ix, err = NewUpdateAuthorityInstruction(f.programId, f.metadata, f.mintAuthority, pod.OptionalNonZeroPubkey{})
	require.NoError(t, err)
	require.NoError(t, f.execCtx.Execute(ix))
	assert.Nil(t, f.fetchMetadata(t).UpdateAuthority.Get())

	ix, err = NewUpdateFieldInstruction(f.programId, f.metadata, f.mintAuthority, FieldFromString("name"), "x")
	require.NoError(t, err)
	assert.ErrorIs(t, f.execCtx.Execute(ix), ErrImmutableMetadata)
}

func TestTokenMetadata_Emit(t *testing.T) {
	f := newMetadataFixture(t, initialMetadataSize(t))
	require.NoError(t, f.initialize(t))

	expected := f.metadataData(t)[tlv.GetBaseLen():]

	emit := func(start, end *uint64) []byte {
		ix, err := NewEmitInstruction(f.programId, f.metadata, start, end)
		require.NoError(t, err)
		require.NoError(t, f.execCtx.Execute(ix))
		programId, data := f.execCtx.TransactionContext.GetReturnData()
		assert.Equal(t, f.programId, programId)
		return data
	}

	assert.Equal(t, expected, emit(nil, nil))

	start, end := uint64(32), uint64(64)
	assert.Equal(t, f.mint[:], emit(&start, &end))

	// the metadata account must belong to the program
	ix, err := NewEmitInstruction(f.programId, f.mint, nil, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, f.execCtx.Execute(ix), sealevel.InstrErrIllegalOwner)
}
