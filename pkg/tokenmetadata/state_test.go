package tokenmetadata

import (
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.firedancer.io/tlvstate/pkg/discriminator"
	"go.firedancer.io/tlvstate/pkg/pod"
	"go.firedancer.io/tlvstate/pkg/tlv"
)

func TestTokenMetadata_Discriminator(t *testing.T) {
	assert.Equal(t, discriminator.FromHashInput(Namespace+":token_metadata"), TokenMetadataDiscriminator)
}

func TestTokenMetadata_Update(t *testing.T) {
	metadata := TokenMetadata{Name: "name", Symbol: "symbol", Uri: "uri"}

	metadata.Update(Field{Kind: FieldName}, "new_name")
	assert.Equal(t, "new_name", metadata.Name)
	metadata.Update(Field{Kind: FieldSymbol}, "new_symbol")
	assert.Equal(t, "new_symbol", metadata.Symbol)
	metadata.Update(Field{Kind: FieldUri}, "new_uri")
	assert.Equal(t, "new_uri", metadata.Uri)

	metadata.Update(Field{Kind: FieldKey, Key: "key1"}, "value1")
	metadata.Update(Field{Kind: FieldKey, Key: "key2"}, "value2")
	assert.Equal(t, []KeyValue{{"key1", "value1"}, {"key2", "value2"}}, metadata.AdditionalMetadata)

	// order is preserved on overwrite
	metadata.Update(FieldFromString("key1"), "new_value1")
	assert.Equal(t, []KeyValue{{"key1", "new_value1"}, {"key2", "value2"}}, metadata.AdditionalMetadata)
}

func TestTokenMetadata_RemoveKey(t *testing.T) {
	metadata := TokenMetadata{Name: "name", Symbol: "symbol", Uri: "uri"}
	metadata.SetKeyValue("key", "value")
	require.Len(t, metadata.AdditionalMetadata, 1)

	assert.True(t, metadata.RemoveKey("key"))
	assert.Empty(t, metadata.AdditionalMetadata)
	assert.False(t, metadata.RemoveKey("key"))
}

func TestTokenMetadata_Pack_Unpack(t *testing.T) {
	authority := solana.NewWallet().PublicKey()
	updateAuthority, err := pod.OptionalNonZeroPubkeyFrom(&authority)
	require.NoError(t, err)

	metadata := TokenMetadata{
		UpdateAuthority:    updateAuthority,
		Mint:               solana.NewWallet().PublicKey(),
		Name:               "MySuperCoolToken",
		Symbol:             "MINE",
		Uri:                "my.super.cool.token",
		AdditionalMetadata: []KeyValue{{"color", "blue"}},
	}

	packedLen, err := metadata.PackedLen()
	require.NoError(t, err)
	assert.Equal(t, 64+4+16+4+4+4+19+4+4+5+4+4, packedLen)

	size, err := metadata.TlvSizeOf()
	require.NoError(t, err)
	assert.Equal(t, tlv.GetBaseLen()+packedLen, size)

	// trailing bytes after the value are ignored
	buf := make([]byte, packedLen+10)
	require.NoError(t, metadata.PackIntoSlice(buf))
	assert.Equal(t, authority[:], buf[:32])
	assert.Equal(t, []byte{16, 0, 0, 0}, buf[64:68])

	var unpacked TokenMetadata
	require.NoError(t, unpacked.UnpackFromSlice(buf))
	assert.Equal(t, metadata, unpacked)

	assert.ErrorIs(t, metadata.PackIntoSlice(buf[:packedLen-1]), tlv.ErrInvalidAccountData)
	assert.Error(t, unpacked.UnpackFromSlice(buf[:packedLen-1]))
}

func TestTokenMetadata_Unpack_Bad_Length(t *testing.T) {
	buf := make([]byte, 64+4)
	buf[64] = 0xff
	var metadata TokenMetadata
	assert.ErrorIs(t, metadata.UnpackFromSlice(buf), ErrInvalidBorsh)
}

func TestGetSlice(t *testing.T) {
	data := []byte{1, 2, 3, 4, 5}
	u64 := func(n uint64) *uint64 { return &n }

	slice, ok := GetSlice(data, nil, nil)
	assert.True(t, ok)
	assert.Equal(t, data, slice)

	slice, ok = GetSlice(data, u64(1), u64(3))
	assert.True(t, ok)
	assert.Equal(t, []byte{2, 3}, slice)

	slice, ok = GetSlice(data, u64(5), nil)
	assert.True(t, ok)
	assert.Empty(t, slice)

	_, ok = GetSlice(data, u64(3), u64(2))
	assert.False(t, ok)
	_, ok = GetSlice(data, nil, u64(6))
	assert.False(t, ok)
}
