package pod

import (
	"bytes"
	"testing"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPodIntegers(t *testing.T) {
	assert.Equal(t, PodU16{0x34, 0x12}, PodU16FromUint16(0x1234))
	assert.Equal(t, uint16(0x1234), PodU16FromUint16(0x1234).Uint16())
	assert.Equal(t, uint32(7), PodU32FromUint32(7).Uint32())
	assert.Equal(t, PodU64{1, 0, 0, 0, 0, 0, 0, 0}, PodU64FromUint64(1))

	buf := new(bytes.Buffer)
	require.NoError(t, PodU64FromUint64(1234567).MarshalWithEncoder(bin.NewBinEncoder(buf)))
	var decoded PodU64
	require.NoError(t, decoded.UnmarshalWithDecoder(bin.NewBinDecoder(buf.Bytes())))
	assert.Equal(t, uint64(1234567), decoded.Uint64())

	out, err := decoded.MarshalYAML()
	require.NoError(t, err)
	assert.Equal(t, uint64(1234567), out)
}

func TestPodBool(t *testing.T) {
	assert.True(t, PodBoolFromBool(true).Bool())
	assert.False(t, PodBoolFromBool(false).Bool())
	assert.True(t, PodBool(2).Bool())
}

func TestOptionalNonZeroPubkey(t *testing.T) {
	none, err := OptionalNonZeroPubkeyFrom(nil)
	assert.NoError(t, err)
	assert.Nil(t, none.Get())
	assert.Equal(t, "none", none.String())

	zero := solana.PublicKey{}
	_, err = OptionalNonZeroPubkeyFrom(&zero)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	key := solana.NewWallet().PublicKey()
	some, err := OptionalNonZeroPubkeyFrom(&key)
	assert.NoError(t, err)
	assert.Equal(t, key, *some.Get())
	assert.True(t, some.Equals(key))

	out, err := some.MarshalYAML()
	assert.NoError(t, err)
	assert.Equal(t, key.String(), out)
	out, err = none.MarshalYAML()
	assert.NoError(t, err)
	assert.Nil(t, out)
}
