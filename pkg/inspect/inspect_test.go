package inspect

import (
	"encoding/base64"
	"encoding/hex"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.firedancer.io/tlvstate/pkg/accounts"
	"go.firedancer.io/tlvstate/pkg/discriminator"
	"go.firedancer.io/tlvstate/pkg/pod"
	"go.firedancer.io/tlvstate/pkg/sealevel"
	"go.firedancer.io/tlvstate/pkg/tlv"
	"go.firedancer.io/tlvstate/pkg/tokengroup"
	"go.firedancer.io/tlvstate/pkg/tokenmetadata"
	"gopkg.in/yaml.v3"
)

func testMetadata() *tokenmetadata.TokenMetadata {
	authority := solana.NewWallet().PublicKey()
	return &tokenmetadata.TokenMetadata{
		UpdateAuthority:    pod.OptionalNonZeroPubkey(authority),
		Mint:               solana.NewWallet().PublicKey(),
		Name:               "Test",
		Symbol:             "TST",
		Uri:                "https://example.com/test.json",
		AdditionalMetadata: []tokenmetadata.KeyValue{{Key: "color", Value: "blue"}},
	}
}

// three records: a group, token metadata and an opaque 4 byte value,
// followed by unused space.
func testState(t *testing.T, prefix int) ([]byte, *tokenmetadata.TokenMetadata) {
	metadata := testMetadata()
	metadataLen, err := metadata.TlvSizeOf()
	require.NoError(t, err)

	data := make([]byte, prefix+tlv.SizeOf(tokengroup.TokenGroupLen)+metadataLen+tlv.SizeOf(4)+16)
	state, err := tlv.Unpack(data[prefix:])
	require.NoError(t, err)

	group, err := tlv.InitValue[tokengroup.TokenGroup](state, false)
	require.NoError(t, err)
	group.Value.Mint = metadata.Mint
	group.Value.MaxSize = pod.PodU64FromUint64(5)
	require.NoError(t, group.Store())

	_, err = tlv.AllocAndPackVariable(state, metadata, false)
	require.NoError(t, err)

	opaque, _, err := state.Alloc(discriminator.FromUint64(42), 4, false)
	require.NoError(t, err)
	copy(opaque, []byte{1, 2, 3, 4})

	return data, metadata
}

func TestDecodeData(t *testing.T) {
	raw := []byte{0, 1, 2, 0xfe, 0xff}

	data, err := DecodeData(EncodingHex, "0x"+hex.EncodeToString(raw))
	require.NoError(t, err)
	assert.Equal(t, raw, data)

	data, err = DecodeData(EncodingHex, "00 01 02\nfe ff")
	require.NoError(t, err)
	assert.Equal(t, raw, data)

	data, err = DecodeData(EncodingBase64, base64.StdEncoding.EncodeToString(raw))
	require.NoError(t, err)
	assert.Equal(t, raw, data)

	data, err = DecodeData(EncodingBase58, base58.Encode(raw))
	require.NoError(t, err)
	assert.Equal(t, raw, data)

	_, err = DecodeData(EncodingHex, "zz")
	assert.Error(t, err)

	_, err = DecodeData(Encoding("json"), "{}")
	assert.ErrorContains(t, err, "unknown encoding")
}

func TestInspect(t *testing.T) {
	data, metadata := testState(t, 0)
	rent := sealevel.DefaultRent()

	report, err := Inspect(data, 0, rent)
	require.NoError(t, err)

	assert.Equal(t, len(data), report.DataLen)
	assert.Equal(t, rent.MinimumBalance(uint64(len(data))), report.RentExemptMinimum)
	assert.Nil(t, report.RentExempt)
	require.Len(t, report.Records, 3)
	assert.Len(t, report.Discriminators, 3)

	group := report.Records[0]
	assert.Equal(t, KindTokenGroup, group.Kind)
	assert.Equal(t, 0, group.Offset)
	assert.Equal(t, tokengroup.TokenGroupLen, group.Length)
	require.NotNil(t, group.TokenGroup)
	assert.Equal(t, uint64(5), group.TokenGroup.MaxSize.Uint64())

	meta := report.Records[1]
	assert.Equal(t, KindTokenMetadata, meta.Kind)
	assert.Equal(t, tlv.SizeOf(tokengroup.TokenGroupLen), meta.Offset)
	assert.Equal(t, metadata, meta.TokenMetadata)
	assert.Equal(t, tokenmetadata.TokenMetadataDiscriminator.String(), report.Discriminators[1])

	opaque := report.Records[2]
	assert.Equal(t, KindUnknown, opaque.Kind)
	assert.Equal(t, 4, opaque.Length)
	assert.Equal(t, []byte{1, 2, 3, 4}, opaque.Value)
	assert.Empty(t, opaque.DecodeError)
}

func TestInspect_Offset(t *testing.T) {
	data, _ := testState(t, 7)

	report, err := Inspect(data, 7, sealevel.DefaultRent())
	require.NoError(t, err)
	assert.Equal(t, 7, report.Offset)
	assert.Len(t, report.Records, 3)

	_, err = Inspect(data, len(data)+1, sealevel.DefaultRent())
	assert.Error(t, err)

	_, err = Inspect(data, -1, sealevel.DefaultRent())
	assert.Error(t, err)
}

func TestInspect_Malformed(t *testing.T) {
	data := make([]byte, 16)
	data[0] = 1
	data[8] = 0xff

	_, err := Inspect(data, 0, sealevel.DefaultRent())
	assert.ErrorIs(t, err, tlv.ErrInvalidAccountData)
}

// a record carrying the metadata discriminator whose value is not valid Borsh
// is reported rather than failing the whole inspection.
func TestInspect_DecodeError(t *testing.T) {
	data := make([]byte, tlv.SizeOf(3))
	state, err := tlv.Unpack(data)
	require.NoError(t, err)
	_, _, err = state.Alloc(tokenmetadata.TokenMetadataDiscriminator, 3, false)
	require.NoError(t, err)

	report, err := Inspect(data, 0, sealevel.DefaultRent())
	require.NoError(t, err)
	require.Len(t, report.Records, 1)
	assert.Equal(t, KindTokenMetadata, report.Records[0].Kind)
	assert.Nil(t, report.Records[0].TokenMetadata)
	assert.NotEmpty(t, report.Records[0].DecodeError)
}

func TestInspectAccount_Yaml(t *testing.T) {
	data, metadata := testState(t, 0)
	rent := sealevel.DefaultRent()
	acct := &accounts.Account{
		Key:      solana.NewWallet().PublicKey(),
		Lamports: rent.MinimumBalance(uint64(len(data))),
		Data:     data,
		Owner:    solana.NewWallet().PublicKey(),
	}

	report, err := InspectAccount(acct, 0, rent)
	require.NoError(t, err)
	require.NotNil(t, report.RentExempt)
	assert.True(t, *report.RentExempt)

	out, err := yaml.Marshal(report)
	require.NoError(t, err)
	assert.Contains(t, string(out), "kind: token_group\n")
	assert.Contains(t, string(out), "name: Test\n")
	assert.Contains(t, string(out), metadata.Mint.String())
	assert.Contains(t, string(out), acct.Key.String())
	assert.Contains(t, string(out), "max_size: 5\n")
}
