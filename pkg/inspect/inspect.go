// Package inspect turns raw account data into a report of its TLV records,
// decoding the token-metadata and token-group values it recognises.
package inspect

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
	"github.com/samber/lo"
	"go.firedancer.io/tlvstate/pkg/accounts"
	"go.firedancer.io/tlvstate/pkg/sealevel"
	"go.firedancer.io/tlvstate/pkg/tlv"
	"go.firedancer.io/tlvstate/pkg/tokengroup"
	"go.firedancer.io/tlvstate/pkg/tokenmetadata"
	"k8s.io/klog/v2"
)

type Encoding string

const (
	EncodingHex    Encoding = "hex"
	EncodingBase64 Encoding = "base64"
	EncodingBase58 Encoding = "base58"
)

// DecodeData parses s in the given encoding. Whitespace and a 0x prefix on
// hex input are tolerated.
func DecodeData(encoding Encoding, s string) ([]byte, error) {
	s = strings.Join(strings.Fields(s), "")

	var data []byte
	var err error
	switch encoding {
	case EncodingHex:
		data, err = hex.DecodeString(strings.TrimPrefix(s, "0x"))
	case EncodingBase64:
		data, err = base64.StdEncoding.DecodeString(s)
	case EncodingBase58:
		data, err = base58.Decode(s)
	default:
		return nil, fmt.Errorf("unknown encoding %q", encoding)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s data: %w", encoding, err)
	}
	return data, nil
}

const (
	KindUnknown          = "unknown"
	KindTokenMetadata    = "token_metadata"
	KindTokenGroup       = "token_group"
	KindTokenGroupMember = "token_group_member"
)

type Record struct {
	tlv.Entry `yaml:",inline"`

	Kind             string                       `yaml:"kind"`
	TokenMetadata    *tokenmetadata.TokenMetadata `yaml:"token_metadata,omitempty"`
	TokenGroup       *tokengroup.TokenGroup       `yaml:"token_group,omitempty"`
	TokenGroupMember *tokengroup.TokenGroupMember `yaml:"token_group_member,omitempty"`
	DecodeError      string                       `yaml:"decode_error,omitempty"`

	Value []byte `yaml:"-"`
}

type Report struct {
	Account           *accounts.Account `yaml:"account,omitempty"`
	DataLen           int               `yaml:"data_len"`
	Offset            int               `yaml:"offset"`
	Discriminators    []string          `yaml:"discriminators"`
	Records           []Record          `yaml:"records"`
	RentExemptMinimum uint64            `yaml:"rent_exempt_minimum"`
	RentExempt        *bool             `yaml:"rent_exempt,omitempty"`
}

// Inspect reads the TLV region that starts at offset. Record offsets in the
// report are relative to that region.
func Inspect(data []byte, offset int, rent sealevel.SysvarRent) (*Report, error) {
	if offset < 0 || offset > len(data) {
		return nil, fmt.Errorf("offset %d outside of %d bytes of data", offset, len(data))
	}

	state, err := tlv.Unpack(data[offset:])
	if err != nil {
		return nil, fmt.Errorf("unpacking tlv state: %w", err)
	}

	entries, err := state.Entries()
	if err != nil {
		return nil, fmt.Errorf("listing tlv records: %w", err)
	}

	report := &Report{
		DataLen:           len(data),
		Offset:            offset,
		RentExemptMinimum: rent.MinimumBalance(uint64(len(data))),
	}
	report.Discriminators = lo.Map(entries, func(entry tlv.Entry, _ int) string {
		return entry.Discriminator.String()
	})
	report.Records = lo.Map(entries, func(entry tlv.Entry, _ int) Record {
		return decodeRecord(state, entry)
	})
	return report, nil
}

func InspectAccount(acct *accounts.Account, offset int, rent sealevel.SysvarRent) (*Report, error) {
	report, err := Inspect(acct.Data, offset, rent)
	if err != nil {
		return nil, err
	}
	exempt := rent.IsExempt(acct.Lamports, uint64(len(acct.Data)))
	report.Account = acct
	report.RentExempt = &exempt
	return report, nil
}

func decodeRecord(state *tlv.State, entry tlv.Entry) Record {
	record := Record{Entry: entry, Kind: KindUnknown}

	value, err := state.GetBytes(entry.Discriminator, entry.RepetitionNumber)
	if err == nil {
		record.Value = value
	}

	switch entry.Discriminator {
	case tokenmetadata.TokenMetadataDiscriminator:
		record.Kind = KindTokenMetadata
		record.TokenMetadata, err = tlv.GetVariableValue[tokenmetadata.TokenMetadata](state, entry.RepetitionNumber)
	case tokengroup.TokenGroupDiscriminator:
		record.Kind = KindTokenGroup
		record.TokenGroup, err = tlv.GetValue[tokengroup.TokenGroup](state, entry.RepetitionNumber)
	case tokengroup.TokenGroupMemberDiscriminator:
		record.Kind = KindTokenGroupMember
		record.TokenGroupMember, err = tlv.GetValue[tokengroup.TokenGroupMember](state, entry.RepetitionNumber)
	}
	if err != nil {
		klog.V(2).Infof("record %s at offset %d does not decode as %s: %s", entry.Discriminator, entry.Offset, record.Kind, err)
		record.DecodeError = err.Error()
	}
	return record
}
