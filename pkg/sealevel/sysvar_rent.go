package sealevel

import (
	"bytes"
	"fmt"
	"math"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"go.firedancer.io/tlvstate/pkg/accounts"
)

var SysvarRentAddr = solana.SysVarRentPubkey

var SysvarOwnerAddr = solana.MustPublicKeyFromBase58("Sysvar1111111111111111111111111111111111111")

const SysvarRentStructLen = 17

// AccountStorageOverhead is charged on top of the data length of every account.
const AccountStorageOverhead = 128

type SysvarRent struct {
	LamportsPerUint8Year uint64  `yaml:"lamports_per_byte_year"`
	ExemptionThreshold   float64 `yaml:"exemption_threshold"`
	BurnPercent          byte    `yaml:"burn_percent"`
}

func DefaultRent() SysvarRent {
	return SysvarRent{LamportsPerUint8Year: 3480, ExemptionThreshold: 2.0, BurnPercent: 50}
}

func (sr *SysvarRent) UnmarshalWithDecoder(decoder *bin.Decoder) (err error) {
	sr.LamportsPerUint8Year, err = decoder.ReadUint64(bin.LE)
	if err != nil {
		return fmt.Errorf("failed to read LamportsPerUint8Year when decoding SysvarRent: %w", err)
	}

	sr.ExemptionThreshold, err = decoder.ReadFloat64(bin.LE)
	if err != nil {
		return fmt.Errorf("failed to read ExemptionThreshold when decoding SysvarRent: %w", err)
	}

	sr.BurnPercent, err = decoder.ReadByte()
	if err != nil {
		return fmt.Errorf("failed to read BurnPercent when decoding SysvarRent: %w", err)
	}

	return
}

func (sr *SysvarRent) MarshalWithEncoder(encoder *bin.Encoder) error {
	err := encoder.WriteUint64(sr.LamportsPerUint8Year, bin.LE)
	if err != nil {
		return err
	}
	err = encoder.WriteFloat64(sr.ExemptionThreshold, bin.LE)
	if err != nil {
		return err
	}
	return encoder.WriteByte(sr.BurnPercent)
}

// MinimumBalance returns the lamports needed for an account holding
// dataLen bytes to be rent exempt.
func (sr *SysvarRent) MinimumBalance(dataLen uint64) uint64 {
	bytesCharged := float64(dataLen + AccountStorageOverhead)
	balance := bytesCharged * float64(sr.LamportsPerUint8Year) * sr.ExemptionThreshold
	if balance >= math.MaxUint64 {
		return math.MaxUint64
	}
	return uint64(balance)
}

func (sr *SysvarRent) IsExempt(lamports uint64, dataLen uint64) bool {
	return lamports >= sr.MinimumBalance(dataLen)
}

func ReadRentSysvar(accts accounts.Accounts) (SysvarRent, error) {
	var rent SysvarRent

	rentAcct, err := accts.GetAccount((*[32]byte)(&SysvarRentAddr))
	if err != nil {
		return rent, fmt.Errorf("failed to read rent sysvar account: %w", err)
	}

	err = rent.UnmarshalWithDecoder(bin.NewBinDecoder(rentAcct.Data))
	return rent, err
}

func WriteRentSysvar(accts accounts.Accounts, rent SysvarRent) error {
	data := new(bytes.Buffer)
	err := rent.MarshalWithEncoder(bin.NewBinEncoder(data))
	if err != nil {
		return err
	}

	rentAcct := accounts.Account{
		Key:        SysvarRentAddr,
		Lamports:   1,
		Data:       data.Bytes(),
		Owner:      SysvarOwnerAddr,
		Executable: false,
	}
	return accts.SetAccount((*[32]byte)(&SysvarRentAddr), &rentAcct)
}
