package sealevel

import (
	"github.com/gagliardetto/solana-go"
	"go.firedancer.io/tlvstate/pkg/accounts"
	"go.firedancer.io/tlvstate/pkg/safemath"
)

const (
	// MaxPermittedDataLength is the largest an account's data may ever be.
	MaxPermittedDataLength = 10 * 1024 * 1024

	// MaxPermittedDataIncrease bounds growth within a single instruction.
	MaxPermittedDataIncrease = 10 * 1024

	MaxPermittedAccountsDataAllocationsPerTx = 20 * 1024 * 1024
)

type BorrowedAccount struct {
	TxCtx              *TransactionCtx
	InstrCtx           *InstructionCtx
	IndexInTransaction uint64
	IndexInInstruction uint64
	Account            *accounts.Account

	originalDataLen int
	dropped         bool
}

func (acct *BorrowedAccount) Drop() {
	acct.dropped = true
}

func (acct *BorrowedAccount) Owner() solana.PublicKey {
	return acct.Account.Owner
}

func (acct *BorrowedAccount) Lamports() uint64 {
	return acct.Account.Lamports
}

func (acct *BorrowedAccount) Touch() error {
	return acct.TxCtx.Accounts.Touch(acct.IndexInTransaction)
}

func (acct *BorrowedAccount) Data() []byte {
	return acct.Account.Data
}

// DataMut returns the account data for in-place modification.
func (acct *BorrowedAccount) DataMut() ([]byte, error) {
	err := acct.DataCanBeChanged()
	if err != nil {
		return nil, err
	}
	err = acct.Touch()
	if err != nil {
		return nil, err
	}
	return acct.Account.Data, nil
}

func (acct *BorrowedAccount) SetData(data []byte) error {
	err := acct.CanDataBeResized(len(data))
	if err != nil {
		return err
	}
	err = acct.DataCanBeChanged()
	if err != nil {
		return err
	}
	err = acct.Touch()
	if err != nil {
		return err
	}

	acct.updateAccountsResizeDelta(len(data))
	acct.Account.Data = append(acct.Account.Data[:0:0], data...)
	return nil
}

func (acct *BorrowedAccount) IsSigner() bool {
	instrCtx := acct.InstrCtx
	if acct.IndexInInstruction < instrCtx.NumberOfProgramAccounts() {
		return false
	}

	instrAcctIdx := safemath.SaturatingSubU64(acct.IndexInInstruction, instrCtx.NumberOfProgramAccounts())
	isSigner, err := instrCtx.IsInstructionAccountSigner(instrAcctIdx)
	if err != nil {
		return false
	}
	return isSigner
}

func (acct *BorrowedAccount) Key() solana.PublicKey {
	key, err := acct.TxCtx.KeyOfAccountAtIndex(acct.IndexInTransaction)
	if err != nil {
		panic("supposedly impossible failure")
	}
	return key
}

func (acct *BorrowedAccount) IsExecutable() bool {
	return acct.Account.Executable
}

func (acct *BorrowedAccount) IsWritable() bool {
	instrCtx := acct.InstrCtx
	if acct.IndexInInstruction < instrCtx.NumberOfProgramAccounts() {
		return false
	}

	instrAcctIdx := safemath.SaturatingSubU64(acct.IndexInInstruction, instrCtx.NumberOfProgramAccounts())
	writable, err := instrCtx.IsInstructionAccountWritable(instrAcctIdx)
	if err != nil {
		return false
	}

	return writable
}

func (acct *BorrowedAccount) IsOwnedByCurrentProgram() bool {
	lastProgramKey, err := acct.InstrCtx.LastProgramKey(acct.TxCtx)
	if err != nil {
		return false
	}
	return lastProgramKey == acct.Owner()
}

func (acct *BorrowedAccount) DataCanBeChanged() error {
	if acct.IsExecutable() {
		return InstrErrExecutableDataModified
	}
	if !acct.IsWritable() {
		return InstrErrReadonlyDataModified
	}
	if !acct.IsOwnedByCurrentProgram() {
		return InstrErrExternalAccountDataModified
	}
	return nil
}

func (acct *BorrowedAccount) CanDataBeResized(newLength int) error {
	oldLength := len(acct.Account.Data)

	if newLength != oldLength && !acct.IsOwnedByCurrentProgram() {
		return InstrErrAccountDataSizeChanged
	}

	if newLength < 0 || newLength > MaxPermittedDataLength {
		return InstrErrInvalidRealloc
	}

	lengthDelta := int64(newLength) - int64(oldLength)
	if acct.TxCtx.AccountsResizeDelta+lengthDelta > MaxPermittedAccountsDataAllocationsPerTx {
		return InstrErrMaxAccountsDataAllocationsExceeded
	}

	return nil
}

func (acct *BorrowedAccount) updateAccountsResizeDelta(newLength int) {
	acct.TxCtx.AccountsResizeDelta += int64(newLength) - int64(len(acct.Account.Data))
}

// SetDataLength resizes the account data, zero-filling any growth.
func (acct *BorrowedAccount) SetDataLength(newLength int) error {
	return acct.Realloc(newLength, true)
}

// Realloc resizes the account data. Growth is bounded by
// MaxPermittedDataIncrease over the length the account had when the
// instruction began. With zeroInit unset, growth within the existing
// capacity exposes whatever bytes the backing array already held.
func (acct *BorrowedAccount) Realloc(newLength int, zeroInit bool) error {
	if newLength > safemath.SaturatingAddInt(acct.originalDataLen, MaxPermittedDataIncrease) {
		return InstrErrInvalidRealloc
	}

	err := acct.CanDataBeResized(newLength)
	if err != nil {
		return err
	}
	err = acct.DataCanBeChanged()
	if err != nil {
		return err
	}

	oldLength := len(acct.Account.Data)
	if newLength == oldLength {
		return nil
	}

	err = acct.Touch()
	if err != nil {
		return err
	}
	acct.updateAccountsResizeDelta(newLength)

	data := acct.Account.Data
	switch {
	case newLength < oldLength:
		data = data[:newLength]
	case newLength <= cap(data):
		data = data[:newLength]
		if zeroInit {
			clear(data[oldLength:])
		}
	default:
		grown := make([]byte, newLength, newLength+MaxPermittedDataIncrease)
		copy(grown, data)
		data = grown
	}
	acct.Account.Data = data

	return nil
}
