package sealevel

import (
	"github.com/gagliardetto/solana-go"
)

const MaxReturnData = 1024

const MaxInstructionStackDepth = 5

type TxReturnData struct {
	ProgramId solana.PublicKey
	Data      []byte
}

type TransactionCtx struct {
	Accounts            TransactionAccounts
	instructionStack    []*InstructionCtx
	returnData          TxReturnData
	AccountsResizeDelta int64
}

func NewTransactionCtx(txAccounts TransactionAccounts) *TransactionCtx {
	return &TransactionCtx{Accounts: txAccounts}
}

func (txCtx *TransactionCtx) KeyOfAccountAtIndex(index uint64) (solana.PublicKey, error) {
	acct, err := txCtx.Accounts.GetAccount(index)
	if err != nil {
		return solana.PublicKey{}, err
	}
	return acct.Key, nil
}

func (txCtx *TransactionCtx) IndexOfAccount(pubkey solana.PublicKey) (uint64, error) {
	idx, ok := txCtx.Accounts.IndexOf(pubkey)
	if !ok {
		return 0, InstrErrMissingAccount
	}
	return idx, nil
}

func (txCtx *TransactionCtx) PushInstructionCtx(ixCtx *InstructionCtx) error {
	if len(txCtx.instructionStack) >= MaxInstructionStackDepth {
		return InstrErrCallDepth
	}
	txCtx.instructionStack = append(txCtx.instructionStack, ixCtx)
	return nil
}

func (txCtx *TransactionCtx) PopInstructionCtx() {
	if len(txCtx.instructionStack) != 0 {
		txCtx.instructionStack = txCtx.instructionStack[:len(txCtx.instructionStack)-1]
	}
}

func (txCtx *TransactionCtx) InstructionCtxStackHeight() uint64 {
	return uint64(len(txCtx.instructionStack))
}

func (txCtx *TransactionCtx) CurrentInstructionCtx() (*InstructionCtx, error) {
	if len(txCtx.instructionStack) == 0 {
		return nil, InstrErrCallDepth
	}
	return txCtx.instructionStack[len(txCtx.instructionStack)-1], nil
}

func (txCtx *TransactionCtx) SetReturnData(programId solana.PublicKey, data []byte) error {
	if len(data) > MaxReturnData {
		return InstrErrReturnDataTooLarge
	}
	txCtx.returnData = TxReturnData{ProgramId: programId, Data: append([]byte(nil), data...)}
	return nil
}

func (txCtx *TransactionCtx) GetReturnData() (solana.PublicKey, []byte) {
	return txCtx.returnData.ProgramId, txCtx.returnData.Data
}
