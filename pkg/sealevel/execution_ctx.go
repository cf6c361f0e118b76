package sealevel

import (
	"github.com/gagliardetto/solana-go"
	"go.firedancer.io/tlvstate/pkg/accounts"
	"k8s.io/klog/v2"
)

// ProgramFn executes the current instruction of execCtx.
type ProgramFn func(execCtx *ExecutionCtx) error

type ExecutionCtx struct {
	Accounts           accounts.Accounts
	TransactionContext *TransactionCtx

	programs map[solana.PublicKey]ProgramFn
}

func NewExecutionCtx(txCtx *TransactionCtx, accts accounts.Accounts) *ExecutionCtx {
	return &ExecutionCtx{
		Accounts:           accts,
		TransactionContext: txCtx,
		programs:           make(map[solana.PublicKey]ProgramFn),
	}
}

func (execCtx *ExecutionCtx) RegisterProgram(programId solana.PublicKey, fn ProgramFn) {
	if execCtx.programs == nil {
		execCtx.programs = make(map[solana.PublicKey]ProgramFn)
	}
	execCtx.programs[programId] = fn
}

func (execCtx *ExecutionCtx) resolveProgramById(programId solana.PublicKey) (ProgramFn, error) {
	fn, ok := execCtx.programs[programId]
	if !ok {
		return nil, InstrErrUnsupportedProgramId
	}
	return fn, nil
}

// ProcessInstruction runs one instruction. Account state is rolled back
// if the program returns an error.
func (execCtx *ExecutionCtx) ProcessInstruction(instrData []byte, instructionAccts []InstructionAccount, programIndices []uint64) error {
	txCtx := execCtx.TransactionContext

	instrCtx := new(InstructionCtx)
	instrCtx.Configure(programIndices, instructionAccts, instrData)
	instrCtx.recordOriginalDataLens(txCtx)

	err := txCtx.PushInstructionCtx(instrCtx)
	if err != nil {
		return err
	}
	defer txCtx.PopInstructionCtx()

	snap := txCtx.Accounts.snapshot()
	resizeDelta := txCtx.AccountsResizeDelta

	err = execCtx.ExecuteInstruction()
	if err != nil {
		txCtx.Accounts.restore(snap)
		txCtx.AccountsResizeDelta = resizeDelta
		return err
	}

	return nil
}

func (execCtx *ExecutionCtx) ExecuteInstruction() error {
	txCtx := execCtx.TransactionContext
	instrCtx, err := txCtx.CurrentInstructionCtx()
	if err != nil {
		return err
	}

	programId, err := instrCtx.LastProgramKey(txCtx)
	if err != nil {
		klog.Infof("LastProgramKey failed: %s", err)
		return InstrErrUnsupportedProgramId
	}

	programFn, err := execCtx.resolveProgramById(programId)
	if err != nil {
		klog.Infof("unrecognised program %s", programId)
		return err
	}

	klog.V(2).Infof("calling program %s", programId)
	return programFn(execCtx)
}

// Execute resolves the instruction's accounts against the transaction
// and processes it.
func (execCtx *ExecutionCtx) Execute(ix Instruction) error {
	txCtx := execCtx.TransactionContext

	programIdx, err := txCtx.IndexOfAccount(ix.ProgramId)
	if err != nil {
		klog.Errorf("program %s is not part of the transaction", ix.ProgramId)
		return InstrErrUnsupportedProgramId
	}

	instructionAccts, err := InstructionAcctsFromAccountMetas(ix.Accounts, txCtx.Accounts)
	if err != nil {
		return err
	}

	return execCtx.ProcessInstruction(ix.Data, instructionAccts, []uint64{programIdx})
}

// InstructionAcctsFromAccountMetas maps account metas onto transaction
// account indices.
func InstructionAcctsFromAccountMetas(acctMetas []AccountMeta, txAccounts TransactionAccounts) ([]InstructionAccount, error) {
	instructionAccts := make([]InstructionAccount, 0, len(acctMetas))
	for instrAcctIdx, acctMeta := range acctMetas {
		idxInTx, ok := txAccounts.IndexOf(acctMeta.Pubkey)
		if !ok {
			klog.Errorf("instruction references unknown account %s", acctMeta.Pubkey)
			return nil, InstrErrMissingAccount
		}

		// duplicates share the callee index of their first occurrence
		idxInCallee := uint64(instrAcctIdx)
		for pos, instrAcct := range instructionAccts {
			if instrAcct.IndexInTransaction == idxInTx {
				idxInCallee = uint64(pos)
				break
			}
		}

		instructionAccts = append(instructionAccts, InstructionAccount{
			IndexInTransaction: idxInTx,
			IndexInCaller:      idxInTx,
			IndexInCallee:      idxInCallee,
			IsSigner:           acctMeta.IsSigner,
			IsWritable:         acctMeta.IsWritable,
		})
	}
	return instructionAccts, nil
}
