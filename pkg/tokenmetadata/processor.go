package tokenmetadata

import (
	"go.firedancer.io/tlvstate/pkg/pod"
	"go.firedancer.io/tlvstate/pkg/sealevel"
	"go.firedancer.io/tlvstate/pkg/tlv"
	"go.firedancer.io/tlvstate/pkg/token"
	"k8s.io/klog/v2"
)

// TokenMetadataExecute processes a token-metadata instruction against the
// current instruction context.
func TokenMetadataExecute(execCtx *sealevel.ExecutionCtx) error {
	txCtx := execCtx.TransactionContext
	instrCtx, err := txCtx.CurrentInstructionCtx()
	if err != nil {
		return err
	}

	ix, err := UnpackInstruction(instrCtx.Data)
	if err != nil {
		return err
	}

	switch ix := ix.(type) {
	case *InstrInitialize:
		klog.Infof("Instruction: Initialize")
		err = processInitialize(execCtx, ix)
	case *InstrUpdateField:
		klog.Infof("Instruction: UpdateField")
		err = processUpdateField(execCtx, ix)
	case *InstrRemoveKey:
		klog.Infof("Instruction: RemoveKey")
		err = processRemoveKey(execCtx, ix)
	case *InstrUpdateAuthority:
		klog.Infof("Instruction: UpdateAuthority")
		err = processUpdateAuthority(execCtx, ix)
	case *InstrEmit:
		klog.Infof("Instruction: Emit")
		err = processEmit(execCtx, ix)
	}

	if err != nil {
		klog.Infof("token-metadata instruction failed: %s", err)
	}
	return err
}

func checkUpdateAuthority(updateAuthorityAcct *sealevel.BorrowedAccount, expected pod.OptionalNonZeroPubkey) error {
	if !updateAuthorityAcct.IsSigner() {
		return sealevel.InstrErrMissingRequiredSignature
	}
	authority := expected.Get()
	if authority == nil {
		return errImmutableMetadata
	}
	if *authority != updateAuthorityAcct.Key() {
		return errIncorrectUpdateAuthority
	}
	return nil
}

func checkMintAuthority(mintAcct *sealevel.BorrowedAccount, mintAuthorityAcct *sealevel.BorrowedAccount) error {
	mint, err := token.UnpackMint(mintAcct.Data())
	if err != nil {
		return sealevel.InstrErrInvalidAccountData
	}
	if !mintAuthorityAcct.IsSigner() {
		return sealevel.InstrErrMissingRequiredSignature
	}
	if mint.MintAuthority == nil {
		return errMintHasNoMintAuthority
	}
	if *mint.MintAuthority != mintAuthorityAcct.Key() {
		return errIncorrectMintAuthority
	}
	return nil
}

func processInitialize(execCtx *sealevel.ExecutionCtx, ix *InstrInitialize) error {
	txCtx := execCtx.TransactionContext
	instrCtx, err := txCtx.CurrentInstructionCtx()
	if err != nil {
		return err
	}
	err = instrCtx.CheckNumOfInstructionAccounts(4)
	if err != nil {
		return err
	}

	metadataAcct, err := instrCtx.BorrowInstructionAccount(txCtx, 0)
	if err != nil {
		return err
	}
	defer metadataAcct.Drop()

	updateAuthorityAcct, err := instrCtx.BorrowInstructionAccount(txCtx, 1)
	if err != nil {
		return err
	}
	defer updateAuthorityAcct.Drop()

	mintAcct, err := instrCtx.BorrowInstructionAccount(txCtx, 2)
	if err != nil {
		return err
	}
	defer mintAcct.Drop()

	mintAuthorityAcct, err := instrCtx.BorrowInstructionAccount(txCtx, 3)
	if err != nil {
		return err
	}
	defer mintAuthorityAcct.Drop()

	// the mint is not owner-checked, any token program's mint is accepted
	err = checkMintAuthority(mintAcct, mintAuthorityAcct)
	if err != nil {
		return err
	}

	updateAuthorityKey := updateAuthorityAcct.Key()
	updateAuthority, err := pod.OptionalNonZeroPubkeyFrom(&updateAuthorityKey)
	if err != nil {
		return sealevel.InstrErrInvalidArgument
	}

	metadata := TokenMetadata{
		UpdateAuthority: updateAuthority,
		Mint:            mintAcct.Key(),
		Name:            ix.Name,
		Symbol:          ix.Symbol,
		Uri:             ix.Uri,
	}

	data, err := metadataAcct.DataMut()
	if err != nil {
		return err
	}
	state, err := tlv.Unpack(data)
	if err != nil {
		return sealevel.FromTlvErr(err)
	}
	_, err = tlv.AllocAndPackVariable(state, &metadata, false)
	return sealevel.FromTlvErr(err)
}

// loadForUpdate borrows the metadata and update authority accounts, decodes
// the metadata and checks the update authority.
func loadForUpdate(execCtx *sealevel.ExecutionCtx) (*sealevel.BorrowedAccount, *TokenMetadata, error) {
	txCtx := execCtx.TransactionContext
	instrCtx, err := txCtx.CurrentInstructionCtx()
	if err != nil {
		return nil, nil, err
	}
	err = instrCtx.CheckNumOfInstructionAccounts(2)
	if err != nil {
		return nil, nil, err
	}

	metadataAcct, err := instrCtx.BorrowInstructionAccount(txCtx, 0)
	if err != nil {
		return nil, nil, err
	}

	updateAuthorityAcct, err := instrCtx.BorrowInstructionAccount(txCtx, 1)
	if err != nil {
		return nil, nil, err
	}
	defer updateAuthorityAcct.Drop()

	state, err := tlv.Unpack(metadataAcct.Data())
	if err != nil {
		return nil, nil, sealevel.FromTlvErr(err)
	}
	metadata, err := tlv.GetVariableValue[TokenMetadata](state, 0)
	if err != nil {
		return nil, nil, sealevel.FromTlvErr(err)
	}

	err = checkUpdateAuthority(updateAuthorityAcct, metadata.UpdateAuthority)
	if err != nil {
		return nil, nil, err
	}
	return metadataAcct, metadata, nil
}

func storeMetadata(metadataAcct *sealevel.BorrowedAccount, metadata *TokenMetadata) error {
	err := metadataAcct.DataCanBeChanged()
	if err != nil {
		return err
	}
	err = metadataAcct.Touch()
	if err != nil {
		return err
	}
	return sealevel.FromTlvErr(tlv.ReallocAndPackVariable(metadataAcct, metadata, 0))
}

func processUpdateField(execCtx *sealevel.ExecutionCtx, ix *InstrUpdateField) error {
	metadataAcct, metadata, err := loadForUpdate(execCtx)
	if err != nil {
		return err
	}
	defer metadataAcct.Drop()

	metadata.Update(ix.Field, ix.Value)
	return storeMetadata(metadataAcct, metadata)
}

func processRemoveKey(execCtx *sealevel.ExecutionCtx, ix *InstrRemoveKey) error {
	metadataAcct, metadata, err := loadForUpdate(execCtx)
	if err != nil {
		return err
	}
	defer metadataAcct.Drop()

	if !metadata.RemoveKey(ix.Key) && !ix.Idempotent {
		return errKeyNotFound
	}
	return storeMetadata(metadataAcct, metadata)
}

func processUpdateAuthority(execCtx *sealevel.ExecutionCtx, ix *InstrUpdateAuthority) error {
	metadataAcct, metadata, err := loadForUpdate(execCtx)
	if err != nil {
		return err
	}
	defer metadataAcct.Drop()

	metadata.UpdateAuthority = ix.NewAuthority
	return storeMetadata(metadataAcct, metadata)
}

func processEmit(execCtx *sealevel.ExecutionCtx, ix *InstrEmit) error {
	txCtx := execCtx.TransactionContext
	instrCtx, err := txCtx.CurrentInstructionCtx()
	if err != nil {
		return err
	}
	err = instrCtx.CheckNumOfInstructionAccounts(1)
	if err != nil {
		return err
	}

	programId, err := instrCtx.LastProgramKey(txCtx)
	if err != nil {
		return err
	}

	metadataAcct, err := instrCtx.BorrowInstructionAccount(txCtx, 0)
	if err != nil {
		return err
	}
	defer metadataAcct.Drop()

	if metadataAcct.Owner() != programId {
		return sealevel.InstrErrIllegalOwner
	}

	state, err := tlv.Unpack(metadataAcct.Data())
	if err != nil {
		return sealevel.FromTlvErr(err)
	}
	metadataBytes, err := state.GetBytes(TokenMetadataDiscriminator, 0)
	if err != nil {
		return sealevel.FromTlvErr(err)
	}

	if slice, ok := GetSlice(metadataBytes, ix.Start, ix.End); ok {
		return txCtx.SetReturnData(programId, slice)
	}
	return nil
}
