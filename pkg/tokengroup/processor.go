package tokengroup

import (
	"go.firedancer.io/tlvstate/pkg/pod"
	"go.firedancer.io/tlvstate/pkg/sealevel"
	"go.firedancer.io/tlvstate/pkg/tlv"
	"go.firedancer.io/tlvstate/pkg/token"
	"k8s.io/klog/v2"
)

// TokenGroupExecute processes a token-group instruction against the current
// instruction context.
func TokenGroupExecute(execCtx *sealevel.ExecutionCtx) error {
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
	case *InstrInitializeGroup:
		klog.Infof("Instruction: InitializeGroup")
		err = processInitializeGroup(execCtx, ix)
	case *InstrUpdateGroupMaxSize:
		klog.Infof("Instruction: UpdateGroupMaxSize")
		err = processUpdateGroupMaxSize(execCtx, ix)
	case *InstrUpdateGroupAuthority:
		klog.Infof("Instruction: UpdateGroupAuthority")
		err = processUpdateGroupAuthority(execCtx, ix)
	case *InstrInitializeMember:
		klog.Infof("Instruction: InitializeMember")
		err = processInitializeMember(execCtx)
	}

	if err != nil {
		klog.Infof("token-group instruction failed: %s", err)
	}
	return toInstrErr(err)
}

func checkUpdateAuthority(updateAuthorityAcct *sealevel.BorrowedAccount, expected pod.OptionalNonZeroPubkey) error {
	if !updateAuthorityAcct.IsSigner() {
		return sealevel.InstrErrMissingRequiredSignature
	}
	authority := expected.Get()
	if authority == nil {
		return ErrImmutableGroup
	}
	if *authority != updateAuthorityAcct.Key() {
		return ErrIncorrectUpdateAuthority
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
	if mint.MintAuthority == nil || *mint.MintAuthority != mintAuthorityAcct.Key() {
		return ErrIncorrectMintAuthority
	}
	return nil
}

func borrowAccounts(execCtx *sealevel.ExecutionCtx, num uint64) ([]*sealevel.BorrowedAccount, error) {
	txCtx := execCtx.TransactionContext
	instrCtx, err := txCtx.CurrentInstructionCtx()
	if err != nil {
		return nil, err
	}
	err = instrCtx.CheckNumOfInstructionAccounts(num)
	if err != nil {
		return nil, err
	}

	accts := make([]*sealevel.BorrowedAccount, 0, num)
	for idx := uint64(0); idx < num; idx++ {
		acct, err := instrCtx.BorrowInstructionAccount(txCtx, idx)
		if err != nil {
			return nil, err
		}
		accts = append(accts, acct)
	}
	return accts, nil
}

func dropAccounts(accts []*sealevel.BorrowedAccount) {
	for _, acct := range accts {
		acct.Drop()
	}
}

func unpackState(acct *sealevel.BorrowedAccount) (*tlv.State, error) {
	data, err := acct.DataMut()
	if err != nil {
		return nil, err
	}
	state, err := tlv.Unpack(data)
	return state, sealevel.FromTlvErr(err)
}

func processInitializeGroup(execCtx *sealevel.ExecutionCtx, ix *InstrInitializeGroup) error {
	accts, err := borrowAccounts(execCtx, 3)
	if err != nil {
		return err
	}
	defer dropAccounts(accts)
	groupAcct, mintAcct, mintAuthorityAcct := accts[0], accts[1], accts[2]

	err = checkMintAuthority(mintAcct, mintAuthorityAcct)
	if err != nil {
		return err
	}

	state, err := unpackState(groupAcct)
	if err != nil {
		return err
	}
	group, err := tlv.InitValue[TokenGroup](state, false)
	if err != nil {
		return sealevel.FromTlvErr(err)
	}

	*group.Value = NewTokenGroup(mintAcct.Key(), ix.UpdateAuthority, ix.MaxSize.Uint64())
	return group.Store()
}

func loadGroupForUpdate(execCtx *sealevel.ExecutionCtx) (*tlv.ValueMut[TokenGroup, *TokenGroup], func(), error) {
	accts, err := borrowAccounts(execCtx, 2)
	if err != nil {
		return nil, nil, err
	}
	groupAcct, updateAuthorityAcct := accts[0], accts[1]

	state, err := unpackState(groupAcct)
	if err != nil {
		dropAccounts(accts)
		return nil, nil, err
	}
	group, err := tlv.GetValueMut[TokenGroup](state, 0)
	if err != nil {
		dropAccounts(accts)
		return nil, nil, sealevel.FromTlvErr(err)
	}

	err = checkUpdateAuthority(updateAuthorityAcct, group.Value.UpdateAuthority)
	if err != nil {
		dropAccounts(accts)
		return nil, nil, err
	}
	return group, func() { dropAccounts(accts) }, nil
}

func processUpdateGroupMaxSize(execCtx *sealevel.ExecutionCtx, ix *InstrUpdateGroupMaxSize) error {
	group, drop, err := loadGroupForUpdate(execCtx)
	if err != nil {
		return err
	}
	defer drop()

	err = group.Value.UpdateMaxSize(ix.MaxSize.Uint64())
	if err != nil {
		return err
	}
	return group.Store()
}

func processUpdateGroupAuthority(execCtx *sealevel.ExecutionCtx, ix *InstrUpdateGroupAuthority) error {
	group, drop, err := loadGroupForUpdate(execCtx)
	if err != nil {
		return err
	}
	defer drop()

	group.Value.UpdateAuthority = ix.NewAuthority
	return group.Store()
}

func processInitializeMember(execCtx *sealevel.ExecutionCtx) error {
	accts, err := borrowAccounts(execCtx, 5)
	if err != nil {
		return err
	}
	defer dropAccounts(accts)
	memberAcct, memberMintAcct, memberMintAuthorityAcct := accts[0], accts[1], accts[2]
	groupAcct, groupUpdateAuthorityAcct := accts[3], accts[4]

	if memberAcct.Key() == groupAcct.Key() {
		return ErrMemberAccountIsGroupAccount
	}

	err = checkMintAuthority(memberMintAcct, memberMintAuthorityAcct)
	if err != nil {
		return err
	}

	groupState, err := unpackState(groupAcct)
	if err != nil {
		return err
	}
	group, err := tlv.GetValueMut[TokenGroup](groupState, 0)
	if err != nil {
		return sealevel.FromTlvErr(err)
	}
	err = checkUpdateAuthority(groupUpdateAuthorityAcct, group.Value.UpdateAuthority)
	if err != nil {
		return err
	}

	memberNumber, err := group.Value.IncrementSize()
	if err != nil {
		return err
	}
	err = group.Store()
	if err != nil {
		return err
	}

	memberState, err := unpackState(memberAcct)
	if err != nil {
		return err
	}
	member, err := tlv.InitValue[TokenGroupMember](memberState, false)
	if err != nil {
		return sealevel.FromTlvErr(err)
	}
	*member.Value = NewTokenGroupMember(memberMintAcct.Key(), groupAcct.Key(), memberNumber)
	return member.Store()
}
