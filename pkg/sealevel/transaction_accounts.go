package sealevel

import (
	"github.com/gagliardetto/solana-go"
	"go.firedancer.io/tlvstate/pkg/accounts"
)

type TransactionAccounts struct {
	Accounts []*accounts.Account
	Touched  []bool
}

func NewTransactionAccounts(accts []accounts.Account) *TransactionAccounts {
	txAccounts := new(TransactionAccounts)
	txAccounts.Accounts = make([]*accounts.Account, 0, len(accts))
	for idx := range accts {
		txAccounts.Accounts = append(txAccounts.Accounts, &accts[idx])
	}
	txAccounts.Touched = make([]bool, len(accts))
	return txAccounts
}

func (txAccounts *TransactionAccounts) GetAccount(idx uint64) (*accounts.Account, error) {
	if idx >= uint64(len(txAccounts.Accounts)) {
		return nil, InstrErrNotEnoughAccountKeys
	}
	return txAccounts.Accounts[idx], nil
}

func (txAccounts *TransactionAccounts) Touch(idx uint64) error {
	if idx >= uint64(len(txAccounts.Touched)) {
		return InstrErrNotEnoughAccountKeys
	}
	txAccounts.Touched[idx] = true
	return nil
}

func (txAccounts *TransactionAccounts) IndexOf(pubkey solana.PublicKey) (uint64, bool) {
	for idx, acct := range txAccounts.Accounts {
		if acct.Key == pubkey {
			return uint64(idx), true
		}
	}
	return 0, false
}

type accountsSnapshot []*accounts.Account

func (txAccounts *TransactionAccounts) snapshot() accountsSnapshot {
	snap := make(accountsSnapshot, len(txAccounts.Accounts))
	for idx, acct := range txAccounts.Accounts {
		snap[idx] = acct.Clone()
	}
	return snap
}

// restore rolls every account back to the snapshot, in place.
func (txAccounts *TransactionAccounts) restore(snap accountsSnapshot) {
	for idx, acct := range snap {
		*txAccounts.Accounts[idx] = *acct
	}
}
