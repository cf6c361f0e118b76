package accounts

import (
	"bytes"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/lotusdblabs/lotusdb/v2"
	"github.com/mr-tron/base58"
)

var ErrAccountNotFound = errors.New("ErrAccountNotFound")

// PersistentAccountsDb keeps account fixtures in a lotusdb directory, keyed
// by public key.
type PersistentAccountsDb struct {
	db *lotusdb.DB
}

func OpenAccountsDb(dir string) (*PersistentAccountsDb, error) {
	options := lotusdb.DefaultOptions
	options.DirPath = dir

	db, err := lotusdb.Open(options)
	if err != nil {
		return nil, fmt.Errorf("opening accounts db at %s: %w", dir, err)
	}

	return &PersistentAccountsDb{db: db}, nil
}

func (m *PersistentAccountsDb) Close() error {
	return m.db.Close()
}

func (m *PersistentAccountsDb) GetAccount(pubkey *[32]byte) (*Account, error) {
	acctBytes, err := m.db.Get(pubkey[:])
	if err != nil {
		if errors.Is(err, lotusdb.ErrKeyNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("error whilst retrieving account %s: %w", base58.Encode(pubkey[:]), err)
	}
	if acctBytes == nil {
		return nil, ErrAccountNotFound
	}

	decoder := bin.NewBinDecoder(acctBytes)
	acct := new(Account)

	err = acct.UnmarshalWithDecoder(decoder)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize account %s: %w", base58.Encode(pubkey[:]), err)
	}

	return acct, nil
}

func (m *PersistentAccountsDb) SetAccount(pubkey *[32]byte, acct *Account) error {
	writer := new(bytes.Buffer)
	encoder := bin.NewBinEncoder(writer)

	err := acct.MarshalWithEncoder(encoder)
	if err != nil {
		return fmt.Errorf("failed to serialize account %s: %w", base58.Encode(pubkey[:]), err)
	}

	err = m.db.Put(pubkey[:], writer.Bytes())
	if err != nil {
		return fmt.Errorf("error setting account for %s: %w", base58.Encode(pubkey[:]), err)
	}

	return nil
}

func (m *PersistentAccountsDb) DeleteAccount(pubkey *[32]byte) error {
	err := m.db.Delete(pubkey[:])
	if err != nil {
		return fmt.Errorf("error deleting account %s: %w", base58.Encode(pubkey[:]), err)
	}
	return nil
}
