package tokenmetadata

import (
	"errors"

	"go.firedancer.io/tlvstate/pkg/sealevel"
)

var ErrInvalidBorsh = errors.New("ErrInvalidBorsh")

// token-metadata interface errors
var (
	ErrIncorrectAccount         = errors.New("ErrIncorrectAccount")
	ErrMintHasNoMintAuthority   = errors.New("ErrMintHasNoMintAuthority")
	ErrIncorrectMintAuthority   = errors.New("ErrIncorrectMintAuthority")
	ErrIncorrectUpdateAuthority = errors.New("ErrIncorrectUpdateAuthority")
	ErrImmutableMetadata        = errors.New("ErrImmutableMetadata")
	ErrKeyNotFound              = errors.New("ErrKeyNotFound")
)

const (
	ErrCodeIncorrectAccount = 901_952_957 + iota
	ErrCodeMintHasNoMintAuthority
	ErrCodeIncorrectMintAuthority
	ErrCodeIncorrectUpdateAuthority
	ErrCodeImmutableMetadata
	ErrCodeKeyNotFound
)

func customErr(code uint32, err error) error {
	return &sealevel.CustomError{Code: code, Err: err}
}

var (
	errMintHasNoMintAuthority   = customErr(ErrCodeMintHasNoMintAuthority, ErrMintHasNoMintAuthority)
	errIncorrectMintAuthority   = customErr(ErrCodeIncorrectMintAuthority, ErrIncorrectMintAuthority)
	errIncorrectUpdateAuthority = customErr(ErrCodeIncorrectUpdateAuthority, ErrIncorrectUpdateAuthority)
	errImmutableMetadata        = customErr(ErrCodeImmutableMetadata, ErrImmutableMetadata)
	errKeyNotFound              = customErr(ErrCodeKeyNotFound, ErrKeyNotFound)
)
