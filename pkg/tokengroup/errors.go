package tokengroup

import (
	"errors"

	"go.firedancer.io/tlvstate/pkg/sealevel"
)

// token-group interface errors
var (
	ErrSizeExceedsNewMaxSize       = errors.New("ErrSizeExceedsNewMaxSize")
	ErrSizeExceedsMaxSize          = errors.New("ErrSizeExceedsMaxSize")
	ErrImmutableGroup              = errors.New("ErrImmutableGroup")
	ErrIncorrectMintAuthority      = errors.New("ErrIncorrectMintAuthority")
	ErrIncorrectUpdateAuthority    = errors.New("ErrIncorrectUpdateAuthority")
	ErrMemberAccountIsGroupAccount = errors.New("ErrMemberAccountIsGroupAccount")
)

const (
	ErrCodeSizeExceedsNewMaxSize = 3_406_457_176 + iota
	ErrCodeSizeExceedsMaxSize
	ErrCodeImmutableGroup
	ErrCodeIncorrectMintAuthority
	ErrCodeIncorrectUpdateAuthority
	ErrCodeMemberAccountIsGroupAccount
)

var errCodes = map[error]uint32{
	ErrSizeExceedsNewMaxSize:       ErrCodeSizeExceedsNewMaxSize,
	ErrSizeExceedsMaxSize:          ErrCodeSizeExceedsMaxSize,
	ErrImmutableGroup:              ErrCodeImmutableGroup,
	ErrIncorrectMintAuthority:      ErrCodeIncorrectMintAuthority,
	ErrIncorrectUpdateAuthority:    ErrCodeIncorrectUpdateAuthority,
	ErrMemberAccountIsGroupAccount: ErrCodeMemberAccountIsGroupAccount,
}

// toInstrErr attaches the custom code to token-group errors and passes
// everything else through.
func toInstrErr(err error) error {
	for groupErr, code := range errCodes {
		if errors.Is(err, groupErr) {
			return &sealevel.CustomError{Code: code, Err: err}
		}
	}
	return err
}
