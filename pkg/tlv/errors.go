package tlv

import "errors"

// error values
var (
	ErrInvalidAccountData  = errors.New("ErrInvalidAccountData")
	ErrInvalidArgument     = errors.New("ErrInvalidArgument")
	ErrAccountDataTooSmall = errors.New("ErrAccountDataTooSmall")
	ErrTypeNotFound        = errors.New("ErrTypeNotFound")
	ErrTypeAlreadyExists   = errors.New("ErrTypeAlreadyExists")
	ErrIteratorEnd         = errors.New("ErrIteratorEnd")
)

// Solana error codes. The TLV errors are program custom errors.
const (
	InstrErrCodeInvalidArgument     = 2
	InstrErrCodeInvalidAccountData  = 4
	InstrErrCodeAccountDataTooSmall = 5

	TlvErrCodeTypeNotFound      = 1_202_666_432
	TlvErrCodeTypeAlreadyExists = 1_202_666_433
	TlvErrCodeIteratorEnd       = 1_202_666_434
)

// TranslateErrToErrCode returns 0 for errors it does not know about.
func TranslateErrToErrCode(err error) int {
	var errorCode int
	switch {
	case errors.Is(err, ErrInvalidArgument):
		errorCode = InstrErrCodeInvalidArgument
	case errors.Is(err, ErrInvalidAccountData):
		errorCode = InstrErrCodeInvalidAccountData
	case errors.Is(err, ErrAccountDataTooSmall):
		errorCode = InstrErrCodeAccountDataTooSmall
	case errors.Is(err, ErrTypeNotFound):
		errorCode = TlvErrCodeTypeNotFound
	case errors.Is(err, ErrTypeAlreadyExists):
		errorCode = TlvErrCodeTypeAlreadyExists
	case errors.Is(err, ErrIteratorEnd):
		errorCode = TlvErrCodeIteratorEnd
	}
	return errorCode
}
