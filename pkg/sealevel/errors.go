package sealevel

import (
	"errors"

	"go.firedancer.io/tlvstate/pkg/tlv"
)

// instruction errors
var (
	InstrErrInvalidInstructionData             = errors.New("InstrErrInvalidInstructionData")
	InstrErrNotEnoughAccountKeys               = errors.New("InstrErrNotEnoughAccountKeys")
	InstrErrMissingAccount                     = errors.New("InstrErrMissingAccount")
	InstrErrInvalidAccountOwner                = errors.New("InstrErrInvalidAccountOwner")
	InstrErrIllegalOwner                       = errors.New("InstrErrIllegalOwner")
	InstrErrInvalidAccountData                 = errors.New("InstrErrInvalidAccountData")
	InstrErrMissingRequiredSignature           = errors.New("InstrErrMissingRequiredSignature")
	InstrErrInvalidArgument                    = errors.New("InstrErrInvalidArgument")
	InstrErrExecutableDataModified             = errors.New("InstrErrExecutableDataModified")
	InstrErrReadonlyDataModified               = errors.New("InstrErrReadonlyDataModified")
	InstrErrExternalAccountDataModified        = errors.New("InstrErrExternalAccountDataModified")
	InstrErrAccountDataSizeChanged             = errors.New("InstrErrAccountDataSizeChanged")
	InstrErrInvalidRealloc                     = errors.New("InstrErrInvalidRealloc")
	InstrErrUnsupportedProgramId               = errors.New("InstrErrUnsupportedProgramId")
	InstrErrArithmeticOverflow                 = errors.New("InstrErrArithmeticOverflow")
	InstrErrAccountDataTooSmall                = errors.New("InstrErrAccountDataTooSmall")
	InstrErrMaxAccountsDataAllocationsExceeded = errors.New("InstrErrMaxAccountsDataAllocationsExceeded")
	InstrErrReturnDataTooLarge                 = errors.New("InstrErrReturnDataTooLarge")
	InstrErrCallDepth                          = errors.New("InstrErrCallDepth")
)

// instruction errors - Solana numerical error codes
const (
	InstrErrCodeSuccess                            = 0
	InstrErrCodeInvalidArgument                    = 2
	InstrErrCodeInvalidInstructionData             = 3
	InstrErrCodeInvalidAccountData                 = 4
	InstrErrCodeAccountDataTooSmall                = 5
	InstrErrCodeMissingRequiredSignature           = 8
	InstrErrCodeExternalAccountDataModified        = 14
	InstrErrCodeReadonlyDataModified               = 16
	InstrErrCodeNotEnoughAccountKeys               = 20
	InstrErrCodeAccountDataSizeChanged             = 21
	InstrErrCodeCustom                             = 25
	InstrErrCodeExecutableDataModified             = 28
	InstrErrCodeUnsupportedProgramId               = 31
	InstrErrCodeCallDepth                          = 32
	InstrErrCodeMissingAccount                     = 33
	InstrErrCodeInvalidAccountOwner                = 47
	InstrErrCodeArithmeticOverflow                 = 48
	InstrErrCodeIllegalOwner                       = 49
	InstrErrCodeMaxAccountsDataAllocationsExceeded = 50
	InstrErrCodeInvalidRealloc                     = 51
	InstrErrCodeReturnDataTooLarge                 = 1_000
)

// CustomError is a program-specific error carrying its numeric code.
type CustomError struct {
	Code uint32
	Err  error
}

func (e *CustomError) Error() string {
	return e.Err.Error()
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

var instrErrCodes = map[error]int{
	InstrErrInvalidArgument:                    InstrErrCodeInvalidArgument,
	InstrErrInvalidInstructionData:             InstrErrCodeInvalidInstructionData,
	InstrErrInvalidAccountData:                 InstrErrCodeInvalidAccountData,
	InstrErrAccountDataTooSmall:                InstrErrCodeAccountDataTooSmall,
	InstrErrMissingRequiredSignature:           InstrErrCodeMissingRequiredSignature,
	InstrErrExternalAccountDataModified:        InstrErrCodeExternalAccountDataModified,
	InstrErrReadonlyDataModified:               InstrErrCodeReadonlyDataModified,
	InstrErrNotEnoughAccountKeys:               InstrErrCodeNotEnoughAccountKeys,
	InstrErrAccountDataSizeChanged:             InstrErrCodeAccountDataSizeChanged,
	InstrErrExecutableDataModified:             InstrErrCodeExecutableDataModified,
	InstrErrUnsupportedProgramId:               InstrErrCodeUnsupportedProgramId,
	InstrErrCallDepth:                          InstrErrCodeCallDepth,
	InstrErrMissingAccount:                     InstrErrCodeMissingAccount,
	InstrErrInvalidAccountOwner:                InstrErrCodeInvalidAccountOwner,
	InstrErrArithmeticOverflow:                 InstrErrCodeArithmeticOverflow,
	InstrErrIllegalOwner:                       InstrErrCodeIllegalOwner,
	InstrErrMaxAccountsDataAllocationsExceeded: InstrErrCodeMaxAccountsDataAllocationsExceeded,
	InstrErrInvalidRealloc:                     InstrErrCodeInvalidRealloc,
	InstrErrReturnDataTooLarge:                 InstrErrCodeReturnDataTooLarge,
}

// TranslateErrToInstrErrCode returns the Solana instruction error code for
// err and, for custom program errors, the custom code.
func TranslateErrToInstrErrCode(err error) (int, uint32) {
	if err == nil {
		return InstrErrCodeSuccess, 0
	}

	var custom *CustomError
	if errors.As(err, &custom) {
		return InstrErrCodeCustom, custom.Code
	}

	for instrErr, code := range instrErrCodes {
		if errors.Is(err, instrErr) {
			return code, 0
		}
	}
	return InstrErrCodeInvalidArgument, 0
}

// FromTlvErr maps TLV engine errors onto instruction errors. The TLV
// specific errors become custom errors with their SPL codes.
func FromTlvErr(err error) error {
	if err == nil {
		return nil
	}
	code := tlv.TranslateErrToErrCode(err)
	switch code {
	case tlv.InstrErrCodeInvalidAccountData:
		return InstrErrInvalidAccountData
	case tlv.InstrErrCodeInvalidArgument:
		return InstrErrInvalidArgument
	case tlv.InstrErrCodeAccountDataTooSmall:
		return InstrErrAccountDataTooSmall
	case tlv.TlvErrCodeTypeNotFound, tlv.TlvErrCodeTypeAlreadyExists, tlv.TlvErrCodeIteratorEnd:
		return &CustomError{Code: uint32(code), Err: err}
	}
	return err
}
