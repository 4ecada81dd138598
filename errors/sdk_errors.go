package errors

import (
	stderrors "errors"
	"fmt"

	"veil/jsonx"
)

// SdkErrorCode represents standardized error codes for SDK operations
type SdkErrorCode string

const (
	// Input and codec errors
	ErrCodeDecode               SdkErrorCode = "decode_error"
	ErrCodeMissingRequiredField SdkErrorCode = "missing_required_field"

	// Keyring errors
	ErrCodeKeyNotFound SdkErrorCode = "key_not_found"

	// Signing errors
	ErrCodeSigningDataUnavailable SdkErrorCode = "signing_data_unavailable"
	ErrCodeMissingSigner          SdkErrorCode = "missing_signer"
	ErrCodeSignature              SdkErrorCode = "signature_error"

	// Pipeline errors
	ErrCodeParamsNotLoaded SdkErrorCode = "params_not_loaded"
	ErrCodeBuild           SdkErrorCode = "build_error"
	ErrCodeSubmission      SdkErrorCode = "submission_error"
)

// SdkError is a typed, user-displayable error condition. Every failure in
// the SDK surfaces as one of these; no layer recovers or retries internally.
type SdkError struct {
	Code    SdkErrorCode `json:"code"`
	Message string       `json:"message"`
	cause   error
}

// Error implements the error interface
func (e *SdkError) Error() string {
	return string(jsonx.MustMarshal(SdkError{
		Code:    e.Code,
		Message: e.Message,
	}))
}

func (e *SdkError) Unwrap() error {
	return e.cause
}

func New(code SdkErrorCode, message string) *SdkError {
	return &SdkError{Code: code, Message: message}
}

func Errorf(code SdkErrorCode, format string, args ...interface{}) *SdkError {
	return &SdkError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code to an underlying error while keeping it reachable
// through errors.Unwrap chains.
func Wrap(code SdkErrorCode, message string, cause error) *SdkError {
	msg := message
	if cause != nil {
		msg = fmt.Sprintf("%s: %v", message, cause)
	}
	return &SdkError{Code: code, Message: msg, cause: cause}
}

// HasCode reports whether err or anything it wraps is an SdkError with the
// given code.
func HasCode(err error, code SdkErrorCode) bool {
	var sdkErr *SdkError
	if stderrors.As(err, &sdkErr) {
		return sdkErr.Code == code
	}
	return false
}

// CodeOf returns the code carried by err, or "" for untyped errors.
func CodeOf(err error) SdkErrorCode {
	var sdkErr *SdkError
	if stderrors.As(err, &sdkErr) {
		return sdkErr.Code
	}
	return ""
}

// Error message constants - user-friendly and concise
const (
	ErrMsgWalletDecode       = "Wallet data could not be decoded"
	ErrMsgArgsDecode         = "Transaction arguments could not be decoded"
	ErrMsgTxDecode           = "Transaction bytes could not be decoded"
	ErrMsgSourceRequired     = "Source address is required"
	ErrMsgVerificationKey    = "verification_key is required in this context"
	ErrMsgKeyNotFound        = "No usable secret key for the required signer"
	ErrMsgNoPublicKey        = "Address has no resolvable public key"
	ErrMsgNoSigner           = "No public key provided for signing"
	ErrMsgParamsNotLoaded    = "Shielded parameters are not loaded"
	ErrMsgSubmissionRejected = "Transaction was rejected by the ledger"
)
