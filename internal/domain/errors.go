package domain

import "fmt"

// Code classifies application errors per the messaging error taxonomy.
type Code string

const (
	CodeUnknown          Code = "UNKNOWN"
	CodeEntropy          Code = "ENTROPY"
	CodeInvalidPeerKey   Code = "INVALID_PEER_KEY"
	CodeDecryptionFailed Code = "DECRYPTION_FAILED"
	CodeSignatureInvalid Code = "SIGNATURE_INVALID"
	CodeStorage          Code = "STORAGE"
	CodeTransport        Code = "TRANSPORT"
	CodeNotFound         Code = "NOT_FOUND"
)

// AppError carries a taxonomy code alongside a message and optional cause.
type AppError struct {
	Code    Code
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Cause }

// New returns an AppError with the given code and message.
func New(code Code, message string) error {
	return &AppError{Code: code, Message: message}
}

// Wrap returns an AppError wrapping cause.
func Wrap(code Code, message string, cause error) error {
	return &AppError{Code: code, Message: message, Cause: cause}
}

// ErrCode extracts the taxonomy code from err, or CodeUnknown.
func ErrCode(err error) Code {
	var app *AppError
	for err != nil {
		if a, ok := err.(*AppError); ok {
			app = a
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	if app == nil {
		return CodeUnknown
	}
	return app.Code
}

var (
	// ErrInvalidPeerKey marks a malformed or off-curve peer public key.
	// Recoverable: the peer cannot be messaged yet.
	ErrInvalidPeerKey = New(CodeInvalidPeerKey, "invalid peer public key")

	// ErrDecryptionFailed marks an authentication-tag mismatch, malformed
	// ciphertext, or wrong key. Callers substitute a placeholder rather
	// than dropping the message.
	ErrDecryptionFailed = New(CodeDecryptionFailed, "decryption failed")

	// ErrKeyPairNotFound is returned when no key pair exists for an account.
	ErrKeyPairNotFound = New(CodeNotFound, "key pair not found")

	// ErrPeerKeyNotFound is returned when the directory has no public key
	// for the requested account.
	ErrPeerKeyNotFound = New(CodeNotFound, "peer public key not found")
)
