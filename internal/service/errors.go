package service

import (
	"errors"

	"github.com/google/uuid"
)

// Error kinds. Handlers map each kind to an HTTP status with errors.Is.
var (
	ErrValidation         = errors.New("validation failed")
	ErrNotFound           = errors.New("not found")
	ErrQuotaExceeded      = errors.New("quota exceeded")
	ErrUnsupportedFormat  = errors.New("unsupported document format")
	ErrExtraction         = errors.New("text extraction failed")
	ErrTranslationService = errors.New("translation service failed")
	ErrRegeneration       = errors.New("output regeneration failed")
	ErrJobBusy            = errors.New("translation already in progress")
	ErrEmailTaken         = errors.New("email already in use")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidResetCode   = errors.New("invalid or expired reset code")
)

// Client-facing messages kept from the original API.
const (
	MsgMissingFields     = "Missing required fields"
	MsgJobNotFound       = "There is no data with your id"
	MsgUserNotFound      = "User not found"
	MsgFileSizeOverLimit = "Your file size is over-limited. Please upgrade your plan."
	MsgTooManyCharacters = "There are more characters in your file. Please try again."
	MsgTooManyPages      = "Your file has more pages than your plan allows. Please upgrade your plan."
	MsgEmailTaken        = "This email is already in use."
	MsgInvalidLogin      = "Invalid email or password"
	MsgInvalidUserID     = "userId is not a valid id"
)

// kindError attaches a client-facing message to an error kind and an optional cause.
type kindError struct {
	kind  error
	msg   string
	cause error
}

func (e *kindError) Error() string {
	if e.cause != nil {
		return e.kind.Error() + ": " + e.msg + ": " + e.cause.Error()
	}
	return e.kind.Error() + ": " + e.msg
}

func (e *kindError) Unwrap() []error {
	if e.cause != nil {
		return []error{e.kind, e.cause}
	}
	return []error{e.kind}
}

func newError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

func wrapError(kind error, msg string, cause error) error {
	return &kindError{kind: kind, msg: msg, cause: cause}
}

// Message returns the client-facing message carried by err, or "" if there is none.
func Message(err error) string {
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.msg
	}
	return ""
}

// validID reports whether id can name a row. Ids are UUIDs, so anything
// else cannot exist and is rejected before it reaches the database.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
