// Package apperr defines the typed errors the HTTP layer maps to responses.
package apperr

import "net/http"

// Error carries a stable machine-readable code, a message safe to show the
// caller, and the HTTP status the handler layer should respond with.
type Error struct {
	code       string
	msgToUser  string
	dbgInfoErr error // private, for logs only
	httpStatus int
}

func (e *Error) Error() string {
	return e.msgToUser
}

func (e *Error) Code() string {
	return e.code
}

func (e *Error) DebugInfo() error {
	return e.dbgInfoErr
}

func (e *Error) SetDebug(err error) *Error {
	e.dbgInfoErr = err
	return e
}

func (e *Error) HTTPStatus() int {
	if e.httpStatus == 0 {
		return http.StatusInternalServerError
	}
	return e.httpStatus
}

func (e *Error) SetHTTPStatus(code int) *Error {
	e.httpStatus = code
	return e
}

func New(code string, msgToUser string) *Error {
	return &Error{code: code, msgToUser: msgToUser}
}

// Error codes used across the service.
const (
	CodeValidation        = "validation_error"
	CodeUnsupportedFormat = "unsupported_format"
	CodeExtractionFailed  = "extraction_failed"
	CodeContentTooShort   = "content_too_short"
	CodeGeneration        = "generation_error"
)

// Validation is a 400 caller-input error. The message should echo the
// violated constraint.
func Validation(msg string) *Error {
	return New(CodeValidation, msg).SetHTTPStatus(http.StatusBadRequest)
}

// UnsupportedFormat rejects a file type outside the allowed set.
func UnsupportedFormat(msg string) *Error {
	return New(CodeUnsupportedFormat, msg).SetHTTPStatus(http.StatusBadRequest)
}

// ExtractionFailed reports a document that matched an allowed type but could
// not be parsed.
func ExtractionFailed(msg string) *Error {
	return New(CodeExtractionFailed, msg).SetHTTPStatus(http.StatusBadRequest)
}

// ContentTooShort rejects a document whose extracted text is below the
// minimum usable length. It is a caller problem, not a server one.
func ContentTooShort(msg string) *Error {
	return New(CodeContentTooShort, msg).SetHTTPStatus(http.StatusBadRequest)
}

// Generation reports that both the LLM call and the fallback failed. The
// fallback is total for well-formed input, so this should not be reachable
// in practice, but the handler layer still needs a mapping for it.
func Generation(msg string) *Error {
	return New(CodeGeneration, msg).SetHTTPStatus(http.StatusInternalServerError)
}
