package service

// Error is a domain error returned by service methods.
// Handlers map these to appropriate HTTP responses.
type Error struct {
	Kind    ErrorKind
	Message string // user-visible message
	Details string // extra diagnostic text, surfaced only in development
}

func (e *Error) Error() string {
	return e.Message
}

// WithDetails attaches diagnostic text to the error. RespondError only
// writes it when detail exposure is enabled (non-production).
func (e *Error) WithDetails(details string) *Error {
	e.Details = details
	return e
}

// ErrorKind classifies domain errors for HTTP status mapping.
type ErrorKind int

const (
	ErrBadRequest   ErrorKind = iota // 400
	ErrUnauthorized                  // 401
	ErrForbidden                     // 403
	ErrNotFound                      // 404
	ErrInternal                      // 500
	ErrBadGateway                    // 502
	ErrUnavailable                   // 503
)

func NewBadRequest(message string) *Error {
	return &Error{Kind: ErrBadRequest, Message: message}
}

func NewUnauthorized(message string) *Error {
	return &Error{Kind: ErrUnauthorized, Message: message}
}

func NewForbidden(message string) *Error {
	return &Error{Kind: ErrForbidden, Message: message}
}

func NewNotFound(message string) *Error {
	return &Error{Kind: ErrNotFound, Message: message}
}

func NewInternal(message string) *Error {
	return &Error{Kind: ErrInternal, Message: message}
}

func NewBadGateway(message string) *Error {
	return &Error{Kind: ErrBadGateway, Message: message}
}
