package app

// SanitizedError is an error that is safe to surface to the client.
type SanitizedError interface {
	error
	SanitizedError() string
}

type InternalError struct {
	cause error
}

func (e *InternalError) Error() string {
	return "An internal error has occurred."
}

func (e *InternalError) SanitizedError() string {
	return e.Error()
}

func (e *InternalError) Unwrap() error {
	return e.cause
}

func (s *Session) InternalError(err error) SanitizedError {
	if err == nil {
		return nil
	}
	s.Logger.Error(err)
	return &InternalError{
		cause: err,
	}
}

type UserError struct {
	message string
}

func (e *UserError) Error() string {
	return e.message
}

func (e *UserError) SanitizedError() string {
	return e.Error()
}

func (s *Session) UserError(message string) *UserError {
	return &UserError{
		message: message,
	}
}

type AuthenticationError struct{}

func (e *AuthenticationError) Error() string {
	return "User is not authenticated."
}

func (e *AuthenticationError) SanitizedError() string {
	return e.Error()
}

func (s *Session) AuthenticationError() *AuthenticationError {
	return &AuthenticationError{}
}

type ForbiddenError struct {
	message string
}

func (e *ForbiddenError) Error() string {
	return e.message
}

func (e *ForbiddenError) SanitizedError() string {
	return e.Error()
}

func (s *Session) ForbiddenError(message string) *ForbiddenError {
	return &ForbiddenError{
		message: message,
	}
}

type NotFoundError struct {
	message string
}

func (e *NotFoundError) Error() string {
	return e.message
}

func (e *NotFoundError) SanitizedError() string {
	return e.Error()
}

func (s *Session) NotFoundError(message string) *NotFoundError {
	return &NotFoundError{
		message: message,
	}
}

type ConflictError struct {
	message string
}

func (e *ConflictError) Error() string {
	return e.message
}

func (e *ConflictError) SanitizedError() string {
	return e.Error()
}

func (s *Session) ConflictError(message string) *ConflictError {
	return &ConflictError{
		message: message,
	}
}
