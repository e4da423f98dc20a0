package errs

type Error string

func (e Error) Error() string { return string(e) }

const (
	// Validation
	ErrInvalidRequestBody = Error("invalid request body")
	ErrInvalidParams      = Error("invalid params")
	ErrInvalidPageOrLimit = Error("invalid page or limit")
	ErrEmptyContent       = Error("message content is empty")
	ErrInvalidReceiver    = Error("invalid receiver id")
	ErrInvalidEmail       = Error("invalid email")
	ErrInvalidPassword    = Error("invalid password")
	ErrInvalidUsername    = Error("username is empty or too short")
	ErrInvalidUser        = Error("invalid user")

	// NotFound
	ErrUserNotFound     = Error("user not found")
	ErrReceiverNotFound = Error("receiver not found")

	// Conflict
	ErrUserAlreadyExists = Error("user already exists")

	// Unauthorized
	ErrUnauthorized  = Error("unauthorized")
	ErrInvalidToken  = Error("invalid token")
	ErrWrongPassword = Error("wrong password")
)

// IsNotFound reports whether err belongs to the not-found family.
func IsNotFound(err error) bool {
	return err == ErrUserNotFound || err == ErrReceiverNotFound
}

// IsConflict reports whether err belongs to the conflict family.
func IsConflict(err error) bool {
	return err == ErrUserAlreadyExists
}

// IsUnauthorized reports whether err belongs to the unauthorized family.
func IsUnauthorized(err error) bool {
	return err == ErrUnauthorized || err == ErrInvalidToken || err == ErrWrongPassword
}
