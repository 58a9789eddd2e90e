// Package goerrors holds the client-facing errors returned by the API, each bound to its HTTP status.
package goerrors

import "net/http"

// CustomError is an error that can be written to the client as-is.
type CustomError struct {
	Message    string
	HttpStatus int
}

func (e *CustomError) Error() string {
	return e.Message
}

func newError(status int, message string) *CustomError {
	return &CustomError{Message: message, HttpStatus: status}
}

// Generic errors
var (
	BadRequest          = newError(http.StatusBadRequest, "Invalid request body")
	InternalServerError = newError(http.StatusInternalServerError, "Internal server error")
	DatabaseError       = newError(http.StatusInternalServerError, "Internal server error")
	DatabaseUnavailable = newError(http.StatusServiceUnavailable, "Database not responding")
)

// Session errors
var (
	MissingToken = newError(http.StatusUnauthorized, "Missing authorization token")
	InvalidToken = newError(http.StatusUnauthorized, "Invalid or expired token")
)

// Registration and login errors, listed in the order the registration checks run.
var (
	UsernamePasswordRequired = newError(http.StatusBadRequest, "Username and password required")
	EmailInvalid             = newError(http.StatusBadRequest, "Valid email is required")
	EmailTooLong             = newError(http.StatusBadRequest, "Email is too long (max 64 characters)")
	EmailTaken               = newError(http.StatusConflict, "Email already registered")
	BirthDateRequired        = newError(http.StatusBadRequest, "Birth date is required")
	BirthDateInvalid         = newError(http.StatusBadRequest, "Invalid birth date")
	AgeOutOfRange            = newError(http.StatusBadRequest, "You must be between 18 and 100 years old.")
	NameTooLong              = newError(http.StatusBadRequest, "First or Last name too long (max 15 characters)")
	UsernameLength           = newError(http.StatusBadRequest, "Username must be between 3 and 15 characters")
	UsernameTaken            = newError(http.StatusConflict, "Username already taken")
	PasswordPolicy           = newError(http.StatusBadRequest, "Password must be at least 8 characters and contain uppercase, lowercase, and a number, and a special character (!@#$%^&*)")
	PasswordTooLong          = newError(http.StatusBadRequest, "Password is too long (max 20 characters)")
	InvalidCredentials       = newError(http.StatusUnauthorized, "Invalid credentials")
)

// Catalog and collection errors
var (
	LanguageNotFound   = newError(http.StatusNotFound, "Language not found")
	InvalidLanguageId  = newError(http.StatusBadRequest, "Invalid languageId")
	AlreadyFavorited   = newError(http.StatusConflict, "Already favorited")
	NoteNotFound       = newError(http.StatusNotFound, "Note not found")
	NoteContentInvalid = newError(http.StatusBadRequest, "Note content must be between 1 and 10000 characters")
)

// Comment errors
var (
	CommentNotFound        = newError(http.StatusNotFound, "Comment not found")
	InvalidCommentId       = newError(http.StatusBadRequest, "Invalid comment id")
	CommentContentInvalid  = newError(http.StatusBadRequest, "Comment must be between 1 and 300 characters")
	CommentEditForbidden   = newError(http.StatusForbidden, "You can only edit your own comments")
	CommentDeleteForbidden = newError(http.StatusForbidden, "You can only delete your own comments")
)

// Profile errors
var (
	UserNotFound       = newError(http.StatusNotFound, "User not found")
	EmailFormatInvalid = newError(http.StatusBadRequest, "Invalid email format")
	EmailUnchanged     = newError(http.StatusBadRequest, "New email cannot be the same as old email")
	NewsletterInvalid  = newError(http.StatusBadRequest, "Invalid newsletter value")
	FirstNameTooLong   = newError(http.StatusBadRequest, "First name too long (max 15 characters)")
	LastNameTooLong    = newError(http.StatusBadRequest, "Last name too long (max 15 characters)")
	NoFieldsProvided   = newError(http.StatusBadRequest, "No valid fields to update.")
)
