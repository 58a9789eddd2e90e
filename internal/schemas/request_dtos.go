// Package schemas defines the request structures for various operations in the application.
package schemas

import "code-atlas/internal/goerrors"

// RegistrationRequest is a struct that represents a registration request.
// The fields carry no validation tags, since registration checks run in a fixed order with their own messages.
type RegistrationRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	Email      string `json:"email"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	BirthDate  string `json:"birthDate"`
	Newsletter bool   `json:"newsletter"`
}

// LoginRequest is a struct that represents a login request
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) ValidationError() *goerrors.CustomError {
	return goerrors.UsernamePasswordRequired
}

// FavoriteRequest is used both to add and to remove a favorite.
type FavoriteRequest struct {
	LanguageId int `json:"languageId" validate:"required,gt=0"`
}

func (r *FavoriteRequest) ValidationError() *goerrors.CustomError {
	return goerrors.InvalidLanguageId
}

// NoteRequest is a struct that represents a note upsert request
type NoteRequest struct {
	LanguageId int    `json:"languageId" validate:"required,gt=0"`
	Content    string `json:"content"`
}

func (r *NoteRequest) ValidationError() *goerrors.CustomError {
	return goerrors.InvalidLanguageId
}

// CreateCommentRequest is a struct that represents a create comment request
type CreateCommentRequest struct {
	LanguageId int    `json:"languageId" validate:"required,gt=0"`
	Content    string `json:"content"`
}

func (r *CreateCommentRequest) ValidationError() *goerrors.CustomError {
	return goerrors.InvalidLanguageId
}

// UpdateCommentRequest is a struct that represents an edit comment request
type UpdateCommentRequest struct {
	Content string `json:"content"`
}

// ChangeEmailRequest is a struct that represents an email change request
type ChangeEmailRequest struct {
	Email string `json:"email" validate:"required"`
}

func (r *ChangeEmailRequest) ValidationError() *goerrors.CustomError {
	return goerrors.EmailFormatInvalid
}

// ChangeNewsletterRequest uses a pointer so that a missing value can be told apart from false.
type ChangeNewsletterRequest struct {
	Newsletter *bool `json:"newsletter" validate:"required"`
}

func (r *ChangeNewsletterRequest) ValidationError() *goerrors.CustomError {
	return goerrors.NewsletterInvalid
}

// ChangeNameRequest is a struct that represents a name change request. Omitted fields stay untouched.
type ChangeNameRequest struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}
