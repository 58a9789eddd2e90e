package schemas

// ErrorDTO is a struct that represents an error response
type ErrorDTO struct {
	Error string `json:"error"`
}

// MessageDTO is a struct that represents a plain confirmation response
type MessageDTO struct {
	Message string `json:"message"`
}

// MetadataDTO is a struct that represents the metadata response of the root route
type MetadataDTO struct {
	ApiName    string `json:"apiName"`
	ApiVersion string `json:"apiVersion"`
}

// SessionDTO is returned by registration and login.
// It contains the profile fields except the password, plus the session token.
type SessionDTO struct {
	Username   string `json:"username"`
	Token      string `json:"token"`
	Email      string `json:"email"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	BirthDate  string `json:"birthDate"`
	Newsletter bool   `json:"newsletter"`
}

// ProfileDTO is a struct that represents the profile of the calling user
type ProfileDTO struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	BirthDate  string `json:"birthDate"`
	Newsletter bool   `json:"newsletter"`
	CreatedAt  string `json:"createdAt"`
}

// LanguageDTO is a struct that represents a catalog entry
type LanguageDTO struct {
	Id   int    `json:"id"`
	Name string `json:"name"`
}

// FavoriteDTO is a struct that represents a created favorite
type FavoriteDTO struct {
	UserId     string `json:"userId"`
	LanguageId int    `json:"languageId"`
	CreatedAt  string `json:"createdAt"`
}

// NoteDTO is a struct that represents a note. The timestamps are omitted for the empty placeholder note.
type NoteDTO struct {
	LanguageId int    `json:"languageId"`
	Content    string `json:"content"`
	CreatedAt  string `json:"createdAt,omitempty"`
	UpdatedAt  string `json:"updatedAt,omitempty"`
}

// AuthorDTO is a struct that represents the author of a comment
type AuthorDTO struct {
	Username string `json:"username"`
}

// CommentDTO is a struct that represents a comment response
type CommentDTO struct {
	Id         string    `json:"id"`
	LanguageId int       `json:"languageId"`
	Content    string    `json:"content"`
	Author     AuthorDTO `json:"author"`
	LikesCount int       `json:"likesCount"`
	Liked      bool      `json:"liked"`
	Edited     bool      `json:"edited"`
	CreatedAt  string    `json:"createdAt"`
	UpdatedAt  string    `json:"updatedAt"`
}

// LikeDTO is a struct that represents the like state of a comment after a toggle
type LikeDTO struct {
	CommentId  string `json:"commentId"`
	Liked      bool   `json:"liked"`
	LikesCount int    `json:"likesCount"`
}

// EmailDTO is returned after an email change
type EmailDTO struct {
	Email string `json:"email"`
}

// NewsletterDTO is returned after a newsletter change
type NewsletterDTO struct {
	Newsletter bool `json:"newsletter"`
}

// NameDTO is returned after a name change
type NameDTO struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Pagination is a struct that represents the pagination part of a paginated response
type Pagination struct {
	Offset  int `json:"offset"`
	Limit   int `json:"limit"`
	Records int `json:"records"`
}

// PaginatedResponse is a struct that represents a paginated response
type PaginatedResponse struct {
	Records    interface{} `json:"records"`
	Pagination Pagination  `json:"pagination"`
}
