// Package schemas defines the data structures
package schemas

import (
	"time"

	"github.com/google/uuid"
)

// User represents the data model for a user in the system.
type User struct {
	ID           uuid.UUID // Unique identifier for the user.
	Username     string    // Unique username, 3 to 15 characters.
	Email        string    // Unique email address.
	PasswordHash string    // bcrypt hash of the password.
	FirstName    string    // Optional first name, empty when not set.
	LastName     string    // Optional last name, empty when not set.
	BirthDate    time.Time // Date of birth, stored without time of day.
	Newsletter   bool      // Newsletter opt-in.
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Language is an entry of the language catalog.
type Language struct {
	ID   int
	Name string
}

// Favorite marks a language as favorited by a user.
type Favorite struct {
	UserID     uuid.UUID
	LanguageID int
	CreatedAt  time.Time
}

// Note is the personal note of a user for a language. There is at most one per pair.
type Note struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	LanguageID int
	Content    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Comment is a public comment on a language page.
type Comment struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	AuthorUsername string
	LanguageID     int
	Content        string
	LikesCount     int
	Liked          bool // Whether the requesting user liked the comment.
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// LikeToggle is the outcome of toggling a like on a comment.
type LikeToggle struct {
	CommentID  uuid.UUID
	Liked      bool
	LikesCount int
}

// Identity is the authenticated caller, resolved from the session token.
type Identity struct {
	UserID   uuid.UUID
	Username string
}
