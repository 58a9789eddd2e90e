package stores

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"code-atlas/internal/interfaces"
	"code-atlas/internal/schemas"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

const passwordCost = 10

const userColumns = "id, username, email, password_hash, first_name, last_name, birth_date, newsletter, created_at, updated_at"

// UserStore is the credential store.
type UserStore struct {
	db interfaces.DBTX
}

// UserUpdate lists the mutable profile fields. Nil fields are left untouched.
type UserUpdate struct {
	Email      *string
	FirstName  *string
	LastName   *string
	Newsletter *bool
}

func NewUserStore(db interfaces.DBTX) *UserStore {
	return &UserStore{db: db}
}

// HashPassword returns the bcrypt hash of the plaintext password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

var dummyHash = sync.OnceValue(func() []byte {
	hash, _ := bcrypt.GenerateFromPassword([]byte("code-atlas-placeholder"), passwordCost)
	return hash
})

// VerifyPassword reports whether the plaintext matches the user's hash.
// A nil user is compared against a placeholder hash, so unknown usernames cost the same as wrong passwords.
func VerifyPassword(user *schemas.User, password string) bool {
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

func scanUser(row pgx.Row) (*schemas.User, error) {
	user := &schemas.User{}
	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.FirstName, &user.LastName,
		&user.BirthDate, &user.Newsletter, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func mapUserUniqueViolation(err error) error {
	pgErr, ok := isUniqueViolation(err)
	if !ok {
		return err
	}

	switch pgErr.ConstraintName {
	case usernameUniqueConstraint:
		return ErrUsernameTaken
	case emailUniqueConstraint:
		return ErrEmailTaken
	}
	return err
}

// Create inserts the user. The unique constraints decide concurrent registrations of the same username or email.
func (s *UserStore) Create(ctx context.Context, user *schemas.User) (*schemas.User, error) {
	query := `INSERT INTO users (id, username, email, password_hash, first_name, last_name, birth_date, newsletter)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING ` + userColumns

	created, err := scanUser(s.db.QueryRow(ctx, query, user.ID, user.Username, user.Email, user.PasswordHash,
		user.FirstName, user.LastName, user.BirthDate, user.Newsletter))
	if err != nil {
		return nil, fmt.Errorf("create user: %w", mapUserUniqueViolation(err))
	}
	return created, nil
}

func (s *UserStore) findBy(ctx context.Context, column string, value interface{}) (*schemas.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE %s = $1", userColumns, column)
	user, err := scanUser(s.db.QueryRow(ctx, query, value))
	if err != nil {
		return nil, fmt.Errorf("find user by %s: %w", column, err)
	}
	return user, nil
}

// FindByUsername looks up a user by exact, case-sensitive username.
func (s *UserStore) FindByUsername(ctx context.Context, username string) (*schemas.User, error) {
	return s.findBy(ctx, "username", username)
}

// FindByEmail looks up a user by exact, case-sensitive email.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*schemas.User, error) {
	return s.findBy(ctx, "email", email)
}

func (s *UserStore) FindByID(ctx context.Context, id uuid.UUID) (*schemas.User, error) {
	return s.findBy(ctx, "id", id)
}

// Update applies the non-nil fields of the update and returns the resulting user.
func (s *UserStore) Update(ctx context.Context, id uuid.UUID, update UserUpdate) (*schemas.User, error) {
	var setClauses []string
	queryArgs := []interface{}{id}

	addField := func(column string, value interface{}) {
		queryArgs = append(queryArgs, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(queryArgs)))
	}

	if update.Email != nil {
		addField("email", *update.Email)
	}
	if update.FirstName != nil {
		addField("first_name", *update.FirstName)
	}
	if update.LastName != nil {
		addField("last_name", *update.LastName)
	}
	if update.Newsletter != nil {
		addField("newsletter", *update.Newsletter)
	}
	if len(setClauses) == 0 {
		return nil, errors.New("update user: no fields")
	}

	query := fmt.Sprintf("UPDATE users SET %s, updated_at = now() WHERE id = $1 RETURNING %s",
		strings.Join(setClauses, ", "), userColumns)

	user, err := scanUser(s.db.QueryRow(ctx, query, queryArgs...))
	if err != nil {
		return nil, fmt.Errorf("update user: %w", mapUserUniqueViolation(err))
	}
	return user, nil
}

// Delete removes the user and, through the foreign keys, every row the user owns.
// Like counts of other users' comments are corrected first, so it must run inside a transaction.
// The user row is locked before that, so likes inserted concurrently wait on the foreign key and then fail.
func (s *UserStore) Delete(ctx context.Context, id uuid.UUID) error {
	var locked int
	if err := s.db.QueryRow(ctx, "SELECT 1 FROM users WHERE id = $1 FOR UPDATE", id).Scan(&locked); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("lock user: %w", err)
	}

	queryString := `UPDATE comments SET likes_count = likes_count - 1
					WHERE id IN (SELECT comment_id FROM comment_likes WHERE user_id = $1) AND user_id <> $1`
	if _, err := s.db.Exec(ctx, queryString, id); err != nil {
		return fmt.Errorf("release likes: %w", err)
	}

	tag, err := s.db.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
