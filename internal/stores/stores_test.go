package stores

import (
	"context"
	"errors"
	"testing"
	"time"

	"code-atlas/internal/schemas"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupPool(t *testing.T) pgxmock.PgxPoolIface {
	poolMock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, poolMock.ExpectationsWereMet())
		poolMock.Close()
	})
	return poolMock
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("Secret123!")
	require.NoError(t, err)

	user := &schemas.User{PasswordHash: hash}
	assert.True(t, VerifyPassword(user, "Secret123!"))
	assert.False(t, VerifyPassword(user, "secret123!"))
	assert.False(t, VerifyPassword(nil, "Secret123!"))
}

func TestUserCreateMapsConstraints(t *testing.T) {
	testCases := []struct {
		constraint string
		expected   error
	}{
		{"users_username_key", ErrUsernameTaken},
		{"users_email_key", ErrEmailTaken},
	}

	for _, tc := range testCases {
		t.Run(tc.constraint, func(t *testing.T) {
			poolMock := setupPool(t)
			poolMock.ExpectQuery("INSERT INTO users").
				WithArgs(pgxmock.AnyArg(), "alice", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
					pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
				WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: tc.constraint})

			_, err := NewUserStore(poolMock).Create(context.Background(), &schemas.User{ID: uuid.New(), Username: "alice"})
			assert.ErrorIs(t, err, tc.expected)
		})
	}
}

func TestUserUpdateOnlyTouchesGivenFields(t *testing.T) {
	poolMock := setupPool(t)
	id := uuid.New()
	lastName := "Lovelace"
	newsletter := false

	poolMock.ExpectQuery(`UPDATE users SET last_name = \$2, newsletter = \$3, updated_at = now\(\) WHERE id = \$1`).
		WithArgs(id, lastName, newsletter).
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "email", "password_hash", "first_name", "last_name",
			"birth_date", "newsletter", "created_at", "updated_at"}).
			AddRow(id, "ada", "ada@example.com", "hash", "Ada", lastName, time.Now(), newsletter, time.Now(), time.Now()))

	user, err := NewUserStore(poolMock).Update(context.Background(), id, UserUpdate{LastName: &lastName, Newsletter: &newsletter})
	require.NoError(t, err)
	assert.Equal(t, "Lovelace", user.LastName)

	_, err = NewUserStore(poolMock).Update(context.Background(), id, UserUpdate{})
	assert.Error(t, err)
}

func TestUserDelete(t *testing.T) {
	id := uuid.New()

	t.Run("ReleasesLikesBeforeDeleting", func(t *testing.T) {
		poolMock := setupPool(t)
		poolMock.ExpectQuery(`SELECT 1 FROM users WHERE id = \$1 FOR UPDATE`).WithArgs(id).
			WillReturnRows(pgxmock.NewRows([]string{"?column?"}).AddRow(1))
		poolMock.ExpectExec("UPDATE comments SET likes_count = likes_count - 1").WithArgs(id).
			WillReturnResult(pgxmock.NewResult("UPDATE", 3))
		poolMock.ExpectExec("DELETE FROM users").WithArgs(id).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		assert.NoError(t, NewUserStore(poolMock).Delete(context.Background(), id))
	})

	t.Run("NotFound", func(t *testing.T) {
		poolMock := setupPool(t)
		poolMock.ExpectQuery("FOR UPDATE").WithArgs(id).WillReturnRows(pgxmock.NewRows([]string{"?column?"}))

		assert.ErrorIs(t, NewUserStore(poolMock).Delete(context.Background(), id), ErrNotFound)
	})
}

func TestFavoriteAddMapsForeignKeys(t *testing.T) {
	testCases := []struct {
		constraint string
		expected   error
	}{
		{"favorites_user_id_fkey", ErrUserNotFound},
		{"favorites_language_id_fkey", ErrLanguageNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.constraint, func(t *testing.T) {
			poolMock := setupPool(t)
			userId := uuid.New()
			poolMock.ExpectQuery("INSERT INTO favorites").WithArgs(userId, 1).
				WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: tc.constraint})

			_, err := NewFavoriteStore(poolMock).Add(context.Background(), userId, 1)
			assert.ErrorIs(t, err, tc.expected)
		})
	}
}

func TestNoteUpsertReportsInsert(t *testing.T) {
	poolMock := setupPool(t)
	userId, noteId := uuid.New(), uuid.New()
	now := time.Now()

	poolMock.ExpectQuery("ON CONFLICT \\(user_id, language_id\\) DO UPDATE").
		WithArgs(pgxmock.AnyArg(), userId, 4, "hooks").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "language_id", "content", "created_at", "updated_at", "inserted"}).
			AddRow(noteId, userId, 4, "hooks", now, now, false))

	note, inserted, err := NewNoteStore(poolMock).Upsert(context.Background(), userId, 4, "hooks")
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.Equal(t, noteId, note.ID)
}

func TestCommentOwnership(t *testing.T) {
	commentId, userId := uuid.New(), uuid.New()

	t.Run("Forbidden", func(t *testing.T) {
		poolMock := setupPool(t)
		poolMock.ExpectExec("DELETE FROM comments").WithArgs(commentId, userId).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		poolMock.ExpectQuery("SELECT user_id FROM comments").WithArgs(commentId).
			WillReturnRows(pgxmock.NewRows([]string{"user_id"}).AddRow(uuid.New()))

		assert.ErrorIs(t, NewCommentStore(poolMock).Delete(context.Background(), commentId, userId), ErrForbidden)
	})

	t.Run("LookupFailure", func(t *testing.T) {
		poolMock := setupPool(t)
		failure := errors.New("connection reset")
		poolMock.ExpectExec("DELETE FROM comments").WithArgs(commentId, userId).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		poolMock.ExpectQuery("SELECT user_id FROM comments").WithArgs(commentId).WillReturnError(failure)

		err := NewCommentStore(poolMock).Delete(context.Background(), commentId, userId)
		assert.ErrorIs(t, err, failure)
		assert.NotErrorIs(t, err, ErrForbidden)
	})
}

func TestToggleLike(t *testing.T) {
	commentId, userId := uuid.New(), uuid.New()

	t.Run("Unliked", func(t *testing.T) {
		poolMock := setupPool(t)
		poolMock.ExpectQuery("WITH removed AS").WithArgs(userId, commentId).
			WillReturnRows(pgxmock.NewRows([]string{"likes_count", "liked"}).AddRow(4, false))

		toggle, err := NewCommentStore(poolMock).ToggleLike(context.Background(), commentId, userId)
		require.NoError(t, err)
		assert.Equal(t, &schemas.LikeToggle{CommentID: commentId, Liked: false, LikesCount: 4}, toggle)
	})

	t.Run("CommentDeletedConcurrently", func(t *testing.T) {
		poolMock := setupPool(t)
		poolMock.ExpectQuery("WITH removed AS").WithArgs(userId, commentId).
			WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "comment_likes_comment_id_fkey"})

		_, err := NewCommentStore(poolMock).ToggleLike(context.Background(), commentId, userId)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
