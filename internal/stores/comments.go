package stores

import (
	"context"
	"errors"
	"fmt"

	"code-atlas/internal/interfaces"
	"code-atlas/internal/schemas"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// commentSelect reads a comment with its author and whether $2 liked it, from a relation aliased c.
const commentSelect = `SELECT c.id, c.user_id, u.username, c.language_id, c.content, c.likes_count, c.created_at, c.updated_at,
	EXISTS (SELECT 1 FROM comment_likes l WHERE l.comment_id = c.id AND l.user_id = $2) AS liked`

type CommentStore struct {
	db interfaces.DBTX
}

func NewCommentStore(db interfaces.DBTX) *CommentStore {
	return &CommentStore{db: db}
}

func scanComment(row pgx.Row) (*schemas.Comment, error) {
	comment := &schemas.Comment{}
	err := row.Scan(&comment.ID, &comment.UserID, &comment.AuthorUsername, &comment.LanguageID, &comment.Content,
		&comment.LikesCount, &comment.CreatedAt, &comment.UpdatedAt, &comment.Liked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return comment, nil
}

// Create inserts a comment and returns it with its author. created_at and updated_at share the insert timestamp.
func (s *CommentStore) Create(ctx context.Context, userID uuid.UUID, languageID int, content string) (*schemas.Comment, error) {
	queryString := `WITH c AS (
						INSERT INTO comments (id, user_id, language_id, content) VALUES ($1, $2, $3, $4)
						RETURNING id, user_id, language_id, content, likes_count, created_at, updated_at
					)
					` + commentSelect + `
					FROM c INNER JOIN users u ON u.id = c.user_id`

	comment, err := scanComment(s.db.QueryRow(ctx, queryString, uuid.New(), userID, languageID, content))
	if err != nil {
		return nil, fmt.Errorf("create comment: %w",
			mapReferenceError(err, "comments_user_id_fkey", "comments_language_id_fkey", ErrLanguageNotFound))
	}
	return comment, nil
}

// ListByLanguage returns one page of the comments on a language, newest first, and the total count.
// viewerID may be uuid.Nil for anonymous callers, in which case no comment is marked as liked.
func (s *CommentStore) ListByLanguage(ctx context.Context, languageID int, viewerID uuid.UUID, offset, limit int) ([]schemas.Comment, int, error) {
	var total int
	if err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM comments WHERE language_id = $1", languageID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count comments: %w", err)
	}

	queryString := commentSelect + `
					FROM comments c INNER JOIN users u ON u.id = c.user_id
					WHERE c.language_id = $1
					ORDER BY c.created_at DESC, c.id
					LIMIT $3 OFFSET $4`
	rows, err := s.db.Query(ctx, queryString, languageID, viewerID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list comments: %w", err)
	}
	defer rows.Close()

	comments := make([]schemas.Comment, 0)
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, *comment)
	}

	return comments, total, rows.Err()
}

// ownership tells a missing comment apart from one owned by somebody else.
func (s *CommentStore) ownership(ctx context.Context, commentID uuid.UUID) error {
	var ownerID uuid.UUID
	err := s.db.QueryRow(ctx, "SELECT user_id FROM comments WHERE id = $1", commentID).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("lookup comment owner: %w", err)
	}
	return ErrForbidden
}

// Update replaces the content of a comment owned by userID.
// It fails with ErrNotFound for unknown comments and ErrForbidden for comments of other users.
func (s *CommentStore) Update(ctx context.Context, commentID, userID uuid.UUID, content string) (*schemas.Comment, error) {
	queryString := `WITH c AS (
						UPDATE comments SET content = $3, updated_at = now()
						WHERE id = $1 AND user_id = $2
						RETURNING id, user_id, language_id, content, likes_count, created_at, updated_at
					)
					` + commentSelect + `
					FROM c INNER JOIN users u ON u.id = c.user_id`

	comment, err := scanComment(s.db.QueryRow(ctx, queryString, commentID, userID, content))
	if errors.Is(err, ErrNotFound) {
		return nil, s.ownership(ctx, commentID)
	}
	if err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	return comment, nil
}

// Delete removes a comment owned by userID, with the same failures as Update.
func (s *CommentStore) Delete(ctx context.Context, commentID, userID uuid.UUID) error {
	tag, err := s.db.Exec(ctx, "DELETE FROM comments WHERE id = $1 AND user_id = $2", commentID, userID)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return s.ownership(ctx, commentID)
	}
	return nil
}

// toggleLikeQuery removes the like of $1 on $2 if present and adds it otherwise, adjusting likes_count by what the
// same statement actually removed or inserted. When a concurrent toggle inserted the like first, the insert is a
// no-op and the comment stays liked with an unchanged count.
const toggleLikeQuery = `WITH removed AS (
		DELETE FROM comment_likes WHERE user_id = $1 AND comment_id = $2
		RETURNING comment_id
	), added AS (
		INSERT INTO comment_likes (user_id, comment_id)
		SELECT $1, $2 WHERE NOT EXISTS (SELECT 1 FROM removed)
		ON CONFLICT (user_id, comment_id) DO NOTHING
		RETURNING comment_id
	)
	UPDATE comments
	SET likes_count = likes_count + (SELECT COUNT(*) FROM added) - (SELECT COUNT(*) FROM removed)
	WHERE id = $2
	RETURNING likes_count, NOT EXISTS (SELECT 1 FROM removed) AS liked`

// ToggleLike flips the like of userID on the comment in a single statement.
func (s *CommentStore) ToggleLike(ctx context.Context, commentID, userID uuid.UUID) (*schemas.LikeToggle, error) {
	toggle := &schemas.LikeToggle{CommentID: commentID}

	err := s.db.QueryRow(ctx, toggleLikeQuery, userID, commentID).Scan(&toggle.LikesCount, &toggle.Liked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("toggle like: %w",
			mapReferenceError(err, "comment_likes_user_id_fkey", "comment_likes_comment_id_fkey", ErrNotFound))
	}

	return toggle, nil
}
