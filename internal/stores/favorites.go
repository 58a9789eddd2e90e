package stores

import (
	"context"
	"fmt"

	"code-atlas/internal/interfaces"
	"code-atlas/internal/schemas"

	"github.com/google/uuid"
)

type FavoriteStore struct {
	db interfaces.DBTX
}

func NewFavoriteStore(db interfaces.DBTX) *FavoriteStore {
	return &FavoriteStore{db: db}
}

// Add favorites a language. The primary key on (user_id, language_id) turns a second add into ErrAlreadyExists,
// also when two adds race.
func (s *FavoriteStore) Add(ctx context.Context, userID uuid.UUID, languageID int) (*schemas.Favorite, error) {
	favorite := &schemas.Favorite{UserID: userID, LanguageID: languageID}

	queryString := "INSERT INTO favorites (user_id, language_id) VALUES ($1, $2) RETURNING created_at"
	if err := s.db.QueryRow(ctx, queryString, userID, languageID).Scan(&favorite.CreatedAt); err != nil {
		if _, ok := isUniqueViolation(err); ok {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("add favorite: %w",
			mapReferenceError(err, "favorites_user_id_fkey", "favorites_language_id_fkey", ErrLanguageNotFound))
	}

	return favorite, nil
}

// Remove deletes the favorite if present. Removing a missing favorite is not an error.
func (s *FavoriteStore) Remove(ctx context.Context, userID uuid.UUID, languageID int) error {
	if _, err := s.db.Exec(ctx, "DELETE FROM favorites WHERE user_id = $1 AND language_id = $2", userID, languageID); err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	return nil
}

func (s *FavoriteStore) RemoveAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	tag, err := s.db.Exec(ctx, "DELETE FROM favorites WHERE user_id = $1", userID)
	if err != nil {
		return 0, fmt.Errorf("remove favorites: %w", err)
	}
	return tag.RowsAffected(), nil
}

// List returns the favorited languages of the user.
func (s *FavoriteStore) List(ctx context.Context, userID uuid.UUID) ([]schemas.Language, error) {
	queryString := `SELECT l.id, l.name FROM favorites f
					INNER JOIN languages l ON l.id = f.language_id
					WHERE f.user_id = $1
					ORDER BY l.name`
	rows, err := s.db.Query(ctx, queryString, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	languages := make([]schemas.Language, 0)
	for rows.Next() {
		var language schemas.Language
		if err := rows.Scan(&language.ID, &language.Name); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		languages = append(languages, language)
	}

	return languages, rows.Err()
}
