package stores

import (
	"context"
	"errors"
	"fmt"

	"code-atlas/internal/interfaces"
	"code-atlas/internal/schemas"

	"github.com/jackc/pgx/v5"
)

// LanguageStore reads the language catalog. The catalog is maintained by migrations only.
type LanguageStore struct {
	db interfaces.DBTX
}

func NewLanguageStore(db interfaces.DBTX) *LanguageStore {
	return &LanguageStore{db: db}
}

func (s *LanguageStore) findOne(ctx context.Context, queryString string, arg interface{}) (*schemas.Language, error) {
	language := &schemas.Language{}
	if err := s.db.QueryRow(ctx, queryString, arg).Scan(&language.ID, &language.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find language: %w", err)
	}
	return language, nil
}

// FindByName matches the name case-insensitively.
func (s *LanguageStore) FindByName(ctx context.Context, name string) (*schemas.Language, error) {
	return s.findOne(ctx, "SELECT id, name FROM languages WHERE lower(name) = lower($1)", name)
}

func (s *LanguageStore) FindByID(ctx context.Context, id int) (*schemas.Language, error) {
	return s.findOne(ctx, "SELECT id, name FROM languages WHERE id = $1", id)
}

func (s *LanguageStore) List(ctx context.Context) ([]schemas.Language, error) {
	rows, err := s.db.Query(ctx, "SELECT id, name FROM languages ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list languages: %w", err)
	}
	defer rows.Close()

	languages := make([]schemas.Language, 0)
	for rows.Next() {
		var language schemas.Language
		if err := rows.Scan(&language.ID, &language.Name); err != nil {
			return nil, fmt.Errorf("scan language: %w", err)
		}
		languages = append(languages, language)
	}

	return languages, rows.Err()
}
