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

const noteColumns = "id, user_id, language_id, content, created_at, updated_at"

type NoteStore struct {
	db interfaces.DBTX
}

func NewNoteStore(db interfaces.DBTX) *NoteStore {
	return &NoteStore{db: db}
}

func scanNote(row pgx.Row, extra ...interface{}) (*schemas.Note, error) {
	note := &schemas.Note{}
	dest := append([]interface{}{&note.ID, &note.UserID, &note.LanguageID, &note.Content, &note.CreatedAt, &note.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return note, nil
}

// Upsert creates the note for the pair or replaces its content in place.
// The returned flag is true when a new row was inserted.
func (s *NoteStore) Upsert(ctx context.Context, userID uuid.UUID, languageID int, content string) (*schemas.Note, bool, error) {
	queryString := `INSERT INTO notes (id, user_id, language_id, content) VALUES ($1, $2, $3, $4)
					ON CONFLICT (user_id, language_id) DO UPDATE SET content = EXCLUDED.content, updated_at = now()
					RETURNING ` + noteColumns + `, (xmax = 0) AS inserted`

	var inserted bool
	note, err := scanNote(s.db.QueryRow(ctx, queryString, uuid.New(), userID, languageID, content), &inserted)
	if err != nil {
		return nil, false, fmt.Errorf("upsert note: %w",
			mapReferenceError(err, "notes_user_id_fkey", "notes_language_id_fkey", ErrLanguageNotFound))
	}

	return note, inserted, nil
}

// Get returns the note for the pair or ErrNotFound.
func (s *NoteStore) Get(ctx context.Context, userID uuid.UUID, languageID int) (*schemas.Note, error) {
	queryString := "SELECT " + noteColumns + " FROM notes WHERE user_id = $1 AND language_id = $2"
	note, err := scanNote(s.db.QueryRow(ctx, queryString, userID, languageID))
	if err != nil {
		return nil, fmt.Errorf("get note: %w", err)
	}
	return note, nil
}

func (s *NoteStore) List(ctx context.Context, userID uuid.UUID) ([]schemas.Note, error) {
	queryString := "SELECT " + noteColumns + " FROM notes WHERE user_id = $1 ORDER BY updated_at DESC"
	rows, err := s.db.Query(ctx, queryString, userID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	notes := make([]schemas.Note, 0)
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, *note)
	}

	return notes, rows.Err()
}

// Delete removes the note for the pair, ErrNotFound if there is none.
func (s *NoteStore) Delete(ctx context.Context, userID uuid.UUID, languageID int) error {
	tag, err := s.db.Exec(ctx, "DELETE FROM notes WHERE user_id = $1 AND language_id = $2", userID, languageID)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *NoteStore) DeleteAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	tag, err := s.db.Exec(ctx, "DELETE FROM notes WHERE user_id = $1", userID)
	if err != nil {
		return 0, fmt.Errorf("delete notes: %w", err)
	}
	return tag.RowsAffected(), nil
}
