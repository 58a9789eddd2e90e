package utils

import (
	"time"

	"code-atlas/internal/schemas"
)

func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func CreateSessionDto(user *schemas.User, token string) *schemas.SessionDTO {
	return &schemas.SessionDTO{
		Username:   user.Username,
		Token:      token,
		Email:      user.Email,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		BirthDate:  FormatTime(user.BirthDate),
		Newsletter: user.Newsletter,
	}
}

func CreateProfileDto(user *schemas.User) *schemas.ProfileDTO {
	return &schemas.ProfileDTO{
		Username:   user.Username,
		Email:      user.Email,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		BirthDate:  FormatTime(user.BirthDate),
		Newsletter: user.Newsletter,
		CreatedAt:  FormatTime(user.CreatedAt),
	}
}

func CreateLanguageDtos(languages []schemas.Language) []schemas.LanguageDTO {
	dtos := make([]schemas.LanguageDTO, 0, len(languages))
	for _, language := range languages {
		dtos = append(dtos, schemas.LanguageDTO{Id: language.ID, Name: language.Name})
	}
	return dtos
}

func CreateNoteDto(note *schemas.Note) schemas.NoteDTO {
	return schemas.NoteDTO{
		LanguageId: note.LanguageID,
		Content:    note.Content,
		CreatedAt:  FormatTime(note.CreatedAt),
		UpdatedAt:  FormatTime(note.UpdatedAt),
	}
}

// CreateCommentDto maps a comment. A comment counts as edited once updated_at moved past created_at.
func CreateCommentDto(comment *schemas.Comment) schemas.CommentDTO {
	return schemas.CommentDTO{
		Id:         comment.ID.String(),
		LanguageId: comment.LanguageID,
		Content:    comment.Content,
		Author:     schemas.AuthorDTO{Username: comment.AuthorUsername},
		LikesCount: comment.LikesCount,
		Liked:      comment.Liked,
		Edited:     !comment.UpdatedAt.Equal(comment.CreatedAt),
		CreatedAt:  FormatTime(comment.CreatedAt),
		UpdatedAt:  FormatTime(comment.UpdatedAt),
	}
}
