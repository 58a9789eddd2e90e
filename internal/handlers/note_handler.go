package handlers

import (
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"code-atlas/internal/goerrors"
	"code-atlas/internal/managers"
	"code-atlas/internal/schemas"
	"code-atlas/internal/stores"
	"code-atlas/internal/utils"

	"github.com/gin-gonic/gin"
)

const maxNoteLength = 10000

// NoteHdl handles the personal notes of the calling user.
type NoteHdl interface {
	UpsertNote(ctx *gin.Context)
	GetNote(ctx *gin.Context)
	GetAllNotes(ctx *gin.Context)
	DeleteNote(ctx *gin.Context)
	DeleteAllNotes(ctx *gin.Context)
}

type NoteHandler struct {
	DatabaseManager managers.DatabaseMgr
	CatalogManager  managers.CatalogMgr
}

func NewNoteHandler(databaseManager *managers.DatabaseMgr, catalogManager *managers.CatalogMgr) NoteHdl {
	return &NoteHandler{
		DatabaseManager: *databaseManager,
		CatalogManager:  *catalogManager,
	}
}

// UpsertNote creates the note for a language or replaces its content. The content is stored verbatim.
func (handler *NoteHandler) UpsertNote(ctx *gin.Context) {
	identity, ok := currentIdentity(ctx)
	if !ok {
		return
	}
	noteRequest := ctx.Value(utils.SanitizedPayloadKey.String()).(*schemas.NoteRequest)

	if strings.TrimSpace(noteRequest.Content) == "" || utf8.RuneCountInString(noteRequest.Content) > maxNoteLength {
		utils.WriteAndLogError(ctx, goerrors.NoteContentInvalid, errors.New("note content out of range"))
		return
	}
	if !ensureLanguage(ctx, handler.CatalogManager, noteRequest.LanguageId) {
		return
	}

	note, inserted, err := stores.NewNoteStore(handler.DatabaseManager.GetPool()).Upsert(ctx, identity.UserID, noteRequest.LanguageId, noteRequest.Content)
	if err != nil {
		writeError(ctx, err, errorMapping{stores.ErrLanguageNotFound: goerrors.LanguageNotFound})
		return
	}

	status := http.StatusOK
	if inserted {
		status = http.StatusCreated
	}
	utils.WriteAndLogResponse(ctx, utils.CreateNoteDto(note), status)
}

// GetNote returns the note for the languageId query parameter, or an empty note when there is none.
func (handler *NoteHandler) GetNote(ctx *gin.Context) {
	identity, ok := currentIdentity(ctx)
	if !ok {
		return
	}

	languageId, ok := parseLanguageId(ctx.Query(utils.LanguageIdKey))
	if !ok {
		utils.WriteAndLogError(ctx, goerrors.InvalidLanguageId, errors.New("invalid languageId query parameter"))
		return
	}

	note, err := stores.NewNoteStore(handler.DatabaseManager.GetPool()).Get(ctx, identity.UserID, languageId)
	if errors.Is(err, stores.ErrNotFound) {
		utils.WriteAndLogResponse(ctx, schemas.NoteDTO{LanguageId: languageId, Content: ""}, http.StatusOK)
		return
	}
	if err != nil {
		writeError(ctx, err, nil)
		return
	}

	utils.WriteAndLogResponse(ctx, utils.CreateNoteDto(note), http.StatusOK)
}

func (handler *NoteHandler) GetAllNotes(ctx *gin.Context) {
	identity, ok := currentIdentity(ctx)
	if !ok {
		return
	}

	notes, err := stores.NewNoteStore(handler.DatabaseManager.GetPool()).List(ctx, identity.UserID)
	if err != nil {
		writeError(ctx, err, nil)
		return
	}

	noteDtos := make([]schemas.NoteDTO, 0, len(notes))
	for i := range notes {
		noteDtos = append(noteDtos, utils.CreateNoteDto(&notes[i]))
	}
	utils.WriteAndLogResponse(ctx, noteDtos, http.StatusOK)
}

func (handler *NoteHandler) DeleteNote(ctx *gin.Context) {
	identity, ok := currentIdentity(ctx)
	if !ok {
		return
	}

	languageId, ok := parseLanguageId(ctx.Param(utils.LanguageIdKey))
	if !ok {
		utils.WriteAndLogError(ctx, goerrors.InvalidLanguageId, errors.New("invalid languageId path parameter"))
		return
	}

	if err := stores.NewNoteStore(handler.DatabaseManager.GetPool()).Delete(ctx, identity.UserID, languageId); err != nil {
		writeError(ctx, err, errorMapping{stores.ErrNotFound: goerrors.NoteNotFound})
		return
	}

	utils.WriteAndLogResponse(ctx, &schemas.MessageDTO{Message: "Note deleted"}, http.StatusOK)
}

func (handler *NoteHandler) DeleteAllNotes(ctx *gin.Context) {
	identity, ok := currentIdentity(ctx)
	if !ok {
		return
	}

	if _, err := stores.NewNoteStore(handler.DatabaseManager.GetPool()).DeleteAll(ctx, identity.UserID); err != nil {
		writeError(ctx, err, nil)
		return
	}

	utils.WriteAndLogResponse(ctx, &schemas.MessageDTO{Message: "All notes deleted"}, http.StatusOK)
}
