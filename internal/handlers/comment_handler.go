package handlers

import (
	"errors"
	"net/http"
	"unicode/utf8"

	"code-atlas/internal/goerrors"
	"code-atlas/internal/managers"
	"code-atlas/internal/schemas"
	"code-atlas/internal/stores"
	"code-atlas/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxCommentLength = 300

// CommentHdl handles the public comments on language pages and their likes.
type CommentHdl interface {
	GetComments(ctx *gin.Context)
	CreateComment(ctx *gin.Context)
	UpdateComment(ctx *gin.Context)
	DeleteComment(ctx *gin.Context)
	ToggleLike(ctx *gin.Context)
}

type CommentHandler struct {
	DatabaseManager managers.DatabaseMgr
	CatalogManager  managers.CatalogMgr
	MetricsManager  managers.MetricsMgr
}

func NewCommentHandler(databaseManager *managers.DatabaseMgr, catalogManager *managers.CatalogMgr, metricsManager *managers.MetricsMgr) CommentHdl {
	return &CommentHandler{
		DatabaseManager: *databaseManager,
		CatalogManager:  *catalogManager,
		MetricsManager:  *metricsManager,
	}
}

// sanitizeComment returns the plain-text content and whether its length is acceptable.
func sanitizeComment(content string) (string, bool) {
	sanitized := utils.SanitizeText(content)
	length := utf8.RuneCountInString(sanitized)
	return sanitized, length >= 1 && length <= maxCommentLength
}

func parseCommentId(ctx *gin.Context) (uuid.UUID, bool) {
	commentId, err := uuid.Parse(ctx.Param(utils.CommentIdKey))
	if err != nil {
		utils.WriteAndLogError(ctx, goerrors.InvalidCommentId, err)
		return uuid.Nil, false
	}
	return commentId, true
}

// GetComments lists the comments on a language, newest first. Authenticated callers see which ones they liked.
func (handler *CommentHandler) GetComments(ctx *gin.Context) {
	languageId, ok := parseLanguageId(ctx.Param(utils.LanguageIdKey))
	if !ok {
		utils.WriteAndLogError(ctx, goerrors.InvalidLanguageId, errors.New("invalid languageId path parameter"))
		return
	}
	if !ensureLanguage(ctx, handler.CatalogManager, languageId) {
		return
	}

	viewerId := uuid.Nil
	if identity, ok := utils.GetIdentity(ctx); ok {
		viewerId = identity.UserID
	}
	offset, limit := utils.ParsePaginationParams(ctx)

	comments, total, err := stores.NewCommentStore(handler.DatabaseManager.GetPool()).ListByLanguage(ctx, languageId, viewerId, offset, limit)
	if err != nil {
		writeError(ctx, err, nil)
		return
	}

	commentDtos := make([]schemas.CommentDTO, 0, len(comments))
	for i := range comments {
		commentDtos = append(commentDtos, utils.CreateCommentDto(&comments[i]))
	}
	utils.WriteAndLogResponse(ctx, utils.NewPaginatedResponse(commentDtos, offset, limit, total), http.StatusOK)
}

func (handler *CommentHandler) CreateComment(ctx *gin.Context) {
	identity, ok := currentIdentity(ctx)
	if !ok {
		return
	}
	commentRequest := ctx.Value(utils.SanitizedPayloadKey.String()).(*schemas.CreateCommentRequest)

	content, ok := sanitizeComment(commentRequest.Content)
	if !ok {
		utils.WriteAndLogError(ctx, goerrors.CommentContentInvalid, errors.New("comment content out of range"))
		return
	}
	if !ensureLanguage(ctx, handler.CatalogManager, commentRequest.LanguageId) {
		return
	}

	comment, err := stores.NewCommentStore(handler.DatabaseManager.GetPool()).Create(ctx, identity.UserID, commentRequest.LanguageId, content)
	if err != nil {
		writeError(ctx, err, errorMapping{stores.ErrLanguageNotFound: goerrors.LanguageNotFound})
		return
	}

	utils.WriteAndLogResponse(ctx, utils.CreateCommentDto(comment), http.StatusCreated)
}

// UpdateComment replaces the content of one of the caller's comments.
func (handler *CommentHandler) UpdateComment(ctx *gin.Context) {
	identity, ok := currentIdentity(ctx)
	if !ok {
		return
	}
	commentId, ok := parseCommentId(ctx)
	if !ok {
		return
	}
	commentRequest := ctx.Value(utils.SanitizedPayloadKey.String()).(*schemas.UpdateCommentRequest)

	content, ok := sanitizeComment(commentRequest.Content)
	if !ok {
		utils.WriteAndLogError(ctx, goerrors.CommentContentInvalid, errors.New("comment content out of range"))
		return
	}

	comment, err := stores.NewCommentStore(handler.DatabaseManager.GetPool()).Update(ctx, commentId, identity.UserID, content)
	if err != nil {
		writeError(ctx, err, errorMapping{
			stores.ErrNotFound:  goerrors.CommentNotFound,
			stores.ErrForbidden: goerrors.CommentEditForbidden,
		})
		return
	}

	utils.WriteAndLogResponse(ctx, utils.CreateCommentDto(comment), http.StatusOK)
}

func (handler *CommentHandler) DeleteComment(ctx *gin.Context) {
	identity, ok := currentIdentity(ctx)
	if !ok {
		return
	}
	commentId, ok := parseCommentId(ctx)
	if !ok {
		return
	}

	if err := stores.NewCommentStore(handler.DatabaseManager.GetPool()).Delete(ctx, commentId, identity.UserID); err != nil {
		writeError(ctx, err, errorMapping{
			stores.ErrNotFound:  goerrors.CommentNotFound,
			stores.ErrForbidden: goerrors.CommentDeleteForbidden,
		})
		return
	}

	utils.WriteAndLogResponse(ctx, &schemas.MessageDTO{Message: "Comment deleted"}, http.StatusOK)
}

// ToggleLike likes the comment if the caller has not liked it yet and removes the like otherwise.
func (handler *CommentHandler) ToggleLike(ctx *gin.Context) {
	identity, ok := currentIdentity(ctx)
	if !ok {
		return
	}
	commentId, ok := parseCommentId(ctx)
	if !ok {
		return
	}

	toggle, err := stores.NewCommentStore(handler.DatabaseManager.GetPool()).ToggleLike(ctx, commentId, identity.UserID)
	if err != nil {
		writeError(ctx, err, errorMapping{stores.ErrNotFound: goerrors.CommentNotFound})
		return
	}

	handler.MetricsManager.RecordLikeToggle(toggle.Liked)
	utils.WriteAndLogResponse(ctx, &schemas.LikeDTO{
		CommentId:  toggle.CommentID.String(),
		Liked:      toggle.Liked,
		LikesCount: toggle.LikesCount,
	}, http.StatusOK)
}
