package handlers

import (
	"net/http"
	"strconv"

	"code-atlas/internal/goerrors"
	"code-atlas/internal/managers"
	"code-atlas/internal/schemas"
	"code-atlas/internal/stores"
	"code-atlas/internal/utils"

	"github.com/gin-gonic/gin"
)

// FavoriteHdl handles the favorites of the calling user.
type FavoriteHdl interface {
	AddFavorite(ctx *gin.Context)
	GetFavorites(ctx *gin.Context)
	RemoveFavorite(ctx *gin.Context)
	RemoveAllFavorites(ctx *gin.Context)
}

type FavoriteHandler struct {
	DatabaseManager managers.DatabaseMgr
	CatalogManager  managers.CatalogMgr
}

func NewFavoriteHandler(databaseManager *managers.DatabaseMgr, catalogManager *managers.CatalogMgr) FavoriteHdl {
	return &FavoriteHandler{
		DatabaseManager: *databaseManager,
		CatalogManager:  *catalogManager,
	}
}

// AddFavorite favorites a language. Favoriting it again is a conflict.
func (handler *FavoriteHandler) AddFavorite(ctx *gin.Context) {
	identity, ok := currentIdentity(ctx)
	if !ok {
		return
	}
	favoriteRequest := ctx.Value(utils.SanitizedPayloadKey.String()).(*schemas.FavoriteRequest)

	if !ensureLanguage(ctx, handler.CatalogManager, favoriteRequest.LanguageId) {
		return
	}

	favorite, err := stores.NewFavoriteStore(handler.DatabaseManager.GetPool()).Add(ctx, identity.UserID, favoriteRequest.LanguageId)
	if err != nil {
		writeError(ctx, err, errorMapping{
			stores.ErrAlreadyExists:    goerrors.AlreadyFavorited,
			stores.ErrLanguageNotFound: goerrors.LanguageNotFound,
		})
		return
	}

	utils.WriteAndLogResponse(ctx, &schemas.FavoriteDTO{
		UserId:     favorite.UserID.String(),
		LanguageId: favorite.LanguageID,
		CreatedAt:  utils.FormatTime(favorite.CreatedAt),
	}, http.StatusCreated)
}

// GetFavorites lists the favorited languages.
func (handler *FavoriteHandler) GetFavorites(ctx *gin.Context) {
	identity, ok := currentIdentity(ctx)
	if !ok {
		return
	}

	languages, err := stores.NewFavoriteStore(handler.DatabaseManager.GetPool()).List(ctx, identity.UserID)
	if err != nil {
		writeError(ctx, err, nil)
		return
	}

	utils.WriteAndLogResponse(ctx, utils.CreateLanguageDtos(languages), http.StatusOK)
}

// RemoveFavorite removes a favorite. It succeeds whether or not the language was favorited.
func (handler *FavoriteHandler) RemoveFavorite(ctx *gin.Context) {
	identity, ok := currentIdentity(ctx)
	if !ok {
		return
	}
	favoriteRequest := ctx.Value(utils.SanitizedPayloadKey.String()).(*schemas.FavoriteRequest)

	if err := stores.NewFavoriteStore(handler.DatabaseManager.GetPool()).Remove(ctx, identity.UserID, favoriteRequest.LanguageId); err != nil {
		writeError(ctx, err, nil)
		return
	}

	utils.WriteAndLogResponse(ctx, &schemas.MessageDTO{Message: "Removed from favorites"}, http.StatusOK)
}

func (handler *FavoriteHandler) RemoveAllFavorites(ctx *gin.Context) {
	identity, ok := currentIdentity(ctx)
	if !ok {
		return
	}

	removed, err := stores.NewFavoriteStore(handler.DatabaseManager.GetPool()).RemoveAll(ctx, identity.UserID)
	if err != nil {
		writeError(ctx, err, nil)
		return
	}

	utils.LogMessageWithFields(ctx, "debug", "Removed favorites: "+strconv.FormatInt(removed, 10))
	utils.WriteAndLogResponse(ctx, &schemas.MessageDTO{Message: "All favorites removed"}, http.StatusOK)
}
