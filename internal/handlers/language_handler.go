package handlers

import (
	"errors"
	"net/http"

	"code-atlas/internal/goerrors"
	"code-atlas/internal/managers"
	"code-atlas/internal/schemas"
	"code-atlas/internal/stores"
	"code-atlas/internal/utils"

	"github.com/gin-gonic/gin"
)

// LanguageHdl serves the read-only language catalog.
type LanguageHdl interface {
	GetLanguages(ctx *gin.Context)
	GetLanguage(ctx *gin.Context)
}

type LanguageHandler struct {
	CatalogManager managers.CatalogMgr
}

func NewLanguageHandler(catalogManager *managers.CatalogMgr) LanguageHdl {
	return &LanguageHandler{CatalogManager: *catalogManager}
}

func (handler *LanguageHandler) GetLanguages(ctx *gin.Context) {
	languages, err := handler.CatalogManager.ListLanguages(ctx)
	if err != nil {
		writeError(ctx, err, nil)
		return
	}

	utils.WriteAndLogResponse(ctx, utils.CreateLanguageDtos(languages), http.StatusOK)
}

// GetLanguage resolves a language by name, ignoring case.
func (handler *LanguageHandler) GetLanguage(ctx *gin.Context) {
	language, err := handler.CatalogManager.GetLanguage(ctx, ctx.Param(utils.LanguageNameKey))
	if err != nil {
		writeError(ctx, err, errorMapping{stores.ErrNotFound: goerrors.LanguageNotFound})
		return
	}

	utils.WriteAndLogResponse(ctx, schemas.LanguageDTO{Id: language.ID, Name: language.Name}, http.StatusOK)
}

// ensureLanguage answers 404 and returns false when the language is not in the catalog.
func ensureLanguage(ctx *gin.Context, catalogManager managers.CatalogMgr, languageId int) bool {
	exists, err := catalogManager.LanguageExists(ctx, languageId)
	if err != nil {
		writeError(ctx, err, nil)
		return false
	}
	if !exists {
		utils.WriteAndLogError(ctx, goerrors.LanguageNotFound, errors.New("unknown language"))
		return false
	}
	return true
}
