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
	"github.com/jackc/pgx/v5"
)

// ProfileHdl handles the account of the calling user.
type ProfileHdl interface {
	GetProfile(ctx *gin.Context)
	ChangeEmail(ctx *gin.Context)
	ChangeNewsletter(ctx *gin.Context)
	ChangeName(ctx *gin.Context)
	DeleteAccount(ctx *gin.Context)
}

type ProfileHandler struct {
	DatabaseManager managers.DatabaseMgr
	Validator       *utils.Validator
}

func NewProfileHandler(databaseManager *managers.DatabaseMgr) ProfileHdl {
	return &ProfileHandler{
		DatabaseManager: *databaseManager,
		Validator:       utils.GetValidator(),
	}
}

var profileErrors = errorMapping{stores.ErrNotFound: goerrors.UserNotFound}

func (handler *ProfileHandler) GetProfile(ctx *gin.Context) {
	identity, ok := currentIdentity(ctx)
	if !ok {
		return
	}

	user, err := stores.NewUserStore(handler.DatabaseManager.GetPool()).FindByID(ctx, identity.UserID)
	if err != nil {
		writeError(ctx, err, profileErrors)
		return
	}

	utils.WriteAndLogResponse(ctx, utils.CreateProfileDto(user), http.StatusOK)
}

// ChangeEmail replaces the email address. The new address must differ from the current one and be unused.
func (handler *ProfileHandler) ChangeEmail(ctx *gin.Context) {
	identity, ok := currentIdentity(ctx)
	if !ok {
		return
	}
	emailRequest := ctx.Value(utils.SanitizedPayloadKey.String()).(*schemas.ChangeEmailRequest)

	if !handler.Validator.VerifyEmail(emailRequest.Email) {
		utils.WriteAndLogError(ctx, goerrors.EmailFormatInvalid, errors.New("invalid email "+emailRequest.Email))
		return
	}
	if utf8.RuneCountInString(emailRequest.Email) > maxEmailLength {
		utils.WriteAndLogError(ctx, goerrors.EmailTooLong, errors.New("email too long"))
		return
	}

	userStore := stores.NewUserStore(handler.DatabaseManager.GetPool())
	user, err := userStore.FindByID(ctx, identity.UserID)
	if err != nil {
		writeError(ctx, err, profileErrors)
		return
	}
	if user.Email == emailRequest.Email {
		utils.WriteAndLogError(ctx, goerrors.EmailUnchanged, errors.New("email unchanged"))
		return
	}

	user, err = userStore.Update(ctx, identity.UserID, stores.UserUpdate{Email: &emailRequest.Email})
	if err != nil {
		writeError(ctx, err, errorMapping{
			stores.ErrNotFound:   goerrors.UserNotFound,
			stores.ErrEmailTaken: goerrors.EmailTaken,
		})
		return
	}

	utils.WriteAndLogResponse(ctx, &schemas.EmailDTO{Email: user.Email}, http.StatusOK)
}

func (handler *ProfileHandler) ChangeNewsletter(ctx *gin.Context) {
	identity, ok := currentIdentity(ctx)
	if !ok {
		return
	}
	newsletterRequest := ctx.Value(utils.SanitizedPayloadKey.String()).(*schemas.ChangeNewsletterRequest)

	user, err := stores.NewUserStore(handler.DatabaseManager.GetPool()).Update(ctx, identity.UserID,
		stores.UserUpdate{Newsletter: newsletterRequest.Newsletter})
	if err != nil {
		writeError(ctx, err, profileErrors)
		return
	}

	utils.WriteAndLogResponse(ctx, &schemas.NewsletterDTO{Newsletter: user.Newsletter}, http.StatusOK)
}

// trimmedName trims a submitted name and drops it when nothing is left.
func trimmedName(name *string) *string {
	if name == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*name)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// ChangeName updates first and last name. Omitted or blank names are left as they are.
func (handler *ProfileHandler) ChangeName(ctx *gin.Context) {
	identity, ok := currentIdentity(ctx)
	if !ok {
		return
	}
	nameRequest := ctx.Value(utils.SanitizedPayloadKey.String()).(*schemas.ChangeNameRequest)

	update := stores.UserUpdate{
		FirstName: trimmedName(nameRequest.FirstName),
		LastName:  trimmedName(nameRequest.LastName),
	}
	if update.FirstName != nil && utf8.RuneCountInString(*update.FirstName) > maxNameLength {
		utils.WriteAndLogError(ctx, goerrors.FirstNameTooLong, errors.New("first name too long"))
		return
	}
	if update.LastName != nil && utf8.RuneCountInString(*update.LastName) > maxNameLength {
		utils.WriteAndLogError(ctx, goerrors.LastNameTooLong, errors.New("last name too long"))
		return
	}
	if update.FirstName == nil && update.LastName == nil {
		utils.WriteAndLogError(ctx, goerrors.NoFieldsProvided, errors.New("no name given"))
		return
	}

	user, err := stores.NewUserStore(handler.DatabaseManager.GetPool()).Update(ctx, identity.UserID, update)
	if err != nil {
		writeError(ctx, err, profileErrors)
		return
	}

	utils.WriteAndLogResponse(ctx, &schemas.NameDTO{FirstName: user.FirstName, LastName: user.LastName}, http.StatusOK)
}

// DeleteAccount removes the caller and everything the caller owns in one transaction.
// Tokens issued before stay valid until they expire, but resolve to no user.
func (handler *ProfileHandler) DeleteAccount(ctx *gin.Context) {
	identity, ok := currentIdentity(ctx)
	if !ok {
		return
	}

	err := utils.WithTransaction(ctx, handler.DatabaseManager.GetPool(), func(tx pgx.Tx) error {
		return stores.NewUserStore(tx).Delete(ctx, identity.UserID)
	})
	if err != nil {
		writeError(ctx, err, profileErrors)
		return
	}

	utils.LogMessageWithFields(ctx, "info", "Deleted user "+identity.Username)
	utils.WriteAndLogResponse(ctx, &schemas.MessageDTO{Message: "User and related data deleted"}, http.StatusOK)
}
