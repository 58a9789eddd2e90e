package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"
	"unicode/utf8"

	"code-atlas/internal/goerrors"
	"code-atlas/internal/managers"
	"code-atlas/internal/schemas"
	"code-atlas/internal/stores"
	"code-atlas/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	maxEmailLength = 64
	maxNameLength  = 15
	minAge         = 18
	maxAge         = 100
)

// UserHdl handles registration and login.
type UserHdl interface {
	RegisterUser(ctx *gin.Context)
	LoginUser(ctx *gin.Context)
}

type UserHandler struct {
	DatabaseManager managers.DatabaseMgr
	JWTManager      managers.JWTMgr
	MetricsManager  managers.MetricsMgr
	Validator       *utils.Validator
	now             func() time.Time
}

func NewUserHandler(databaseManager *managers.DatabaseMgr, jwtManager *managers.JWTMgr, metricsManager *managers.MetricsMgr) UserHdl {
	return &UserHandler{
		DatabaseManager: *databaseManager,
		JWTManager:      *jwtManager,
		MetricsManager:  *metricsManager,
		Validator:       utils.GetValidator(),
		now:             time.Now,
	}
}

// userLookup is the part of the credential store consulted while validating a registration.
type userLookup interface {
	FindByEmail(ctx context.Context, email string) (*schemas.User, error)
	FindByUsername(ctx context.Context, username string) (*schemas.User, error)
}

// checkUnused turns the error of a lookup into the given conflict when the lookup found something.
func checkUnused(err error, conflict *goerrors.CustomError) error {
	if err == nil {
		return conflict
	}
	if errors.Is(err, stores.ErrNotFound) {
		return nil
	}
	return err
}

// parseBirthDate accepts a plain date or an RFC 3339 timestamp and keeps the calendar date.
func parseBirthDate(value string) (time.Time, bool) {
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// validateRegistration runs the registration checks in their fixed order and stops at the first failure.
// The lookups are advisory, the unique constraints decide races at insert time.
func (handler *UserHandler) validateRegistration(ctx context.Context, users userLookup, req *schemas.RegistrationRequest) (time.Time, error) {
	if req.Username == "" || req.Password == "" {
		return time.Time{}, goerrors.UsernamePasswordRequired
	}

	if !handler.Validator.VerifyEmail(req.Email) {
		return time.Time{}, goerrors.EmailInvalid
	}
	if utf8.RuneCountInString(req.Email) > maxEmailLength {
		return time.Time{}, goerrors.EmailTooLong
	}
	_, err := users.FindByEmail(ctx, req.Email)
	if err := checkUnused(err, goerrors.EmailTaken); err != nil {
		return time.Time{}, err
	}

	if req.BirthDate == "" {
		return time.Time{}, goerrors.BirthDateRequired
	}
	birthDate, ok := parseBirthDate(req.BirthDate)
	if !ok {
		return time.Time{}, goerrors.BirthDateInvalid
	}
	now := handler.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if birthDate.Before(today.AddDate(-maxAge, 0, 0)) || birthDate.After(today.AddDate(-minAge, 0, 0)) {
		return time.Time{}, goerrors.AgeOutOfRange
	}

	if utf8.RuneCountInString(req.FirstName) > maxNameLength || utf8.RuneCountInString(req.LastName) > maxNameLength {
		return time.Time{}, goerrors.NameTooLong
	}

	if err := handler.Validator.Validate.Var(req.Username, "min=3,max=15"); err != nil {
		return time.Time{}, goerrors.UsernameLength
	}
	_, err = users.FindByUsername(ctx, req.Username)
	if err := checkUnused(err, goerrors.UsernameTaken); err != nil {
		return time.Time{}, err
	}

	if err := handler.Validator.Validate.Var(req.Password, "min=8,password_validation"); err != nil {
		return time.Time{}, goerrors.PasswordPolicy
	}
	if err := handler.Validator.Validate.Var(req.Password, "max=20"); err != nil {
		return time.Time{}, goerrors.PasswordTooLong
	}

	return birthDate, nil
}

// RegisterUser validates the registration, stores the user and answers with a session for the new account.
func (handler *UserHandler) RegisterUser(ctx *gin.Context) {
	registrationRequest := ctx.Value(utils.SanitizedPayloadKey.String()).(*schemas.RegistrationRequest)

	userStore := stores.NewUserStore(handler.DatabaseManager.GetPool())

	birthDate, err := handler.validateRegistration(ctx, userStore, registrationRequest)
	if err != nil {
		handler.MetricsManager.RecordAuthAttempt("register", "rejected")
		writeError(ctx, err, nil)
		return
	}

	passwordHash, err := stores.HashPassword(registrationRequest.Password)
	if err != nil {
		writeError(ctx, err, nil)
		return
	}

	user, err := userStore.Create(ctx, &schemas.User{
		ID:           uuid.New(),
		Username:     registrationRequest.Username,
		Email:        registrationRequest.Email,
		PasswordHash: passwordHash,
		FirstName:    registrationRequest.FirstName,
		LastName:     registrationRequest.LastName,
		BirthDate:    birthDate,
		Newsletter:   registrationRequest.Newsletter,
	})
	if err != nil {
		handler.MetricsManager.RecordAuthAttempt("register", "rejected")
		writeError(ctx, err, errorMapping{
			stores.ErrUsernameTaken: goerrors.UsernameTaken,
			stores.ErrEmailTaken:    goerrors.EmailTaken,
		})
		return
	}

	token, err := handler.JWTManager.GenerateJWT(user.ID, user.Username)
	if err != nil {
		writeError(ctx, err, nil)
		return
	}

	handler.MetricsManager.RecordAuthAttempt("register", "success")
	utils.LogMessageWithFields(ctx, "info", "Registered user "+user.Username)
	utils.WriteAndLogResponse(ctx, utils.CreateSessionDto(user, token), http.StatusCreated)
}

// LoginUser checks the credentials and answers with a new session. Unknown users and wrong passwords are
// indistinguishable for the caller.
func (handler *UserHandler) LoginUser(ctx *gin.Context) {
	loginRequest := ctx.Value(utils.SanitizedPayloadKey.String()).(*schemas.LoginRequest)

	user, err := stores.NewUserStore(handler.DatabaseManager.GetPool()).FindByUsername(ctx, loginRequest.Username)
	if err != nil && !errors.Is(err, stores.ErrNotFound) {
		writeError(ctx, err, nil)
		return
	}

	if !stores.VerifyPassword(user, loginRequest.Password) {
		handler.MetricsManager.RecordAuthAttempt("login", "rejected")
		utils.WriteAndLogError(ctx, goerrors.InvalidCredentials, errors.New("login failed for "+loginRequest.Username))
		return
	}

	token, err := handler.JWTManager.GenerateJWT(user.ID, user.Username)
	if err != nil {
		writeError(ctx, err, nil)
		return
	}

	handler.MetricsManager.RecordAuthAttempt("login", "success")
	utils.WriteAndLogResponse(ctx, utils.CreateSessionDto(user, token), http.StatusOK)
}
