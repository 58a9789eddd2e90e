// Package handlers implements the handlers for the different routes of the server to handle the incoming HTTP requests.
package handlers

import (
	"errors"
	"strconv"

	"code-atlas/internal/goerrors"
	"code-atlas/internal/schemas"
	"code-atlas/internal/stores"
	"code-atlas/internal/utils"

	"github.com/gin-gonic/gin"
)

// errorMapping translates store sentinels into client errors for one operation.
type errorMapping map[error]*goerrors.CustomError

// writeError answers with the client error matching err. Errors without a mapping are logged and answered
// with a generic 500.
func writeError(ctx *gin.Context, err error, mapping errorMapping) {
	var customErr *goerrors.CustomError
	if errors.As(err, &customErr) {
		utils.WriteAndLogError(ctx, customErr, nil)
		return
	}

	for sentinel, mapped := range mapping {
		if errors.Is(err, sentinel) {
			utils.WriteAndLogError(ctx, mapped, err)
			return
		}
	}

	// A valid token may outlive its account.
	if errors.Is(err, stores.ErrUserNotFound) {
		utils.WriteAndLogError(ctx, goerrors.UserNotFound, err)
		return
	}

	utils.WriteAndLogError(ctx, goerrors.DatabaseError, err)
}

// currentIdentity returns the caller resolved by the session middleware.
func currentIdentity(ctx *gin.Context) (schemas.Identity, bool) {
	identity, ok := utils.GetIdentity(ctx)
	if !ok {
		utils.WriteAndLogError(ctx, goerrors.MissingToken, errors.New("no identity in context"))
	}
	return identity, ok
}

// parseLanguageId parses a positive language id.
func parseLanguageId(raw string) (int, bool) {
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
