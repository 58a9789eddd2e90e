package utils

import (
	"code-atlas/internal/goerrors"
	"code-atlas/internal/schemas"

	"github.com/gin-gonic/gin"
)

// WriteAndLogResponse writes the response object as JSON with the provided status code.
func WriteAndLogResponse(ctx *gin.Context, response interface{}, statusCode int) {
	LogMessageWithFields(ctx, "info", "Returning response")
	ctx.JSON(statusCode, response)
}

// WriteAndLogError logs the underlying error and aborts the request with the client-facing error.
// Only the message of the custom error reaches the client.
func WriteAndLogError(ctx *gin.Context, customErr *goerrors.CustomError, err error) {
	level := "warn"
	if customErr.HttpStatus >= 500 {
		level = "error"
	}

	if err != nil {
		LogMessageWithFieldsAndError(ctx, level, "Error occurred", err)
	}
	LogMessageWithFields(ctx, level, "Returning "+customErr.Message)

	ctx.AbortWithStatusJSON(customErr.HttpStatus, &schemas.ErrorDTO{Error: customErr.Message})
}
