package middleware

import (
	"code-atlas/internal/goerrors"
	"code-atlas/internal/utils"

	"github.com/gin-gonic/gin"
)

// validationErrorer is implemented by payloads that report a specific error when binding or validation fails.
type validationErrorer interface {
	ValidationError() *goerrors.CustomError
}

// ValidatePayload binds the JSON body into a fresh T, validates it and stores it under SanitizedPayloadKey.
func ValidatePayload[T any]() gin.HandlerFunc {
	return func(c *gin.Context) {
		payload := new(T)

		customErr := goerrors.BadRequest
		if v, ok := any(payload).(validationErrorer); ok {
			customErr = v.ValidationError()
		}

		if err := c.ShouldBindJSON(payload); err != nil {
			utils.WriteAndLogError(c, customErr, err)
			return
		}

		if err := utils.GetValidator().Validate.Struct(payload); err != nil {
			utils.WriteAndLogError(c, customErr, err)
			return
		}

		c.Set(utils.SanitizedPayloadKey.String(), payload)
		c.Next()
	}
}
