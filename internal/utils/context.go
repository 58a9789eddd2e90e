package utils

import (
	"context"

	"code-atlas/internal/schemas"

	"github.com/gin-gonic/gin"
)

// contextKey is a type used for context keys to avoid conflicts with other packages' context keys.
type contextKey struct {
	name string
}

// Returns string representation of the context key.
// gin stores request values by string, so the keys are always used through String().
func (c *contextKey) String() string {
	return c.name
}

var TraceIdKey = &contextKey{"traceId"}
var SanitizedPayloadKey = &contextKey{"sanitizedPayload"}

// IdentityKey holds the schemas.Identity resolved by the session middleware.
var IdentityKey = &contextKey{"identity"}

// SetIdentity attaches the authenticated caller to the request. It is only called by the session middleware.
func SetIdentity(c *gin.Context, identity schemas.Identity) {
	c.Set(IdentityKey.String(), identity)
}

// GetIdentity returns the authenticated caller, if any. The identity is a value, so handlers cannot alter it.
func GetIdentity(ctx context.Context) (schemas.Identity, bool) {
	identity, ok := ctx.Value(IdentityKey.String()).(schemas.Identity)
	return identity, ok
}
