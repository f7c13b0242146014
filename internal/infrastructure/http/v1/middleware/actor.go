package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	appctx "milkledger/internal/core/context"
)

// HeaderActor names the user on whose behalf the request runs. Authentication
// happens in front of this service; the header is trusted as given.
const HeaderActor = "X-Actor"

// Actor stores the caller identity in the request context. Requests without
// the header run as the system actor.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if actor := strings.TrimSpace(c.GetHeader(HeaderActor)); actor != "" {
			c.Request = c.Request.WithContext(appctx.WithActor(c.Request.Context(), actor))
			c.Set("actor", actor)
		}
		c.Next()
	}
}
