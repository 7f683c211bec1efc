package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dishcraft/backend/internal/apperr"
	"github.com/dishcraft/backend/internal/model"
)

// UserKey is the gin context key the auth middleware stores the resolved
// user under.
const UserKey = "user"

// BearerToken extracts the credential from the Authorization header. The
// legacy mobile client sends the raw token without a scheme, so the Bearer
// prefix is optional.
func BearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	if token, found := strings.CutPrefix(header, "Bearer "); found {
		return strings.TrimSpace(token)
	}
	return strings.TrimSpace(header)
}

// RequireUser aborts with 401 unless the request carries a verifiable
// credential, and stores the resolved user in the context.
func RequireUser(resolve func(ctx context.Context, token string) (*model.User, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized: Missing token"})
			c.Abort()
			return
		}

		user, err := resolve(c.Request.Context(), token)
		if err != nil {
			c.JSON(apperr.HTTPStatus(err), gin.H{"message": apperr.Message(err)})
			c.Abort()
			return
		}

		c.Set(UserKey, user)
		c.Next()
	}
}

// UserFrom fetches the user stored by RequireUser.
func UserFrom(c *gin.Context) (*model.User, bool) {
	val, ok := c.Get(UserKey)
	if !ok {
		return nil, false
	}
	user, ok := val.(*model.User)
	return user, ok
}
