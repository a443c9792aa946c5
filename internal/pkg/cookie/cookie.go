package cookie

import (
	"github.com/gin-gonic/gin"
)

// AccessTokenCookieName is where the identity provider places the JWT;
// this service only ever reads it.
const AccessTokenCookieName = "access_token"

func GetAccessToken(c *gin.Context) string {
	token, _ := c.Cookie(AccessTokenCookieName)
	return token
}
