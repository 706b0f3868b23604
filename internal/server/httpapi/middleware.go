package httpapi

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/kaffeekasse/internal/server/auth"
	"github.com/gin-gonic/gin"
)

const accountIDKey = "accountID"

// accessTokenMiddleware validates the bearer token and stores the account ID
// in the request context for the handlers downstream.
func (s *Server) accessTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		accountID, err := auth.GetAccountIDFromToken(token, s.jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(accountIDKey, accountID)
		c.Next()
	}
}

// adminOnlyMiddleware rejects callers whose account is not flagged as admin.
// Runs after accessTokenMiddleware.
func (s *Server) adminOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		account, err := s.users.GetAccount(c.Request.Context(), c.GetString(accountIDKey))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown account"})
			return
		}
		if !account.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin only"})
			return
		}
		c.Next()
	}
}
