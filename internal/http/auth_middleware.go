package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"deepfake-guard/internal/service"
)

const currentUserKey = "auth_user_id"

// AuthRequired valida el token de sesión de la cookie y guarda el
// userID verificado en el contexto. Cada request se verifica de forma
// independiente; no hay estado de sesión en memoria.
func AuthRequired(tokens *service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokens == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Auth not configured"})
			c.Abort()
			return
		}

		token, err := c.Cookie(authCookieName)
		if err != nil || token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		userID, err := tokens.Verify(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		c.Set(currentUserKey, userID)
		c.Next()
	}
}

// CurrentUserID obtiene el userID verificado desde el contexto.
func CurrentUserID(c *gin.Context) (int64, bool) {
	val, ok := c.Get(currentUserKey)
	if !ok {
		return 0, false
	}
	userID, ok := val.(int64)
	return userID, ok
}
