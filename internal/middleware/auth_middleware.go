package middleware

import (
	"errors"
	"fmt"
	"strings"

	autherrors "go-hris-leave/internal/auth/errors"
	"go-hris-leave/internal/shared/apperror"
	"go-hris-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware validates the bearer token (or access_token cookie) and
// stores user_id, employee_id and role on the gin context.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}

		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}

		if tokenString == "" {
			abortWithAppError(c, autherrors.ErrInvalidToken, "Token not found")
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		})

		if err != nil || !token.Valid {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortWithAppError(c, autherrors.ErrTokenExpired, "")
				return
			}
			abortWithAppError(c, autherrors.ErrInvalidToken, "")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			abortWithAppError(c, autherrors.ErrInvalidToken, "Invalid token claims")
			return
		}

		if t, _ := claims["token_type"].(string); t == "refresh" {
			abortWithAppError(c, autherrors.ErrInvalidToken, "Refresh token cannot be used for access")
			return
		}

		userID, ok := claims["user_id"].(string)
		if !ok || userID == "" {
			abortWithAppError(c, autherrors.ErrInvalidToken, "User ID not found in token")
			return
		}

		role, ok := claims["role"].(string)
		if !ok || role == "" {
			abortWithAppError(c, autherrors.ErrInvalidToken, "Role not found in token")
			return
		}

		// Users without an employee record (service accounts) carry no employee_id.
		employeeID, _ := claims["employee_id"].(string)

		c.Set("user_id", userID)
		c.Set("user_id_validated", userID)
		c.Set("employee_id", employeeID)
		c.Set("role", role)

		c.Next()
	}
}

func abortWithAppError(c *gin.Context, err *apperror.AppError, message string) {
	if message == "" {
		message = err.Message
	}
	response.Error(c, err.HTTPStatus, err.Code, message, nil)
	c.Abort()
}
