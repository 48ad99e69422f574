package router

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/mamadbah2/flockreport/internal/domain/models"
	"github.com/mamadbah2/flockreport/internal/service/access"
)

// Claims is the bearer token payload. Subject carries the numeric user id.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// principalMiddleware authenticates the bearer token and stores the caller
// on the request context.
func principalMiddleware(secret []byte, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		principal, err := parsePrincipal(c.GetHeader("Authorization"), secret)
		if err != nil {
			logger.Debug("request rejected", zap.String("path", c.Request.URL.Path), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Request = c.Request.WithContext(access.WithPrincipal(c.Request.Context(), principal))
		c.Next()
	}
}

func parsePrincipal(header string, secret []byte) (models.Principal, error) {
	tokenString, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(tokenString) == "" {
		return models.Principal{}, errors.New("missing bearer token")
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(strings.TrimSpace(tokenString), claims, func(token *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return models.Principal{}, err
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return models.Principal{}, errors.New("token subject is not a user id")
	}

	return models.Principal{UserID: userID, Role: claims.Role}, nil
}
