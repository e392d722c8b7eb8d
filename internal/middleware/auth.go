package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var (
	errMissingHeader = errors.New("authorization header missing")
	errHeaderFormat  = errors.New("authorization header is not a bearer token")
	errMissingClaims = errors.New("token has no subject")
)

// AuthMiddleware creates a Gin middleware handler that validates HS256 bearer
// tokens and stores the token subject as the caller's account ID.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	key := []byte(jwtSecret)
	return func(c *gin.Context) {
		logger := GetLoggerFromCtx(c.Request.Context())

		userID, err := subjectFromHeader(c.GetHeader("Authorization"), key)
		if err != nil {
			logger.Warn("Rejected request", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": authErrorMessage(err)})
			return
		}

		// Store the user ID and a logger carrying it in the request context
		ctx := WithUserID(c.Request.Context(), userID)
		ctx = WithLogger(ctx, logger.With(slog.String("user_id", userID)))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// subjectFromHeader parses "Bearer <token>" and returns the token subject.
func subjectFromHeader(header string, key []byte) (string, error) {
	if header == "" {
		return "", errMissingHeader
	}
	scheme, tokenString, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") || tokenString == "" || strings.Contains(tokenString, " ") {
		return "", errHeaderFormat
	}

	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return key, nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid || claims.Subject == "" {
		return "", errMissingClaims
	}
	return claims.Subject, nil
}

func authErrorMessage(err error) string {
	switch {
	case errors.Is(err, errMissingHeader):
		return "Authorization header required"
	case errors.Is(err, errHeaderFormat):
		return "Authorization header format must be Bearer {token}"
	case errors.Is(err, errMissingClaims):
		return "Invalid token claims"
	case errors.Is(err, jwt.ErrTokenExpired):
		return "Token has expired"
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return "Token not valid yet"
	}
	return "Invalid token"
}
