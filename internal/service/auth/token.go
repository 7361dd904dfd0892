package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mukwano/agrotrack/internal/domain/models"
)

// Claims is the JWT payload carried by every authenticated request.
type Claims struct {
	Username string  `json:"username"`
	Role     string  `json:"role"`
	Branch   *string `json:"branch,omitempty"`
	jwt.RegisteredClaims
}

// IssueToken signs an HS256 token for the given user.
func IssueToken(secret string, user models.User, ttl time.Duration) (string, error) {
	claims := &Claims{
		Username: user.Username,
		Role:     string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.Hex(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	if user.Branch != nil {
		branch := string(*user.Branch)
		claims.Branch = &branch
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// VerifyToken parses and validates a bearer token, returning the caller it
// represents.
func VerifyToken(secret, tokenStr string) (models.Caller, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return models.Caller{}, fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return models.Caller{}, fmt.Errorf("unexpected token claims")
	}

	role, ok := models.ParseRole(claims.Role)
	if !ok {
		return models.Caller{}, fmt.Errorf("unknown role in token")
	}

	caller := models.Caller{
		ID:       claims.Subject,
		Username: claims.Username,
		Role:     role,
	}
	if claims.Branch != nil {
		if branch, ok := models.ParseBranch(*claims.Branch); ok {
			caller.Branch = &branch
		}
	}
	return caller, nil
}
