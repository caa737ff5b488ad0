package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	RoleAdmin   = "admin"
	RoleStaff   = "staff"
	roleRefresh = "refresh"

	issuer = "chalet-reservation-system"
)

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Authenticator signs and verifies HS256 tokens for staff accounts.
type Authenticator struct {
	secret        []byte
	tokenExpiry   time.Duration
	refreshExpiry time.Duration
	now           func() time.Time
}

func NewAuthenticator(secret string, tokenExpiry, refreshExpiry time.Duration) *Authenticator {
	return &Authenticator{
		secret:        []byte(secret),
		tokenExpiry:   tokenExpiry,
		refreshExpiry: refreshExpiry,
		now:           time.Now,
	}
}

// TokenExpiry is the lifetime of access tokens.
func (a *Authenticator) TokenExpiry() time.Duration {
	return a.tokenExpiry
}

func (a *Authenticator) sign(userID, role string, ttl time.Duration) (string, error) {
	now := a.now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// GenerateToken generates an access token for a staff user
func (a *Authenticator) GenerateToken(userID, role string) (string, error) {
	return a.sign(userID, role, a.tokenExpiry)
}

// GenerateRefreshToken generates a refresh token
func (a *Authenticator) GenerateRefreshToken(userID string) (string, error) {
	return a.sign(userID, roleRefresh, a.refreshExpiry)
}

// ValidateToken validates and parses a JWT token
func (a *Authenticator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(a.now))
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrInvalidToken
}

// IsRefresh reports whether claims belong to a refresh token.
func (c *Claims) IsRefresh() bool {
	return c.Role == roleRefresh
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": message})
}

// JWTAuthMiddleware validates the bearer token from the Authorization header
func (a *Authenticator) JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, http.StatusUnauthorized, "Authorization header required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			abort(c, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		claims, err := a.ValidateToken(parts[1])
		if err != nil {
			abort(c, http.StatusUnauthorized, "Invalid token")
			return
		}
		if claims.IsRefresh() {
			abort(c, http.StatusUnauthorized, "Refresh tokens cannot be used for API access")
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Set("claims", claims)

		c.Next()
	}
}

// RequireRole lets the request through only for the listed roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			abort(c, http.StatusForbidden, "No role information in token")
			return
		}

		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		abort(c, http.StatusForbidden, "Insufficient permissions")
	}
}
