package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"roomchat/backend/internal/apperrors"
	"roomchat/backend/internal/models"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
)

const principalKey = "principal"

// Claims is the JWT payload issued by /auth/token.
type Claims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 access tokens.
type TokenIssuer struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret, issuer string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: []byte(secret), issuer: issuer, ttl: ttl, now: time.Now}
}

// Issue returns a signed token for the user and its expiry.
func (t *TokenIssuer) Issue(userID int64) (string, time.Time, error) {
	now := t.now()
	expires := now.Add(t.ttl)
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   fmt.Sprintf("%d", userID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	return signed, expires, err
}

// Parse verifies the token and returns the user it was issued for.
func (t *TokenIssuer) Parse(tokenString string) (int64, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	}, jwt.WithIssuer(t.issuer), jwt.WithExpirationRequired(), jwt.WithTimeFunc(t.now))
	if err != nil {
		return 0, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID <= 0 {
		return 0, fmt.Errorf("invalid token claims")
	}
	return claims.UserID, nil
}

type tokenRequest struct {
	UserID int64 `json:"user_id" binding:"required,gt=0"`
}

// IssueToken hands out a token for an existing active user without any
// credential. It stands in for the platform's identity service during local
// development and is only mounted when Handler.DevTokens is set.
func (h *Handler) IssueToken(c *gin.Context) {
	var req tokenRequest
	if !bindJSON(c, &req) {
		return
	}

	users, err := h.Users.GetUsersByIDs(c.Request.Context(), []int64{req.UserID})
	if err != nil {
		respondError(c, err)
		return
	}
	if u, ok := users[req.UserID]; !ok || !u.IsActive {
		respondError(c, apperrors.NotFound("user"))
		return
	}

	token, expires, err := h.Tokens.Issue(req.UserID)
	if err != nil {
		respondError(c, apperrors.Internal("failed to sign token", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user_id": req.UserID, "expires_at": expires.UTC()})
}

// RequireAuth resolves the caller from a Bearer token. Browsers cannot set
// headers on a WebSocket handshake, so a token query parameter is accepted too.
func (h *Handler) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := c.Query("token")
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "UNAUTHORIZED", "message": "invalid authorization header format"})
				return
			}
			tokenString = parts[1]
		}
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "UNAUTHORIZED", "message": "authorization token missing"})
			return
		}

		userID, err := h.Tokens.Parse(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "UNAUTHORIZED", "message": "invalid or expired token"})
			return
		}

		c.Set(principalKey, models.Principal{UserID: userID})
		c.Next()
	}
}

func principal(c *gin.Context) models.Principal {
	p, _ := c.Get(principalKey)
	principal, _ := p.(models.Principal)
	return principal
}
