package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go-gin-seat-reservation/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"

	RoleUser  = "user"
	RoleAdmin = "admin"
)

var errInvalidSubject = errors.New("invalid subject claim")

// Auth 驗證 Bearer access token，把 sub 與 role 放進 gin context
func Auth(secret string) gin.HandlerFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing bearer token"})
			return
		}
		raw := strings.TrimPrefix(header, "Bearer ")

		claims := jwt.MapClaims{}
		tok, err := parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		})
		if err != nil || !tok.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		userID, err := subjectID(claims)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		role, _ := claims["role"].(string)
		if role == "" {
			role = RoleUser
		}

		c.Set(ContextUserID, userID)
		c.Set(ContextRole, role)
		c.Next()
	}
}

// RequireRole 必須放在 Auth 之後
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextRole) != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		c.Next()
	}
}

// CurrentUserID 回傳 Auth 放入的使用者 ID
func CurrentUserID(c *gin.Context) (int, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int)
	return id, ok
}

// CurrentActor admin 視為特權身分
func CurrentActor(c *gin.Context) model.Actor {
	id, _ := CurrentUserID(c)
	return model.Actor{UserID: id, Privileged: c.GetString(ContextRole) == RoleAdmin}
}

// NewAccessToken 簽發 HS256 access token，sub 為使用者 ID
func NewAccessToken(secret string, userID int, role string, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":  strconv.Itoa(userID),
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// sub 可能是字串或數字
func subjectID(claims jwt.MapClaims) (int, error) {
	var id int
	switch v := claims["sub"].(type) {
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, errInvalidSubject
		}
		id = n
	case float64:
		id = int(v)
	default:
		return 0, errInvalidSubject
	}
	if id <= 0 {
		return 0, errInvalidSubject
	}
	return id, nil
}
