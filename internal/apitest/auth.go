package apitest

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const userIDKey = "user_id"

// Claims is the token payload: the user id and an expiry.
type Claims struct {
	jwt.RegisteredClaims
	UserID int64 `json:"user_id"`
}

var errInvalidToken = errors.New("invalid token")

func (s *Server) issueToken(userID int64) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: userID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *Server) parseToken(raw string) (int64, error) {
	token, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidToken
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, jwt.ErrTokenExpired
		}
		return 0, errInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == 0 {
		return 0, errInvalidToken
	}
	return claims.UserID, nil
}

// IssueToken signs a token for userID, for tests that need a session
// without going through login.
func (s *Server) IssueToken(userID int64) string {
	tok, err := s.issueToken(userID)
	if err != nil {
		panic(err)
	}
	return tok
}

// requireUser rejects requests without a valid bearer token. A missing
// header is 403, a bad token 401.
func (s *Server) requireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "Not authenticated"})
			return
		}
		userID, err := s.parseToken(raw)
		if err != nil {
			detail := "Invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				detail = "Token expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": detail})
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

func currentUser(c *gin.Context) int64 {
	return c.GetInt64(userIDKey)
}

func hashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
}

func verifyPassword(hash []byte, password string) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}

// AddUser creates an account directly and returns its id.
func (s *Server) AddUser(name, email, password string) int64 {
	hash, err := hashPassword(password)
	if err != nil {
		panic(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextUserID++
	s.accounts[email] = &account{id: s.nextUserID, name: name, email: email, passwordHash: hash}
	return s.nextUserID
}

func (s *Server) accountByID(id int64) *account {
	for _, a := range s.accounts {
		if a.id == id {
			return a
		}
	}
	return nil
}
