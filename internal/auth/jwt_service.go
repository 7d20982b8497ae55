package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"cardealer/internal/model"
)

const (
	// TokenExpiry is the fixed validity window for bearer tokens.
	TokenExpiry = 24 * time.Hour

	// Issuer and Audience are fixed identifiers embedded in every token.
	Issuer   = "car-dealership-api"
	Audience = "car-dealership-api"
)

// Claims represents JWT claims carrying identity and role.
type Claims struct {
	UserID   uint           `json:"user_id"`
	Email    string         `json:"email"`
	FullName string         `json:"full_name"`
	Role     model.UserRole `json:"role"`
	jwt.RegisteredClaims
}

// JWTService mints and validates bearer tokens.
type JWTService struct {
	secret []byte
}

// NewJWTService creates a new JWT service with the given signing secret.
func NewJWTService(secret string) *JWTService {
	return &JWTService{secret: []byte(secret)}
}

// Issue generates a signed token for the user, valid for TokenExpiry.
func (s *JWTService) Issue(user *model.User) (token string, expiresAt time.Time, err error) {
	now := time.Now().UTC()
	expiresAt = now.Add(TokenExpiry)
	claims := &Claims{
		UserID:   user.ID,
		Email:    user.Email,
		FullName: user.FullName(),
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    Issuer,
			Audience:  jwt.ClaimStrings{Audience},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	return token, expiresAt, err
}

// Validate parses a token string and returns its claims.
func (s *JWTService) Validate(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}
