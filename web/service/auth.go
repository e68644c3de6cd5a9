package service

import (
	"time"

	"blogapi/database"
	"blogapi/database/model"
	"blogapi/util/crypto"
	"blogapi/util/random"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

const tokenLifetime = 72 * time.Hour

// AuthService verifies credentials and issues bearer tokens. Session cookies
// and bearer tokens are both accepted by the auth middleware; the token is a
// convenience for non-browser clients.
type AuthService struct {
	DB        *gorm.DB
	JWTSecret []byte
}

func NewAuthService(jwtSecret string) *AuthService {
	if jwtSecret == "" {
		jwtSecret = random.Seq(32)
	}
	return &AuthService{
		DB:        database.GetDB(),
		JWTSecret: []byte(jwtSecret),
	}
}

// Login checks the credentials and returns a signed token plus the account.
func (s *AuthService) Login(email, rawPassword string) (string, *model.User, error) {
	var user model.User
	if err := s.DB.Where("email = ?", email).First(&user).Error; err != nil {
		if database.IsNotFound(err) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if !crypto.CheckPasswordHash(user.Password, rawPassword) {
		return "", nil, ErrInvalidCredentials
	}

	claims := jwt.MapClaims{
		"id":    user.Id,
		"email": user.Email,
		"exp":   time.Now().Add(tokenLifetime).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.JWTSecret)
	if err != nil {
		return "", nil, err
	}
	return token, &user, nil
}

// ValidateToken parses a bearer token and loads the current account state.
// Roles are read from the store, not the claims, so a promotion takes effect
// on the next request.
func (s *AuthService) ValidateToken(tokenString string) (*model.User, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.JWTSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidCredentials
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidCredentials
	}
	id, ok := claims["id"].(float64)
	if !ok {
		return nil, ErrInvalidCredentials
	}

	var user model.User
	if err := s.DB.First(&user, int(id)).Error; err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}
