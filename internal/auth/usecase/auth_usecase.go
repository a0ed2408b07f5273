package usecase

import (
	"errors"

	authdomain "mailboard-backend/internal/auth/domain"
	"mailboard-backend/internal/auth/repository"
	"mailboard-backend/pkg/config"

	"github.com/golang-jwt/jwt/v5"
)

// AuthUsecase validates bearer tokens issued by the session layer. Token
// issuance (Google OAuth code exchange) happens outside this service.
type AuthUsecase interface {
	ValidateToken(tokenString string) (*authdomain.User, error)
}

// authUsecase implements AuthUsecase interface
type authUsecase struct {
	userRepo repository.UserRepository
	config   *config.Config
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(userRepo repository.UserRepository, cfg *config.Config) AuthUsecase {
	return &authUsecase{
		userRepo: userRepo,
		config:   cfg,
	}
}

func (u *authUsecase) ValidateToken(tokenString string) (*authdomain.User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(u.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	userID, ok := claims["sub"].(string)
	if !ok || userID == "" {
		return nil, errors.New("invalid token subject")
	}

	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}

	return user, nil
}
