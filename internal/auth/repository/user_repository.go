package repository

import (
	"errors"
	"time"

	authdomain "mailboard-backend/internal/auth/domain"

	"gorm.io/gorm"
)

// UserRepository provides lookup of users and their stored provider tokens.
type UserRepository interface {
	FindByID(id string) (*authdomain.User, error)
	FindByEmail(email string) (*authdomain.User, error)
	// UpdateTokens persists a refreshed provider token pair.
	UpdateTokens(userID, accessToken, refreshToken string, expiry time.Time) error
}

// userRepository implements UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of userRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{
		db: db,
	}
}

func (r *userRepository) FindByID(id string) (*authdomain.User, error) {
	var user authdomain.User
	err := r.db.Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(email string) (*authdomain.User, error) {
	var user authdomain.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) UpdateTokens(userID, accessToken, refreshToken string, expiry time.Time) error {
	updates := map[string]interface{}{
		"access_token": accessToken,
		"token_expiry": expiry,
		"updated_at":   time.Now(),
	}
	// A refresh response may omit the refresh token; keep the stored one.
	if refreshToken != "" {
		updates["refresh_token"] = refreshToken
	}
	return r.db.Model(&authdomain.User{}).Where("id = ?", userID).Updates(updates).Error
}
