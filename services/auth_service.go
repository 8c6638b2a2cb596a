package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/DipakKumarChauhan/foodie-eyes/models"
	"github.com/DipakKumarChauhan/foodie-eyes/util"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("an account with this email already exists")
)

// AuthService handles registration and login against the local user
// table, issuing JWTs on success.
type AuthService struct {
	db           *gorm.DB
	jwtSecretKey []byte
}

func NewAuthService(db *gorm.DB, jwtSecretKey []byte) *AuthService {
	return &AuthService{db: db, jwtSecretKey: jwtSecretKey}
}

// Register creates a user with a bcrypt-hashed password and returns the
// user plus a fresh token.
func (a *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var existing models.User
	err := a.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error
	if err == nil {
		return nil, "", ErrEmailTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", err
	}

	hash, err := util.HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	user := models.User{Name: name, Email: email, Password: hash}
	if err := a.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, "", err
	}

	token, err := util.GenerateJWT(user.ID, user.Email, a.jwtSecretKey)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

// Login verifies credentials and returns the user plus a token.
func (a *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	if err := a.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !util.CheckPasswordHash(password, user.Password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(user.ID, user.Email, a.jwtSecretKey)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}
