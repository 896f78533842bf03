package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"household-help-server/database"
	"household-help-server/models"
	"household-help-server/utils"
)

// SignUpRequest represents the registration request
type SignUpRequest struct {
	Name     string  `json:"name" binding:"required"`
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=6"`
	Phone    *string `json:"phone"`
}

// SignInRequest represents the sign in request
type SignInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthService registers and authenticates users
type AuthService struct {
	db  *gorm.DB
	jwt *JWTService
}

// NewAuthService creates a new auth service
func NewAuthService(db *gorm.DB, jwt *JWTService) *AuthService {
	return &AuthService{db: db, jwt: jwt}
}

// SignUp creates a user account with the default role and returns a fresh token pair
func (s *AuthService) SignUp(ctx context.Context, req SignUpRequest, userAgent, ipAddress string) (*models.User, *TokenPair, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	email := utils.NormalizeEmail(req.Email)
	if !utils.ValidateEmail(email) {
		return nil, nil, fmt.Errorf("%w: invalid email address", ErrValidation)
	}
	if len(req.Password) < 6 {
		return nil, nil, fmt.Errorf("%w: password must be at least 6 characters", ErrValidation)
	}

	var phone *string
	if req.Phone != nil && strings.TrimSpace(*req.Phone) != "" {
		formatted := utils.FormatPhoneNumber(*req.Phone)
		if !utils.ValidatePhoneNumber(formatted) {
			return nil, nil, fmt.Errorf("%w: phone number must be a 10-digit mobile number", ErrValidation)
		}
		phone = &formatted
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, nil, err
	}

	user := models.User{
		Name:         name,
		Email:        email,
		Phone:        phone,
		PasswordHash: hashedPassword,
		Role:         models.RoleUser,
		IsActive:     true,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, nil, fmt.Errorf("%w: a user with this email already exists", ErrConflict)
		}
		return nil, nil, err
	}

	tokens, err := s.jwt.GenerateTokenPair(ctx, &user, userAgent, ipAddress)
	if err != nil {
		return nil, nil, err
	}

	log.Printf("✅ User %d registered", user.ID)
	return &user, tokens, nil
}

// SignIn verifies credentials and returns a fresh token pair
func (s *AuthService) SignIn(ctx context.Context, req SignInRequest, userAgent, ipAddress string) (*models.User, *TokenPair, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", utils.NormalizeEmail(req.Email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, fmt.Errorf("%w: invalid email or password", ErrUnauthenticated)
		}
		return nil, nil, err
	}
	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, nil, fmt.Errorf("%w: invalid email or password", ErrUnauthenticated)
	}
	if !user.IsActive {
		return nil, nil, fmt.Errorf("%w: account is deactivated", ErrUnauthorized)
	}

	tokens, err := s.jwt.GenerateTokenPair(ctx, &user, userAgent, ipAddress)
	if err != nil {
		return nil, nil, err
	}
	return &user, tokens, nil
}

// GetUser loads a user by ID
func (s *AuthService) GetUser(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return nil, err
	}
	return &user, nil
}
