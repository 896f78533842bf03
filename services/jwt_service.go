package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"household-help-server/config"
	"household-help-server/models"
	"household-help-server/types"
)

const tokenIssuer = "household-help-server"

var (
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrInvalidRefreshToken = errors.New("refresh token is invalid or expired")
)

// JWTService handles JWT token operations
type JWTService struct {
	db  *gorm.DB
	cfg config.JWTConfig
}

// NewJWTService creates a new JWT service
func NewJWTService(db *gorm.DB, cfg config.JWTConfig) *JWTService {
	return &JWTService{db: db, cfg: cfg}
}

// TokenPair represents a pair of access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// GenerateTokenPair generates both access and refresh tokens
func (js *JWTService) GenerateTokenPair(ctx context.Context, user *models.User, userAgent, ipAddress string) (*TokenPair, error) {
	accessToken, expiresIn, err := js.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := js.generateRefreshToken(ctx, user.ID, userAgent, ipAddress)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
		TokenType:    "Bearer",
	}, nil
}

func (js *JWTService) generateAccessToken(user *models.User) (string, int64, error) {
	now := time.Now()
	expiry := time.Duration(js.cfg.ExpiryHours) * time.Hour
	claims := &types.Claims{
		UserID: user.ID,
		Role:   string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(js.cfg.Secret))
	if err != nil {
		return "", 0, err
	}
	return tokenString, int64(expiry.Seconds()), nil
}

func (js *JWTService) generateRefreshToken(ctx context.Context, userID uint, userAgent, ipAddress string) (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}
	tokenString := hex.EncodeToString(tokenBytes)

	refreshToken := &models.RefreshToken{
		Token:     tokenString,
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Duration(js.cfg.RefreshExpiryDays) * 24 * time.Hour),
		UserAgent: userAgent,
		IPAddress: ipAddress,
	}
	if err := js.db.WithContext(ctx).Create(refreshToken).Error; err != nil {
		return "", err
	}
	return tokenString, nil
}

// ValidateAccessToken parses and verifies an access token
func (js *JWTService) ValidateAccessToken(tokenString string) (*types.Claims, error) {
	return ParseAccessToken(tokenString, js.cfg.Secret)
}

// ParseAccessToken verifies an HS256 token signed with secret
func ParseAccessToken(tokenString, secret string) (*types.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &types.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*types.Claims)
	if !ok || !token.Valid || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// RefreshAccessToken issues a new access token for a valid refresh token, keeping the refresh token
func (js *JWTService) RefreshAccessToken(ctx context.Context, refreshTokenString string) (*TokenPair, error) {
	var refreshToken models.RefreshToken
	if err := js.db.WithContext(ctx).Where("token = ?", refreshTokenString).First(&refreshToken).Error; err != nil {
		return nil, ErrInvalidRefreshToken
	}
	if !refreshToken.IsValid() {
		return nil, ErrInvalidRefreshToken
	}

	var user models.User
	if err := js.db.WithContext(ctx).First(&user, refreshToken.UserID).Error; err != nil || !user.IsActive {
		return nil, ErrInvalidRefreshToken
	}

	accessToken, expiresIn, err := js.generateAccessToken(&user)
	if err != nil {
		return nil, err
	}

	js.db.WithContext(ctx).Model(&refreshToken).Update("updated_at", time.Now())

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshTokenString,
		ExpiresIn:    expiresIn,
		TokenType:    "Bearer",
	}, nil
}

// RevokeRefreshToken revokes a refresh token
func (js *JWTService) RevokeRefreshToken(ctx context.Context, tokenString string) error {
	var refreshToken models.RefreshToken
	if err := js.db.WithContext(ctx).Where("token = ?", tokenString).First(&refreshToken).Error; err != nil {
		return ErrInvalidRefreshToken
	}

	refreshToken.Revoke()
	if err := js.db.WithContext(ctx).Save(&refreshToken).Error; err != nil {
		return err
	}

	log.Printf("✅ Refresh token revoked for user %d", refreshToken.UserID)
	return nil
}

// CleanupExpiredTokens removes expired refresh tokens and reports how many were deleted
func (js *JWTService) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	result := js.db.WithContext(ctx).Where("expires_at < ?", time.Now()).Delete(&models.RefreshToken{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
