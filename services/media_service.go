package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/sony/gobreaker"

	"household-help-server/config"
)

// ErrMediaNotConfigured is returned when no image host credentials are set
var ErrMediaNotConfigured = errors.New("image uploads are not configured")

// ImageUploader stores a profile image and returns its public URL
type ImageUploader interface {
	UploadProfileImage(ctx context.Context, userID uint, filename string, file io.Reader) (string, error)
}

// MediaService uploads worker images to Cloudinary behind a circuit breaker
type MediaService struct {
	cld *cloudinary.Cloudinary
	cb  *gobreaker.CircuitBreaker
}

// NewMediaService returns a service whose uploads fail with ErrMediaNotConfigured when credentials are missing
func NewMediaService(cfg config.CloudinaryConfig) (*MediaService, error) {
	service := &MediaService{cb: CircuitBreaker("cloudinary")}
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		log.Println("⚠️ Cloudinary environment variables not set, image uploads disabled")
		return service, nil
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	service.cld = cld
	return service, nil
}

func (m *MediaService) UploadProfileImage(ctx context.Context, userID uint, filename string, file io.Reader) (string, error) {
	if m.cld == nil {
		return "", ErrMediaNotConfigured
	}

	folder := fmt.Sprintf("workers/profile_photos/%d", userID)
	overwrite := true
	unique := true

	result, err := m.cb.Execute(func() (interface{}, error) {
		up, err := m.cld.Upload.Upload(ctx, file, uploader.UploadParams{
			Folder:         folder,
			PublicID:       strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)),
			Overwrite:      &overwrite,
			UniqueFilename: &unique,
			ResourceType:   "image",
		})
		if err != nil {
			return nil, err
		}
		if up.Error.Message != "" {
			return nil, errors.New(up.Error.Message)
		}
		return up.SecureURL, nil
	})
	if err != nil {
		log.Printf("❌ Profile photo upload failed for user %d: %v", userID, err)
		return "", err
	}

	log.Printf("✅ Profile photo uploaded for user %d", userID)
	return result.(string), nil
}

// CircuitBreaker trips after three consecutive failures and probes again after ten seconds
func CircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     10 * time.Second,
		Interval:    0,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 2
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Printf("⚡ Circuit breaker '%s' changed from '%s' to '%s'", name, from, to)
		},
	})
}
