package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"household-help-server/database"
	"household-help-server/models"
)

// WorkerFilter narrows the public directory listing
type WorkerFilter struct {
	City      string
	Category  string
	MinRating *float64
}

// WorkerSearch is the free-text directory search. Zero values are not applied.
type WorkerSearch struct {
	Term      string
	City      string
	Category  string
	MinRating float64
	MaxRate   float64
}

// WorkerService owns worker profiles and the public directory
type WorkerService struct {
	db    *gorm.DB
	cache WorkerCache
}

// NewWorkerService creates a new worker service. cache may be nil.
func NewWorkerService(db *gorm.DB, cache WorkerCache) *WorkerService {
	return &WorkerService{db: db, cache: cache}
}

// GetAllWorkers lists verified, active workers, optionally narrowed by exact city, category and minimum rating
func (s *WorkerService) GetAllWorkers(ctx context.Context, filter WorkerFilter) ([]models.Worker, error) {
	var category models.ServiceCategory
	if filter.Category != "" {
		parsed, err := models.ParseServiceCategory(filter.Category)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		category = parsed
	}

	minRating := ""
	if filter.MinRating != nil {
		minRating = fmt.Sprintf("%g", *filter.MinRating)
	}
	cacheKey := fmt.Sprintf("all:city=%s|category=%s|min_rating=%s", filter.City, category, minRating)
	cached, resolvedKey, ok := s.cachedWorkers(ctx, cacheKey)
	if ok {
		return cached, nil
	}

	query := s.searchableWorkers(ctx)
	if filter.City != "" {
		query = query.Where("city = ?", filter.City)
	}

	var workers []models.Worker
	if err := query.Order("id").Find(&workers).Error; err != nil {
		return nil, err
	}

	result := make([]models.Worker, 0, len(workers))
	for _, w := range workers {
		if category != "" && !w.HasCategory(category) {
			continue
		}
		if filter.MinRating != nil && w.Rating() < *filter.MinRating {
			continue
		}
		result = append(result, w)
	}

	s.storeWorkers(ctx, resolvedKey, result)
	return result, nil
}

// SearchWorkers matches the term against name, categories and languages of verified, active workers
func (s *WorkerService) SearchWorkers(ctx context.Context, search WorkerSearch) ([]models.Worker, error) {
	var category models.ServiceCategory
	if search.Category != "" {
		parsed, err := models.ParseServiceCategory(search.Category)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		category = parsed
	}

	term := strings.ToLower(strings.TrimSpace(search.Term))
	city := strings.ToLower(strings.TrimSpace(search.City))

	cacheKey := fmt.Sprintf("search:q=%s|city=%s|category=%s|min_rating=%g|max_rate=%g",
		term, city, category, search.MinRating, search.MaxRate)
	cached, resolvedKey, ok := s.cachedWorkers(ctx, cacheKey)
	if ok {
		return cached, nil
	}

	query := s.searchableWorkers(ctx)
	if city != "" {
		query = query.Where("LOWER(city) = ?", city)
	}
	if search.MaxRate > 0 {
		query = query.Where("hourly_rate <= ?", search.MaxRate)
	}

	var workers []models.Worker
	if err := query.Order("id").Find(&workers).Error; err != nil {
		return nil, err
	}

	result := make([]models.Worker, 0, len(workers))
	for _, w := range workers {
		if category != "" && !w.HasCategory(category) {
			continue
		}
		if search.MinRating > 0 && w.Rating() < search.MinRating {
			continue
		}
		if term != "" && !w.MatchesTerm(term) {
			continue
		}
		result = append(result, w)
	}

	s.storeWorkers(ctx, resolvedKey, result)
	return result, nil
}

// GetWorkerByID returns a profile regardless of verification status
func (s *WorkerService) GetWorkerByID(ctx context.Context, id uint) (*models.Worker, error) {
	var worker models.Worker
	if err := s.db.WithContext(ctx).First(&worker, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: worker %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &worker, nil
}

// GetWorkerByUserID returns the profile owned by the user
func (s *WorkerService) GetWorkerByUserID(ctx context.Context, userID uint) (*models.Worker, error) {
	var worker models.Worker
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&worker).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: no worker profile for user %d", ErrNotFound, userID)
		}
		return nil, err
	}
	return &worker, nil
}

// CreateWorkerProfile registers the caller as a worker. The profile starts pending and active.
func (s *WorkerService) CreateWorkerProfile(ctx context.Context, userID uint, req models.WorkerProfileRequest) (*models.Worker, error) {
	if userID == 0 {
		return nil, ErrUnauthenticated
	}

	if err := requireFields(
		field{"name", req.Name},
		field{"phone", req.Phone},
		field{"address", req.Address},
		field{"city", req.City},
		field{"pincode", req.Pincode},
		field{"government_id", req.GovernmentID},
	); err != nil {
		return nil, err
	}
	if len(req.Categories) == 0 {
		return nil, fmt.Errorf("%w: at least one category is required", ErrValidation)
	}
	categories, err := models.ParseServiceCategories(req.Categories)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if req.HourlyRate < 0 {
		return nil, fmt.Errorf("%w: hourly_rate must not be negative", ErrValidation)
	}

	var existing int64
	if err := s.db.WithContext(ctx).Model(&models.Worker{}).Where("user_id = ?", userID).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, fmt.Errorf("%w: worker profile already exists", ErrConflict)
	}

	worker := models.Worker{
		UserID:             userID,
		Name:               strings.TrimSpace(req.Name),
		Phone:              strings.TrimSpace(req.Phone),
		Email:              req.Email,
		Age:                req.Age,
		Gender:             req.Gender,
		Address:            strings.TrimSpace(req.Address),
		City:               strings.TrimSpace(req.City),
		Pincode:            strings.TrimSpace(req.Pincode),
		Categories:         datatypes.NewJSONSlice(categories),
		Experience:         req.Experience,
		HourlyRate:         req.HourlyRate,
		Availability:       datatypes.NewJSONSlice(nonNil(req.Availability)),
		Languages:          datatypes.NewJSONSlice(nonNil(req.Languages)),
		VerificationStatus: models.VerificationPending,
		GovernmentID:       strings.TrimSpace(req.GovernmentID),
		References:         datatypes.NewJSONSlice(nonNilReferences(req.References)),
		IsActive:           true,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&worker).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return fmt.Errorf("%w: worker profile already exists", ErrConflict)
			}
			return err
		}
		// Admins keep their role
		return tx.Model(&models.User{}).
			Where("id = ? AND role = ?", userID, models.RoleUser).
			Update("role", models.RoleWorker).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Worker profile %d created for user %d", worker.ID, userID)
	return &worker, nil
}

// SetVerificationStatus is the admin operation that makes a worker visible (verified) or hidden
func (s *WorkerService) SetVerificationStatus(ctx context.Context, workerID uint, status models.VerificationStatus, policeVerification *string) (*models.Worker, error) {
	if !status.IsValid() {
		return nil, fmt.Errorf("%w: invalid verification status %q", ErrValidation, status)
	}

	worker, err := s.GetWorkerByID(ctx, workerID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"verification_status": status}
	if policeVerification != nil {
		updates["police_verification"] = *policeVerification
	}
	if err := s.db.WithContext(ctx).Model(worker).Updates(updates).Error; err != nil {
		return nil, err
	}
	worker.VerificationStatus = status
	if policeVerification != nil {
		worker.PoliceVerification = policeVerification
	}

	s.invalidate(ctx)
	log.Printf("✅ Worker %d verification set to %s", workerID, status)
	return worker, nil
}

// SetProfileImage stores the uploaded image URL on the caller's profile
func (s *WorkerService) SetProfileImage(ctx context.Context, userID uint, imageURL string) (*models.Worker, error) {
	worker, err := s.GetWorkerByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(worker).Update("profile_image", imageURL).Error; err != nil {
		return nil, err
	}
	worker.ProfileImage = &imageURL
	s.invalidate(ctx)
	return worker, nil
}

func (s *WorkerService) searchableWorkers(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Model(&models.Worker{}).
		Where("verification_status = ? AND is_active = ?", models.VerificationVerified, true)
}

// cachedWorkers returns the listing stored for key, plus the generation-resolved key to store a fresh one under
func (s *WorkerService) cachedWorkers(ctx context.Context, key string) ([]models.Worker, string, bool) {
	if s.cache == nil {
		return nil, "", false
	}
	return s.cache.GetWorkers(ctx, key)
}

func (s *WorkerService) storeWorkers(ctx context.Context, resolvedKey string, workers []models.Worker) {
	if s.cache != nil && resolvedKey != "" {
		s.cache.SetWorkers(ctx, resolvedKey, workers)
	}
}

func (s *WorkerService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}

func nonNilReferences(refs []models.WorkerReference) []models.WorkerReference {
	if refs == nil {
		return []models.WorkerReference{}
	}
	return refs
}
