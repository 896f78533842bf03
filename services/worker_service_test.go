package services

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"household-help-server/models"
)

func workerNames(workers []models.Worker) []string {
	names := make([]string, 0, len(workers))
	for _, w := range workers {
		names = append(names, w.Name)
	}
	return names
}

func TestGetAllWorkers(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewWorkerService(db, nil)

	createWorker(t, db, createUser(t, db, "u1"), "Priya Sharma", workerOpts{rate: 300, rating: floatPtr(4.8),
		categories: []models.ServiceCategory{models.CategoryCleaning, models.CategoryCooking}})
	createWorker(t, db, createUser(t, db, "u2"), "Rajesh Kumar", workerOpts{rate: 500, city: "Delhi",
		categories: []models.ServiceCategory{models.CategoryDriving}, rating: floatPtr(4.2)})
	createWorker(t, db, createUser(t, db, "u3"), "Anita Patel", workerOpts{rate: 250,
		categories: []models.ServiceCategory{models.CategoryChildcare}})
	createWorker(t, db, createUser(t, db, "u4"), "Pending Worker", workerOpts{rate: 100, status: models.VerificationPending})
	createWorker(t, db, createUser(t, db, "u5"), "Inactive Worker", workerOpts{rate: 100, inactive: true})

	tests := []struct {
		name   string
		filter WorkerFilter
		want   []string
	}{
		{name: "no filter", filter: WorkerFilter{}, want: []string{"Priya Sharma", "Rajesh Kumar", "Anita Patel"}},
		{name: "city", filter: WorkerFilter{City: "Mumbai"}, want: []string{"Priya Sharma", "Anita Patel"}},
		{name: "city is exact", filter: WorkerFilter{City: "mumbai"}, want: []string{}},
		{name: "category", filter: WorkerFilter{Category: "cooking"}, want: []string{"Priya Sharma"}},
		{name: "min rating", filter: WorkerFilter{MinRating: floatPtr(4.5)}, want: []string{"Priya Sharma"}},
		{name: "unrated counts as zero", filter: WorkerFilter{MinRating: floatPtr(0)}, want: []string{"Priya Sharma", "Rajesh Kumar", "Anita Patel"}},
		{name: "combined", filter: WorkerFilter{City: "Delhi", Category: "driving", MinRating: floatPtr(4)}, want: []string{"Rajesh Kumar"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			workers, err := svc.GetAllWorkers(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, workerNames(workers))
		})
	}

	t.Run("unknown category", func(t *testing.T) {
		_, err := svc.GetAllWorkers(ctx, WorkerFilter{Category: "gardening"})
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestSearchWorkers(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewWorkerService(db, nil)

	createWorker(t, db, createUser(t, db, "u1"), "Priya Sharma", workerOpts{rate: 300, rating: floatPtr(4.8),
		categories: []models.ServiceCategory{models.CategoryCleaning, models.CategoryCooking}, languages: []string{"Hindi", "Marathi"}})
	createWorker(t, db, createUser(t, db, "u2"), "Rajesh Kumar", workerOpts{rate: 500, city: "Delhi",
		categories: []models.ServiceCategory{models.CategoryDriving}, languages: []string{"Punjabi"}})
	createWorker(t, db, createUser(t, db, "u3"), "Anita Patel", workerOpts{rate: 250,
		categories: []models.ServiceCategory{models.CategoryElderlyCare}, languages: []string{"Gujarati"}})
	createWorker(t, db, createUser(t, db, "u4"), "Priya Hidden", workerOpts{rate: 100, status: models.VerificationRejected})
	createWorker(t, db, createUser(t, db, "u5"), "Priya Away", workerOpts{rate: 100, inactive: true})

	tests := []struct {
		name   string
		search WorkerSearch
		want   []string
	}{
		{name: "term matches name case-insensitively", search: WorkerSearch{Term: "PRIYA"}, want: []string{"Priya Sharma"}},
		{name: "term matches category", search: WorkerSearch{Term: "elderly"}, want: []string{"Anita Patel"}},
		{name: "term matches language", search: WorkerSearch{Term: "punjabi"}, want: []string{"Rajesh Kumar"}},
		{name: "city is case-insensitive", search: WorkerSearch{City: "delhi"}, want: []string{"Rajesh Kumar"}},
		{name: "max rate", search: WorkerSearch{MaxRate: 300}, want: []string{"Priya Sharma", "Anita Patel"}},
		{name: "zero max rate is ignored", search: WorkerSearch{MaxRate: 0}, want: []string{"Priya Sharma", "Rajesh Kumar", "Anita Patel"}},
		{name: "min rating", search: WorkerSearch{MinRating: 4}, want: []string{"Priya Sharma"}},
		{name: "category", search: WorkerSearch{Category: "driving"}, want: []string{"Rajesh Kumar"}},
		{name: "no match", search: WorkerSearch{Term: "plumber"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			workers, err := svc.SearchWorkers(ctx, tt.search)
			require.NoError(t, err)
			assert.Equal(t, tt.want, workerNames(workers))
		})
	}

	t.Run("unknown category", func(t *testing.T) {
		_, err := svc.SearchWorkers(ctx, WorkerSearch{Category: "plumbing"})
		assert.ErrorIs(t, err, ErrValidation)
	})
}

func TestWorkerListingCache(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	cache := newMemoryCache()
	svc := NewWorkerService(db, cache)

	pending := createWorker(t, db, createUser(t, db, "u1"), "Priya Sharma", workerOpts{rate: 300, status: models.VerificationPending})

	workers, err := svc.GetAllWorkers(ctx, WorkerFilter{})
	require.NoError(t, err)
	assert.Empty(t, workers)

	_, err = svc.SetVerificationStatus(ctx, pending.ID, models.VerificationVerified, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.invalidated)

	workers, err = svc.GetAllWorkers(ctx, WorkerFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Priya Sharma"}, workerNames(workers))
}

func TestWorkerListingCacheWriteDuringRead(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	cache := newMemoryCache()
	svc := NewWorkerService(db, cache)

	pending := createWorker(t, db, createUser(t, db, "u1"), "Priya Sharma", workerOpts{rate: 300, status: models.VerificationPending})

	// Verify the worker after the listing query has read its rows but before the result is cached
	fired := false
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("test:verify_after_read", func(tx *gorm.DB) {
		if fired || tx.Statement.Table != "workers" {
			return
		}
		fired = true
		require.NoError(t, tx.Session(&gorm.Session{NewDB: true}).Model(&models.Worker{}).
			Where("id = ?", pending.ID).
			Update("verification_status", models.VerificationVerified).Error)
		cache.Invalidate(ctx)
	}))

	workers, err := svc.GetAllWorkers(ctx, WorkerFilter{})
	require.NoError(t, err)
	assert.Empty(t, workers)
	require.True(t, fired)

	workers, err = svc.GetAllWorkers(ctx, WorkerFilter{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Priya Sharma"}, workerNames(workers))
}

func TestGetWorkerByID(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewWorkerService(db, nil)

	// Profiles are readable by ID regardless of verification
	pending := createWorker(t, db, createUser(t, db, "u1"), "Priya Sharma", workerOpts{rate: 300, status: models.VerificationPending})

	worker, err := svc.GetWorkerByID(ctx, pending.ID)
	require.NoError(t, err)
	assert.Equal(t, "Priya Sharma", worker.Name)

	_, err = svc.GetWorkerByID(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func profileRequest() models.WorkerProfileRequest {
	return models.WorkerProfileRequest{
		Name:         "Sunita Devi",
		Phone:        "+919812345678",
		Age:          34,
		Gender:       "female",
		Address:      "4 Lake View",
		City:         "Pune",
		Pincode:      "411001",
		Categories:   []string{"cooking", " cleaning ", "cooking"},
		Experience:   6,
		HourlyRate:   280,
		Languages:    []string{"Marathi"},
		GovernmentID: "AADHAAR-1234",
	}
}

func TestCreateWorkerProfile(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewWorkerService(db, nil)
	user := createUser(t, db, "sunita")

	worker, err := svc.CreateWorkerProfile(ctx, user.ID, profileRequest())
	require.NoError(t, err)

	assert.Equal(t, models.VerificationPending, worker.VerificationStatus)
	assert.True(t, worker.IsActive)
	assert.Equal(t, []models.ServiceCategory{models.CategoryCooking, models.CategoryCleaning}, []models.ServiceCategory(worker.Categories))
	assert.Nil(t, worker.AverageRating)

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.Equal(t, models.RoleWorker, stored.Role)

	mine, err := svc.GetWorkerByUserID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, worker.ID, mine.ID)
	assert.Equal(t, "AADHAAR-1234", mine.GovernmentID)

	t.Run("pending profile is not listed", func(t *testing.T) {
		workers, err := svc.GetAllWorkers(ctx, WorkerFilter{})
		require.NoError(t, err)
		assert.Empty(t, workers)
	})

	t.Run("second profile conflicts", func(t *testing.T) {
		_, err := svc.CreateWorkerProfile(ctx, user.ID, profileRequest())
		assert.ErrorIs(t, err, ErrConflict)
	})
}

func TestCreateWorkerProfileValidation(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewWorkerService(db, nil)
	user := createUser(t, db, "sunita")

	tests := []struct {
		name    string
		userID  uint
		mutate  func(*models.WorkerProfileRequest)
		wantErr error
	}{
		{name: "unauthenticated", userID: 0, mutate: func(*models.WorkerProfileRequest) {}, wantErr: ErrUnauthenticated},
		{name: "blank name", userID: user.ID, mutate: func(r *models.WorkerProfileRequest) { r.Name = " " }, wantErr: ErrValidation},
		{name: "missing government id", userID: user.ID, mutate: func(r *models.WorkerProfileRequest) { r.GovernmentID = "" }, wantErr: ErrValidation},
		{name: "missing pincode", userID: user.ID, mutate: func(r *models.WorkerProfileRequest) { r.Pincode = "" }, wantErr: ErrValidation},
		{name: "no categories", userID: user.ID, mutate: func(r *models.WorkerProfileRequest) { r.Categories = nil }, wantErr: ErrValidation},
		{name: "unknown category", userID: user.ID, mutate: func(r *models.WorkerProfileRequest) { r.Categories = []string{"gardening"} }, wantErr: ErrValidation},
		{name: "negative rate", userID: user.ID, mutate: func(r *models.WorkerProfileRequest) { r.HourlyRate = -1 }, wantErr: ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := profileRequest()
			tt.mutate(&req)
			_, err := svc.CreateWorkerProfile(ctx, tt.userID, req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	t.Run("first blank field is reported", func(t *testing.T) {
		req := profileRequest()
		req.Name, req.Pincode = "", ""
		for i := 0; i < 20; i++ {
			_, err := svc.CreateWorkerProfile(ctx, user.ID, req)
			require.EqualError(t, err, "validation error: name is required")
		}
	})

	var count int64
	require.NoError(t, db.Model(&models.Worker{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSetVerificationStatus(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewWorkerService(db, nil)
	worker := createWorker(t, db, createUser(t, db, "u1"), "Priya Sharma", workerOpts{rate: 300, status: models.VerificationPending})

	police := "PV-2024-17"
	updated, err := svc.SetVerificationStatus(ctx, worker.ID, models.VerificationVerified, &police)
	require.NoError(t, err)
	assert.Equal(t, models.VerificationVerified, updated.VerificationStatus)

	var stored models.Worker
	require.NoError(t, db.First(&stored, worker.ID).Error)
	assert.Equal(t, models.VerificationVerified, stored.VerificationStatus)
	require.NotNil(t, stored.PoliceVerification)
	assert.Equal(t, police, *stored.PoliceVerification)

	_, err = svc.SetVerificationStatus(ctx, worker.ID, "approved", nil)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.SetVerificationStatus(ctx, 9999, models.VerificationRejected, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetProfileImage(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	svc := NewWorkerService(db, nil)
	owner := createUser(t, db, "u1")
	createWorker(t, db, owner, "Priya Sharma", workerOpts{rate: 300})

	worker, err := svc.SetProfileImage(ctx, owner.ID, "https://res.cloudinary.com/demo/image/upload/priya.jpg")
	require.NoError(t, err)
	require.NotNil(t, worker.ProfileImage)

	_, err = svc.SetProfileImage(ctx, createUser(t, db, "u2").ID, "https://example.com/x.jpg")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisWorkerCacheUnavailable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	cache := NewRedisWorkerCache(client, time.Minute)
	ctx := context.Background()

	// Every operation degrades to a miss
	workers, resolved, ok := cache.GetWorkers(ctx, "all")
	assert.False(t, ok)
	assert.Nil(t, workers)
	assert.Empty(t, resolved)
	cache.SetWorkers(ctx, resolved, []models.Worker{{Name: "Priya Sharma"}})
	cache.Invalidate(ctx)
}
