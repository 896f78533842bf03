package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"household-help-server/database"
	"household-help-server/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// every connection to :memory: is a separate database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	user := &models.User{
		Name:         name,
		Email:        fmt.Sprintf("%s@example.com", name),
		PasswordHash: "x",
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

type workerOpts struct {
	city       string
	rate       float64
	categories []models.ServiceCategory
	languages  []string
	status     models.VerificationStatus
	inactive   bool
	rating     *float64
}

func createWorker(t *testing.T, db *gorm.DB, owner *models.User, name string, opts workerOpts) *models.Worker {
	t.Helper()
	if opts.city == "" {
		opts.city = "Mumbai"
	}
	if opts.status == "" {
		opts.status = models.VerificationVerified
	}
	if opts.categories == nil {
		opts.categories = []models.ServiceCategory{models.CategoryCleaning}
	}
	if opts.languages == nil {
		opts.languages = []string{"Hindi"}
	}

	worker := &models.Worker{
		UserID:             owner.ID,
		Name:               name,
		Phone:              "+919876543210",
		Address:            "12 Main Road",
		City:               opts.city,
		Pincode:            "400001",
		Categories:         datatypes.NewJSONSlice(opts.categories),
		HourlyRate:         opts.rate,
		Availability:       datatypes.NewJSONSlice([]string{"monday"}),
		Languages:          datatypes.NewJSONSlice(opts.languages),
		VerificationStatus: opts.status,
		GovernmentID:       "GOV-1",
		References:         datatypes.NewJSONSlice([]models.WorkerReference{}),
		AverageRating:      opts.rating,
		IsActive:           true,
	}
	require.NoError(t, db.Create(worker).Error)
	if opts.inactive {
		// zero values are skipped on create, so flip it afterwards
		require.NoError(t, db.Model(worker).Update("is_active", false).Error)
		worker.IsActive = false
	}
	return worker
}

func floatPtr(f float64) *float64 { return &f }

type notification struct {
	userID uint
	kind   string
	data   map[string]interface{}
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notification
}

func (n *recordingNotifier) Notify(_ context.Context, userID uint, kind, _, _ string, data map[string]interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, notification{userID: userID, kind: kind, data: data})
}

func (n *recordingNotifier) notifications() []notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]notification(nil), n.sent...)
}

// memoryCache mirrors the generation scheme of the redis cache
type memoryCache struct {
	mu          sync.Mutex
	generation  int
	entries     map[string][]models.Worker
	invalidated int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]models.Worker)}
}

func (c *memoryCache) GetWorkers(_ context.Context, key string) ([]models.Worker, string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	resolved := fmt.Sprintf("%d:%s", c.generation, key)
	workers, ok := c.entries[resolved]
	return workers, resolved, ok
}

func (c *memoryCache) SetWorkers(_ context.Context, resolvedKey string, workers []models.Worker) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[resolvedKey] = workers
}

func (c *memoryCache) Invalidate(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.invalidated++
}
