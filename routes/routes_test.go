package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"household-help-server/config"
	"household-help-server/database"
	"household-help-server/middleware"
	"household-help-server/models"
	"household-help-server/services"
	"household-help-server/utils"
	"household-help-server/websocket"
)

const testSecret = "routes-secret"

func init() {
	gin.SetMode(gin.TestMode)
	utils.RegisterValidators()
}

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	jwtService := services.NewJWTService(db, config.JWTConfig{Secret: testSecret, ExpiryHours: 1, RefreshExpiryDays: 1})
	workers := services.NewWorkerService(db, nil)
	notifications := services.NewNotificationService(db, nil, nil)
	media, err := services.NewMediaService(config.CloudinaryConfig{})
	require.NoError(t, err)

	deps := &Dependencies{
		DB:            db,
		JWTSecret:     testSecret,
		Auth:          services.NewAuthService(db, jwtService),
		JWT:           jwtService,
		Workers:       workers,
		Analytics:     services.NewWorkerAnalyticsService(db, workers),
		Bookings:      services.NewBookingService(db, notifications),
		Reviews:       services.NewReviewService(db, nil),
		Notifications: notifications,
		Media:         media,
		Hub:           websocket.NewHub(),
		RateLimiter:   middleware.NewRateLimiter(),
	}

	router := gin.New()
	RegisterRoutes(router, deps)
	return &testServer{router: router, db: db}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &decoded), w.Body.String())
	return w.Code, decoded
}

func (s *testServer) signUp(t *testing.T, name string) string {
	t.Helper()
	code, resp := s.do(t, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"name":     name,
		"email":    name + "@example.com",
		"password": "secret1",
	})
	require.Equal(t, http.StatusCreated, code, resp)
	return resp["data"].(map[string]interface{})["token"].(string)
}

func (s *testServer) signInAdmin(t *testing.T) string {
	t.Helper()
	hash, err := utils.HashPassword("admin-pass")
	require.NoError(t, err)
	require.NoError(t, s.db.Create(&models.User{
		Name: "Admin", Email: "admin@example.com", PasswordHash: hash, Role: models.RoleAdmin, IsActive: true,
	}).Error)

	code, resp := s.do(t, http.MethodPost, "/api/v1/auth/signin", "", gin.H{"email": "admin@example.com", "password": "admin-pass"})
	require.Equal(t, http.StatusOK, code, resp)
	return resp["data"].(map[string]interface{})["token"].(string)
}

func data(resp map[string]interface{}) map[string]interface{} {
	return resp["data"].(map[string]interface{})
}

func TestBookingAndReviewFlow(t *testing.T) {
	s := newTestServer(t)

	customer := s.signUp(t, "meera")
	workerUser := s.signUp(t, "priya")
	admin := s.signInAdmin(t)

	code, resp := s.do(t, http.MethodPost, "/api/v1/workers/profile", workerUser, gin.H{
		"name":          "Priya Sharma",
		"phone":         "9876543210",
		"address":       "12 Main Road",
		"city":          "Mumbai",
		"pincode":       "400001",
		"categories":    []string{"cleaning", "cooking"},
		"hourly_rate":   300,
		"languages":     []string{"Hindi", "Marathi"},
		"government_id": "XXXX-1234",
	})
	require.Equal(t, http.StatusCreated, code, resp)
	workerID := uint(data(resp)["id"].(float64))
	assert.Equal(t, "pending", data(resp)["verification_status"])

	code, resp = s.do(t, http.MethodGet, "/api/v1/workers?city=Mumbai", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 0, resp["count"], "pending workers are hidden")

	verification := fmt.Sprintf("/api/v1/admin/workers/%d/verification", workerID)
	code, _ = s.do(t, http.MethodPatch, verification, customer, gin.H{"status": "verified"})
	assert.Equal(t, http.StatusForbidden, code)

	code, resp = s.do(t, http.MethodPatch, verification, admin, gin.H{"status": "verified"})
	require.Equal(t, http.StatusOK, code, resp)

	code, resp = s.do(t, http.MethodGet, "/api/v1/workers/search?q=marathi&city=mumbai&max_rate=300", "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, resp["count"])

	code, resp = s.do(t, http.MethodPost, "/api/v1/bookings", customer, gin.H{
		"worker_id":        workerID,
		"service_category": "cooking",
		"start_date":       "2024-06-01",
		"start_time":       "09:00",
		"duration":         3,
		"address":          "7 Hill Road",
	})
	require.Equal(t, http.StatusCreated, code, resp)
	bookingID := uint(data(resp)["id"].(float64))
	assert.EqualValues(t, 900, data(resp)["total_amount"])
	assert.Equal(t, "pending", data(resp)["status"])

	code, resp = s.do(t, http.MethodGet, "/api/v1/bookings/worker", workerUser, nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, resp["count"])

	code, resp = s.do(t, http.MethodGet, "/api/v1/notifications", workerUser, nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, resp["count"])

	review := gin.H{"booking_id": bookingID, "rating": 4, "service_quality": 5, "punctuality": 4, "professionalism": 5}
	code, _ = s.do(t, http.MethodPost, "/api/v1/reviews", customer, review)
	assert.Equal(t, http.StatusBadRequest, code, "booking is not completed yet")

	status := fmt.Sprintf("/api/v1/bookings/%d/status", bookingID)
	code, resp = s.do(t, http.MethodPatch, status, workerUser, gin.H{"status": "completed"})
	require.Equal(t, http.StatusOK, code, resp)
	assert.Equal(t, "completed", data(resp)["status"])

	code, resp = s.do(t, http.MethodPost, "/api/v1/reviews", customer, review)
	require.Equal(t, http.StatusCreated, code, resp)

	code, _ = s.do(t, http.MethodPost, "/api/v1/reviews", customer, review)
	assert.Equal(t, http.StatusConflict, code)

	code, resp = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/workers/%d", workerID), "", nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 4, data(resp)["average_rating"])
	assert.EqualValues(t, 1, data(resp)["total_reviews"])

	code, resp = s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/reviews/worker/%d", workerID), "", nil)
	require.Equal(t, http.StatusOK, code)
	reviews := resp["data"].([]interface{})
	require.Len(t, reviews, 1)
	assert.Equal(t, "meera", reviews[0].(map[string]interface{})["customer_name"])

	code, resp = s.do(t, http.MethodGet, "/api/v1/workers/profile/stats", workerUser, nil)
	require.Equal(t, http.StatusOK, code, resp)
	assert.EqualValues(t, 1, data(resp)["total_bookings"])
	assert.EqualValues(t, 900, data(resp)["completed_earnings"])
}

func TestErrorResponses(t *testing.T) {
	s := newTestServer(t)
	customer := s.signUp(t, "meera")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   interface{}
		want   int
	}{
		{name: "no token", method: http.MethodGet, path: "/api/v1/bookings/mine", want: http.StatusUnauthorized},
		{name: "malformed id", method: http.MethodGet, path: "/api/v1/workers/abc", want: http.StatusBadRequest},
		{name: "unknown worker", method: http.MethodGet, path: "/api/v1/workers/99", want: http.StatusNotFound},
		{name: "negative min rating", method: http.MethodGet, path: "/api/v1/workers/search?min_rating=-1", want: http.StatusBadRequest},
		{name: "unknown category filter", method: http.MethodGet, path: "/api/v1/workers?category=gardening", want: http.StatusBadRequest},
		{name: "booking unknown worker", method: http.MethodPost, path: "/api/v1/bookings", token: customer,
			body: gin.H{"worker_id": 99, "service_category": "cleaning", "start_date": "2024-06-01", "start_time": "09:00", "address": "x"},
			want: http.StatusNotFound},
		{name: "pending status rejected", method: http.MethodPatch, path: "/api/v1/bookings/1/status", token: customer,
			body: gin.H{"status": "pending"}, want: http.StatusBadRequest},
		{name: "missing profile", method: http.MethodGet, path: "/api/v1/workers/profile", token: customer, want: http.StatusNotFound},
		{name: "duplicate email", method: http.MethodPost, path: "/api/v1/auth/signup",
			body: gin.H{"name": "meera", "email": "meera@example.com", "password": "secret1"}, want: http.StatusConflict},
		{name: "wrong password", method: http.MethodPost, path: "/api/v1/auth/signin",
			body: gin.H{"email": "meera@example.com", "password": "nope123"}, want: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, resp := s.do(t, tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.want, code, resp)
			assert.Equal(t, false, resp["success"])
		})
	}
}

func TestBindErrorsListFieldMessages(t *testing.T) {
	s := newTestServer(t)
	customer := s.signUp(t, "meera")

	code, resp := s.do(t, http.MethodPost, "/api/v1/bookings", customer, gin.H{
		"worker_id":        1,
		"service_category": "gardening",
		"start_date":       "2024-06-01",
		"start_time":       "09:00",
		"address":          "x",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, []interface{}{"service_category is not a known service category"}, resp["details"])
}

func TestRefreshAndSignOut(t *testing.T) {
	s := newTestServer(t)

	code, resp := s.do(t, http.MethodPost, "/api/v1/auth/signup", "", gin.H{
		"name": "meera", "email": "meera@example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, code)
	refresh := gin.H{"refresh_token": data(resp)["refresh_token"]}

	code, resp = s.do(t, http.MethodPost, "/api/v1/auth/refresh", "", refresh)
	require.Equal(t, http.StatusOK, code, resp)
	token := data(resp)["access_token"].(string)

	code, resp = s.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "meera@example.com", data(resp)["email"])

	code, _ = s.do(t, http.MethodPost, "/api/v1/auth/signout", "", refresh)
	require.Equal(t, http.StatusOK, code)

	code, _ = s.do(t, http.MethodPost, "/api/v1/auth/refresh", "", refresh)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestUploadPhotoWithoutCloudinary(t *testing.T) {
	s := newTestServer(t)
	workerUser := s.signUp(t, "priya")

	code, resp := s.do(t, http.MethodPost, "/api/v1/workers/profile", workerUser, gin.H{
		"name": "Priya Sharma", "phone": "9876543210", "address": "a", "city": "Mumbai",
		"pincode": "400001", "categories": []string{"cleaning"}, "government_id": "g",
	})
	require.Equal(t, http.StatusCreated, code, resp)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("photo", "me.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("not really a jpeg"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/workers/profile/photo", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+workerUser)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code, w.Body.String())
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	code, resp := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", resp["status"])
}
