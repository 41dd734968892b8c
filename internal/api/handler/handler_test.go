package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"carwatch/backend/internal/api/handler"
	"carwatch/backend/internal/config"
	"carwatch/backend/internal/errs"
	"carwatch/backend/internal/lifecycle"
	"carwatch/backend/internal/localization"
	"carwatch/backend/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

// stubHub records published events instead of touching Redis.
type stubHub struct {
	events []models.Event
}

func (s *stubHub) Publish(event models.Event) {
	s.events = append(s.events, event)
}

// newTestRouter builds a gin engine wired to a mock storage, returning the
// stub hub so tests can assert on published events.
func newTestRouter(t *testing.T, storageMock *MockStorage) (*gin.Engine, *stubHub) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	localizer, err := localization.NewLocalizer("../../../locales")
	require.NoError(t, err)

	hub := &stubHub{}
	cfg := &config.Config{JWTSecret: testSecret, UploadDir: t.TempDir()}
	h := handler.NewHandler(storageMock, lifecycle.NewService(storageMock), hub, localizer, cfg)

	r := gin.New()
	h.RegisterRoutes(r)
	return r, hub
}

// signToken issues a token the way the handler does, for driving the
// Authenticate middleware in tests.
func signToken(t *testing.T, userID string) string {
	t.Helper()
	claims := jwt.MapClaims{"sub": userID, "role": "user", "iss": config.TokenIssuer}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func TestAuthenticate_MissingToken(t *testing.T) {
	storageMock := new(MockStorage)
	r, _ := newTestRouter(t, storageMock)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	storageMock.AssertNotCalled(t, "GetUserByID", mock.Anything)
}

func TestAuthenticate_GarbageToken(t *testing.T) {
	storageMock := new(MockStorage)
	r, _ := newTestRouter(t, storageMock)

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticate_InactiveUser(t *testing.T) {
	storageMock := new(MockStorage)
	r, _ := newTestRouter(t, storageMock)

	storageMock.On("GetUserByID", "u-1").
		Return(&models.User{ID: "u-1", Role: models.RoleUser, IsActive: false}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "u-1"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMe_ReturnsCurrentUser(t *testing.T) {
	storageMock := new(MockStorage)
	r, _ := newTestRouter(t, storageMock)

	storageMock.On("GetUserByID", "u-1").
		Return(&models.User{ID: "u-1", Name: "Ali", Role: models.RoleUser, IsActive: true}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "u-1"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"Ali"`)
}

func TestGetCar_NotFoundIsLocalized(t *testing.T) {
	storageMock := new(MockStorage)
	r, _ := newTestRouter(t, storageMock)

	storageMock.On("GetCarByID", "missing").Return(nil, errs.ErrNotFound).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/cars/missing", nil)
	req.Header.Set("Accept-Language", "en")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Car not found")
}

func TestGetCar_IncrementsViews(t *testing.T) {
	storageMock := new(MockStorage)
	r, _ := newTestRouter(t, storageMock)

	car := &models.Car{ID: "car-1", PlateNumber: "ABC-123", Status: models.CarStatusStolen}
	storageMock.On("GetCarByID", "car-1").Return(car, nil).Once()
	storageMock.On("IncrementCarViews", "car-1").Return(nil).Once()
	storageMock.On("ListReportsByCar", "car-1", true).Return([]models.Report{}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/cars/car-1", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	storageMock.AssertExpectations(t)
}

func TestRegister_EmailTaken(t *testing.T) {
	storageMock := new(MockStorage)
	r, _ := newTestRouter(t, storageMock)

	storageMock.On("GetUserByEmail", "taken@example.com").
		Return(&models.User{ID: "u-1", Email: "taken@example.com"}, nil).Once()

	body, _ := json.Marshal(gin.H{
		"name":     "Ali Hassan",
		"email":    "taken@example.com",
		"phone":    "0501234567",
		"password": "secret123",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/users/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	storageMock.AssertNotCalled(t, "CreateUser", mock.Anything)
}

func TestLogin_WrongPassword(t *testing.T) {
	storageMock := new(MockStorage)
	r, _ := newTestRouter(t, storageMock)

	hash, err := bcrypt.GenerateFromPassword([]byte("right-password"), bcrypt.MinCost)
	require.NoError(t, err)
	storageMock.On("GetUserByEmail", "ali@example.com").
		Return(&models.User{ID: "u-1", Email: "ali@example.com", PasswordHash: string(hash), IsActive: true}, nil).Once()

	body, _ := json.Marshal(gin.H{"email": "ali@example.com", "password": "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/api/users/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// TestSetReportStatus_ConfirmFlow drives the full HTTP path of an admin
// confirming a sighting: lifecycle effects plus the feed event.
func TestSetReportStatus_ConfirmFlow(t *testing.T) {
	storageMock := new(MockStorage)
	r, hub := newTestRouter(t, storageMock)

	adminUser := &models.User{ID: "admin-1", Role: models.RoleAdmin, IsActive: true}
	report := &models.Report{ID: "R123", CarID: "V7", Status: models.ReportStatusPending}
	car := &models.Car{ID: "V7", PlateNumber: "XYZ-77", Status: models.CarStatusStolen}

	storageMock.On("GetUserByID", "admin-1").Return(adminUser, nil).Once()
	storageMock.On("GetReportByID", "R123").Return(report, nil).Once()
	storageMock.On("GetCarByID", "V7").Return(car, nil).Once()
	storageMock.On("SaveReportAndCar", report, car).Return(nil).Once()

	body, _ := json.Marshal(gin.H{"status": "confirmed"})
	req := httptest.NewRequest(http.MethodPut, "/api/reports/R123/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signToken(t, "admin-1"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.ReportStatusConfirmed, report.Status)
	assert.True(t, report.IsVerified)
	assert.Equal(t, models.CarStatusFound, car.Status)

	if assert.Len(t, hub.events, 1) {
		assert.Equal(t, models.EventReportConfirmed, hub.events[0].Type)
		assert.Equal(t, "V7", hub.events[0].CarID)
	}
}

func TestSetReportStatus_RegularUserForbidden(t *testing.T) {
	storageMock := new(MockStorage)
	r, hub := newTestRouter(t, storageMock)

	storageMock.On("GetUserByID", "u-1").
		Return(&models.User{ID: "u-1", Role: models.RoleUser, IsActive: true}, nil).Once()

	body, _ := json.Marshal(gin.H{"status": "confirmed"})
	req := httptest.NewRequest(http.MethodPut, "/api/reports/R123/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signToken(t, "u-1"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, hub.events)
}

// TestSetUserRole_AdminCannotGrantAdmin covers the scenario of a plain
// admin trying to mint another admin through the panel.
func TestSetUserRole_AdminCannotGrantAdmin(t *testing.T) {
	storageMock := new(MockStorage)
	r, _ := newTestRouter(t, storageMock)

	storageMock.On("GetUserByID", "admin-1").
		Return(&models.User{ID: "admin-1", Role: models.RoleAdmin, IsActive: true}, nil).Once()

	body, _ := json.Marshal(gin.H{"role": "admin"})
	req := httptest.NewRequest(http.MethodPut, "/api/admin/users/userX/role", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signToken(t, "admin-1"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	storageMock.AssertNotCalled(t, "SaveUser", mock.Anything)
}

func TestAdminDashboard_RequiresAdmin(t *testing.T) {
	storageMock := new(MockStorage)
	r, _ := newTestRouter(t, storageMock)

	storageMock.On("GetUserByID", "u-1").
		Return(&models.User{ID: "u-1", Role: models.RoleUser, IsActive: true}, nil).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/admin/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "u-1"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	storageMock.AssertNotCalled(t, "DashboardStats")
}

func TestAdminLogin_RejectsRegularUser(t *testing.T) {
	storageMock := new(MockStorage)
	r, _ := newTestRouter(t, storageMock)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	storageMock.On("GetUserByEmail", "ali@example.com").
		Return(&models.User{ID: "u-1", PasswordHash: string(hash), Role: models.RoleUser, IsActive: true}, nil).Once()

	body, _ := json.Marshal(gin.H{"email": "ali@example.com", "password": "secret123"})
	req := httptest.NewRequest(http.MethodPost, "/api/admin/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
