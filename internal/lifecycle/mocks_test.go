package lifecycle_test

import (
	"carwatch/backend/internal/models"
	"carwatch/backend/internal/storage"

	"github.com/stretchr/testify/mock"
)

// MockStorage is a testify/mock implementation of the storage.Storage
// interface, used to drive the lifecycle service without a database.
type MockStorage struct {
	mock.Mock
}

// User operations
func (m *MockStorage) CreateUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockStorage) SaveUser(user *models.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockStorage) GetUserByID(id string) (*models.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) GetUserByEmail(email string) (*models.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockStorage) ListUsers(f storage.UserFilter) ([]models.User, int64, error) {
	args := m.Called(f)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

// Car operations
func (m *MockStorage) CreateCar(car *models.Car) error {
	args := m.Called(car)
	return args.Error(0)
}

func (m *MockStorage) SaveCar(car *models.Car) error {
	args := m.Called(car)
	return args.Error(0)
}

func (m *MockStorage) GetCarByID(id string) (*models.Car, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Car), args.Error(1)
}

func (m *MockStorage) GetCarByPlate(plate string) (*models.Car, error) {
	args := m.Called(plate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Car), args.Error(1)
}

func (m *MockStorage) ListCars(f storage.CarFilter) ([]models.Car, int64, error) {
	args := m.Called(f)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Car), args.Get(1).(int64), args.Error(2)
}

func (m *MockStorage) SearchCars(query string, page, limit int) ([]models.Car, int64, error) {
	args := m.Called(query, page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Car), args.Get(1).(int64), args.Error(2)
}

func (m *MockStorage) ListCarsByOwner(ownerID string) ([]models.Car, error) {
	args := m.Called(ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Car), args.Error(1)
}

func (m *MockStorage) DeleteCar(carID string) error {
	args := m.Called(carID)
	return args.Error(0)
}

func (m *MockStorage) IncrementCarViews(carID string) error {
	args := m.Called(carID)
	return args.Error(0)
}

// Report operations
func (m *MockStorage) CreateReport(report *models.Report) error {
	args := m.Called(report)
	return args.Error(0)
}

func (m *MockStorage) SaveReport(report *models.Report) error {
	args := m.Called(report)
	return args.Error(0)
}

func (m *MockStorage) GetReportByID(id string) (*models.Report, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Report), args.Error(1)
}

func (m *MockStorage) ListReportsByCar(carID string, verifiedOnly bool) ([]models.Report, error) {
	args := m.Called(carID, verifiedOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Report), args.Error(1)
}

func (m *MockStorage) ListReportsByReporter(reporterID string) ([]models.Report, error) {
	args := m.Called(reporterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Report), args.Error(1)
}

func (m *MockStorage) SaveReportAndCar(report *models.Report, car *models.Car) error {
	args := m.Called(report, car)
	return args.Error(0)
}

// Stats operations
func (m *MockStorage) CarStats() (*models.CarStats, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CarStats), args.Error(1)
}

func (m *MockStorage) ReportStats() (*models.ReportStats, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ReportStats), args.Error(1)
}

func (m *MockStorage) DashboardStats() (*models.DashboardStats, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DashboardStats), args.Error(1)
}

// Live feed
func (m *MockStorage) PublishEvent(event models.Event) error {
	args := m.Called(event)
	return args.Error(0)
}
