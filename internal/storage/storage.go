// Package storage wraps PostgreSQL (GORM) and Redis behind a single Storage
// interface consumed by the handlers and the lifecycle service.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"time"

	"carwatch/backend/internal/errs"
	"carwatch/backend/internal/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// UserFilter narrows and pages the admin user listing.
type UserFilter struct {
	Role   string
	Search string
	Page   int
	Limit  int
}

// CarFilter narrows, sorts and pages the public car listing.
type CarFilter struct {
	Status string
	Sort   string
	Order  string
	Page   int
	Limit  int
}

type Storage interface {
	// Users
	CreateUser(user *models.User) error
	SaveUser(user *models.User) error
	GetUserByID(id string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)
	ListUsers(f UserFilter) ([]models.User, int64, error)

	// Cars
	CreateCar(car *models.Car) error
	SaveCar(car *models.Car) error
	GetCarByID(id string) (*models.Car, error)
	GetCarByPlate(plate string) (*models.Car, error)
	ListCars(f CarFilter) ([]models.Car, int64, error)
	SearchCars(query string, page, limit int) ([]models.Car, int64, error)
	ListCarsByOwner(ownerID string) ([]models.Car, error)
	DeleteCar(carID string) error
	IncrementCarViews(carID string) error

	// Reports
	CreateReport(report *models.Report) error
	SaveReport(report *models.Report) error
	GetReportByID(id string) (*models.Report, error)
	ListReportsByCar(carID string, verifiedOnly bool) ([]models.Report, error)
	ListReportsByReporter(reporterID string) ([]models.Report, error)
	SaveReportAndCar(report *models.Report, car *models.Car) error

	// Stats
	CarStats() (*models.CarStats, error)
	ReportStats() (*models.ReportStats, error)
	DashboardStats() (*models.DashboardStats, error)

	// Live feed
	PublishEvent(event models.Event) error
}

// eventChannel is the Redis Pub/Sub channel carrying admin feed events.
const eventChannel = "events"

type Service struct {
	DB    *gorm.DB
	Redis *redis.Client
	Ctx   context.Context
}

// NewStorageService Constructor
func NewStorageService(db *gorm.DB, rdb *redis.Client) *Service {
	return &Service{
		DB:    db,
		Redis: rdb,
		Ctx:   context.Background(),
	}
}

// CreateUser inserts a new user row.
func (s *Service) CreateUser(user *models.User) error {
	if err := s.DB.Create(user).Error; err != nil {
		log.Printf("ERROR: Failed to create user %s: %v", user.Email, err)
		return err
	}
	return nil
}

// SaveUser persists all fields of an existing user.
func (s *Service) SaveUser(user *models.User) error {
	return s.DB.Save(user).Error
}

// GetUserByID loads a user by primary key. Returns errs.ErrNotFound when
// the row does not exist.
func (s *Service) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := s.DB.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		log.Printf("ERROR: Failed to get user %s: %v", id, err)
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail loads a user by email (stored lowercase).
func (s *Service) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.DB.First(&user, "email = ?", strings.ToLower(email)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		log.Printf("ERROR: Failed to get user by email: %v", err)
		return nil, err
	}
	return &user, nil
}

// ListUsers returns one page of users plus the total count, optionally
// filtered by role and a name/email/phone substring search.
func (s *Service) ListUsers(f UserFilter) ([]models.User, int64, error) {
	q := s.DB.Model(&models.User{})

	if f.Role != "" {
		q = q.Where("role = ?", f.Role)
	}
	if f.Search != "" {
		pattern := "%" + f.Search + "%"
		q = q.Where("name ILIKE ? OR email ILIKE ? OR phone ILIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	err := q.Order("created_at desc").
		Offset(pageOffset(f.Page, f.Limit)).
		Limit(f.Limit).
		Find(&users).Error
	if err != nil {
		log.Printf("ERROR: Failed to list users: %v", err)
		return nil, 0, err
	}
	return users, total, nil
}

// PublishEvent fans an event out to the live admin feed via Redis Pub/Sub.
func (s *Service) PublishEvent(event models.Event) error {
	if s.Redis == nil {
		return nil
	}
	if event.Timestamp == 0 {
		event.Timestamp = time.Now().Unix()
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return s.Redis.Publish(s.Ctx, eventChannel, string(payload)).Err()
}

// SubscribeEvents returns the Pub/Sub subscription the notify hub drains.
func (s *Service) SubscribeEvents() *redis.PubSub {
	return s.Redis.Subscribe(s.Ctx, eventChannel)
}

func pageOffset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}
