package storage

import (
	"errors"
	"log"

	"carwatch/backend/internal/errs"
	"carwatch/backend/internal/models"

	"gorm.io/gorm"
)

// CreateReport inserts a new sighting report row.
func (s *Service) CreateReport(report *models.Report) error {
	if err := s.DB.Create(report).Error; err != nil {
		log.Printf("ERROR: Failed to create report for car %s: %v", report.CarID, err)
		return err
	}
	return nil
}

// SaveReport persists all fields of an existing report. Preloaded
// associations are skipped so a save never touches the car or reporter rows.
func (s *Service) SaveReport(report *models.Report) error {
	return s.DB.Omit("Car", "Reporter").Save(report).Error
}

// GetReportByID loads a report with its reporter and car preloaded.
func (s *Service) GetReportByID(id string) (*models.Report, error) {
	var report models.Report
	err := s.DB.Preload("Reporter").Preload("Car").First(&report, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		log.Printf("ERROR: Failed to get report %s: %v", id, err)
		return nil, err
	}
	return &report, nil
}

// ListReportsByCar returns the sightings for one car, newest sighting
// first. The public car page only shows verified reports.
func (s *Service) ListReportsByCar(carID string, verifiedOnly bool) ([]models.Report, error) {
	q := s.DB.Preload("Reporter").Where("car_id = ?", carID)
	if verifiedOnly {
		q = q.Where("is_verified = ?", true)
	}

	var reports []models.Report
	if err := q.Order("date desc").Find(&reports).Error; err != nil {
		log.Printf("ERROR: Failed to list reports for car %s: %v", carID, err)
		return nil, err
	}
	return reports, nil
}

// ListReportsByReporter returns every report one user has filed.
func (s *Service) ListReportsByReporter(reporterID string) ([]models.Report, error) {
	var reports []models.Report
	err := s.DB.Preload("Car").
		Where("reporter_id = ?", reporterID).
		Order("created_at desc").
		Find(&reports).Error
	if err != nil {
		log.Printf("ERROR: Failed to list reports for reporter %s: %v", reporterID, err)
		return nil, err
	}
	return reports, nil
}

// SaveReportAndCar persists a report together with its parent car in one
// transaction, so a confirmation either lands on both rows or on neither.
// A nil car saves the report alone.
func (s *Service) SaveReportAndCar(report *models.Report, car *models.Car) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Car", "Reporter").Save(report).Error; err != nil {
			return err
		}
		if car != nil {
			if err := tx.Omit("Owner", "Reports").Save(car).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("ERROR: Failed to save report %s with car update: %v", report.ID, err)
	}
	return err
}
