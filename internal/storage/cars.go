package storage

import (
	"errors"
	"log"

	"carwatch/backend/internal/errs"
	"carwatch/backend/internal/models"

	"gorm.io/gorm"
)

// carViewsKey is the Redis sorted set mirroring per-car view counts.
const carViewsKey = "car:views"

// carSortColumns restricts the sortable columns of the public listing.
var carSortColumns = map[string]bool{
	"created_at":    true,
	"stolen_date":   true,
	"views":         true,
	"reward_amount": true,
	"year":          true,
}

// CreateCar inserts a new car row.
func (s *Service) CreateCar(car *models.Car) error {
	if err := s.DB.Create(car).Error; err != nil {
		log.Printf("ERROR: Failed to create car %s: %v", car.PlateNumber, err)
		return err
	}
	return nil
}

// SaveCar persists all fields of an existing car. Preloaded associations
// are skipped so a save never touches the owner or report rows.
func (s *Service) SaveCar(car *models.Car) error {
	return s.DB.Omit("Owner", "Reports").Save(car).Error
}

// GetCarByID loads a car with its owner preloaded.
func (s *Service) GetCarByID(id string) (*models.Car, error) {
	var car models.Car
	err := s.DB.Preload("Owner").First(&car, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		log.Printf("ERROR: Failed to get car %s: %v", id, err)
		return nil, err
	}
	return &car, nil
}

// GetCarByPlate loads a car by plate number, used for the uniqueness check
// at registration.
func (s *Service) GetCarByPlate(plate string) (*models.Car, error) {
	var car models.Car
	err := s.DB.First(&car, "plate_number = ?", plate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &car, nil
}

// ListCars returns one page of cars plus the total count.
func (s *Service) ListCars(f CarFilter) ([]models.Car, int64, error) {
	q := s.DB.Model(&models.Car{})

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	sort := f.Sort
	if !carSortColumns[sort] {
		sort = "created_at"
	}
	order := "desc"
	if f.Order == "asc" {
		order = "asc"
	}

	var cars []models.Car
	err := q.Preload("Owner").
		Order(sort + " " + order).
		Offset(pageOffset(f.Page, f.Limit)).
		Limit(f.Limit).
		Find(&cars).Error
	if err != nil {
		log.Printf("ERROR: Failed to list cars: %v", err)
		return nil, 0, err
	}
	return cars, total, nil
}

// SearchCars runs a Postgres full-text search over the descriptive car
// fields, ranked by relevance. Mirrors the text index of the document the
// mobile client searches against.
func (s *Service) SearchCars(query string, page, limit int) ([]models.Car, int64, error) {
	// websearch_to_tsquery tolerates raw user input ("red toyota 2015").
	matchSQL := `
        to_tsvector('simple',
            coalesce(plate_number,'') || ' ' || coalesce(make,'') || ' ' ||
            coalesce(model,'')        || ' ' || coalesce(color,'') || ' ' ||
            coalesce(stolen_location,'') || ' ' || coalesce(description,'') || ' ' ||
            coalesce(engine_number,'') || ' ' || coalesce(chassis_number,'')
        ) @@ websearch_to_tsquery('simple', ?)`

	var total int64
	if err := s.DB.Model(&models.Car{}).Where(matchSQL, query).Count(&total).Error; err != nil {
		log.Printf("ERROR: Failed to count car search results: %v", err)
		return nil, 0, err
	}

	var cars []models.Car
	err := s.DB.Preload("Owner").
		Where(matchSQL, query).
		Order("created_at desc").
		Offset(pageOffset(page, limit)).
		Limit(limit).
		Find(&cars).Error
	if err != nil {
		log.Printf("ERROR: Failed to search cars: %v", err)
		return nil, 0, err
	}
	return cars, total, nil
}

// ListCarsByOwner returns every car registered by one user, newest first.
func (s *Service) ListCarsByOwner(ownerID string) ([]models.Car, error) {
	var cars []models.Car
	err := s.DB.Where("owner_id = ?", ownerID).
		Order("created_at desc").
		Find(&cars).Error
	if err != nil {
		log.Printf("ERROR: Failed to list cars for owner %s: %v", ownerID, err)
		return nil, err
	}
	return cars, nil
}

// DeleteCar removes a car and all of its sighting reports in one
// transaction.
func (s *Service) DeleteCar(carID string) error {
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("car_id = ?", carID).Delete(&models.Report{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Car{}, "id = ?", carID).Error
	})
	if err != nil {
		log.Printf("ERROR: Failed to delete car %s: %v", carID, err)
		return err
	}
	if s.Redis != nil {
		s.Redis.ZRem(s.Ctx, carViewsKey, carID)
	}
	return nil
}

// IncrementCarViews bumps the read counter in Postgres and mirrors it into
// the Redis sorted set behind the top-viewed listing.
func (s *Service) IncrementCarViews(carID string) error {
	err := s.DB.Model(&models.Car{}).
		Where("id = ?", carID).
		UpdateColumn("views", gorm.Expr("views + 1")).Error
	if err != nil {
		log.Printf("ERROR: Failed to increment views for car %s: %v", carID, err)
		return err
	}
	if s.Redis != nil {
		if err := s.Redis.ZIncrBy(s.Ctx, carViewsKey, 1, carID).Err(); err != nil {
			// Postgres holds the counter of record; Redis only feeds
			// the top-viewed widget.
			log.Printf("WARN: Failed to mirror view count for car %s: %v", carID, err)
		}
	}
	return nil
}

// TopViewedCars reads the hottest car IDs from Redis and resolves them in
// Postgres, falling back to a plain views sort when Redis is unavailable.
func (s *Service) TopViewedCars(limit int) ([]models.Car, error) {
	if s.Redis != nil {
		ids, err := s.Redis.ZRevRange(s.Ctx, carViewsKey, 0, int64(limit-1)).Result()
		if err == nil && len(ids) > 0 {
			var cars []models.Car
			if err := s.DB.Where("id IN ?", ids).Order("views desc").Find(&cars).Error; err == nil {
				return cars, nil
			}
		}
	}

	var cars []models.Car
	err := s.DB.Order("views desc").Limit(limit).Find(&cars).Error
	if err != nil {
		return nil, err
	}
	return cars, nil
}
