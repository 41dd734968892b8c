package storage

import (
	"log"
	"time"

	"carwatch/backend/internal/config"
	"carwatch/backend/internal/models"
)

// CarStats aggregates the public cars summary: totals and breakdowns by
// status, make, color, year and month of registration.
func (s *Service) CarStats() (*models.CarStats, error) {
	stats := &models.CarStats{}

	if err := s.DB.Model(&models.Car{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	err := s.DB.Model(&models.Car{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&stats.ByStatus).Error
	if err != nil {
		return nil, err
	}

	for _, agg := range []struct {
		column string
		dest   *[]models.FieldCount
	}{
		{"make", &stats.ByMake},
		{"color", &stats.ByColor},
		{"year::text", &stats.ByYear},
	} {
		err := s.DB.Model(&models.Car{}).
			Select(agg.column + " as value, count(*) as count").
			Group(agg.column).
			Order("count desc").
			Limit(10).
			Scan(agg.dest).Error
		if err != nil {
			log.Printf("ERROR: Failed to aggregate cars by %s: %v", agg.column, err)
			return nil, err
		}
	}

	if err := s.monthCounts(&models.Car{}, &stats.ByMonth); err != nil {
		return nil, err
	}
	return stats, nil
}

// ReportStats aggregates the public reports summary.
func (s *Service) ReportStats() (*models.ReportStats, error) {
	stats := &models.ReportStats{}

	if err := s.DB.Model(&models.Report{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	err := s.DB.Model(&models.Report{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&stats.ByStatus).Error
	if err != nil {
		return nil, err
	}

	if err := s.monthCounts(&models.Report{}, &stats.ByMonth); err != nil {
		return nil, err
	}
	return stats, nil
}

// DashboardStats builds the admin landing-page aggregate.
func (s *Service) DashboardStats() (*models.DashboardStats, error) {
	stats := &models.DashboardStats{}
	since := time.Now().Add(-config.NewWindow)

	users := s.DB.Model(&models.User{})
	if err := users.Count(&stats.Users.Total).Error; err != nil {
		return nil, err
	}
	s.DB.Model(&models.User{}).Where("role IN ?", []models.Role{models.RoleAdmin, models.RoleSuperAdmin}).Count(&stats.Users.Admins)
	s.DB.Model(&models.User{}).Where("created_at >= ?", since).Count(&stats.Users.New)

	s.DB.Model(&models.Car{}).Count(&stats.Cars.Total)
	s.DB.Model(&models.Car{}).Where("status = ?", models.CarStatusStolen).Count(&stats.Cars.Stolen)
	s.DB.Model(&models.Car{}).Where("status = ?", models.CarStatusFound).Count(&stats.Cars.Found)
	s.DB.Model(&models.Car{}).Where("created_at >= ?", since).Count(&stats.Cars.New)

	s.DB.Model(&models.Report{}).Count(&stats.Reports.Total)
	s.DB.Model(&models.Report{}).Where("status = ?", models.ReportStatusPending).Count(&stats.Reports.Pending)
	s.DB.Model(&models.Report{}).Where("status = ?", models.ReportStatusConfirmed).Count(&stats.Reports.Confirmed)
	s.DB.Model(&models.Report{}).Where("created_at >= ?", since).Count(&stats.Reports.New)

	top, err := s.TopViewedCars(config.TopViewedLimit)
	if err != nil {
		log.Printf("ERROR: Failed to load top viewed cars: %v", err)
		return nil, err
	}
	stats.TopViewedCars = top

	err = s.DB.Preload("Car").Preload("Reporter").
		Order("created_at desc").
		Limit(config.LatestReportsLim).
		Find(&stats.LatestReports).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// monthCounts groups rows of a model by creation month, newest 12 months.
func (s *Service) monthCounts(model interface{}, dest *[]models.MonthCount) error {
	return s.DB.Model(model).
		Select("extract(year from created_at)::int as year, extract(month from created_at)::int as month, count(*) as count").
		Group("year, month").
		Order("year desc, month desc").
		Limit(12).
		Scan(dest).Error
}
