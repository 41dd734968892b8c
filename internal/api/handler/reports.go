package handler

import (
	"errors"
	"net/http"
	"time"

	"carwatch/backend/internal/errs"
	"carwatch/backend/internal/models"

	"github.com/gin-gonic/gin"
)

// CreateReport files a sighting against an existing car.
func (h *Handler) CreateReport(c *gin.Context) {
	user := h.currentUser(c)

	carID := c.PostForm("car_id")
	car, err := h.Storage.GetCarByID(carID)
	if errors.Is(err, errs.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": h.msg(c, "car_not_found")})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	report := &models.Report{
		CarID:        car.ID,
		ReporterID:   user.ID,
		Location:     c.PostForm("location"),
		Description:  c.PostForm("description"),
		ContactPhone: c.PostForm("contact_phone"),
		ContactEmail: c.PostForm("contact_email"),
		IsAnonymous:  c.PostForm("is_anonymous") == "true",
	}
	if raw := c.PostForm("date"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			report.Date = t
		}
	}
	if report.ContactPhone == "" {
		report.ContactPhone = user.Phone
	}
	if report.ContactEmail == "" {
		report.ContactEmail = user.Email
	}

	images, err := h.saveImages(c, "images", "reports")
	if err != nil {
		h.uploadError(c, err)
		return
	}
	report.Images = images

	if err := h.Storage.CreateReport(report); err != nil {
		h.fail(c, err)
		return
	}

	h.Hub.Publish(models.Event{
		Type:        models.EventReportFiled,
		CarID:       car.ID,
		ReportID:    report.ID,
		PlateNumber: car.PlateNumber,
		Location:    report.Location,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": h.msg(c, "report_created"),
		"report":  report,
	})
}

// ListCarReports returns the verified sightings for one car, for the
// public car page.
func (h *Handler) ListCarReports(c *gin.Context) {
	reports, err := h.Storage.ListReportsByCar(c.Param("carId"), true)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

// GetReport returns one report with its reporter and car.
func (h *Handler) GetReport(c *gin.Context) {
	report, err := h.Storage.GetReportByID(c.Param("id"))
	if errors.Is(err, errs.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": h.msg(c, "report_not_found")})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}

type reportStatusRequest struct {
	Status     string `json:"status" binding:"required"`
	AdminNotes string `json:"admin_notes"`
}

// SetReportStatus applies an admin triage decision through the lifecycle
// service. Confirming a sighting marks the car found and notifies the
// admin feed.
func (h *Handler) SetReportStatus(c *gin.Context) {
	var req reportStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": h.msg(c, "invalid_request")})
		return
	}

	report, err := h.Lifecycle.SetReportStatus(h.currentUser(c), c.Param("id"), req.Status, req.AdminNotes)
	if err != nil {
		h.fail(c, err)
		return
	}

	if report.Status == models.ReportStatusConfirmed {
		event := models.Event{
			Type:     models.EventReportConfirmed,
			CarID:    report.CarID,
			ReportID: report.ID,
		}
		if report.Car != nil {
			event.PlateNumber = report.Car.PlateNumber
		}
		h.Hub.Publish(event)
	}

	c.JSON(http.StatusOK, gin.H{
		"message": h.msg(c, "report_status_updated"),
		"report":  report,
	})
}

// MyReports lists the authenticated user's own sightings.
func (h *Handler) MyReports(c *gin.Context) {
	reports, err := h.Storage.ListReportsByReporter(h.currentUser(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

// ReportStats returns the public reports statistics summary.
func (h *Handler) ReportStats(c *gin.Context) {
	stats, err := h.Storage.ReportStats()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
