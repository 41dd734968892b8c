package handler

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"carwatch/backend/internal/config"
	"carwatch/backend/internal/errs"
	"carwatch/backend/internal/models"
	"carwatch/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

// pageParams reads the page/limit query parameters with bounds applied.
func pageParams(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(config.DefaultPage)))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(config.DefaultLimit)))
	if page < 1 {
		page = config.DefaultPage
	}
	if limit < 1 || limit > config.MaxLimit {
		limit = config.DefaultLimit
	}
	return page, limit
}

func totalPages(total int64, limit int) int {
	return int(math.Ceil(float64(total) / float64(limit)))
}

// ListCars returns one page of the public stolen-car listing.
func (h *Handler) ListCars(c *gin.Context) {
	page, limit := pageParams(c)

	cars, total, err := h.Storage.ListCars(storage.CarFilter{
		Status: c.Query("status"),
		Sort:   c.DefaultQuery("sort", "created_at"),
		Order:  c.DefaultQuery("order", "desc"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cars":         cars,
		"total_pages":  totalPages(total, limit),
		"current_page": page,
		"total_cars":   total,
	})
}

// SearchCars runs the full-text search over car fields.
func (h *Handler) SearchCars(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": h.msg(c, "search_query_required")})
		return
	}

	page, limit := pageParams(c)
	cars, total, err := h.Storage.SearchCars(query, page, limit)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cars":         cars,
		"total_pages":  totalPages(total, limit),
		"current_page": page,
		"total_cars":   total,
	})
}

// GetCar returns one car with its verified sightings and bumps the view
// counter.
func (h *Handler) GetCar(c *gin.Context) {
	car, err := h.Storage.GetCarByID(c.Param("id"))
	if errors.Is(err, errs.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": h.msg(c, "car_not_found")})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	if err := h.Storage.IncrementCarViews(car.ID); err == nil {
		car.Views++
	}

	reports, err := h.Storage.ListReportsByCar(car.ID, true)
	if err != nil {
		h.fail(c, err)
		return
	}
	car.Reports = reports

	c.JSON(http.StatusOK, gin.H{"car": car})
}

// CreateCar registers a stolen car for the authenticated user.
func (h *Handler) CreateCar(c *gin.Context) {
	user := h.currentUser(c)

	plate := c.PostForm("plate_number")
	if plate == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": h.msg(c, "invalid_request")})
		return
	}

	if _, err := h.Storage.GetCarByPlate(plate); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": h.msg(c, "plate_taken")})
		return
	} else if !errors.Is(err, errs.ErrNotFound) {
		h.fail(c, err)
		return
	}

	year, _ := strconv.Atoi(c.PostForm("year"))
	reward, _ := strconv.ParseFloat(c.PostForm("reward_amount"), 64)

	car := &models.Car{
		PlateNumber:       plate,
		Make:              c.PostForm("make"),
		Model:             c.PostForm("model"),
		Year:              year,
		Color:             c.PostForm("color"),
		OwnerID:           user.ID,
		StolenLocation:    c.PostForm("stolen_location"),
		Description:       c.PostForm("description"),
		Features:          c.PostForm("features"),
		EngineNumber:      c.PostForm("engine_number"),
		ChassisNumber:     c.PostForm("chassis_number"),
		AdditionalDetails: c.PostForm("additional_details"),
		ContactPhone:      c.PostForm("contact_phone"),
		ContactEmail:      c.PostForm("contact_email"),
		RewardAmount:      reward,
	}
	if raw := c.PostForm("stolen_date"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			car.StolenDate = t
		}
	}
	// Contact details default to the owner's own.
	if car.ContactPhone == "" {
		car.ContactPhone = user.Phone
	}
	if car.ContactEmail == "" {
		car.ContactEmail = user.Email
	}

	images, err := h.saveImages(c, "images", "cars")
	if err != nil {
		h.uploadError(c, err)
		return
	}
	car.Images = images

	if err := h.Storage.CreateCar(car); err != nil {
		h.fail(c, err)
		return
	}

	h.Hub.Publish(models.Event{
		Type:        models.EventCarRegistered,
		CarID:       car.ID,
		PlateNumber: car.PlateNumber,
		Location:    car.StolenLocation,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": h.msg(c, "car_created"),
		"car":     car,
	})
}

// UpdateCar lets the owner or an admin change the allow-listed fields and
// manage the image list. The plate number is immutable.
func (h *Handler) UpdateCar(c *gin.Context) {
	user := h.currentUser(c)

	car, err := h.Storage.GetCarByID(c.Param("id"))
	if errors.Is(err, errs.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": h.msg(c, "car_not_found")})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	if car.OwnerID != user.ID && !user.Role.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"message": h.msg(c, "forbidden")})
		return
	}

	for field, dst := range map[string]*string{
		"make":               &car.Make,
		"model":              &car.Model,
		"color":              &car.Color,
		"stolen_location":    &car.StolenLocation,
		"description":        &car.Description,
		"features":           &car.Features,
		"engine_number":      &car.EngineNumber,
		"chassis_number":     &car.ChassisNumber,
		"additional_details": &car.AdditionalDetails,
		"contact_phone":      &car.ContactPhone,
		"contact_email":      &car.ContactEmail,
	} {
		if v, ok := c.GetPostForm(field); ok {
			*dst = v
		}
	}
	if v, ok := c.GetPostForm("year"); ok {
		if year, err := strconv.Atoi(v); err == nil {
			car.Year = year
		}
	}
	if v, ok := c.GetPostForm("reward_amount"); ok {
		if reward, err := strconv.ParseFloat(v, 64); err == nil {
			car.RewardAmount = reward
		}
	}

	newImages, err := h.saveImages(c, "images", "cars")
	if err != nil {
		h.uploadError(c, err)
		return
	}
	car.Images = append(car.Images, newImages...)

	if deleted, ok := c.GetPostFormArray("delete_images"); ok {
		drop := make(map[string]bool, len(deleted))
		for _, img := range deleted {
			drop[img] = true
		}
		kept := car.Images[:0]
		for _, img := range car.Images {
			if !drop[img] {
				kept = append(kept, img)
			}
		}
		car.Images = kept
	}

	if err := h.Storage.SaveCar(car); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": h.msg(c, "car_updated"),
		"car":     car,
	})
}

// DeleteCar removes a car and all of its reports. Owner or admin only.
func (h *Handler) DeleteCar(c *gin.Context) {
	user := h.currentUser(c)

	car, err := h.Storage.GetCarByID(c.Param("id"))
	if errors.Is(err, errs.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": h.msg(c, "car_not_found")})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	if car.OwnerID != user.ID && !user.Role.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"message": h.msg(c, "forbidden")})
		return
	}

	if err := h.Storage.DeleteCar(car.ID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": h.msg(c, "car_deleted")})
}

// CarStats returns the public cars statistics summary.
func (h *Handler) CarStats(c *gin.Context) {
	stats, err := h.Storage.CarStats()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// MyCars lists the authenticated user's own registrations.
func (h *Handler) MyCars(c *gin.Context) {
	cars, err := h.Storage.ListCarsByOwner(h.currentUser(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cars": cars})
}
