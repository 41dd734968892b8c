package handler

import (
	"net/http"
	"strings"

	"carwatch/backend/internal/config"
	"carwatch/backend/internal/models"
	"carwatch/backend/internal/storage"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// AdminLogin authenticates into the admin panel. Regular accounts are
// rejected even with valid credentials.
func (h *Handler) AdminLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": h.msg(c, "invalid_request")})
		return
	}

	user, err := h.Storage.GetUserByEmail(req.Email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": h.msg(c, "invalid_credentials")})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": h.msg(c, "invalid_credentials")})
		return
	}
	if !user.Role.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"message": h.msg(c, "forbidden")})
		return
	}
	if !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"message": h.msg(c, "account_disabled")})
		return
	}

	token, err := h.generateToken(user)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": h.msg(c, "login_success"),
		"user":    user,
		"token":   token,
	})
}

// Dashboard returns the admin landing-page aggregate.
func (h *Handler) Dashboard(c *gin.Context) {
	stats, err := h.Storage.DashboardStats()
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ListUsers returns one page of accounts with role and search filters.
func (h *Handler) ListUsers(c *gin.Context) {
	page, limit := pageParams(c)

	users, total, err := h.Storage.ListUsers(storage.UserFilter{
		Role:   c.Query("role"),
		Search: c.Query("search"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users":        users,
		"total_pages":  totalPages(total, limit),
		"current_page": page,
		"total_users":  total,
	})
}

// SetUserRole changes a target account's role through the lifecycle rules.
func (h *Handler) SetUserRole(c *gin.Context) {
	var req struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": h.msg(c, "invalid_request")})
		return
	}

	user, err := h.Lifecycle.SetUserRole(h.currentUser(c), c.Param("id"), req.Role)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": h.msg(c, "role_updated"),
		"user":    user,
	})
}

// SetUserActive enables or disables a target account through the
// lifecycle rules.
func (h *Handler) SetUserActive(c *gin.Context) {
	var req struct {
		IsActive *bool `json:"is_active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.IsActive == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": h.msg(c, "invalid_request")})
		return
	}

	user, err := h.Lifecycle.SetUserActive(h.currentUser(c), c.Param("id"), *req.IsActive)
	if err != nil {
		h.fail(c, err)
		return
	}

	key := "account_deactivated"
	if *req.IsActive {
		key = "account_activated"
	}
	c.JSON(http.StatusOK, gin.H{
		"message": h.msg(c, key),
		"user":    user,
	})
}

// VerifyCar flips a car's verification flag.
func (h *Handler) VerifyCar(c *gin.Context) {
	var req struct {
		IsVerified *bool `json:"is_verified" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.IsVerified == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": h.msg(c, "invalid_request")})
		return
	}

	car, err := h.Lifecycle.SetCarVerified(h.currentUser(c), c.Param("id"), *req.IsVerified)
	if err != nil {
		h.fail(c, err)
		return
	}

	key := "car_unverified"
	if *req.IsVerified {
		key = "car_verified"
	}
	c.JSON(http.StatusOK, gin.H{
		"message": h.msg(c, key),
		"car":     car,
	})
}

// SetCarStatus moves a car record to a new status.
func (h *Handler) SetCarStatus(c *gin.Context) {
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": h.msg(c, "invalid_request")})
		return
	}

	car, err := h.Lifecycle.SetCarStatus(h.currentUser(c), c.Param("id"), req.Status)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": h.msg(c, "car_status_updated"),
		"car":     car,
	})
}

// CreateAdmin provisions an admin or superadmin account. Superadmin only;
// this is the single path that can mint the superadmin role.
func (h *Handler) CreateAdmin(c *gin.Context) {
	actor := h.currentUser(c)
	if actor.Role != models.RoleSuperAdmin {
		c.JSON(http.StatusForbidden, gin.H{"message": h.msg(c, "forbidden")})
		return
	}

	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Phone    string `json:"phone" binding:"required"`
		Password string `json:"password" binding:"required,min=6"`
		Role     string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": h.msg(c, "invalid_request")})
		return
	}

	role, ok := models.ParseRole(req.Role)
	if !ok || role == models.RoleUser {
		c.JSON(http.StatusBadRequest, gin.H{"message": h.msg(c, "invalid_request")})
		return
	}

	if _, err := h.Storage.GetUserByEmail(req.Email); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": h.msg(c, "email_taken")})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), config.BcryptCost)
	if err != nil {
		h.fail(c, err)
		return
	}

	user := &models.User{
		Name:         req.Name,
		Email:        strings.ToLower(req.Email),
		Phone:        req.Phone,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
	if err := h.Storage.CreateUser(user); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": h.msg(c, "admin_created"),
		"user":    user,
	})
}
