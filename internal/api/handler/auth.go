package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"carwatch/backend/internal/config"
	"carwatch/backend/internal/errs"
	"carwatch/backend/internal/models"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// generateToken issues an HS256 JWT carrying the user id and role.
func (h *Handler) generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"exp":  time.Now().Add(config.TokenTTL).Unix(),
		"iss":  config.TokenIssuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.Cfg.JWTSecret))
}

// parseToken validates a bearer token and returns the subject user id.
func (h *Handler) parseToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errs.ErrUnauthorized
		}
		return []byte(h.Cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return "", errs.ErrUnauthorized
	}

	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", errs.ErrUnauthorized
	}
	return sub, nil
}

type registerRequest struct {
	Name     string `json:"name" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
	Location string `json:"location"`
}

// Register creates a regular user account and logs it in.
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": h.msg(c, "invalid_request")})
		return
	}

	if _, err := h.Storage.GetUserByEmail(req.Email); err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": h.msg(c, "email_taken")})
		return
	} else if !errors.Is(err, errs.ErrNotFound) {
		h.fail(c, err)
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
		Location:     req.Location,
		IsActive:     true,
	}
	if err := h.Storage.CreateUser(user); err != nil {
		h.fail(c, err)
		return
	}

	token, err := h.generateToken(user)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": h.msg(c, "register_success"),
		"user":    user,
		"token":   token,
	})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	FCMToken string `json:"fcm_token"`
}

// Login authenticates with email and password, capturing the device push
// token when the mobile client sends one.
func (h *Handler) Login(c *gin.Context) {
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
	if !user.IsActive {
		c.JSON(http.StatusUnauthorized, gin.H{"message": h.msg(c, "account_disabled")})
		return
	}

	if req.FCMToken != "" {
		user.FCMToken = req.FCMToken
		if err := h.Storage.SaveUser(user); err != nil {
			h.fail(c, err)
			return
		}
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

// Logout clears the device push token so the signed-out device stops
// receiving notifications.
func (h *Handler) Logout(c *gin.Context) {
	user := h.currentUser(c)
	user.FCMToken = ""
	if err := h.Storage.SaveUser(user); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": h.msg(c, "logout_success")})
}

// Me returns the authenticated user's profile.
func (h *Handler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": h.currentUser(c)})
}

// UpdateProfile changes the allow-listed profile fields and the avatar.
func (h *Handler) UpdateProfile(c *gin.Context) {
	user := h.currentUser(c)

	if v := c.PostForm("name"); v != "" {
		user.Name = v
	}
	if v := c.PostForm("phone"); v != "" {
		user.Phone = v
	}
	if v := c.PostForm("location"); v != "" {
		user.Location = v
	}

	if file, err := c.FormFile("profile_image"); err == nil {
		path, err := h.saveImage(c, file, "users")
		if err != nil {
			h.uploadError(c, err)
			return
		}
		user.ProfileImage = path
	}

	if err := h.Storage.SaveUser(user); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": h.msg(c, "profile_updated"),
		"user":    user,
	})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

// ChangePassword replaces the password after checking the current one.
func (h *Handler) ChangePassword(c *gin.Context) {
	var req changePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": h.msg(c, "invalid_request")})
		return
	}

	user := h.currentUser(c)
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": h.msg(c, "wrong_password")})
		return
	}
	if len(req.NewPassword) < config.MinPasswordLen {
		c.JSON(http.StatusBadRequest, gin.H{"message": h.msg(c, "password_too_short")})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), config.BcryptCost)
	if err != nil {
		h.fail(c, err)
		return
	}
	user.PasswordHash = string(hash)

	if err := h.Storage.SaveUser(user); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": h.msg(c, "password_changed")})
}

// UpdateFCMToken stores a fresh device push token.
func (h *Handler) UpdateFCMToken(c *gin.Context) {
	var req struct {
		FCMToken string `json:"fcm_token"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.FCMToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": h.msg(c, "fcm_required")})
		return
	}

	user := h.currentUser(c)
	user.FCMToken = req.FCMToken
	if err := h.Storage.SaveUser(user); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": h.msg(c, "fcm_updated")})
}
