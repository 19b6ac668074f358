package handlers

import (
	"net/http"
	"time"

	"github.com/codezana/generator-system-api/config"
	"github.com/codezana/generator-system-api/models"
	"github.com/gin-gonic/gin"
)

const (
	loginAttemptLimit  = 10
	loginAttemptWindow = 60 * time.Second
)

type loginRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func Login(c *gin.Context) {
	var input loginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithBindingError(c, err)
		return
	}

	ctx := c.Request.Context()
	attempts, err := config.IncrRedisCounter(ctx, "LoginAttempts:"+c.ClientIP(), loginAttemptWindow)
	if err == nil && attempts > loginAttemptLimit {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many login attempts, try again later"})
		return
	}

	info, err := models.Login(ctx, input.Name, input.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, info)
}

func Logout(c *gin.Context) {
	if _, err := models.Logout(c.Request.Context()); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out successfully"})
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

func ChangePassword(c *gin.Context) {
	var input changePasswordRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithBindingError(c, err)
		return
	}

	if _, err := models.ChangePassword(c.Request.Context(), input.CurrentPassword, input.NewPassword); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password changed successfully"})
}
