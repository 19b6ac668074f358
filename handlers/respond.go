package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/codezana/generator-system-api/models"
	"github.com/codezana/generator-system-api/utils"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

func statusForError(err error) int {
	var dangling *models.DanglingReferenceError
	var overpayment *models.OverpaymentError
	switch {
	case errors.As(err, &dangling):
		return http.StatusNotFound
	case errors.As(err, &overpayment):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrNoGenerators):
		return http.StatusNotFound
	case errors.Is(err, utils.ErrorRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, utils.ErrorUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, utils.ErrorForbidden):
		return http.StatusForbidden
	default:
		return http.StatusUnprocessableEntity
	}
}

func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(statusForError(err), gin.H{"error": err.Error()})
}

// abortWithBindingError turns a ShouldBind failure into a 422 with the
// first validation message, matching the API's error envelope.
func abortWithBindingError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": utils.ProcessValidationErrors(validationErrors)})
		return
	}
	c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
}

func pathId(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
