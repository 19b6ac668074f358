package handlers

import (
	"net/http"

	"github.com/codezana/generator-system-api/models"
	"github.com/gin-gonic/gin"
)

func GetAllAmperes(c *gin.Context) {
	amperes, err := models.GetAllAmperes(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, amperes)
}

func GetAmpere(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	ampere, err := models.GetAmpere(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, ampere)
}

func CreateAmpere(c *gin.Context) {
	var input models.NewAmpere
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithBindingError(c, err)
		return
	}
	ampere, err := models.CreateAmpere(c.Request.Context(), &input)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "ampere bill created successfully", "ampere": ampere})
}

func UpdateAmpere(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewAmpere
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithBindingError(c, err)
		return
	}
	ampere, err := models.UpdateAmpere(c.Request.Context(), id, &input)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ampere bill updated successfully", "ampere": ampere})
}

func DeleteAmpere(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	if _, err := models.DeleteAmpere(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "ampere bill deleted successfully"})
}
