package handlers

import (
	"net/http"

	"github.com/codezana/generator-system-api/models"
	"github.com/gin-gonic/gin"
)

func GetAllGenerators(c *gin.Context) {
	generators, err := models.GetAllGenerators(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, generators)
}

func GetGenerator(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	generator, err := models.GetGenerator(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, generator)
}

func CreateGenerator(c *gin.Context) {
	var input models.NewGenerator
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithBindingError(c, err)
		return
	}
	generator, err := models.CreateGenerator(c.Request.Context(), &input)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "generator created successfully", "generator": generator})
}

func UpdateGenerator(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewGenerator
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithBindingError(c, err)
		return
	}
	generator, err := models.UpdateGenerator(c.Request.Context(), id, &input)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "generator updated successfully", "generator": generator})
}

func DeleteGenerator(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	if _, err := models.DeleteGenerator(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "generator deleted successfully"})
}
