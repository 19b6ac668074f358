package handlers

import (
	"net/http"

	"github.com/codezana/generator-system-api/models"
	"github.com/gin-gonic/gin"
)

func GetAllExpenseTypes(c *gin.Context) {
	types, err := models.GetAllExpenseTypes(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, types)
}

func GetExpenseType(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	expenseType, err := models.GetExpenseType(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, expenseType)
}

func CreateExpenseType(c *gin.Context) {
	var input models.NewExpenseType
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithBindingError(c, err)
		return
	}
	expenseType, err := models.CreateExpenseType(c.Request.Context(), &input)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "type created successfully", "type": expenseType})
}

func UpdateExpenseType(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.NewExpenseType
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithBindingError(c, err)
		return
	}
	expenseType, err := models.UpdateExpenseType(c.Request.Context(), id, &input)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "type updated successfully", "type": expenseType})
}

func DeleteExpenseType(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	if _, err := models.DeleteExpenseType(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "type deleted successfully"})
}
