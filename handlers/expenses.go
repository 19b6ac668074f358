package handlers

import (
	"net/http"

	"github.com/codezana/generator-system-api/models"
	"github.com/gin-gonic/gin"
)

func GetAllExpenses(c *gin.Context) {
	expenses, err := models.GetAllExpenses(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, expenses)
}

func GetExpense(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	expense, err := models.GetExpense(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, expense)
}

func CreateExpense(c *gin.Context) {
	var input models.NewExpense
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithBindingError(c, err)
		return
	}
	expense, err := models.CreateExpense(c.Request.Context(), &input)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "expense created successfully", "expense": expense})
}

func UpdateExpense(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.UpdateExpenseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithBindingError(c, err)
		return
	}
	expense, err := models.UpdateExpense(c.Request.Context(), id, &input)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "expense updated successfully", "expense": expense})
}

func DeleteExpense(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	if _, err := models.DeleteExpense(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "expense deleted successfully"})
}
