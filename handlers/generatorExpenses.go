package handlers

import (
	"net/http"

	"github.com/codezana/generator-system-api/models"
	"github.com/gin-gonic/gin"
)

func GetAllGeneratorExpenses(c *gin.Context) {
	genExpenses, err := models.GetAllGeneratorExpenses(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, genExpenses)
}

func GetGeneratorExpense(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	genExpense, err := models.GetGeneratorExpense(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, genExpense)
}

func CreateGeneratorExpense(c *gin.Context) {
	var input models.NewGeneratorExpense
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithBindingError(c, err)
		return
	}
	genExpense, err := models.CreateGeneratorExpense(c.Request.Context(), &input)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "generator expense created successfully", "expense": genExpense})
}

func UpdateGeneratorExpense(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.UpdateGeneratorExpenseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithBindingError(c, err)
		return
	}
	genExpense, err := models.UpdateGeneratorExpense(c.Request.Context(), id, &input)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "generator expense updated successfully", "expense": genExpense})
}

func DeleteGeneratorExpense(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	if _, err := models.DeleteGeneratorExpense(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "generator expense deleted successfully"})
}
