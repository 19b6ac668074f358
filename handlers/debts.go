package handlers

import (
	"net/http"

	"github.com/codezana/generator-system-api/models"
	"github.com/gin-gonic/gin"
)

func ListDebts(c *gin.Context) {
	var filter models.DebtFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		abortWithBindingError(c, err)
		return
	}
	debts, err := models.ListDebts(c.Request.Context(), &filter)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, debts)
}

func GetDebt(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	debt, err := models.GetDebt(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, debt)
}

func CreateDebt(c *gin.Context) {
	var input models.NewDebt
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithBindingError(c, err)
		return
	}
	debt, err := models.CreateDebt(c.Request.Context(), &input)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "debt created successfully", "debt": debt})
}

func UpdateDebt(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	var input models.UpdateDebtInput
	if err := c.ShouldBindJSON(&input); err != nil {
		abortWithBindingError(c, err)
		return
	}
	debt, err := models.UpdateDebt(c.Request.Context(), id, &input)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "debt updated successfully", "debt": debt})
}

func DeleteDebt(c *gin.Context) {
	id, ok := pathId(c)
	if !ok {
		return
	}
	if _, err := models.DeleteDebt(c.Request.Context(), id); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "debt deleted successfully"})
}
