package handlers

import (
	"net/http"

	"github.com/codezana/generator-system-api/models"
	"github.com/gin-gonic/gin"
)

func GetDashboard(c *gin.Context) {
	summary, err := models.GetDashboard(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func GetRepayment(c *gin.Context) {
	debts, err := models.GetRepayment(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"repayment_data": debts})
}
