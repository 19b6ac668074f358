package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/codezana/generator-system-api/config"
	"github.com/codezana/generator-system-api/models"
	"github.com/codezana/generator-system-api/utils"
	"github.com/gin-gonic/gin"
)

func GetReportFilters(c *gin.Context) {
	filters, err := models.GeneratorNamesByRole(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, filters)
}

func queryIds(c *gin.Context, key string) ([]int, bool) {
	values := c.QueryArray(key)
	ids := make([]int, 0, len(values))
	for _, value := range values {
		id, err := strconv.Atoi(value)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + key})
			return nil, false
		}
		ids = append(ids, id)
	}
	return utils.UniqueSlice(ids), true
}

func queryMonth(c *gin.Context) (*time.Time, bool) {
	value := c.Query("date")
	if value == "" {
		return nil, true
	}
	month, err := utils.ParseDateOnly(value)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be yyyy-mm-dd"})
		return nil, false
	}
	return &month, true
}

func AmpereUsageReport(c *gin.Context) {
	generatorIds, ok := queryIds(c, "generator_id")
	if !ok {
		return
	}
	if len(generatorIds) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "generator id is required"})
		return
	}
	month, ok := queryMonth(c)
	if !ok {
		return
	}
	report, err := models.AmpereUsageReport(c.Request.Context(), generatorIds, month)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func GeneratorExpenseUsageReport(c *gin.Context) {
	generatorIds, ok := queryIds(c, "generator_id")
	if !ok {
		return
	}
	if len(generatorIds) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "generator id is required"})
		return
	}
	month, ok := queryMonth(c)
	if !ok {
		return
	}
	report, err := models.GeneratorExpenseUsageReport(c.Request.Context(), generatorIds, month)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func ExpenseUsageReport(c *gin.Context) {
	userIds, ok := queryIds(c, "user_id")
	if !ok {
		return
	}
	if len(userIds) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user id is required"})
		return
	}
	month, ok := queryMonth(c)
	if !ok {
		return
	}
	report, err := models.ExpenseUsageReport(c.Request.Context(), userIds, month)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func ExportReport(c *gin.Context) {
	month, ok := queryMonth(c)
	if !ok {
		return
	}
	if err := models.ExportMonthlyReport(c.Request.Context(), month, c.Writer); err != nil {
		// The workbook may already be partially streamed at this point.
		correlationId, _ := utils.GetCorrelationIdFromContext(c.Request.Context())
		config.LogError(config.GetLogger(), "handlers", "ExportReport", correlationId, nil, err)
		abortWithError(c, err)
		return
	}
}
