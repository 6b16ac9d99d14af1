package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tripcraft/database"
	"tripcraft/services"
)

func DownloadHandler(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing plan ID"})
		return
	}

	plan, err := database.GetPlan(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Plan not found"})
		return
	}

	if len(plan.PDFData) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "PDF has not been generated for this plan"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=tripcraft-plan.pdf")
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "application/pdf", plan.PDFData)
}

func HealthHandler(c *gin.Context) {
	dbStatus := "ok"
	if database.DB == nil {
		dbStatus = "not configured"
	} else if err := database.DB.Ping(); err != nil {
		dbStatus = "error: " + err.Error()
	}

	aiStatus := "ok"
	if ai := services.GetAIClient(); ai == nil || ai.Ready() != nil {
		aiStatus = "not configured"
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"service":  "TripCraft API",
		"database": dbStatus,
		"ai":       aiStatus,
	})
}
