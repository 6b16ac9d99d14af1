package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"tripcraft/database"
	"tripcraft/services"
)

type GenerateRequest struct {
	PlanID       string `json:"plan_id" binding:"required"`
	TravelerName string `json:"traveler_name"`
}

type GenerateResponse struct {
	PlanID  string `json:"plan_id"`
	PDFURL  string `json:"pdf_url"`
	Message string `json:"message"`
}

// GenerateHandler renders a stored plan to PDF and attaches the bytes to
// the plan record. Plans are persisted write-behind, so a plan requested
// immediately after generation may not be stored yet.
func GenerateHandler(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	stored, err := database.GetPlan(req.PlanID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Plan not found"})
		return
	}

	var doc PlanDocument
	if err := json.Unmarshal([]byte(stored.PlanJSON), &doc); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to parse stored plan"})
		return
	}

	hasFallbacks := false
	for _, src := range doc.Sources {
		if src == "fallback" {
			hasFallbacks = true
			break
		}
	}

	pdfBytes, err := services.GeneratePlanPDF(services.PlanPDFData{
		TravelerName: req.TravelerName,
		Destination:  stored.Destination,
		Days:         stored.Days,
		Budget:       stored.Budget,
		Plan:         doc.Plan,
		Hotels:       doc.Hotels,
		Route:        doc.Routing,
		HasFallbacks: hasFallbacks,
	})
	if err != nil {
		log.Printf("❌ PDF generation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF"})
		return
	}

	if err := database.UpdatePlanPDF(stored.ID, pdfBytes, req.TravelerName); err != nil {
		log.Printf("❌ Failed to store PDF for plan %s: %v", stored.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save generated PDF"})
		return
	}

	log.Printf("✅ PDF generated for plan %s (%d bytes)", stored.ID, len(pdfBytes))

	c.JSON(http.StatusOK, GenerateResponse{
		PlanID:  stored.ID,
		PDFURL:  "/api/download/" + stored.ID,
		Message: "PDF generated successfully",
	})
}
