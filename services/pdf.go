package services

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/jung-kurt/gofpdf"

	"tripcraft/planner"
)

// PlanPDFData carries everything the plan export renders.
type PlanPDFData struct {
	TravelerName string
	Destination  string
	Days         int
	Budget       float64
	Plan         planner.TripPlan
	Hotels       planner.HotelSuggestions
	Route        planner.RoutePlan
	HasFallbacks bool // any section came from a fallback instead of the AI
}

// GeneratePlanPDF renders a stored vacation plan and returns raw bytes
// (no filesystem — the bytes go straight into PostgreSQL).
func GeneratePlanPDF(data PlanPDFData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	// ── Header Bar ───────────────────────────────────────────
	pdf.SetFillColor(13, 24, 37)
	pdf.Rect(0, 0, 210, 28, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(20, 8)
	pdf.CellFormat(100, 10, "TripCraft", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(212, 168, 67)
	pdf.SetXY(20, 18)
	pdf.CellFormat(170, 6, "AI-Generated Vacation Plan", "", 1, "L", false, 0, "")

	pdf.SetY(35)
	pdf.SetTextColor(0, 0, 0)

	// ── Disclaimer ───────────────────────────────────────────
	pdf.SetFillColor(255, 248, 225)
	pdf.SetDrawColor(212, 168, 67)
	pdf.SetTextColor(130, 90, 20)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetLineWidth(0.4)
	y := pdf.GetY()
	pdf.Rect(20, y, 170, 12, "FD")
	pdf.SetXY(23, y+2)
	disclaimer := "This plan was generated by AI. Prices are estimates and subject to change. Verify with providers before booking."
	if data.HasFallbacks {
		disclaimer = "Parts of this plan use standard suggestions because the AI service was unavailable. Verify all details before booking."
	}
	pdf.MultiCell(164, 4, disclaimer, "", "C", false)

	pdf.SetTextColor(0, 0, 0)
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.2)
	pdf.Ln(6)

	// ── Section Helpers ──────────────────────────────────────
	sectionHeader := func(title string) {
		pdf.SetFillColor(13, 24, 37)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(170, 8, "  "+title, "", 1, "L", true, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(2)
	}

	row := func(label, value string) {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(55, 7, label, "", 0, "L", false, 0, "")
		pdf.SetTextColor(20, 20, 20)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(115, 7, value, "", 1, "L", false, 0, "")
	}

	// ── Overview ─────────────────────────────────────────────
	sectionHeader("Trip Overview")
	name := data.TravelerName
	if name == "" {
		name = "Guest Traveler"
	}
	row("Traveler", name)
	row("Plan", data.Plan.Summary.Title)
	row("Destination", data.Plan.Summary.Destination)
	row("Duration", fmt.Sprintf("%d days", data.Plan.Summary.Duration))
	row("Generated", time.Now().Format("02 Jan 2006, 15:04 UTC"))
	pdf.Ln(4)

	// ── Day by Day ───────────────────────────────────────────
	sectionHeader("Day by Day")
	for _, day := range data.Plan.DailyPlan {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetTextColor(20, 20, 20)
		pdf.CellFormat(170, 6, fmt.Sprintf("Day %d — %s", day.Day, day.Title), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(60, 60, 60)
		for _, act := range day.Activities {
			pdf.MultiCell(166, 5, "  - "+act, "", "L", false)
		}
		pdf.Ln(1)
	}
	pdf.Ln(3)

	// ── Budget ───────────────────────────────────────────────
	sectionHeader("Budget Allocation")
	bb := data.Plan.BudgetBreakdown
	categories := make([]string, 0, len(bb.Categories))
	for cat := range bb.Categories {
		categories = append(categories, cat)
	}
	sort.Strings(categories)
	for _, cat := range categories {
		frac := bb.Categories[cat]
		row(cat, fmt.Sprintf("%.0f%%  ·  %.0f %s", frac*100, bb.Total*frac, bb.Currency))
	}

	pdf.SetFillColor(212, 168, 67)
	pdf.SetTextColor(13, 24, 37)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(55, 9, "TOTAL BUDGET", "", 0, "L", true, 0, "")
	pdf.CellFormat(115, 9, fmt.Sprintf("%.0f %s", bb.Total, bb.Currency), "", 1, "L", true, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	// ── Hotels ───────────────────────────────────────────────
	if len(data.Hotels.Hotels) > 0 {
		sectionHeader("Suggested Hotels")
		for _, h := range data.Hotels.Hotels {
			row(h.Name, fmt.Sprintf("%s · %s · $%.0f/night", h.Area, h.Style, h.PerNight))
		}
		pdf.Ln(4)
	}

	// ── Routing ──────────────────────────────────────────────
	if len(data.Route.Legs) > 0 {
		sectionHeader("Getting Around")
		for _, leg := range data.Route.Legs {
			row(fmt.Sprintf("Day %d", leg.Day), fmt.Sprintf("%s → %s (%s)", leg.From, leg.To, leg.Mode))
		}
		if data.Route.Advice != "" {
			pdf.SetFont("Helvetica", "", 9)
			pdf.SetTextColor(60, 60, 60)
			pdf.MultiCell(170, 5, data.Route.Advice, "", "L", false)
		}
		pdf.Ln(4)
	}

	// ── Footer ───────────────────────────────────────────────
	pdf.SetY(-22)
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.3)
	pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(150, 150, 150)
	pdf.CellFormat(0, 8,
		"Generated by TripCraft AI Travel Planner · Not a booking confirmation · Prices subject to change",
		"", 0, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("PDF output failed: %w", err)
	}
	return buf.Bytes(), nil
}
