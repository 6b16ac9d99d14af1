package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tripcraft/database"
	"tripcraft/planner"
	"tripcraft/services"
)

type SearchRequest struct {
	Origin        string  `json:"origin" binding:"required"`
	Destination   string  `json:"destination" binding:"required"`
	DepartureDate string  `json:"departure_date" binding:"required"`
	ReturnDate    string  `json:"return_date" binding:"required"`
	Budget        float64 `json:"budget" binding:"required,gt=0"`
	Passengers    int     `json:"passengers"`
}

type SearchResponse struct {
	SearchID  string            `json:"search_id"`
	Flights   []services.Flight `json:"flights"`
	Hotels    []services.Hotel  `json:"hotels"`
	AISummary string            `json:"ai_summary"`
	Source    string            `json:"source"` // "live" or "estimated"
}

func SearchHandler(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	req.Origin = strings.ToUpper(strings.TrimSpace(req.Origin))
	req.Destination = strings.ToUpper(strings.TrimSpace(req.Destination))

	if req.Passengers <= 0 {
		req.Passengers = 1
	}

	if len(req.Origin) != 3 || len(req.Destination) != 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Airport codes must be exactly 3 characters (e.g. LHR, JFK)"})
		return
	}

	depDate, err := time.Parse("2006-01-02", req.DepartureDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid departure date format. Use YYYY-MM-DD"})
		return
	}
	retDate, err := time.Parse("2006-01-02", req.ReturnDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid return date format. Use YYYY-MM-DD"})
		return
	}
	if !retDate.After(depDate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Return date must be after departure date"})
		return
	}

	numNights := int(retDate.Sub(depDate).Hours() / 24)
	ctx := c.Request.Context()

	// ── Try Amadeus live data ──────────────────────────────────────────────────
	var flights []services.Flight
	var hotels []services.Hotel
	isFallback := false

	amadeus := services.GetAmadeusClient()

	if amadeus != nil && amadeus.Configured() {
		liveFlights, err := amadeus.SearchFlights(ctx, req.Origin, req.Destination, req.DepartureDate, req.ReturnDate, req.Passengers)
		switch {
		case err != nil:
			log.Printf("⚠️  Amadeus flight search failed: %v — using fallback", err)
		case len(liveFlights) == 0:
			log.Println("⚠️  Amadeus returned 0 flights — using fallback")
		default:
			flights = liveFlights
			log.Printf("✅ Amadeus: %d live flights found", len(flights))
		}
	}
	if flights == nil {
		flights = services.GenerateFlightsFallback(req.Origin, req.Destination, req.DepartureDate, req.ReturnDate)
		isFallback = true
	}

	if amadeus != nil && amadeus.Configured() && !isFallback {
		liveHotels, err := amadeus.SearchHotels(ctx, req.Destination, req.DepartureDate, req.ReturnDate, req.Passengers)
		switch {
		case err != nil:
			log.Printf("⚠️  Amadeus hotel search failed: %v — using fallback", err)
		case len(liveHotels) == 0:
			log.Println("⚠️  Amadeus returned 0 hotels — using fallback")
		default:
			hotels = liveHotels
			log.Printf("✅ Amadeus: %d live hotels found", len(hotels))
		}
	}
	if hotels == nil {
		hotels = services.GenerateHotelsFallback(req.Destination)
		isFallback = true
	}

	source := "live"
	if isFallback {
		source = "estimated"
	}

	// ── AI Recommendation (through the retry stack) ───────────────────────────
	fullPrompt := services.RecommendationPrompt(req.Budget, req.Origin, req.Destination,
		req.DepartureDate, req.ReturnDate, req.Passengers, flights, hotels, isFallback, false)
	shortPrompt := services.RecommendationPrompt(req.Budget, req.Origin, req.Destination,
		req.DepartureDate, req.ReturnDate, req.Passengers, flights, hotels, isFallback, true)

	pol := planner.NewPolicy(services.GetAIClient())
	res, err := pol.Run(ctx, planner.Operation{
		Name:     "recommendation",
		Full:     planner.Request{Prompt: fullPrompt, MaxTokens: 400, Temperature: 0.6},
		Degraded: planner.Request{Prompt: shortPrompt, MaxTokens: 150, Temperature: 0.4, Simplified: true},
		Fallback: func() string {
			return services.FallbackRecommendation(req.Budget, flights, hotels, numNights)
		},
	})

	aiSummary := res.Raw
	if err != nil {
		// Unconfigured AI degrades the summary, never the search itself.
		log.Printf("⚠️  AI recommendation unavailable (%s) — using fallback text", planner.Classify(err))
		aiSummary = services.FallbackRecommendation(req.Budget, flights, hotels, numNights)
	}

	// ── Persist (write-behind, best-effort) ───────────────────────────────────
	searchID := uuid.New().String()
	database.SaveSearchAsync(&database.Search{
		ID:            searchID,
		Origin:        req.Origin,
		Destination:   req.Destination,
		DepartureDate: req.DepartureDate,
		ReturnDate:    req.ReturnDate,
		Budget:        req.Budget,
		Passengers:    req.Passengers,
	})

	flightsJSON, _ := json.Marshal(flights)
	hotelsJSON, _ := json.Marshal(hotels)
	database.SaveItineraryAsync(&database.Itinerary{
		ID:          uuid.New().String(),
		SearchID:    searchID,
		FlightsJSON: string(flightsJSON),
		HotelsJSON:  string(hotelsJSON),
		AISummary:   aiSummary,
	})

	c.JSON(http.StatusOK, SearchResponse{
		SearchID:  searchID,
		Flights:   flights,
		Hotels:    hotels,
		AISummary: aiSummary,
		Source:    source,
	})
}
