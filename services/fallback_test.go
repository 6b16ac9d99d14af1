package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateFlightsFallback(t *testing.T) {
	flights := GenerateFlightsFallback("LHR", "JFK", "2026-10-01", "2026-10-08")

	require.NotEmpty(t, flights)
	for _, f := range flights {
		assert.Greater(t, f.Price, 0.0)
		assert.NotEmpty(t, f.Airline)
		assert.NotEmpty(t, f.DepartureTime)
		assert.NotEmpty(t, f.ReturnDeparture)
	}
}

func TestGenerateHotelsFallbackKnownAndUnknownCity(t *testing.T) {
	known := GenerateHotelsFallback("LHR")
	require.NotEmpty(t, known)

	unknown := GenerateHotelsFallback("XYZ")
	require.NotEmpty(t, unknown)
	assert.Contains(t, unknown[0].Location, "XYZ")
}

func TestRecommendationPromptDegradation(t *testing.T) {
	flights := GenerateFlightsFallback("LHR", "CDG", "2026-10-01", "2026-10-05")
	hotels := GenerateHotelsFallback("CDG")

	full := RecommendationPrompt(2000, "LHR", "CDG", "2026-10-01", "2026-10-05", 2, flights, hotels, false, false)
	short := RecommendationPrompt(2000, "LHR", "CDG", "2026-10-01", "2026-10-05", 2, flights, hotels, false, true)

	assert.Less(t, len(short), len(full), "simplified prompt must be cheaper")
	assert.Contains(t, full, "LHR → CDG")
}

func TestRecommendationPromptMarksEstimatedData(t *testing.T) {
	prompt := RecommendationPrompt(2000, "LHR", "CDG", "2026-10-01", "2026-10-05", 1, nil, nil, true, false)
	assert.True(t, strings.Contains(prompt, "estimated"))
}

func TestFallbackRecommendation(t *testing.T) {
	flights := []Flight{
		{Airline: "Lufthansa", Price: 300, Stops: 0},
		{Airline: "Ryanair", Price: 120, Stops: 1},
	}
	hotels := []Hotel{
		{Name: "Grand Hotel", Price: 200, Rating: 4.6},
		{Name: "Budget Inn", Price: 80, Rating: 4.0},
	}

	text := FallbackRecommendation(1000, flights, hotels, 4)
	assert.Contains(t, text, "Ryanair")
	assert.Contains(t, text, "Budget Inn")
	assert.Contains(t, text, "fits your $1000 budget")

	over := FallbackRecommendation(100, flights, hotels, 4)
	assert.Contains(t, over, "exceeds your $100 budget")

	assert.Equal(t, "Unable to provide recommendations at this time.",
		FallbackRecommendation(1000, nil, nil, 4))
}
