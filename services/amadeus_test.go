package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsoDuration(t *testing.T) {
	assert.Equal(t, "5h 30m", isoDuration("PT5H30M"))
	assert.Equal(t, "2h", isoDuration("PT2H"))
	assert.Equal(t, "45m", isoDuration("PT45M"))
	assert.Equal(t, "", isoDuration(""))
}

func TestParsePrice(t *testing.T) {
	assert.Equal(t, 123.45, parsePrice("123.45"))
	assert.Equal(t, 0.0, parsePrice("not a price"))
	assert.Equal(t, 0.0, parsePrice(""))
}

func TestParseRating(t *testing.T) {
	assert.Equal(t, 4.5, parseRating("4.5"))
	assert.Equal(t, 5.0, parseRating("9"))  // Amadeus star ratings cap at 5
	assert.Equal(t, 4.0, parseRating(""))   // missing rating gets a neutral default
	assert.Equal(t, 4.0, parseRating("-2"))
}

func TestAirportToCity(t *testing.T) {
	assert.Equal(t, "LON", airportToCity("LHR"))
	assert.Equal(t, "PAR", airportToCity("ORY"))
	assert.Equal(t, "MAD", airportToCity("MAD")) // unmapped codes pass through
}
