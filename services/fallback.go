package services

import (
	"fmt"
	"time"
)

// ─── Fallback Data (when Amadeus is not configured or fails) ──────────────────

// GenerateFlightsFallback produces plausible flight options without an API
// key. The AI summary labels these as estimated prices.
func GenerateFlightsFallback(origin, destination, departureDate, returnDate string) []Flight {
	type route struct {
		basePrice float64
		minutes   int
	}
	routes := map[string]route{
		"LHR-JFK": {460, 480}, "JFK-LHR": {460, 480},
		"LHR-CDG": {85, 75}, "CDG-LHR": {85, 75},
		"BER-CDG": {115, 105}, "CDG-BER": {115, 105},
		"BER-LHR": {100, 100}, "LHR-BER": {100, 100},
		"FRA-IST": {155, 165}, "IST-FRA": {155, 165},
		"IST-DXB": {255, 240}, "DXB-IST": {255, 240},
		"JFK-LAX": {320, 360}, "LAX-JFK": {320, 360},
		"AMS-BCN": {130, 130}, "BCN-AMS": {130, 130},
	}

	r, ok := routes[origin+"-"+destination]
	if !ok {
		r = route{350, 240}
	}

	options := []struct {
		airline  string
		priceMod float64
		stops    int
	}{
		{"British Airways", 1.00, 0},
		{"Lufthansa", 1.12, 0},
		{"Emirates", 1.28, 0},
		{"Ryanair", 0.60, 1},
		{"Wizz Air", 0.72, 1},
	}

	depDate, _ := time.Parse("2006-01-02", departureDate)
	retDate, _ := time.Parse("2006-01-02", returnDate)

	flights := make([]Flight, 0, len(options))
	for i, opt := range options {
		price := float64(int(r.basePrice*opt.priceMod/5) * 5)
		minutes := r.minutes
		if opt.stops > 0 {
			minutes += 90
		}

		dep := time.Date(depDate.Year(), depDate.Month(), depDate.Day(), 6+i*3, 0, 0, 0, time.UTC)
		ret := time.Date(retDate.Year(), retDate.Month(), retDate.Day(), 8+i*2, 0, 0, 0, time.UTC)

		flights = append(flights, Flight{
			Price:           price,
			Airline:         opt.airline,
			DepartureTime:   dep.Format(time.RFC3339),
			ArrivalTime:     dep.Add(time.Duration(minutes) * time.Minute).Format(time.RFC3339),
			Duration:        fmtMinutes(minutes),
			Stops:           opt.stops,
			ReturnDeparture: ret.Format(time.RFC3339),
			ReturnArrival:   ret.Add(time.Duration(minutes) * time.Minute).Format(time.RFC3339),
			ReturnDuration:  fmtMinutes(minutes),
			ReturnStops:     opt.stops,
			Currency:        "USD",
		})
	}
	return flights
}

// GenerateHotelsFallback produces plausible hotel options without an API key.
func GenerateHotelsFallback(destination string) []Hotel {
	cityHotels := map[string][]Hotel{
		"LHR": {
			{Name: "Hilton London Tower Bridge", Price: 180, Rating: 4.4, Location: "Tower Bridge, London", Currency: "USD"},
			{Name: "The Hoxton Shoreditch", Price: 165, Rating: 4.5, Location: "Shoreditch, London", Currency: "USD"},
			{Name: "Premier Inn London City", Price: 95, Rating: 4.1, Location: "City of London", Currency: "USD"},
			{Name: "citizenM London Bankside", Price: 145, Rating: 4.4, Location: "Bankside, London", Currency: "USD"},
			{Name: "Generator London", Price: 50, Rating: 3.8, Location: "Russell Square, London", Currency: "USD"},
		},
		"CDG": {
			{Name: "Pullman Paris Tour Eiffel", Price: 280, Rating: 4.5, Location: "7th Arr., Paris", Currency: "USD"},
			{Name: "Hotel Le Marais", Price: 220, Rating: 4.6, Location: "Le Marais, Paris", Currency: "USD"},
			{Name: "Hotel des Arts Montmartre", Price: 130, Rating: 4.3, Location: "18th Arr., Paris", Currency: "USD"},
			{Name: "Ibis Paris Montmartre", Price: 95, Rating: 4.0, Location: "Montmartre, Paris", Currency: "USD"},
		},
		"JFK": {
			{Name: "Arlo Midtown", Price: 240, Rating: 4.4, Location: "Midtown, New York", Currency: "USD"},
			{Name: "Pod 51", Price: 130, Rating: 4.0, Location: "Midtown East, New York", Currency: "USD"},
			{Name: "The Jane Hotel", Price: 110, Rating: 3.9, Location: "West Village, New York", Currency: "USD"},
			{Name: "1 Hotel Brooklyn Bridge", Price: 330, Rating: 4.6, Location: "Brooklyn, New York", Currency: "USD"},
		},
		"IST": {
			{Name: "Grand Hyatt Istanbul", Price: 180, Rating: 4.7, Location: "Beyoglu, Istanbul", Currency: "USD"},
			{Name: "The Marmara Taksim", Price: 140, Rating: 4.4, Location: "Taksim Square, Istanbul", Currency: "USD"},
			{Name: "Sultan Ahmet Palace Hotel", Price: 95, Rating: 4.3, Location: "Sultanahmet, Istanbul", Currency: "USD"},
			{Name: "Ibis Istanbul Taksim", Price: 75, Rating: 4.0, Location: "Taksim, Istanbul", Currency: "USD"},
		},
		"BER": {
			{Name: "Hotel Adlon Kempinski", Price: 320, Rating: 4.8, Location: "Mitte, Berlin", Currency: "USD"},
			{Name: "Michelberger Hotel", Price: 130, Rating: 4.5, Location: "Friedrichshain, Berlin", Currency: "USD"},
			{Name: "Motel One Hackescher Markt", Price: 85, Rating: 4.2, Location: "Mitte, Berlin", Currency: "USD"},
			{Name: "Generator Berlin Mitte", Price: 45, Rating: 3.9, Location: "Mitte, Berlin", Currency: "USD"},
		},
	}

	if hotels, ok := cityHotels[destination]; ok {
		return hotels
	}

	return []Hotel{
		{Name: "Grand City Hotel", Price: 150, Rating: 4.5, Location: "City Center, " + destination, Currency: "USD"},
		{Name: "Boutique Residence", Price: 120, Rating: 4.4, Location: "Arts District, " + destination, Currency: "USD"},
		{Name: "Business Inn", Price: 95, Rating: 4.2, Location: "Business District, " + destination, Currency: "USD"},
		{Name: "Economy Suites", Price: 65, Rating: 3.9, Location: "Near Airport, " + destination, Currency: "USD"},
		{Name: "Luxury Collection", Price: 240, Rating: 4.7, Location: "Historic Center, " + destination, Currency: "USD"},
	}
}

// ─── Recommendation Prompts & Text Fallback ───────────────────────────────────

// RecommendationPrompt builds the prompt for the flight/hotel summary.
// The simplified variant trims the option lists so a retry after a timeout
// is materially cheaper.
func RecommendationPrompt(budget float64, origin, destination, departureDate, returnDate string,
	passengers int, flights []Flight, hotels []Hotel, estimated, simplified bool) string {

	limit := 5
	if simplified {
		limit = 3
	}

	note := ""
	if estimated {
		note = " Note: prices are estimated — real-time data unavailable."
	}

	prompt := fmt.Sprintf(`You are a helpful travel assistant. Analyze these options and give brief, honest recommendations.

Trip: %s → %s | %s to %s | %d passenger(s) | Budget: $%.0f%s

Flights available:
`, origin, destination, departureDate, returnDate, passengers, budget, note)

	for i, f := range flights {
		if i >= limit {
			break
		}
		prompt += fmt.Sprintf("  %d. %s — $%.0f (%d stop(s), %s)\n", i+1, f.Airline, f.Price, f.Stops, f.Duration)
	}

	prompt += "\nHotels (per night):\n"
	for i, h := range hotels {
		if i >= limit {
			break
		}
		prompt += fmt.Sprintf("  %d. %s — $%.0f/night (★%.1f) %s\n", i+1, h.Name, h.Price, h.Rating, h.Location)
	}

	words := 150
	if simplified {
		words = 60
	}
	prompt += fmt.Sprintf(`
In %d words or fewer, recommend the best flight and hotel that fit the budget. Explain why briefly. Use sections: "Flight:" and "Hotel:". Be direct.`, words)

	return prompt
}

// FallbackRecommendation provides a basic recommendation when the AI is
// unavailable. Pure arithmetic over the option lists, never fails.
func FallbackRecommendation(budget float64, flights []Flight, hotels []Hotel, numNights int) string {
	if len(flights) == 0 || len(hotels) == 0 {
		return "Unable to provide recommendations at this time."
	}

	cheapestFlight := flights[0]
	for _, f := range flights {
		if f.Price < cheapestFlight.Price {
			cheapestFlight = f
		}
	}

	bestValueHotel := hotels[0]
	for _, h := range hotels {
		if h.Price < bestValueHotel.Price {
			bestValueHotel = h
		}
	}

	total := cheapestFlight.Price + bestValueHotel.Price*float64(numNights)
	budgetNote := fmt.Sprintf(" This combination fits your $%.0f budget.", budget)
	if total > budget {
		budgetNote = fmt.Sprintf(" Note: This exceeds your $%.0f budget by $%.0f.", budget, total-budget)
	}

	return fmt.Sprintf(
		"Best value picks: %s at $%.0f (%d stop(s)) and %s at $%.0f/night (★ %.1f). "+
			"Estimated total: $%.0f for flight + %d nights.%s",
		cheapestFlight.Airline, cheapestFlight.Price, cheapestFlight.Stops,
		bestValueHotel.Name, bestValueHotel.Price, bestValueHotel.Rating,
		total, numNights, budgetNote,
	)
}

func fmtMinutes(minutes int) string {
	h := minutes / 60
	m := minutes % 60
	if m > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dh", h)
}
