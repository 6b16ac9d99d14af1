package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// ─── Types ────────────────────────────────────────────────────────────────────

type Flight struct {
	Price           float64 `json:"price"`
	Airline         string  `json:"airline"`
	AirlineCode     string  `json:"airline_code,omitempty"`
	FlightNumber    string  `json:"flight_number,omitempty"`
	DepartureTime   string  `json:"departure_time"`
	ArrivalTime     string  `json:"arrival_time"`
	Duration        string  `json:"duration"`
	Stops           int     `json:"stops"`
	ReturnDeparture string  `json:"return_departure_time,omitempty"`
	ReturnArrival   string  `json:"return_arrival_time,omitempty"`
	ReturnDuration  string  `json:"return_duration,omitempty"`
	ReturnStops     int     `json:"return_stops,omitempty"`
	Currency        string  `json:"currency,omitempty"`
}

type Hotel struct {
	Name     string  `json:"name"`
	HotelID  string  `json:"hotel_id,omitempty"`
	Price    float64 `json:"price"`
	Rating   float64 `json:"rating"`
	Location string  `json:"location"`
	Currency string  `json:"currency,omitempty"`
}

// ─── Amadeus Client ───────────────────────────────────────────────────────────

// AmadeusClient is a token-cached client for the Amadeus self-service APIs.
// It is an opaque upstream from the planner's point of view: callers fall
// back to generated data whenever it is unconfigured or failing.
type AmadeusClient struct {
	clientID     string
	clientSecret string
	baseURL      string
	httpClient   *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

var amadeusClient *AmadeusClient

func InitAmadeus() {
	baseURL := "https://test.api.amadeus.com"
	if os.Getenv("AMADEUS_ENV") == "production" {
		baseURL = "https://api.amadeus.com"
	}

	amadeusClient = &AmadeusClient{
		clientID:     os.Getenv("AMADEUS_CLIENT_ID"),
		clientSecret: os.Getenv("AMADEUS_CLIENT_SECRET"),
		baseURL:      baseURL,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
	}

	if !amadeusClient.Configured() {
		log.Println("⚠️  AMADEUS_CLIENT_ID or AMADEUS_CLIENT_SECRET not set — flight/hotel search will use fallback data")
		return
	}

	if err := amadeusClient.refreshToken(context.Background()); err != nil {
		log.Printf("⚠️  Amadeus token pre-warm failed: %v", err)
	} else {
		log.Println("✅ Amadeus API authenticated")
	}
}

func GetAmadeusClient() *AmadeusClient {
	return amadeusClient
}

func (c *AmadeusClient) Configured() bool {
	return c.clientID != "" && c.clientSecret != ""
}

// ─── OAuth2 Token ─────────────────────────────────────────────────────────────

func (c *AmadeusClient) refreshToken(ctx context.Context) error {
	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {c.clientID},
		"client_secret": {c.clientSecret},
	}

	req, err := http.NewRequestWithContext(ctx, "POST",
		c.baseURL+"/v1/security/oauth2/token",
		strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("token request failed (%d): %s", resp.StatusCode, string(body))
	}

	var token struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &token); err != nil {
		return fmt.Errorf("failed to parse token response: %v", err)
	}

	c.mu.Lock()
	c.accessToken = token.AccessToken
	// Refresh 30s early so an in-flight request never rides an expired token.
	c.tokenExpiry = time.Now().Add(time.Duration(token.ExpiresIn-30) * time.Second)
	c.mu.Unlock()
	return nil
}

func (c *AmadeusClient) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	token, fresh := c.accessToken, time.Now().Before(c.tokenExpiry)
	c.mu.Unlock()

	if token != "" && fresh {
		return token, nil
	}
	if err := c.refreshToken(ctx); err != nil {
		return "", err
	}
	c.mu.Lock()
	token = c.accessToken
	c.mu.Unlock()
	return token, nil
}

func (c *AmadeusClient) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, fmt.Errorf("auth failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("amadeus error (%d): %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// ─── Flight Search ────────────────────────────────────────────────────────────

type amadeusSegment struct {
	Departure struct {
		IataCode string `json:"iataCode"`
		At       string `json:"at"`
	} `json:"departure"`
	Arrival struct {
		IataCode string `json:"iataCode"`
		At       string `json:"at"`
	} `json:"arrival"`
	CarrierCode string `json:"carrierCode"`
	Number      string `json:"number"`
}

type amadeusItinerary struct {
	Duration string           `json:"duration"`
	Segments []amadeusSegment `json:"segments"`
}

type amadeusFlightOffer struct {
	Price struct {
		GrandTotal string `json:"grandTotal"`
		Currency   string `json:"currency"`
	} `json:"price"`
	Itineraries            []amadeusItinerary `json:"itineraries"`
	ValidatingAirlineCodes []string           `json:"validatingAirlineCodes"`
}

// SearchFlights queries the Flight Offers Search API for round-trip offers.
func (c *AmadeusClient) SearchFlights(ctx context.Context, origin, destination, departureDate, returnDate string, adults int) ([]Flight, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("amadeus not configured")
	}

	query := url.Values{
		"originLocationCode":      {origin},
		"destinationLocationCode": {destination},
		"departureDate":           {departureDate},
		"returnDate":              {returnDate},
		"adults":                  {strconv.Itoa(adults)},
		"max":                     {"6"},
		"currencyCode":            {"USD"},
	}

	body, err := c.get(ctx, "/v2/shopping/flight-offers", query)
	if err != nil {
		return nil, fmt.Errorf("flight search failed: %w", err)
	}

	var resp struct {
		Data []amadeusFlightOffer `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse flight offers: %w", err)
	}

	flights := make([]Flight, 0, len(resp.Data))
	for _, offer := range resp.Data {
		if len(offer.Itineraries) == 0 {
			continue
		}
		price := parsePrice(offer.Price.GrandTotal)
		if price <= 0 {
			continue
		}

		outbound := offer.Itineraries[0]
		carrier := ""
		if len(outbound.Segments) > 0 {
			carrier = outbound.Segments[0].CarrierCode
		} else if len(offer.ValidatingAirlineCodes) > 0 {
			carrier = offer.ValidatingAirlineCodes[0]
		}

		f := Flight{
			Price:       price,
			Airline:     airlineName(carrier),
			AirlineCode: carrier,
			Currency:    offer.Price.Currency,
			Stops:       maxInt(0, len(outbound.Segments)-1),
			Duration:    isoDuration(outbound.Duration),
		}
		if len(outbound.Segments) > 0 {
			f.DepartureTime = outbound.Segments[0].Departure.At
			f.ArrivalTime = outbound.Segments[len(outbound.Segments)-1].Arrival.At
			f.FlightNumber = carrier + outbound.Segments[0].Number
		}
		if len(offer.Itineraries) > 1 {
			ret := offer.Itineraries[1]
			f.ReturnStops = maxInt(0, len(ret.Segments)-1)
			f.ReturnDuration = isoDuration(ret.Duration)
			if len(ret.Segments) > 0 {
				f.ReturnDeparture = ret.Segments[0].Departure.At
				f.ReturnArrival = ret.Segments[len(ret.Segments)-1].Arrival.At
			}
		}
		flights = append(flights, f)
	}
	return flights, nil
}

// ─── Hotel Search ─────────────────────────────────────────────────────────────

// SearchHotels combines the Hotel List and Hotel Offers APIs for a city.
func (c *AmadeusClient) SearchHotels(ctx context.Context, cityCode, checkIn, checkOut string, adults int) ([]Hotel, error) {
	if !c.Configured() {
		return nil, fmt.Errorf("amadeus not configured")
	}

	hotelIDs, err := c.hotelIDsByCity(ctx, cityCode)
	if err != nil {
		return nil, fmt.Errorf("hotel list failed: %w", err)
	}
	if len(hotelIDs) == 0 {
		return nil, fmt.Errorf("no hotels found for city %s", cityCode)
	}
	// A long ID list trips Amadeus rate limits.
	if len(hotelIDs) > 20 {
		hotelIDs = hotelIDs[:20]
	}

	query := url.Values{
		"hotelIds":     {strings.Join(hotelIDs, ",")},
		"checkInDate":  {checkIn},
		"checkOutDate": {checkOut},
		"adults":       {strconv.Itoa(adults)},
		"roomQuantity": {"1"},
		"currency":     {"USD"},
		"bestRateOnly": {"true"},
	}

	body, err := c.get(ctx, "/v3/shopping/hotel-offers", query)
	if err != nil {
		return nil, fmt.Errorf("hotel offers failed: %w", err)
	}

	var resp struct {
		Data []struct {
			Hotel struct {
				HotelID  string `json:"hotelId"`
				Name     string `json:"name"`
				CityCode string `json:"cityCode"`
				Rating   string `json:"rating"`
				Address  struct {
					CityName string `json:"cityName"`
				} `json:"address"`
			} `json:"hotel"`
			Available bool `json:"available"`
			Offers    []struct {
				Price struct {
					Total    string `json:"total"`
					Currency string `json:"currency"`
				} `json:"price"`
			} `json:"offers"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse hotel offers: %w", err)
	}

	hotels := make([]Hotel, 0, len(resp.Data))
	for _, item := range resp.Data {
		if !item.Available || len(item.Offers) == 0 {
			continue
		}
		price := parsePrice(item.Offers[0].Price.Total)
		if price <= 0 {
			continue
		}
		location := item.Hotel.Address.CityName
		if location == "" {
			location = item.Hotel.CityCode
		}
		hotels = append(hotels, Hotel{
			Name:     item.Hotel.Name,
			HotelID:  item.Hotel.HotelID,
			Price:    price,
			Rating:   parseRating(item.Hotel.Rating),
			Location: location,
			Currency: item.Offers[0].Price.Currency,
		})
	}
	return hotels, nil
}

func (c *AmadeusClient) hotelIDsByCity(ctx context.Context, cityCode string) ([]string, error) {
	// Hotel search wants city codes, not airport codes.
	query := url.Values{
		"cityCode":    {airportToCity(cityCode)},
		"radius":      {"5"},
		"radiusUnit":  {"KM"},
		"hotelSource": {"ALL"},
	}

	body, err := c.get(ctx, "/v1/reference-data/locations/hotels/by-city", query)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Data []struct {
			HotelID string `json:"hotelId"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse hotel list: %w", err)
	}

	ids := make([]string, 0, len(resp.Data))
	for _, h := range resp.Data {
		ids = append(ids, h.HotelID)
	}
	return ids, nil
}

// ─── Helpers ──────────────────────────────────────────────────────────────────

// isoDuration converts ISO 8601 durations (PT5H30M) to readable form (5h 30m).
func isoDuration(iso string) string {
	iso = strings.TrimPrefix(iso, "PT")
	var parts []string
	if h := strings.Index(iso, "H"); h >= 0 {
		parts = append(parts, iso[:h]+"h")
		iso = iso[h+1:]
	}
	if m := strings.Index(iso, "M"); m >= 0 {
		parts = append(parts, iso[:m]+"m")
	}
	return strings.Join(parts, " ")
}

func parsePrice(s string) float64 {
	price, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return price
}

func parseRating(s string) float64 {
	r, err := strconv.ParseFloat(s, 64)
	if err != nil || r <= 0 {
		return 4.0
	}
	if r > 5 {
		r = 5
	}
	return r
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// airportToCity maps airport IATA codes onto the city codes hotel search expects.
func airportToCity(airport string) string {
	mapping := map[string]string{
		"LHR": "LON", "LGW": "LON", "STN": "LON",
		"CDG": "PAR", "ORY": "PAR",
		"JFK": "NYC", "LGA": "NYC", "EWR": "NYC",
		"FCO": "ROM", "CIA": "ROM",
		"NRT": "TYO", "HND": "TYO",
		"SXF": "BER",
	}
	if city, ok := mapping[airport]; ok {
		return city
	}
	return airport
}

func airlineName(code string) string {
	names := map[string]string{
		"TK": "Turkish Airlines",
		"LH": "Lufthansa",
		"AF": "Air France",
		"BA": "British Airways",
		"EK": "Emirates",
		"QR": "Qatar Airways",
		"FR": "Ryanair",
		"U2": "EasyJet",
		"W6": "Wizz Air",
		"UA": "United Airlines",
		"AA": "American Airlines",
		"DL": "Delta Air Lines",
		"KL": "KLM",
		"IB": "Iberia",
		"LX": "Swiss International Air Lines",
		"SQ": "Singapore Airlines",
		"NH": "ANA",
		"EY": "Etihad Airways",
	}
	if name, ok := names[code]; ok {
		return name
	}
	if code != "" {
		return code + " Airlines"
	}
	return "Unknown Airline"
}
