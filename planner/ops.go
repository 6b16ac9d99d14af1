package planner

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ─── Operation Builders ───────────────────────────────────────────────────────

// PlanOperation builds the entry-point generation: the full multi-day plan.
// Its fallback is the seeded plan from TripShape, so a double timeout still
// yields a complete, serializable itinerary.
func PlanOperation(p PlanParams) Operation {
	shape := TripShape(p)
	return Operation{
		Name:     "plan",
		Full:     Request{Prompt: planPrompt(p, false), MaxTokens: 1400, Temperature: 0.7},
		Degraded: Request{Prompt: planPrompt(p, true), MaxTokens: 500, Temperature: 0.5, Simplified: true},
		Fallback: func() string { return marshalDefault(shape.Default()) },
	}
}

// PlanSubTasks builds the three independent enrichments of a generated plan.
// None of them is required for the response to be useful, so each carries
// its own fallback and the composite never fails as a whole.
func PlanSubTasks(p PlanParams, plan TripPlan) []SubTask {
	hotels := HotelShape(p)
	route := RouteShape(p)
	budget := BudgetShape(p)

	return []SubTask{
		{
			Key: "hotels",
			Op: Operation{
				Name:     "hotels",
				Full:     Request{Prompt: hotelsPrompt(p, plan, false), MaxTokens: 600, Temperature: 0.6},
				Degraded: Request{Prompt: hotelsPrompt(p, plan, true), MaxTokens: 250, Temperature: 0.4, Simplified: true},
				Fallback: func() string { return marshalDefault(hotels.Default()) },
			},
			Decode: rawDecoder(hotels),
		},
		{
			Key: "routing",
			Op: Operation{
				Name:     "routing",
				Full:     Request{Prompt: routingPrompt(p, plan, false), MaxTokens: 600, Temperature: 0.6},
				Degraded: Request{Prompt: routingPrompt(p, plan, true), MaxTokens: 250, Temperature: 0.4, Simplified: true},
				Fallback: func() string { return marshalDefault(route.Default()) },
			},
			Decode: rawDecoder(route),
		},
		{
			Key: "budget",
			Op: Operation{
				Name:     "budget",
				Full:     Request{Prompt: budgetPrompt(p, plan, false), MaxTokens: 400, Temperature: 0.3},
				Degraded: Request{Prompt: budgetPrompt(p, plan, true), MaxTokens: 200, Temperature: 0.3, Simplified: true},
				Fallback: func() string { return marshalDefault(budget.Default()) },
			},
			Decode: rawDecoder(budget),
		},
	}
}

// rawDecoder adapts a typed Shape into the SubTask decode signature.
func rawDecoder[T any](s Shape[T]) func(string) (json.RawMessage, bool) {
	return func(raw string) (json.RawMessage, bool) {
		v, genuine := s.Decode(raw)
		buf, err := json.Marshal(v)
		if err != nil {
			buf, _ = json.Marshal(s.Default())
			return buf, false
		}
		return buf, genuine
	}
}

func marshalDefault(v any) string {
	buf, _ := json.Marshal(v)
	return string(buf)
}

// ─── Prompts ──────────────────────────────────────────────────────────────────

func planPrompt(p PlanParams, simplified bool) string {
	interests := "general sightseeing"
	if len(p.Interests) > 0 {
		interests = strings.Join(p.Interests, ", ")
	}

	if simplified {
		return fmt.Sprintf(`Create a %d-day trip plan for %s, budget %.0f %s.
Respond with one JSON object only, no prose:
{"summary":{"title":"...","destination":"%s","duration":%d,"highlights":["..."]},"dailyPlan":[{"day":1,"title":"...","activities":["..."]}],"budgetBreakdown":{"total":%.0f,"currency":"%s","categories":{"flights":0.35,"accommodation":0.30,"food":0.15,"activities":0.15,"buffer":0.05}}}
Keep each day to 2 short activities. Category fractions must sum to 1.0.`,
			p.Days, p.Destination, p.Budget, currencyOf(p), p.Destination, p.Days, p.Budget, currencyOf(p))
	}

	return fmt.Sprintf(`You are a travel planner. Create a detailed %d-day vacation plan for %s (%s) for %d traveler(s) with a total budget of %.0f %s. Interests: %s.

Respond with exactly one JSON object and nothing else, using this structure:
{
  "summary": {"title": "...", "destination": "%s", "duration": %d, "highlights": ["...", "..."]},
  "dailyPlan": [{"day": 1, "title": "...", "activities": ["morning ...", "afternoon ...", "evening ..."]}],
  "budgetBreakdown": {"total": %.0f, "currency": "%s", "categories": {"flights": 0.35, "accommodation": 0.30, "food": 0.15, "activities": 0.15, "buffer": 0.05}}
}
Rules: dailyPlan must have exactly %d entries, budget category fractions must sum to 1.0, all text in English.`,
		p.Days, p.Destination, regionOf(p), travelersOf(p), p.Budget, currencyOf(p), interests,
		p.Destination, p.Days, p.Budget, currencyOf(p), p.Days)
}

func hotelsPrompt(p PlanParams, plan TripPlan, simplified bool) string {
	if simplified {
		return fmt.Sprintf(`Suggest 3 hotels in %s for a %.0f %s total trip budget.
JSON only: {"hotels":[{"name":"...","area":"...","style":"...","perNight":120}]}`,
			p.Destination, p.Budget, currencyOf(p))
	}
	return fmt.Sprintf(`Suggest 5 hotels in %s suited to this trip: "%s" (%d nights, total budget %.0f %s, about 30%% of it for accommodation). Mix price tiers.
Respond with one JSON object only:
{"hotels":[{"name":"...","area":"neighborhood","style":"boutique|business|budget|luxury","perNight":120}]}`,
		p.Destination, plan.Summary.Title, p.Days, p.Budget, currencyOf(p))
}

func routingPrompt(p PlanParams, plan TripPlan, simplified bool) string {
	if simplified {
		return fmt.Sprintf(`Order of travel for a %d-day trip in %s.
JSON only: {"legs":[{"day":1,"from":"...","to":"...","mode":"walk|metro|taxi|train"}],"advice":"..."}`,
			p.Days, p.Destination)
	}

	var b strings.Builder
	for _, d := range plan.DailyPlan {
		fmt.Fprintf(&b, "Day %d: %s\n", d.Day, d.Title)
	}
	return fmt.Sprintf(`Optimize daily routing for this %s itinerary so travel time is minimal:
%s
Respond with one JSON object only:
{"legs":[{"day":1,"from":"area","to":"area","mode":"walk|metro|taxi|train"}],"advice":"one paragraph of transit advice"}`,
		p.Destination, b.String())
}

func budgetPrompt(p PlanParams, plan TripPlan, simplified bool) string {
	if simplified {
		return fmt.Sprintf(`Split a %.0f %s budget for %d days in %s across flights, accommodation, food, activities, buffer.
JSON only: {"total":%.0f,"currency":"%s","categories":{"flights":0.35,"accommodation":0.30,"food":0.15,"activities":0.15,"buffer":0.05}}. Fractions must sum to 1.0.`,
			p.Budget, currencyOf(p), p.Days, p.Destination, p.Budget, currencyOf(p))
	}
	return fmt.Sprintf(`Allocate a total budget of %.0f %s for this trip: "%s" (%d days in %s, %d traveler(s)). Adjust the split to the destination's price level.
Respond with one JSON object only:
{"total":%.0f,"currency":"%s","categories":{"flights":0.0,"accommodation":0.0,"food":0.0,"activities":0.0,"buffer":0.0}}
Category values are fractions of the total and must sum to exactly 1.0.`,
		p.Budget, currencyOf(p), plan.Summary.Title, p.Days, p.Destination, travelersOf(p),
		p.Budget, currencyOf(p))
}

func currencyOf(p PlanParams) string {
	if p.Currency == "" {
		return "USD"
	}
	return p.Currency
}

func regionOf(p PlanParams) string {
	if p.Region == "" {
		return "region unspecified"
	}
	return p.Region
}

func travelersOf(p PlanParams) int {
	if p.Travelers <= 0 {
		return 1
	}
	return p.Travelers
}
