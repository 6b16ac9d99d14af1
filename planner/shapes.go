package planner

import (
	"fmt"
	"math"
)

// ─── Plan Shapes ──────────────────────────────────────────────────────────────

// PlanParams are the trip parameters every fallback is derived from.
type PlanParams struct {
	Destination string
	Region      string
	Budget      float64
	Currency    string
	Days        int
	Travelers   int
	Interests   []string
}

// TripPlan is the primary generated itinerary.
type TripPlan struct {
	Summary         PlanSummary     `json:"summary"`
	DailyPlan       []DayPlan       `json:"dailyPlan"`
	BudgetBreakdown BudgetBreakdown `json:"budgetBreakdown"`
}

type PlanSummary struct {
	Title       string   `json:"title"`
	Destination string   `json:"destination"`
	Duration    int      `json:"duration"`
	Highlights  []string `json:"highlights"`
}

type DayPlan struct {
	Day        int      `json:"day"`
	Title      string   `json:"title"`
	Activities []string `json:"activities"`
}

// BudgetBreakdown allocates the total budget across categories.
// Category values are fractions of the total and must sum to 1.0.
type BudgetBreakdown struct {
	Total      float64            `json:"total"`
	Currency   string             `json:"currency"`
	Categories map[string]float64 `json:"categories"`
}

// HotelSuggestions is the "hotels" composite section.
type HotelSuggestions struct {
	Hotels []HotelPick `json:"hotels"`
}

type HotelPick struct {
	Name     string  `json:"name"`
	Area     string  `json:"area"`
	Style    string  `json:"style"`
	PerNight float64 `json:"perNight"`
}

// RoutePlan is the "routing" composite section.
type RoutePlan struct {
	Legs   []RouteLeg `json:"legs"`
	Advice string     `json:"advice"`
}

type RouteLeg struct {
	Day  int    `json:"day"`
	From string `json:"from"`
	To   string `json:"to"`
	Mode string `json:"mode"`
}

// Older prompt revisions taught the model snake_case field names and it
// still emits them now and then; both spellings stay accepted.
var planAliases = map[string]string{
	"daily_plan":       "dailyPlan",
	"budget_breakdown": "budgetBreakdown",
	"per_night":        "perNight",
}

// ─── Shape declarations ───────────────────────────────────────────────────────

// TripShape declares the primary plan shape. Its default is the seeded
// fallback plan: a day-per-day skeleton with an even budget split, built
// from the request parameters alone.
func TripShape(p PlanParams) Shape[TripPlan] {
	return Shape[TripPlan]{
		Aliases: planAliases,
		Default: func() TripPlan {
			days := make([]DayPlan, 0, p.Days)
			for d := 1; d <= p.Days; d++ {
				days = append(days, DayPlan{
					Day:   d,
					Title: fmt.Sprintf("Day %d in %s", d, p.Destination),
					Activities: []string{
						"Morning: explore the city center at your own pace",
						"Afternoon: visit a major local landmark",
						"Evening: dinner featuring regional cuisine",
					},
				})
			}
			return TripPlan{
				Summary: PlanSummary{
					Title:       fmt.Sprintf("%d days in %s", p.Days, p.Destination),
					Destination: p.Destination,
					Duration:    p.Days,
					Highlights:  []string{"City highlights", "Local food", "Walkable neighborhoods"},
				},
				DailyPlan:       days,
				BudgetBreakdown: defaultBudget(p),
			}
		},
		Valid: func(t TripPlan) bool {
			return t.Summary.Duration > 0 &&
				t.Summary.Destination != "" &&
				len(t.DailyPlan) > 0 &&
				fractionsSumToOne(t.BudgetBreakdown.Categories)
		},
	}
}

// BudgetShape declares the "budget" section. The default split is the same
// one the seeded plan carries, so a failed refinement changes nothing.
func BudgetShape(p PlanParams) Shape[BudgetBreakdown] {
	return Shape[BudgetBreakdown]{
		Aliases: planAliases,
		Default: func() BudgetBreakdown { return defaultBudget(p) },
		Valid: func(b BudgetBreakdown) bool {
			return b.Total > 0 && fractionsSumToOne(b.Categories)
		},
	}
}

// HotelShape declares the "hotels" section. Empty-but-well-typed on failure.
func HotelShape(p PlanParams) Shape[HotelSuggestions] {
	return Shape[HotelSuggestions]{
		Aliases: planAliases,
		Default: func() HotelSuggestions { return HotelSuggestions{Hotels: []HotelPick{}} },
		Valid:   func(h HotelSuggestions) bool { return h.Hotels != nil },
	}
}

// RouteShape declares the "routing" section. Empty-but-well-typed on failure.
func RouteShape(p PlanParams) Shape[RoutePlan] {
	return Shape[RoutePlan]{
		Aliases: planAliases,
		Default: func() RoutePlan { return RoutePlan{Legs: []RouteLeg{}} },
		Valid:   func(r RoutePlan) bool { return r.Legs != nil },
	}
}

func defaultBudget(p PlanParams) BudgetBreakdown {
	currency := p.Currency
	if currency == "" {
		currency = "USD"
	}
	return BudgetBreakdown{
		Total:    p.Budget,
		Currency: currency,
		Categories: map[string]float64{
			"flights":       0.35,
			"accommodation": 0.30,
			"food":          0.15,
			"activities":    0.15,
			"buffer":        0.05,
		},
	}
}

func fractionsSumToOne(categories map[string]float64) bool {
	if len(categories) == 0 {
		return false
	}
	var sum float64
	for _, f := range categories {
		if f < 0 {
			return false
		}
		sum += f
	}
	return math.Abs(sum-1.0) <= 0.01
}
