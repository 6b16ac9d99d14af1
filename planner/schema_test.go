package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testParams = PlanParams{Destination: "Kyoto", Budget: 3000, Days: 5}

func TestDecodeTotality(t *testing.T) {
	// Any input at all yields a value of the declared shape.
	shape := TripShape(testParams)

	for _, input := range []string{
		"",
		"not json",
		"{}",
		`{"summary": 12}`,
		`{"summary": {"duration": "five"}}`,
		"{ truncated",
		"null",
	} {
		plan, genuine := shape.Decode(input)
		assert.False(t, genuine, "input %q should not be genuine", input)
		assert.Equal(t, shape.Default(), plan, "input %q should yield the default", input)
		assert.True(t, shape.Valid(plan))
	}
}

func TestDecodeGenuineOutput(t *testing.T) {
	shape := BudgetShape(testParams)

	raw := `{"total": 3000, "currency": "USD", "categories": {"flights": 0.4, "accommodation": 0.3, "food": 0.3}}`
	b, genuine := shape.Decode(raw)

	require.True(t, genuine)
	assert.Equal(t, 3000.0, b.Total)
	assert.Equal(t, 0.4, b.Categories["flights"])
}

func TestDecodeStripsSurroundingText(t *testing.T) {
	shape := BudgetShape(testParams)

	raw := "Sure! Here is the breakdown:\n```json\n" +
		`{"total": 3000, "currency": "EUR", "categories": {"flights": 0.5, "food": 0.5}}` +
		"\n```\nLet me know if you need anything else."
	b, genuine := shape.Decode(raw)

	require.True(t, genuine)
	assert.Equal(t, "EUR", b.Currency)
}

func TestDecodeSnakeCaseCoalescing(t *testing.T) {
	shape := TripShape(testParams)

	// Legacy snake_case spellings are accepted and exposed under camelCase.
	raw := `{
		"summary": {"title": "Kyoto", "destination": "Kyoto", "duration": 5, "highlights": ["temples"]},
		"daily_plan": [{"day": 1, "title": "Arrival", "activities": ["check in"]}],
		"budget_breakdown": {"total": 3000, "currency": "USD", "categories": {"flights": 0.5, "food": 0.5}}
	}`
	plan, genuine := shape.Decode(raw)

	require.True(t, genuine)
	require.Len(t, plan.DailyPlan, 1)
	assert.Equal(t, "Arrival", plan.DailyPlan[0].Title)
	assert.Equal(t, 3000.0, plan.BudgetBreakdown.Total)
	assert.Equal(t, 0.5, plan.BudgetBreakdown.Categories["flights"])
}

func TestDecodeCamelCaseWinsOnConflict(t *testing.T) {
	shape := HotelShape(testParams)

	// Both spellings present in conflicting form: the camelCase one wins.
	raw := `{"hotels": [{"name": "A", "area": "x", "style": "budget", "perNight": 80, "per_night": 999}]}`
	h, genuine := shape.Decode(raw)

	require.True(t, genuine)
	require.Len(t, h.Hotels, 1)
	assert.Equal(t, 80.0, h.Hotels[0].PerNight)
}

func TestDecodeNestedAliases(t *testing.T) {
	shape := HotelShape(testParams)

	// Aliases are coalesced at every nesting level, not just the top.
	raw := `{"hotels": [{"name": "B", "area": "y", "style": "luxury", "per_night": 420}]}`
	h, genuine := shape.Decode(raw)

	require.True(t, genuine)
	assert.Equal(t, 420.0, h.Hotels[0].PerNight)
}

func TestShapeDefaultsAreValid(t *testing.T) {
	// Fallbacks never fail and always pass their own shape's validation.
	p := PlanParams{Destination: "Oslo", Budget: 4200, Days: 3}

	trip := TripShape(p)
	assert.True(t, trip.Valid(trip.Default()))

	budget := BudgetShape(p)
	assert.True(t, budget.Valid(budget.Default()))

	hotels := HotelShape(p)
	assert.True(t, hotels.Valid(hotels.Default()))

	route := RouteShape(p)
	assert.True(t, route.Valid(route.Default()))
}

func TestFractionsSumToOne(t *testing.T) {
	assert.True(t, fractionsSumToOne(map[string]float64{"a": 0.5, "b": 0.5}))
	assert.True(t, fractionsSumToOne(map[string]float64{"a": 0.35, "b": 0.30, "c": 0.35}))
	assert.False(t, fractionsSumToOne(map[string]float64{"a": 0.5, "b": 0.4}))
	assert.False(t, fractionsSumToOne(map[string]float64{"a": 1.5, "b": -0.5}))
	assert.False(t, fractionsSumToOne(nil))
}

func TestDecodeDiscardsPartiallyValidObject(t *testing.T) {
	// A plan with a broken budget split is discarded whole, not merged.
	shape := TripShape(testParams)

	raw := `{
		"summary": {"title": "Kyoto", "destination": "Kyoto", "duration": 5, "highlights": []},
		"dailyPlan": [{"day": 1, "title": "Arrival", "activities": []}],
		"budgetBreakdown": {"total": 3000, "currency": "USD", "categories": {"flights": 0.9, "food": 0.9}}
	}`
	plan, genuine := shape.Decode(raw)

	assert.False(t, genuine)
	assert.Equal(t, shape.Default(), plan)
}
