package planner

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanOperationDegradedIsCheaper(t *testing.T) {
	op := PlanOperation(PlanParams{Destination: "Rome", Budget: 2500, Days: 4})

	assert.False(t, op.Full.Simplified)
	assert.True(t, op.Degraded.Simplified)
	assert.Less(t, op.Degraded.MaxTokens, op.Full.MaxTokens)
	assert.Less(t, len(op.Degraded.Prompt), len(op.Full.Prompt))
}

func TestPlanOperationFallbackIsValidPlan(t *testing.T) {
	p := PlanParams{Destination: "Rome", Budget: 2500, Days: 4}
	op := PlanOperation(p)
	require.NotNil(t, op.Fallback)

	var plan TripPlan
	require.NoError(t, json.Unmarshal([]byte(op.Fallback()), &plan))
	assert.True(t, TripShape(p).Valid(plan))
}

func TestPlanSubTasksCoverAllSections(t *testing.T) {
	p := PlanParams{Destination: "Rome", Budget: 2500, Days: 4}
	tasks := PlanSubTasks(p, TripShape(p).Default())

	require.Len(t, tasks, 3)
	keys := make(map[string]bool)
	for _, task := range tasks {
		keys[task.Key] = true
		assert.NotNil(t, task.Op.Fallback, "%s needs a fallback", task.Key)
		assert.NotNil(t, task.Decode)
		assert.True(t, task.Op.Degraded.Simplified)
		assert.Less(t, task.Op.Degraded.MaxTokens, task.Op.Full.MaxTokens)
	}
	assert.Equal(t, map[string]bool{"hotels": true, "routing": true, "budget": true}, keys)
}

func TestRawDecoderAbsorbsGarbage(t *testing.T) {
	p := PlanParams{Destination: "Rome", Budget: 2500, Days: 4}
	decode := rawDecoder(BudgetShape(p))

	raw, genuine := decode("complete nonsense")
	assert.False(t, genuine)

	var b BudgetBreakdown
	require.NoError(t, json.Unmarshal(raw, &b))
	assert.Equal(t, BudgetShape(p).Default(), b)
}
