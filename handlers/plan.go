package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tripcraft/cache"
	"tripcraft/database"
	"tripcraft/planner"
	"tripcraft/services"
)

type PlanRequest struct {
	Destination string   `json:"destination" binding:"required"`
	Region      string   `json:"region"`
	Budget      float64  `json:"budget" binding:"required,gt=0"`
	Days        int      `json:"days" binding:"required,gt=0"`
	Travelers   int      `json:"travelers"`
	Currency    string   `json:"currency"`
	Interests   []string `json:"interests"`
}

// PlanDocument is the assembled plan as stored and served: the primary
// itinerary plus the three composite sections, with a per-section source
// flag ("ai" or "fallback").
type PlanDocument struct {
	Plan    planner.TripPlan         `json:"plan"`
	Hotels  planner.HotelSuggestions `json:"hotels"`
	Routing planner.RoutePlan        `json:"routing"`
	Budget  planner.BudgetBreakdown  `json:"budget"`
	Sources map[string]string        `json:"sources"`
}

type PlanResponse struct {
	PlanID string `json:"plan_id"`
	PlanDocument
}

// PlanHandler generates a full AI vacation plan: one primary generation
// through the degrading retry stack, then a three-way parallel fan-out
// {hotels, routing, budget} derived from it. Individual section failures
// degrade to defaults; only a pre-flight credential problem is surfaced.
func PlanHandler(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if req.Days > 30 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Plans are limited to 30 days"})
		return
	}
	if req.Travelers <= 0 {
		req.Travelers = 1
	}

	ctx := c.Request.Context()

	// Identical requests within the TTL are served straight from Redis.
	reqJSON, _ := json.Marshal(req)
	cacheKey := cache.PlanKey(reqJSON)
	if payload, ok := cache.GetPlan(ctx, cacheKey); ok {
		log.Printf("✅ Plan cache hit for %s", req.Destination)
		c.Data(http.StatusOK, "application/json", []byte(payload))
		return
	}

	params := planner.PlanParams{
		Destination: req.Destination,
		Region:      req.Region,
		Budget:      req.Budget,
		Currency:    req.Currency,
		Days:        req.Days,
		Travelers:   req.Travelers,
		Interests:   req.Interests,
	}

	pol := planner.NewPolicy(services.GetAIClient())

	// ── Primary generation ───────────────────────────────────────────────────
	res, err := pol.Run(ctx, planner.PlanOperation(params))
	if err != nil {
		kind := planner.Classify(err)
		log.Printf("❌ Plan generation refused (%s): %v", kind, err)
		c.JSON(kind.HTTPStatus(), gin.H{"error": kind.Message()})
		return
	}

	plan, genuine := planner.TripShape(params).Decode(res.Raw)
	if res.FromFallback {
		genuine = false
	} else if !genuine {
		log.Printf("⚠️  plan: %s — substituted seeded plan", planner.KindMalformedResponse)
	}

	// ── Composite enrichment fan-out ─────────────────────────────────────────
	composite := planner.RunComposite(ctx, pol, planner.PlanSubTasks(params, plan))

	doc := PlanDocument{
		Plan: plan,
		Sources: map[string]string{
			"plan": sourceOf(genuine),
		},
	}
	decodeSection(composite, "hotels", &doc.Hotels, doc.Sources)
	decodeSection(composite, "routing", &doc.Routing, doc.Sources)
	decodeSection(composite, "budget", &doc.Budget, doc.Sources)

	planID := uuid.New().String()
	resp := PlanResponse{PlanID: planID, PlanDocument: doc}

	// ── Persist & cache (write-behind, never blocks the response) ────────────
	docJSON, _ := json.Marshal(doc)
	database.SavePlanAsync(&database.Plan{
		ID:           planID,
		Destination:  req.Destination,
		Budget:       req.Budget,
		Days:         req.Days,
		PlanJSON:     string(docJSON),
		FallbackKeys: fallbackKeys(doc.Sources),
	})

	respJSON, _ := json.Marshal(resp)
	cache.SetPlan(ctx, cacheKey, string(respJSON))

	c.JSON(http.StatusOK, resp)
}

// decodeSection unmarshals one composite slot into its typed field. Slots
// hold schema-validated JSON, so a decode problem here means a programming
// error; the shape default is already in place either way.
func decodeSection(composite planner.CompositeResult, key string, dst any, sources map[string]string) {
	if raw, ok := composite.Values[key]; ok {
		if err := json.Unmarshal(raw, dst); err != nil {
			log.Printf("❌ Failed to decode %s section: %v", key, err)
		}
	}
	sources[key] = sourceOf(composite.Genuine[key])
}

func sourceOf(genuine bool) string {
	if genuine {
		return "ai"
	}
	return "fallback"
}

func fallbackKeys(sources map[string]string) string {
	var keys []string
	for key, src := range sources {
		if src == "fallback" {
			keys = append(keys, key)
		}
	}
	return strings.Join(keys, ",")
}
