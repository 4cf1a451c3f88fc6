package server

import (
	"encoding/json"
	"net/http"

	"rewrite-router/internal/routing"
)

// healthResponse is the payload of the health endpoint.
type healthResponse struct {
	Status    string           `json:"status"`
	RuleCount int              `json:"rule_count"`
	HitCounts map[string]int64 `json:"hit_counts"`
}

// HealthHandler reports liveness plus per-rule match counters.
func HealthHandler(engine *routing.RuleEngine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{
			Status:    "ok",
			RuleCount: len(engine.Rules()),
			HitCounts: engine.HitCounts(),
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}
