package server

import (
	"net/http"
)

// BreakerState is one provider's circuit as shown by the health report.
type BreakerState struct {
	Provider string `json:"provider"`
	Open     bool   `json:"open"`
	Failures int    `json:"failures"`
}

// health builds the health report. Key flags are reported as has_<NAME>.
func (s *Server) health() map[string]any {
	out := map[string]any{
		"ok":              true,
		"service":         s.info.Service,
		"provider":        s.info.Provider,
		"models":          s.info.Models,
		"api_timeout_sec": s.info.APITimeout.Seconds(),
		"llm_timeout_sec": s.info.LLMTimeout.Seconds(),
		"PUBLIC_API_BASE": s.info.PublicAPIBase,
	}
	for name, present := range s.info.Keys {
		out["has_"+name] = present
	}

	breakers := []BreakerState{}
	if s.fallback != nil {
		for _, p := range s.fallback.Providers() {
			breakers = append(breakers, BreakerState{
				Provider: p.Name(),
				Open:     p.Breaker.Open(),
				Failures: p.Breaker.Failures(),
			})
		}
	}
	out["breakers"] = breakers

	if s.sessions != nil {
		out["sessions"] = s.sessions.Len()
	}
	if s.metrics != nil {
		out["metrics"] = s.metrics.Snapshot()
	}
	return out
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.health())
}
