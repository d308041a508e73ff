package api

import (
	"net/http"
	"time"
)

type healthResponse struct {
	Status    string         `json:"status"`
	Timestamp string         `json:"timestamp"`
	Services  healthServices `json:"services"`
}

type healthServices struct {
	Database   string `json:"database"`
	MarketData string `json:"marketData"`
	AsOf       string `json:"asOf,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbStatus := "disabled"
	if s.pool != nil {
		dbStatus = "connected"
		if err := s.pool.Ping(r.Context()); err != nil {
			dbStatus = "disconnected"
		}
	}

	services := healthServices{Database: dbStatus, MarketData: "pending"}
	if b := s.svc.Basket(); b != nil && b.Len() > 0 {
		services.MarketData = "loaded"
		services.AsOf = b.Dates[b.Len()-1].Format(dateLayout)
	}

	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  services,
	})
}
