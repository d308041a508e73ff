package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"FXStrength/internal/calculator"
	"FXStrength/internal/model"
	"FXStrength/internal/strength"
)

const dateLayout = "2006-01-02"

type rankingResponse struct {
	Period  model.Period      `json:"period"`
	From    string            `json:"from"`
	To      string            `json:"to"`
	Ranking []model.RankEntry `json:"ranking"`
}

type universeResponse struct {
	Universe  []string `json:"universe"`
	Pairs     []string `json:"pairs"`
	Source    string   `json:"source"`
	Dates     int      `json:"dates"`
	From      string   `json:"from,omitempty"`
	To        string   `json:"to,omitempty"`
	FetchedAt string   `json:"fetchedAt"`
}

type computeRequest struct {
	Universe    []string           `json:"universe"`
	Pairs       []model.PairSeries `json:"pairs"`
	WindowStart int                `json:"windowStart"`
	WindowEnd   int                `json:"windowEnd"`
}

type computeResponse struct {
	Points []model.UnitStrengthPoint `json:"points"`
}

func (s *Server) handleStrength(w http.ResponseWriter, r *http.Request) {
	report, err := s.svc.Report(strength.Request{
		Period: parsePeriod(r),
		Units:  parseUnits(r),
	})
	if err != nil {
		writeStrengthError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleRanking(w http.ResponseWriter, r *http.Request) {
	report, err := s.svc.Report(strength.Request{Period: parsePeriod(r)})
	if err != nil {
		writeStrengthError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rankingResponse{
		Period:  report.Period,
		From:    report.From.Format(dateLayout),
		To:      report.To.Format(dateLayout),
		Ranking: report.Ranking,
	})
}

func (s *Server) handleUniverse(w http.ResponseWriter, r *http.Request) {
	b := s.svc.Basket()
	if b == nil {
		writeStrengthError(w, strength.ErrNoBasket)
		return
	}
	resp := universeResponse{
		Universe:  b.Universe,
		Pairs:     b.PairSymbols(),
		Source:    b.Source,
		Dates:     b.Len(),
		FetchedAt: b.FetchedAt.UTC().Format(time.RFC3339),
	}
	if b.Len() > 0 {
		resp.From = b.Dates[0].Format(dateLayout)
		resp.To = b.Dates[b.Len()-1].Format(dateLayout)
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleCompute exposes the raw calculation over caller-supplied series.
func (s *Server) handleCompute(w http.ResponseWriter, r *http.Request) {
	var req computeRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeStrengthError(w, &calculator.ConfigurationError{Reason: "invalid request body: " + err.Error()})
		return
	}

	points, err := s.svc.Compute(req.Universe, req.Pairs, req.WindowStart, req.WindowEnd)
	if err != nil {
		writeStrengthError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, computeResponse{Points: points})
}

// --- validation helpers ---

func parsePeriod(r *http.Request) model.Period {
	return model.Period(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("period"))))
}

// parseUnits accepts units=EUR,USD as well as repeated units parameters.
func parseUnits(r *http.Request) []string {
	var units []string
	for _, v := range r.URL.Query()["units"] {
		for _, u := range strings.Split(v, ",") {
			if u = strings.ToUpper(strings.TrimSpace(u)); u != "" {
				units = append(units, u)
			}
		}
	}
	return units
}
