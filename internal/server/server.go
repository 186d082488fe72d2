// Package server exposes the prediction service over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"

	"fraudlab/internal/observability"
	"fraudlab/internal/predict"
)

// Server routes HTTP requests to the prediction service.
type Server struct {
	svc    *predict.Service
	logger *log.Logger
}

// New creates an HTTP server around a prediction service.
func New(svc *predict.Service) *Server {
	return &Server{
		svc:    svc,
		logger: log.New(os.Stdout, "[http] ", log.LstdFlags|log.Lshortfile),
	}
}

// Routes builds the request mux.
func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/predict", s.handlePredict)
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", observability.Handler())
	return mux
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	// "/" matches everything not routed elsewhere; anything but the
	// exact root is unknown.
	if r.URL.Path != "/" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Fraud Detection API is live."})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// predictRequest mirrors the /predict body. Pointer fields distinguish
// "absent" from zero values so validation can reject incomplete bodies
// before the service runs.
type predictRequest struct {
	ModelType           *string  `json:"model_type"`
	ClaimAmount         *float64 `json:"claim_amount"`
	DaysToSubmit        *int     `json:"days_to_submit"`
	PreviousClaimsCount *int     `json:"previous_claims_count"`
	CustomerTenure      *float64 `json:"customer_tenure"`
	LocationRiskScore   *float64 `json:"location_risk_score"`
	ClaimType           *string  `json:"claim_type"`
}

// validate returns the name of the first missing field, or "".
func (r *predictRequest) validate() string {
	switch {
	case r.ModelType == nil:
		return "model_type"
	case r.ClaimAmount == nil:
		return "claim_amount"
	case r.DaysToSubmit == nil:
		return "days_to_submit"
	case r.PreviousClaimsCount == nil:
		return "previous_claims_count"
	case r.CustomerTenure == nil:
		return "customer_tenure"
	case r.LocationRiskScore == nil:
		return "location_risk_score"
	case r.ClaimType == nil:
		return "claim_type"
	}
	return ""
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req predictRequest
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(&req); err != nil {
		observability.RecordPredictionError("malformed_body")
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if missing := req.validate(); missing != "" {
		observability.RecordPredictionError("missing_field")
		writeError(w, http.StatusBadRequest, "missing required field: "+missing)
		return
	}

	result, err := s.svc.Predict(r.Context(), predict.Request{
		ModelType:           *req.ModelType,
		ClaimAmount:         *req.ClaimAmount,
		DaysToSubmit:        *req.DaysToSubmit,
		PreviousClaimsCount: *req.PreviousClaimsCount,
		CustomerTenure:      *req.CustomerTenure,
		LocationRiskScore:   *req.LocationRiskScore,
		ClaimType:           *req.ClaimType,
	})
	if err != nil {
		if errors.Is(err, predict.ErrModelNotFound) {
			observability.RecordPredictionError("model_not_found")
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		observability.RecordPredictionError("internal")
		s.logger.Printf("ERROR: predict: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
