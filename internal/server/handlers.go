package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/sozercan/impact-analyzer/apimodels"
	"github.com/sozercan/impact-analyzer/internal/analyzer"
)

const maxRequestBytes = 64 << 10

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req apimodels.AnalysisRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("request body is empty")
		}
		http.Error(w, fmt.Sprintf("Invalid request: %v", err), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	slog.Debug("Received analysis request", "request", req)

	result, err := s.analyzer.Analyze(r.Context(), analyzer.Request{
		Situation: req.Situation,
		Variant:   req.Options.Variant,
		Assembly:  req.Options.Assembly,
	})
	if err != nil {
		slog.Error("Analysis request failed", "error", err)
		writeJSON(w, statusFor(err), apimodels.FromError(err))
		return
	}

	slog.Debug("Analysis request completed successfully", "result", result)
	writeJSON(w, http.StatusOK, apimodels.FromResult(result))
}

func (s *Server) handleExamples(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, apimodels.ExamplesResponse{Examples: Examples})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statusFor maps an analysis error kind to an HTTP status.
func statusFor(err error) int {
	switch analyzer.KindOf(err) {
	case analyzer.KindInvalid:
		return http.StatusBadRequest
	case analyzer.KindCanceled:
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
