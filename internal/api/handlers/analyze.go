package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"unicode/utf8"

	"guardian-lab/internal/domain/models"
	"guardian-lab/internal/domain/services"
	"guardian-lab/internal/infrastructure/database/repository"
	"guardian-lab/pkg/logger"
)

// AnalyzeHandler handles message analysis endpoints
type AnalyzeHandler struct {
	analyzer   *services.MessageAnalyzer
	audit      *repository.AuditRepository
	maxMessage int
	logger     *logger.Logger
}

// NewAnalyzeHandler creates a new AnalyzeHandler
func NewAnalyzeHandler(analyzer *services.MessageAnalyzer, audit *repository.AuditRepository, maxMessage int, log *logger.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{
		analyzer:   analyzer,
		audit:      audit,
		maxMessage: maxMessage,
		logger:     log.WithComponent("analyze-handler"),
	}
}

// AnalyzeRequest is the request body for message analysis
type AnalyzeRequest struct {
	Message string `json:"message"`
}

// Analyze handles POST /api/v1/messages/analyze
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug().Err(err).Msg("invalid request body")
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.Message == "" {
		http.Error(w, "Message is required", http.StatusBadRequest)
		return
	}

	req.Message = truncateMessage(req.Message, h.maxMessage)

	verdict := h.analyzer.Analyze(r.Context(), req.Message)

	// Auditing is best-effort: a down database never blocks a verdict.
	if h.audit != nil {
		if _, err := h.audit.Record(r.Context(), req.Message, verdict); err != nil {
			h.logger.Warn().Err(err).Msg("failed to record audit entry")
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(verdict)
}

// truncateMessage caps the message at max bytes without splitting a
// multi-byte rune. The engine itself scores whatever it is given; the
// size bound belongs at the boundary.
func truncateMessage(message string, max int) string {
	if max <= 0 || len(message) <= max {
		return message
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(message[cut]) {
		cut--
	}
	return message[:cut]
}

// History handles GET /api/v1/messages/history - recent audit records
func (h *AnalyzeHandler) History(w http.ResponseWriter, r *http.Request) {
	if h.audit == nil {
		http.Error(w, "Audit log not configured", http.StatusNotFound)
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}

	records, err := h.audit.Recent(r.Context(), limit)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load audit records")
		http.Error(w, "Failed to load history", http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []models.AuditRecord{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(records)
}

// Stats handles GET /api/v1/messages/stats - verdict counts by level
func (h *AnalyzeHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if h.audit == nil {
		http.Error(w, "Audit log not configured", http.StatusNotFound)
		return
	}

	counts, err := h.audit.CountByLevel(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to count audit records")
		http.Error(w, "Failed to load stats", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(counts)
}
