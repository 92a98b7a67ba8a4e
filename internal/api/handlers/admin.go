package handlers

import (
	"encoding/json"
	"net/http"

	"guardian-lab/internal/domain/services"
	"guardian-lab/pkg/logger"
)

// AdminHandler handles operational endpoints
type AdminHandler struct {
	analyzer *services.MessageAnalyzer
	logger   *logger.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(analyzer *services.MessageAnalyzer, log *logger.Logger) *AdminHandler {
	return &AdminHandler{
		analyzer: analyzer,
		logger:   log.WithComponent("admin-handler"),
	}
}

// ReloadDomains handles POST /api/v1/admin/reload-domains - re-reads the
// external malicious domain list and swaps it in atomically
func (h *AdminHandler) ReloadDomains(w http.ResponseWriter, r *http.Request) {
	if err := h.analyzer.ReloadMaliciousDomains(); err != nil {
		h.logger.Error().Err(err).Msg("failed to reload malicious domains")
		http.Error(w, "Reload failed", http.StatusInternalServerError)
		return
	}

	h.logger.Info().Msg("malicious domain list reloaded")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "reloaded"})
}
