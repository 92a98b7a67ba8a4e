// main.go - Standalone demo server for the Guardian message analysis engine
package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"guardian-lab/internal/config"
	"guardian-lab/internal/domain/models"
	"guardian-lab/internal/domain/rules"
	"guardian-lab/internal/domain/services"
	"guardian-lab/pkg/logger"
)

// APIResponse is the demo server's envelope
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// recentVerdicts keeps the last few analyses for the demo page
type recentVerdicts struct {
	mu      sync.RWMutex
	entries []demoEntry
}

type demoEntry struct {
	Message    string          `json:"message"`
	Verdict    *models.Verdict `json:"verdict"`
	AnalyzedAt time.Time       `json:"analyzed_at"`
}

func (r *recentVerdicts) add(entry demoEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append([]demoEntry{entry}, r.entries...)
	if len(r.entries) > 20 {
		r.entries = r.entries[:20]
	}
}

func (r *recentVerdicts) list() []demoEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]demoEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

func main() {
	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewDevelopment()
	logger.SetGlobal(log)

	catalog := rules.NewDefaultCatalog()
	analyzer := services.NewMessageAnalyzer(cfg.Analysis, catalog, nil, nil, log)
	recent := &recentVerdicts{}

	router := mux.NewRouter()

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, APIResponse{Success: true, Message: "healthy"})
	}).Methods(http.MethodGet)

	router.HandleFunc("/demo/analyze", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
			writeJSON(w, http.StatusBadRequest, APIResponse{Success: false, Error: "message is required"})
			return
		}

		verdict := analyzer.Analyze(r.Context(), req.Message)
		recent.add(demoEntry{Message: req.Message, Verdict: verdict, AnalyzedAt: time.Now().UTC()})

		writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: verdict})
	}).Methods(http.MethodPost)

	router.HandleFunc("/demo/recent", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, APIResponse{Success: true, Data: recent.list()})
	}).Methods(http.MethodGet)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort)
	log.Info().Str("addr", addr).Msg("starting demo server")

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	if err := server.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("demo server failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, body APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
