package handlers

import (
	"guardian-lab/internal/domain/services"
	"guardian-lab/internal/infrastructure/cache"
	"guardian-lab/internal/infrastructure/database/repository"
	"guardian-lab/pkg/logger"
)

// Handlers holds all API handlers
type Handlers struct {
	Health  *HealthHandler
	Analyze *AnalyzeHandler
	Admin   *AdminHandler
}

// Dependencies holds dependencies for handlers
type Dependencies struct {
	Analyzer         *services.MessageAnalyzer
	Cache            *cache.RedisCache
	Audit            *repository.AuditRepository
	MaxMessageLength int
	Logger           *logger.Logger
}

// NewHandlers creates all handlers
func NewHandlers(deps Dependencies) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(deps.Cache, deps.Audit, deps.Logger),
		Analyze: NewAnalyzeHandler(deps.Analyzer, deps.Audit, deps.MaxMessageLength, deps.Logger),
		Admin:   NewAdminHandler(deps.Analyzer, deps.Logger),
	}
}
