package reputation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"guardian-lab/internal/config"
	"guardian-lab/internal/domain/models"
	"guardian-lab/internal/infrastructure/cache"
	"guardian-lab/pkg/logger"
)

// PhishTankClient queries the PhishTank URL reputation database. Lookups
// are cached in Redis when a cache is supplied: only the external lookup
// is cached, never a verdict.
type PhishTankClient struct {
	apiURL   string
	client   *http.Client
	cache    *cache.RedisCache
	cacheTTL time.Duration
	logger   *logger.Logger
}

func NewPhishTankClient(cfg config.ReputationConfig, redisCache *cache.RedisCache, log *logger.Logger) *PhishTankClient {
	return &PhishTankClient{
		apiURL:   cfg.APIURL,
		client:   &http.Client{Timeout: cfg.Timeout},
		cache:    redisCache,
		cacheTTL: cfg.CacheTTL,
		logger:   log.WithComponent("phishtank"),
	}
}

type phishTankResponse struct {
	Results struct {
		InDatabase bool `json:"in_database"`
		Verified   bool `json:"verified"`
	} `json:"results"`
}

// Check looks up a URL in the reputation database
func (c *PhishTankClient) Check(ctx context.Context, target string) (models.ReputationResult, error) {
	cacheKey := cache.KeyReputationPrefix + target

	if c.cache != nil {
		var cached models.ReputationResult
		err := c.cache.GetJSON(ctx, cacheKey, &cached)
		if err == nil {
			return cached, nil
		}
		if !cache.IsNotFound(err) {
			c.logger.Debug().Err(err).Msg("reputation cache read failed")
		}
	}

	form := url.Values{}
	form.Set("url", target)
	form.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, strings.NewReader(form.Encode()))
	if err != nil {
		return models.ReputationResult{}, fmt.Errorf("building reputation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", "guardian-lab/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return models.ReputationResult{}, fmt.Errorf("calling reputation service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.ReputationResult{}, fmt.Errorf("reputation service returned status %d", resp.StatusCode)
	}

	var parsed phishTankResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return models.ReputationResult{}, fmt.Errorf("decoding reputation response: %w", err)
	}

	result := models.ReputationResult{
		InDatabase: parsed.Results.InDatabase,
		Verified:   parsed.Results.Verified,
	}

	if c.cache != nil {
		if err := c.cache.SetJSON(ctx, cacheKey, result, c.cacheTTL); err != nil {
			c.logger.Debug().Err(err).Msg("reputation cache write failed")
		}
	}

	return result, nil
}
