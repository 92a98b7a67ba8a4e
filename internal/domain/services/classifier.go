package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"guardian-lab/internal/config"
	"guardian-lab/pkg/logger"
)

// Classifier predicts the probability, in [0,1], that a text is a scam.
// The engine treats it as a tie-breaker: predictions only ever raise an
// already-positive score.
type Classifier interface {
	Predict(ctx context.Context, text string) (float64, error)
}

// HTTPClassifier calls an external prediction service over HTTP.
type HTTPClassifier struct {
	apiURL string
	client *http.Client
	logger *logger.Logger
}

func NewHTTPClassifier(cfg config.ClassifierConfig, log *logger.Logger) *HTTPClassifier {
	return &HTTPClassifier{
		apiURL: cfg.APIURL,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: log.WithComponent("classifier"),
	}
}

type predictRequest struct {
	Text string `json:"text"`
}

type predictResponse struct {
	Probability float64 `json:"probability"`
}

func (c *HTTPClassifier) Predict(ctx context.Context, text string) (float64, error) {
	body, err := json.Marshal(predictRequest{Text: text})
	if err != nil {
		return 0, fmt.Errorf("encoding prediction request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("building prediction request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("calling classifier: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("classifier returned status %d", resp.StatusCode)
	}

	var out predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("decoding prediction response: %w", err)
	}
	if out.Probability < 0 || out.Probability > 1 {
		return 0, fmt.Errorf("classifier probability out of range: %f", out.Probability)
	}
	return out.Probability, nil
}
