package reporting

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"remote_e2e/domain/entities"
	"remote_e2e/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// ErrReport marks a failure to deliver the run status
var ErrReport = errors.New("report not delivered")

// maxErrorBody caps how much of an error response is kept for logging
const maxErrorBody = 512

type PerfTestsClient struct {
	apiKey string
	url    string
	client *http.Client
	logger *logrus.Logger
}

// NewPerfTestsClient - creates client for the perftests upload endpoint
func NewPerfTestsClient(cfg entities.RunConfig, logger *logrus.Logger) *PerfTestsClient {
	timeout := cfg.ReportTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &PerfTestsClient{
		apiKey: cfg.APIKey,
		url:    cfg.ReportURL,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Report - posts the run status once; the outcome is returned, never panicked or retried
func (c *PerfTestsClient) Report(ctx context.Context, payload entities.ResultPayload) entities.ReportResult {
	result := entities.ReportResult{Attempted: true}

	statusCode, body, err := c.post(ctx, payload)
	result.StatusCode = statusCode
	result.Body = body
	if err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrReport, err)
		c.logger.WithFields(logrus.Fields{
			"status":      payload.Status,
			"status_code": statusCode,
		}).Errorf("Failed to report run status: %v", err)
		return result
	}

	c.logger.WithFields(logrus.Fields{
		"status":      payload.Status,
		"status_code": statusCode,
	}).Info("Run status reported")
	return result
}

func (c *PerfTestsClient) post(ctx context.Context, payload entities.ResultPayload) (int, string, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return 0, "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBuffer(jsonData))
	if err != nil {
		return 0, "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return resp.StatusCode, "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, string(body), fmt.Errorf("API error: %s - %s", resp.Status, string(body))
	}

	return resp.StatusCode, string(body), nil
}

// Ensure PerfTestsClient implements Reporter interface
var _ interfaces.Reporter = (*PerfTestsClient)(nil)
