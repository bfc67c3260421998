package auditlog

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/mamadbah2/pitak/internal/config"
	"github.com/mamadbah2/pitak/internal/domain/models"
)

// Client posts measurement records to a remote audit-log service.
type Client struct {
	httpClient *resty.Client
}

// NewClient builds an audit-log client using the provided configuration values.
func NewClient(cfg config.AuditConfig) *Client {
	restyClient := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.WebhookURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	if cfg.WebhookToken != "" {
		restyClient.SetAuthToken(cfg.WebhookToken)
	}

	return &Client{httpClient: restyClient}
}

// apiError represents the error payload returned by the audit service.
type apiError struct {
	Error string `json:"error"`
}

// Name identifies the client as an audit sink.
func (c *Client) Name() string {
	return "webhook"
}

// SaveMeasurementRecord posts the record. Any non-2xx response is an error.
func (c *Client) SaveMeasurementRecord(ctx context.Context, record models.MeasurementRecord) error {
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(record).
		SetError(apiErr).
		Post("/measurement-records")
	if err != nil {
		return fmt.Errorf("post measurement record: %w", err)
	}

	if resp.StatusCode() >= http.StatusMultipleChoices {
		return fmt.Errorf("audit api error: code=%d, message=%s", resp.StatusCode(), apiErr.Error)
	}

	return nil
}
