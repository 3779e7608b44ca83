// FILE: trackwisp/src/internal/tracker/http.go
package tracker

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"trackwisp/src/internal/config"
	"trackwisp/src/internal/core"
	ltls "trackwisp/src/internal/tls"
	"trackwisp/src/internal/version"

	"github.com/lixenwraith/log"
	"github.com/valyala/fasthttp"
)

const trackerPositionsPath = "/tracking/v0/trackers/%s/positions"

// HTTPClient talks to the tracking service REST API
type HTTPClient struct {
	config  *config.TrackerHTTPConfig
	client  *fasthttp.Client
	baseURL string
	timeout time.Duration
	logger  *log.Logger

	// Statistics
	totalCalls  atomic.Uint64
	failedCalls atomic.Uint64
}

type batchUpdateRequest struct {
	Updates []core.Update `json:"Updates"`
}

// NewHTTPClient creates the tracking service client
func NewHTTPClient(opts *config.TrackerHTTPConfig, logger *log.Logger) (*HTTPClient, error) {
	if opts == nil {
		return nil, fmt.Errorf("HTTP tracker options cannot be nil")
	}

	parsed, err := url.Parse(opts.Endpoint)
	if err != nil || parsed.Host == "" {
		return nil, fmt.Errorf("invalid tracker endpoint: %s", opts.Endpoint)
	}

	timeout := time.Duration(opts.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	h := &HTTPClient{
		config:  opts,
		baseURL: strings.TrimRight(opts.Endpoint, "/"),
		timeout: timeout,
		logger:  logger,
	}

	// Header names stay normalized so error type lookups ignore case
	h.client = &fasthttp.Client{
		MaxConnsPerHost:     10,
		MaxIdleConnDuration: 10 * time.Second,
		ReadTimeout:         timeout,
		WriteTimeout:        timeout,
	}

	if parsed.Scheme == "https" {
		tlsConfig, err := ltls.NewClientConfig(opts.TLS, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to configure tracker TLS: %w", err)
		}
		h.client.TLSConfig = tlsConfig
	}

	return h, nil
}

// Backend returns "http"
func (h *HTTPClient) Backend() string {
	return config.BackendHTTP
}

// Close releases idle connections
func (h *HTTPClient) Close() error {
	h.client.CloseIdleConnections()
	return nil
}

// BatchUpdateDevicePosition posts one batch. Transport failures are returned
// as plain errors, non-2xx responses as *ServiceError.
func (h *HTTPClient) BatchUpdateDevicePosition(ctx context.Context, trackerName string, updates []core.Update) (*BatchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(batchUpdateRequest{Updates: updates})
	if err != nil {
		return nil, fmt.Errorf("failed to encode batch: %w", err)
	}

	timeout := h.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}

	h.totalCalls.Add(1)

	// Acquire resources, release immediately after use
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()

	req.SetRequestURI(h.baseURL + fmt.Sprintf(trackerPositionsPath, url.PathEscape(trackerName)))
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	if h.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.config.APIKey)
	}
	req.SetBody(body)

	err = h.client.DoTimeout(req, resp, timeout)

	// Capture response before releasing
	statusCode := resp.StatusCode()
	errorType := string(resp.Header.Peek("X-Amzn-ErrorType"))
	var responseBody []byte
	if len(resp.Body()) > 0 {
		responseBody = make([]byte, len(resp.Body()))
		copy(responseBody, resp.Body())
	}

	fasthttp.ReleaseRequest(req)
	fasthttp.ReleaseResponse(resp)

	if err != nil {
		h.failedCalls.Add(1)
		return nil, fmt.Errorf("request failed: %w", err)
	}

	if statusCode < 200 || statusCode >= 300 {
		h.failedCalls.Add(1)
		return nil, parseServiceError(statusCode, errorType, responseBody)
	}

	result := &BatchResult{}
	if len(responseBody) > 0 {
		if err := json.Unmarshal(responseBody, result); err != nil {
			h.logger.Warn("msg", "Unreadable tracker response body",
				"component", "http_tracker",
				"status_code", statusCode,
				"error", err)
			return &BatchResult{}, nil
		}
	}

	h.logger.Debug("msg", "Batch accepted by tracker",
		"component", "http_tracker",
		"tracker", trackerName,
		"batch_size", len(updates),
		"status_code", statusCode,
		"update_errors", len(result.Errors))

	return result, nil
}

// GetStats returns call counters
func (h *HTTPClient) GetStats() map[string]any {
	return map[string]any{
		"backend":      config.BackendHTTP,
		"endpoint":     h.baseURL,
		"total_calls":  h.totalCalls.Load(),
		"failed_calls": h.failedCalls.Load(),
	}
}

// parseServiceError reads the error code from the error type header or the
// JSON body, whichever is present
func parseServiceError(statusCode int, errorType string, body []byte) *ServiceError {
	svcErr := &ServiceError{
		Backend:    config.BackendHTTP,
		StatusCode: statusCode,
	}

	if errorType != "" {
		// "ValidationException:http://internal.amazon.com/..."
		svcErr.Code, _, _ = strings.Cut(errorType, ":")
	}

	var payload struct {
		Type         string `json:"__type"`
		Code         string `json:"code"`
		Message      string `json:"message"`
		MessageUpper string `json:"Message"`
	}
	if len(body) > 0 && json.Unmarshal(body, &payload) == nil {
		if svcErr.Code == "" {
			svcErr.Code = payload.Code
		}
		if svcErr.Code == "" && payload.Type != "" {
			// "com.amazon.geo#ResourceNotFoundException"
			if _, after, found := strings.Cut(payload.Type, "#"); found {
				svcErr.Code = after
			} else {
				svcErr.Code = payload.Type
			}
		}
		svcErr.Message = payload.Message
		if svcErr.Message == "" {
			svcErr.Message = payload.MessageUpper
		}
	}

	if svcErr.Code == "" {
		svcErr.Code = fasthttp.StatusMessage(statusCode)
	}
	if svcErr.Message == "" {
		svcErr.Message = strings.TrimSpace(string(body))
	}

	return svcErr
}
