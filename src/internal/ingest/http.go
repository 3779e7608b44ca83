// FILE: trackwisp/src/internal/ingest/http.go
package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"trackwisp/src/internal/auth"
	"trackwisp/src/internal/config"
	"trackwisp/src/internal/source"
	ltls "trackwisp/src/internal/tls"
	"trackwisp/src/internal/version"

	"github.com/lixenwraith/log"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// HTTPServer runs one invocation per POSTed event envelope
type HTTPServer struct {
	config        *config.HTTPIngestConfig
	invoker       Invoker
	authenticator *auth.Authenticator
	limiter       *Limiter
	metrics       fasthttp.RequestHandler
	status        StatusFunc
	server        *fasthttp.Server
	tlsManager    *ltls.ServerManager
	logger        *log.Logger

	// Invocations run under this context, cancelled on Stop
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Statistics
	totalRequests  atomic.Uint64
	invocations    atomic.Uint64
	failedRequests atomic.Uint64
	authFailures   atomic.Uint64
	startTime      time.Time
}

// NewHTTPServer creates the HTTP ingest server. metrics may be nil to
// disable the metrics endpoint, status may be nil for a minimal status body.
func NewHTTPServer(cfg *config.HTTPIngestConfig, invoker Invoker, authenticator *auth.Authenticator,
	metrics http.Handler, status StatusFunc, logger *log.Logger) (*HTTPServer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("http ingest config cannot be nil")
	}
	if invoker == nil {
		return nil, fmt.Errorf("invoker cannot be nil")
	}

	tlsManager, err := ltls.NewServerManager(cfg.TLS, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create TLS manager: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	h := &HTTPServer{
		config:        cfg,
		invoker:       invoker,
		authenticator: authenticator,
		limiter:       NewLimiter(cfg.RateLimit),
		status:        status,
		tlsManager:    tlsManager,
		logger:        logger,
		ctx:           ctx,
		cancel:        cancel,
		startTime:     time.Now(),
	}
	if metrics != nil {
		h.metrics = fasthttpadaptor.NewFastHTTPHandler(metrics)
	}

	h.server = &fasthttp.Server{
		Name:               "trackwisp/" + version.Short(),
		Handler:            h.requestHandler,
		MaxRequestBodySize: int(cfg.MaxBodyBytes),
		ReadTimeout:        30 * time.Second,
		WriteTimeout:       60 * time.Second,
		CloseOnShutdown:    true,
	}

	return h, nil
}

// Start listens on the configured address
func (h *HTTPServer) Start() error {
	addr := fmt.Sprintf("%s:%d", h.config.Host, h.config.Port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	h.logger.Info("msg", "HTTP ingest server starting",
		"component", "http_ingest",
		"address", addr,
		"invoke_path", h.config.InvokePath,
		"tls", h.tlsManager != nil,
		"auth", h.authenticator.Type())

	h.Serve(ln)
	return nil
}

// Serve accepts connections from ln in the background, terminating TLS
// when configured
func (h *HTTPServer) Serve(ln net.Listener) {
	ln = h.tlsManager.Listener(ln)
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		if err := h.server.Serve(ln); err != nil {
			h.logger.Error("msg", "HTTP ingest server failed",
				"component", "http_ingest",
				"error", err)
		}
	}()
}

// Stop cancels running invocations and shuts the server down
func (h *HTTPServer) Stop() {
	h.logger.Info("msg", "Stopping HTTP ingest server", "component", "http_ingest")

	h.cancel()
	if err := h.server.Shutdown(); err != nil {
		h.logger.Error("msg", "Error shutting down HTTP ingest server",
			"component", "http_ingest",
			"error", err)
	}
	h.limiter.Stop()
	h.wg.Wait()

	h.logger.Info("msg", "HTTP ingest server stopped", "component", "http_ingest")
}

// GetStats returns server statistics
func (h *HTTPServer) GetStats() map[string]any {
	return map[string]any{
		"port":            h.config.Port,
		"total_requests":  h.totalRequests.Load(),
		"invocations":     h.invocations.Load(),
		"failed_requests": h.failedRequests.Load(),
		"auth_failures":   h.authFailures.Load(),
		"rate_limit":      h.limiter.GetStats(),
		"tls":             h.tlsManager.GetStats(),
		"uptime_seconds":  int(time.Since(h.startTime).Seconds()),
	}
}

func (h *HTTPServer) requestHandler(ctx *fasthttp.RequestCtx) {
	h.totalRequests.Add(1)

	remoteAddr := ctx.RemoteAddr().String()
	if !h.limiter.Allow(remoteAddr) {
		ctx.Response.Header.Set("Retry-After", "1")
		h.writeError(ctx, fasthttp.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	path := string(ctx.Path())
	switch {
	case path == h.config.InvokePath:
		if !ctx.IsPost() {
			ctx.Response.Header.Set("Allow", fasthttp.MethodPost)
			h.writeError(ctx, fasthttp.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.handleInvoke(ctx, remoteAddr)

	case h.config.StatusPath != "" && path == h.config.StatusPath:
		if !ctx.IsGet() {
			h.writeError(ctx, fasthttp.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h.handleStatus(ctx)

	case h.metrics != nil && h.config.MetricsPath != "" && path == h.config.MetricsPath:
		h.metrics(ctx)

	default:
		ctx.SetStatusCode(fasthttp.StatusNotFound)
		writeJSON(ctx, map[string]string{
			"error": "Not Found",
			"hint":  fmt.Sprintf("POST events to %s", h.config.InvokePath),
		})
	}
}

func (h *HTTPServer) handleInvoke(ctx *fasthttp.RequestCtx, remoteAddr string) {
	if _, err := h.authenticator.AuthenticateHeader(string(ctx.Request.Header.Peek("Authorization")), remoteAddr); err != nil {
		h.authFailures.Add(1)
		if errors.Is(err, auth.ErrRateLimited) {
			h.writeError(ctx, fasthttp.StatusTooManyRequests, "too many authentication attempts")
			return
		}
		if challenge := h.authenticator.Challenge(); challenge != "" {
			ctx.Response.Header.Set("WWW-Authenticate", challenge)
		}
		h.writeError(ctx, fasthttp.StatusUnauthorized, "unauthorized")
		return
	}

	body := ctx.PostBody()
	if int64(len(body)) > h.config.MaxBodyBytes && h.config.MaxBodyBytes > 0 {
		h.writeError(ctx, fasthttp.StatusRequestEntityTooLarge, "event too large")
		return
	}

	records, err := source.DecodeEvent(body)
	if err != nil {
		h.failedRequests.Add(1)
		h.writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}

	h.invocations.Add(1)
	summary, err := h.invoker.Run(h.ctx, records)
	if err != nil {
		h.failedRequests.Add(1)
		kind := failureKind(err)
		h.logger.Error("msg", "Invocation failed",
			"component", "http_ingest",
			"remote_addr", remoteAddr,
			"kind", kind,
			"records", summary.Records,
			"batches_sent", summary.Batches)

		ctx.SetStatusCode(fasthttp.StatusBadGateway)
		writeJSON(ctx, map[string]any{
			"error":   err.Error(),
			"kind":    kind,
			"summary": summary,
		})
		return
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	writeJSON(ctx, summary)
}

func (h *HTTPServer) handleStatus(ctx *fasthttp.RequestCtx) {
	body := map[string]any{
		"service": "trackwisp",
		"version": version.Short(),
		"server":  h.GetStats(),
	}
	if h.status != nil {
		for k, v := range h.status() {
			body[k] = v
		}
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	writeJSON(ctx, body)
}

func (h *HTTPServer) writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	ctx.SetStatusCode(status)
	writeJSON(ctx, map[string]string{"error": message})
}

func writeJSON(ctx *fasthttp.RequestCtx, v any) {
	ctx.SetContentType("application/json")
	encoder := json.NewEncoder(ctx)
	encoder.SetEscapeHTML(false)
	encoder.Encode(v)
}
