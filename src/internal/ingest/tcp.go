// FILE: trackwisp/src/internal/ingest/tcp.go
package ingest

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"trackwisp/src/internal/auth"
	"trackwisp/src/internal/config"
	"trackwisp/src/internal/source"

	"github.com/lixenwraith/log"
	"github.com/lixenwraith/log/compat"
	"github.com/panjf2000/gnet/v2"
)

const (
	// Queued lines per connection; overflowing it ends the session
	tcpQueueLength  = 16
	tcpAuthTimeout  = 30 * time.Second
	tcpStartupGrace = 100 * time.Millisecond
)

// TCPServer runs one invocation per newline-terminated event envelope.
// Replies are written in line order: "OK ..." or "ERR ...".
type TCPServer struct {
	config        *config.TCPIngestConfig
	invoker       Invoker
	authenticator *auth.Authenticator
	limiter       *Limiter
	connLimiter   *ConnLimiter
	server        *tcpIngestServer
	engine        *gnet.Engine
	engineMu      sync.Mutex
	logger        *log.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// Statistics
	activeConns   atomic.Int64
	invocations   atomic.Uint64
	failedLines   atomic.Uint64
	authFailures  atomic.Uint64
	authSuccesses atomic.Uint64
	startTime     time.Time
}

// NewTCPServer creates the TCP ingest server
func NewTCPServer(cfg *config.TCPIngestConfig, invoker Invoker, authenticator *auth.Authenticator, logger *log.Logger) (*TCPServer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("tcp ingest config cannot be nil")
	}
	if invoker == nil {
		return nil, fmt.Errorf("invoker cannot be nil")
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &TCPServer{
		config:        cfg,
		invoker:       invoker,
		authenticator: authenticator,
		limiter:       NewLimiter(cfg.RateLimit),
		connLimiter:   NewConnLimiter(cfg.MaxConnections, cfg.MaxConnectionsPerIP),
		logger:        logger,
		ctx:           ctx,
		cancel:        cancel,
		startTime:     time.Now(),
	}, nil
}

// Start runs the gnet engine and waits briefly for an early failure
func (t *TCPServer) Start() error {
	t.server = &tcpIngestServer{
		owner:   t,
		clients: make(map[gnet.Conn]*tcpClient),
	}

	addr := fmt.Sprintf("tcp://%s:%d", t.config.Host, t.config.Port)
	gnetLogger := compat.NewGnetAdapter(t.logger)

	errChan := make(chan error, 1)
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		t.logger.Info("msg", "TCP ingest server starting",
			"component", "tcp_ingest",
			"address", addr,
			"auth", t.authenticator.Type())

		err := gnet.Run(t.server, addr,
			gnet.WithLogger(gnetLogger),
			gnet.WithMulticore(true),
			gnet.WithReusePort(true),
		)
		if err != nil {
			t.logger.Error("msg", "TCP ingest server failed",
				"component", "tcp_ingest",
				"address", addr,
				"error", err)
		}
		errChan <- err
	}()

	select {
	case err := <-errChan:
		t.cancel()
		t.wg.Wait()
		if err == nil {
			err = fmt.Errorf("tcp ingest server exited during startup")
		}
		return err
	case <-time.After(tcpStartupGrace):
		return nil
	}
}

// Stop cancels running invocations and stops the engine
func (t *TCPServer) Stop() {
	t.logger.Info("msg", "Stopping TCP ingest server", "component", "tcp_ingest")
	t.cancel()
	t.limiter.Stop()

	t.engineMu.Lock()
	engine := t.engine
	t.engineMu.Unlock()

	if engine != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		(*engine).Stop(ctx)
	}

	t.wg.Wait()
	t.logger.Info("msg", "TCP ingest server stopped", "component", "tcp_ingest")
}

// GetStats returns server statistics
func (t *TCPServer) GetStats() map[string]any {
	return map[string]any{
		"port":               t.config.Port,
		"active_connections": t.activeConns.Load(),
		"invocations":        t.invocations.Load(),
		"failed_lines":       t.failedLines.Load(),
		"auth_failures":      t.authFailures.Load(),
		"auth_successes":     t.authSuccesses.Load(),
		"rate_limit":         t.limiter.GetStats(),
		"connection_limit":   t.connLimiter.GetStats(),
		"uptime_seconds":     int(time.Since(t.startTime).Seconds()),
	}
}

// invoke runs one line and returns the reply, without trailing newline
func (t *TCPServer) invoke(line []byte, remoteAddr string) string {
	records, err := source.DecodeEvent(line)
	if err != nil {
		t.failedLines.Add(1)
		return "ERR bad_event " + oneLine(err.Error())
	}

	t.invocations.Add(1)
	summary, err := t.invoker.Run(t.ctx, records)
	if err != nil {
		t.failedLines.Add(1)
		kind := failureKind(err)
		t.logger.Error("msg", "Invocation failed",
			"component", "tcp_ingest",
			"remote_addr", remoteAddr,
			"kind", kind,
			"batches_sent", summary.Batches)
		return fmt.Sprintf("ERR %s %s", kind, oneLine(err.Error()))
	}

	return fmt.Sprintf("OK records=%d updates=%d discarded=%d batches=%d",
		summary.Records, summary.Updates, summary.Discarded, summary.Batches)
}

// A queued line, or the error reply owed for a line that was refused
type tcpLine struct {
	event  []byte
	reject string
}

// A connected client. Every line, refused ones included, goes through a
// per-connection worker so the event loop never blocks on a tracker call
// and replies keep line order.
type tcpClient struct {
	conn          gnet.Conn
	remoteAddr    string
	buffer        bytes.Buffer
	authenticated bool
	authDeadline  time.Time
	lines         chan tcpLine
	overflowed    atomic.Bool
	closeOnce     sync.Once
}

// enqueue hands a line to the worker. A full queue ends the session: the
// worker drains what is queued, then replies busy and closes.
func (c *tcpClient) enqueue(line tcpLine) bool {
	select {
	case c.lines <- line:
		return true
	default:
		c.overflowed.Store(true)
		c.stop()
		return false
	}
}

func (c *tcpClient) stop() {
	c.closeOnce.Do(func() { close(c.lines) })
}

// Handles gnet events
type tcpIngestServer struct {
	gnet.BuiltinEventEngine
	owner   *TCPServer
	clients map[gnet.Conn]*tcpClient
	mu      sync.RWMutex
}

func (s *tcpIngestServer) OnBoot(eng gnet.Engine) gnet.Action {
	s.owner.engineMu.Lock()
	s.owner.engine = &eng
	s.owner.engineMu.Unlock()

	s.owner.logger.Debug("msg", "TCP ingest server booted",
		"component", "tcp_ingest",
		"port", s.owner.config.Port)
	return gnet.None
}

func (s *tcpIngestServer) OnOpen(c gnet.Conn) (out []byte, action gnet.Action) {
	remoteAddr := c.RemoteAddr().String()
	if !s.owner.connLimiter.Acquire(remoteAddr) {
		s.owner.logger.Warn("msg", "TCP connection limit reached",
			"component", "tcp_ingest",
			"remote_addr", remoteAddr)
		return []byte("ERR busy too many connections\n"), gnet.Close
	}

	client := &tcpClient{
		conn:          c,
		remoteAddr:    remoteAddr,
		authenticated: s.owner.authenticator == nil,
		lines:         make(chan tcpLine, tcpQueueLength),
	}
	if !client.authenticated {
		client.authDeadline = time.Now().Add(tcpAuthTimeout)
	}

	s.mu.Lock()
	s.clients[c] = client
	s.mu.Unlock()

	s.owner.wg.Add(1)
	go s.worker(client)

	active := s.owner.activeConns.Add(1)
	s.owner.logger.Debug("msg", "TCP connection opened",
		"component", "tcp_ingest",
		"remote_addr", client.remoteAddr,
		"active_connections", active)

	if !client.authenticated {
		return []byte("AUTH_REQUIRED\n"), gnet.None
	}
	return nil, gnet.None
}

func (s *tcpIngestServer) OnClose(c gnet.Conn, err error) gnet.Action {
	s.mu.Lock()
	client, ok := s.clients[c]
	delete(s.clients, c)
	s.mu.Unlock()

	if !ok {
		return gnet.None
	}
	client.stop()
	s.owner.connLimiter.Release(client.remoteAddr)

	active := s.owner.activeConns.Add(-1)
	s.owner.logger.Debug("msg", "TCP connection closed",
		"component", "tcp_ingest",
		"active_connections", active,
		"error", err)
	return gnet.None
}

func (s *tcpIngestServer) OnTraffic(c gnet.Conn) gnet.Action {
	s.mu.RLock()
	client, exists := s.clients[c]
	s.mu.RUnlock()
	if !exists {
		return gnet.Close
	}

	data, err := c.Next(-1)
	if err != nil {
		s.owner.logger.Error("msg", "Error reading from connection",
			"component", "tcp_ingest",
			"error", err)
		return gnet.Close
	}
	if client.overflowed.Load() {
		// Session is draining, later input gets no reply
		return gnet.None
	}

	maxLine := int(s.owner.config.MaxLineBytes)
	if client.buffer.Len()+len(data) > maxLine && bytes.IndexByte(data, '\n') < 0 {
		s.owner.logger.Warn("msg", "Line too long without newline, closing connection",
			"component", "tcp_ingest",
			"remote_addr", client.remoteAddr,
			"limit", maxLine)
		s.owner.failedLines.Add(1)
		return gnet.Close
	}
	client.buffer.Write(data)

	for {
		line, err := client.buffer.ReadBytes('\n')
		if err != nil {
			// Keep the partial line for the next read
			client.buffer.Reset()
			client.buffer.Write(line)
			break
		}

		line = bytes.TrimRight(line, "\r\n")
		if len(line) == 0 {
			continue
		}

		if !client.authenticated {
			if action := s.authenticate(client, line); action != gnet.None || !client.authenticated {
				return action
			}
			continue
		}

		next := tcpLine{event: line}
		if !s.owner.limiter.Allow(client.remoteAddr) {
			s.owner.failedLines.Add(1)
			next = tcpLine{reject: "ERR rate_limited too many events"}
		}

		if !client.enqueue(next) {
			s.owner.failedLines.Add(1)
			s.owner.logger.Warn("msg", "TCP client queue full, closing after pending replies",
				"component", "tcp_ingest",
				"remote_addr", client.remoteAddr)
			break
		}
	}

	return gnet.None
}

// authenticate handles the "AUTH <token>" line
func (s *tcpIngestServer) authenticate(client *tcpClient, line []byte) gnet.Action {
	if time.Now().After(client.authDeadline) {
		s.owner.logger.Warn("msg", "Authentication timeout",
			"component", "tcp_ingest",
			"remote_addr", client.remoteAddr)
		return gnet.Close
	}

	token, ok := strings.CutPrefix(string(line), "AUTH ")
	if !ok {
		client.conn.AsyncWrite([]byte("AUTH_FAIL\n"), closeAfterWrite)
		return gnet.None
	}

	principal, err := s.owner.authenticator.AuthenticateToken(strings.TrimSpace(token), client.remoteAddr)
	if err != nil {
		s.owner.authFailures.Add(1)
		client.conn.AsyncWrite([]byte("AUTH_FAIL\n"), closeAfterWrite)
		return gnet.None
	}

	s.owner.authSuccesses.Add(1)
	client.authenticated = true
	s.owner.logger.Info("msg", "TCP client authenticated",
		"component", "tcp_ingest",
		"remote_addr", client.remoteAddr,
		"method", principal.Method,
		"username", principal.Username)

	client.conn.AsyncWrite([]byte("AUTH_OK\n"), nil)
	return gnet.None
}

// worker runs the client's invocations in arrival order
func (s *tcpIngestServer) worker(client *tcpClient) {
	defer s.owner.wg.Done()

	for {
		select {
		case <-s.owner.ctx.Done():
			return
		case line, ok := <-client.lines:
			if !ok {
				if client.overflowed.Load() {
					client.conn.AsyncWrite([]byte("ERR busy too many pending events\n"), closeAfterWrite)
				}
				return
			}
			reply := line.reject
			if reply == "" {
				reply = s.owner.invoke(line.event, client.remoteAddr)
			}
			if err := client.conn.AsyncWrite([]byte(reply+"\n"), nil); err != nil {
				s.owner.logger.Debug("msg", "Failed to write reply",
					"component", "tcp_ingest",
					"remote_addr", client.remoteAddr,
					"error", err)
				return
			}
		}
	}
}

func closeAfterWrite(c gnet.Conn, _ error) error {
	return c.Close()
}

func oneLine(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
