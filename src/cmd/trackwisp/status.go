// FILE: trackwisp/src/cmd/trackwisp/status.go
package main

import (
	"context"
	"time"
)

// statusReporter periodically logs invocation counters until ctx is done
func statusReporter(ctx context.Context, svc *Service, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						svc.logger.Error("msg", "Panic in status reporter",
							"component", "status_reporter",
							"panic", r)
					}
				}()
				logPipelineStatus(svc)
			}()
		}
	}
}

func logPipelineStatus(svc *Service) {
	stats := svc.driver.GetStats()

	statusFields := []any{
		"msg", "Status report",
		"component", "status_reporter",
		"tracker", stats["tracker"],
		"invocations", stats["invocations"],
		"failed_invocations", stats["failed_invocations"],
		"records", stats["total_records"],
		"updates", stats["total_updates"],
		"discarded", stats["total_discarded"],
		"batches", stats["total_batches"],
	}

	if svc.httpServer != nil {
		httpStats := svc.httpServer.GetStats()
		statusFields = append(statusFields,
			"http_requests", httpStats["total_requests"],
			"http_auth_failures", httpStats["auth_failures"])
	}
	if svc.tcpServer != nil {
		tcpStats := svc.tcpServer.GetStats()
		statusFields = append(statusFields, "tcp_connections", tcpStats["active_connections"])
	}

	svc.logger.Info(statusFields...)
}
