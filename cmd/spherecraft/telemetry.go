package main

import (
	"errors"
	"log"
	"net/http"

	"spherecraft/internal/telemetry"

	"github.com/xlab/closer"
)

// startTelemetry serves the stats hub on addr. It returns nil when addr is empty.
func startTelemetry(addr string, logger *log.Logger) *telemetry.Hub {
	if addr == "" {
		return nil
	}
	hub := telemetry.NewHub(logger)
	srv := &http.Server{Addr: addr, Handler: hub.Handler()}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Printf("telemetry server: %v", err)
		}
	}()
	closer.Bind(func() {
		hub.Close()
		srv.Close()
	})
	logger.Printf("telemetry on http://%s/stats and ws://%s/ws", addr, addr)
	return hub
}
